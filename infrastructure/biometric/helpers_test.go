package biometric

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"
)

// fakeCascade returns fixed detections and counts how often it ran.
type fakeCascade struct {
	rects []image.Rectangle
	calls int
}

func (f *fakeCascade) DetectMultiScaleWithParams(img gocv.Mat, scale float64, minNeighbors, flags int, minSize, maxSize image.Point) []image.Rectangle {
	f.calls++
	return f.rects
}

func solidMat(width, height int, value float64) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(value, value, value, 0), height, width, gocv.MatTypeCV8UC3)
}

func checkerboardMat(width, height, square int) gocv.Mat {
	mat := solidMat(width, height, 0)
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for y := 0; y < height; y += square {
		for x := 0; x < width; x += square {
			if (x/square+y/square)%2 == 0 {
				gocv.Rectangle(&mat, image.Rect(x, y, x+square, y+square), white, -1)
			}
		}
	}
	return mat
}

func encode(t *testing.T, mat gocv.Mat, ext gocv.FileExt) []byte {
	t.Helper()
	buf, err := gocv.IMEncode(ext, mat)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	defer buf.Close()
	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out
}

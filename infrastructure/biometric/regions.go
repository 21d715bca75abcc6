package biometric

import (
	"image"

	"biointake.io/infrastructure/biometric/types"
	"gocv.io/x/gocv"
)

const (
	cascadeScaleFactor  = 1.1
	cascadeMinNeighbors = 3
)

var minFaceSize = image.Pt(30, 30)

type RegionDetector struct {
	models *Models
}

func NewRegionDetector(models *Models) *RegionDetector {
	return &RegionDetector{models: models}
}

// Detect returns frontal faces first, then the profile detections that do
// not touch any frontal face.
func (d *RegionDetector) Detect(img gocv.Mat) []types.DetectedFace {
	gray := toGray(img)
	defer gray.Close()
	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(gray, &equalized)

	width, height := equalized.Cols(), equalized.Rows()
	faces := []types.DetectedFace{}

	for _, r := range d.models.Frontal.DetectMultiScaleWithParams(equalized, cascadeScaleFactor, cascadeMinNeighbors, 0, minFaceSize, image.Point{}) {
		rect := types.RectangleFrom(r).ClampTo(width, height)
		if rect.Area() == 0 {
			continue
		}
		faces = append(faces, types.DetectedFace{
			Rectangle: rect,
			HasEyes:   countEyes(d.models.Eye, equalized, rect) >= 2,
			IsFrontal: true,
		})
	}
	frontalCount := len(faces)

	if d.models.Profile != nil {
		for _, r := range d.models.Profile.DetectMultiScaleWithParams(equalized, cascadeScaleFactor, cascadeMinNeighbors, 0, minFaceSize, image.Point{}) {
			rect := types.RectangleFrom(r).ClampTo(width, height)
			if rect.Area() == 0 || overlapsAny(rect, faces[:frontalCount]) {
				continue
			}
			faces = append(faces, types.DetectedFace{Rectangle: rect})
		}
	}
	return faces
}

func overlapsAny(rect types.Rectangle, faces []types.DetectedFace) bool {
	for _, f := range faces {
		if rect.Overlaps(f.Rectangle) {
			return true
		}
	}
	return false
}

// detectEyes runs the eye cascade over the face crop of a grayscale image.
// Returned rectangles are relative to the crop.
func detectEyes(eye Cascade, gray gocv.Mat, face types.Rectangle) []image.Rectangle {
	if eye == nil {
		return nil
	}
	roi := gray.Region(face.Image())
	defer roi.Close()
	return eye.DetectMultiScaleWithParams(roi, cascadeScaleFactor, cascadeMinNeighbors, 0, image.Point{}, image.Point{})
}

func countEyes(eye Cascade, gray gocv.Mat, face types.Rectangle) int {
	return len(detectEyes(eye, gray, face))
}

package biometric

import (
	"bytes"

	"biointake.io/infrastructure/biometric/types"
	"gocv.io/x/gocv"
)

type ColorMode int

const (
	DecodeColor ColorMode = iota
	DecodeGrayscale
)

var (
	jpegMagicJFIF = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	jpegMagicEXIF = []byte{0xFF, 0xD8, 0xFF, 0xE1}
	pngMagic      = []byte{0x89, 0x50, 0x4E, 0x47}
)

// DecodedImage owns its Mat; callers must Close it.
type DecodedImage struct {
	Mat    gocv.Mat
	Width  int
	Height int
	Format types.ImageFormat
}

func (d *DecodedImage) Close() {
	d.Mat.Close()
}

// DetectFormat checks the 4-byte signature. Only JPEG (JFIF or EXIF) and PNG
// are accepted.
func DetectFormat(buf []byte) (types.ImageFormat, error) {
	if len(buf) < 4 {
		return "", types.NewDecodeError("image shorter than its signature", nil)
	}
	head := buf[:4]
	switch {
	case bytes.Equal(head, jpegMagicJFIF), bytes.Equal(head, jpegMagicEXIF):
		return types.FormatJPEG, nil
	case bytes.Equal(head, pngMagic):
		return types.FormatPNG, nil
	}
	return "", types.NewDecodeError("unsupported image signature", nil)
}

func Decode(buf []byte, mode ColorMode) (*DecodedImage, error) {
	format, err := DetectFormat(buf)
	if err != nil {
		return nil, err
	}
	flag := gocv.IMReadColor
	if mode == DecodeGrayscale {
		flag = gocv.IMReadGrayScale
	}
	mat, err := gocv.IMDecode(buf, flag)
	if err != nil {
		return nil, types.NewDecodeError("could not decode image", err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, types.NewDecodeError("decoded image is empty", nil)
	}
	return &DecodedImage{
		Mat:    mat,
		Width:  mat.Cols(),
		Height: mat.Rows(),
		Format: format,
	}, nil
}

// toGray returns a new single-channel copy of img.
func toGray(img gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	switch img.Channels() {
	case 1:
		img.CopyTo(&gray)
	case 4:
		gocv.CvtColor(img, &gray, gocv.ColorBGRAToGray)
	default:
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	}
	return gray
}

package biometric

import (
	"testing"

	"biointake.io/infrastructure/biometric/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected types.ImageFormat
		wantErr  bool
	}{
		{"jpeg jfif", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, types.FormatJPEG, false},
		{"jpeg exif", []byte{0xFF, 0xD8, 0xFF, 0xE1}, types.FormatJPEG, false},
		{"png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A}, types.FormatPNG, false},
		{"jpeg quantization marker", []byte{0xFF, 0xD8, 0xFF, 0xDB}, "", true},
		{"gif", []byte("GIF89a"), "", true},
		{"webp", []byte("RIFF0000WEBP"), "", true},
		{"too short", []byte{0xFF, 0xD8}, "", true},
		{"empty", nil, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, err := DetectFormat(tt.input)
			if tt.wantErr {
				assert.True(t, types.IsKind(err, types.DecodeError), "expected decode error, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestDecodeRejectsCorruptBody(t *testing.T) {
	buf := append([]byte{0x89, 0x50, 0x4E, 0x47}, []byte("definitely not png data")...)
	_, err := Decode(buf, DecodeColor)
	assert.True(t, types.IsKind(err, types.DecodeError))
}

func TestDecodeReportsSizeAndFormat(t *testing.T) {
	mat := solidMat(120, 80, 90)
	defer mat.Close()
	buf := encode(t, mat, gocv.PNGFileExt)

	color, err := Decode(buf, DecodeColor)
	require.NoError(t, err)
	defer color.Close()
	assert.Equal(t, 120, color.Width)
	assert.Equal(t, 80, color.Height)
	assert.Equal(t, types.FormatPNG, color.Format)
	assert.Equal(t, 3, color.Mat.Channels())

	gray, err := Decode(buf, DecodeGrayscale)
	require.NoError(t, err)
	defer gray.Close()
	assert.Equal(t, 1, gray.Mat.Channels())
}

func TestDecodeJPEG(t *testing.T) {
	mat := solidMat(64, 64, 200)
	defer mat.Close()

	decoded, err := Decode(encode(t, mat, gocv.JPEGFileExt), DecodeColor)
	require.NoError(t, err)
	defer decoded.Close()
	assert.Equal(t, types.FormatJPEG, decoded.Format)
}

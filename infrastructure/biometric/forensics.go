package biometric

import (
	"bytes"
	"strings"
	"time"

	"biointake.io/infrastructure/biometric/types"
	"github.com/rwcarlsen/goexif/exif"
	"gocv.io/x/gocv"
)

const (
	forensicMinDimension = 200
	sharpnessMinVariance = 100.0
	hueBins              = 30
	hueRange             = 180.0
	huePeakFloor         = 0.2
	hueMaxPeaks          = 15

	exifTimeLayout = "2006:01:02 15:04:05"
)

// ForensicAnalyzer runs the whole-image gates. Every gate must pass; within
// the metadata gate a recent capture or a camera signature is enough.
type ForensicAnalyzer struct {
	MaxCaptureAge time.Duration
	Now           func() time.Time
}

func NewForensicAnalyzer(maxCaptureAge time.Duration) *ForensicAnalyzer {
	return &ForensicAnalyzer{MaxCaptureAge: maxCaptureAge, Now: time.Now}
}

// Analyze measures every signal, then reports the first failing gate in
// resolution, sharpness, metadata, colour order.
func (a *ForensicAnalyzer) Analyze(raw []byte, format types.ImageFormat, img gocv.Mat) types.ForensicVerdict {
	gray := toGray(img)
	defer gray.Close()

	verdict := types.ForensicVerdict{
		SharpnessVariance: laplacianVariance(gray),
		ColorPeakCount:    huePeakCount(img),
	}
	if format == types.FormatJPEG {
		verdict.MetadataChecked = true
		a.readMetadata(raw, &verdict)
	}

	switch {
	case img.Cols() < forensicMinDimension || img.Rows() < forensicMinDimension:
		verdict.FailedGate = types.GateResolution
	case verdict.SharpnessVariance < sharpnessMinVariance:
		verdict.FailedGate = types.GateSharpness
	case verdict.MetadataChecked && !verdict.RecentCapture && !verdict.CameraSignaturePresent:
		verdict.FailedGate = types.GateMetadata
	case verdict.ColorPeakCount > hueMaxPeaks:
		verdict.FailedGate = types.GateColorPeaks
	default:
		verdict.Passed = true
	}
	return verdict
}

// readMetadata fills the EXIF fields. Missing or unreadable EXIF leaves both
// flags false.
func (a *ForensicAnalyzer) readMetadata(raw []byte, verdict *types.ForensicVerdict) {
	x, err := exif.Decode(bytes.NewReader(raw))
	if err != nil {
		return
	}
	if captured, ok := captureTime(x); ok {
		verdict.CaptureTime = &captured
		now := time.Now
		if a.Now != nil {
			now = a.Now
		}
		verdict.RecentCapture = now().Sub(captured) <= a.MaxCaptureAge
	}
	verdict.CameraSignaturePresent = tagPresent(x, exif.Make) && tagPresent(x, exif.Model)
}

func captureTime(x *exif.Exif) (time.Time, bool) {
	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		return time.Time{}, false
	}
	value, err := tag.StringVal()
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(exifTimeLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func tagPresent(x *exif.Exif, name exif.FieldName) bool {
	tag, err := x.Get(name)
	if err != nil {
		return false
	}
	value, err := tag.StringVal()
	return err == nil && strings.TrimSpace(value) != ""
}

// laplacianVariance is the variance of the Laplacian response, a blur proxy.
func laplacianVariance(gray gocv.Mat) float64 {
	lap := gocv.NewMat()
	defer lap.Close()
	gocv.Laplacian(gray, &lap, gocv.MatTypeCV64F, 1, 1, 0, gocv.BorderDefault)
	_, stddev := meanStdDev(lap)
	return stddev * stddev
}

// huePeakCount counts normalised hue bins above the peak floor.
func huePeakCount(img gocv.Mat) int {
	if img.Channels() < 3 {
		return 0
	}
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)
	channels := gocv.Split(hsv)
	defer func() {
		for _, c := range channels {
			c.Close()
		}
	}()

	hist := normalizedHistogram(channels[0], hueBins, hueRange)
	defer hist.Close()
	peaks := 0
	for i := 0; i < hist.Rows(); i++ {
		if hist.GetFloatAt(i, 0) > huePeakFloor {
			peaks++
		}
	}
	return peaks
}

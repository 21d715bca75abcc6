package types

import (
	"image"
	"math"
	"time"
)

type ImageFormat string

const (
	FormatJPEG    ImageFormat = "JPEG"
	FormatPNG     ImageFormat = "PNG"
	FormatGIF     ImageFormat = "GIF"
	FormatBMP     ImageFormat = "BMP"
	FormatWEBP    ImageFormat = "WEBP"
	FormatUnknown ImageFormat = "unknown"
)

// RawImage is the untouched request payload.
type RawImage struct {
	Bytes       []byte
	ContentType string
	Reference   string
}

type Rectangle struct {
	X      int `json:"x" bson:"x"`
	Y      int `json:"y" bson:"y"`
	Width  int `json:"width" bson:"width"`
	Height int `json:"height" bson:"height"`
}

func RectangleFrom(r image.Rectangle) Rectangle {
	return Rectangle{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

func (r Rectangle) Image() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

func (r Rectangle) Area() int {
	return r.Width * r.Height
}

// Overlaps reports axis-aligned intersection. Rectangles sharing only an
// edge count as overlapping.
func (r Rectangle) Overlaps(o Rectangle) bool {
	return !(r.X > o.X+o.Width || r.X+r.Width < o.X || r.Y > o.Y+o.Height || r.Y+r.Height < o.Y)
}

// ClampTo trims the rectangle so it lies inside a width x height image.
func (r Rectangle) ClampTo(width, height int) Rectangle {
	clipped := r.Image().Intersect(image.Rect(0, 0, width, height))
	return RectangleFrom(clipped)
}

// CenterDistance is the distance from the rectangle centre to the image
// centre divided by the image diagonal.
func (r Rectangle) CenterDistance(width, height int) float64 {
	diagonal := math.Hypot(float64(width), float64(height))
	if diagonal == 0 {
		return 1
	}
	cx := float64(r.X) + float64(r.Width)/2
	cy := float64(r.Y) + float64(r.Height)/2
	return math.Hypot(cx-float64(width)/2, cy-float64(height)/2) / diagonal
}

type DetectedFace struct {
	Rectangle
	HasEyes   bool `json:"hasEyes" bson:"hasEyes"`
	IsFrontal bool `json:"isFrontal" bson:"isFrontal"`
}

// LargestFace returns the index of the face with the biggest area, -1 when
// faces is empty. The first face wins ties.
func LargestFace(faces []DetectedFace) int {
	best := -1
	for i, f := range faces {
		if best == -1 || f.Area() > faces[best].Area() {
			best = i
		}
	}
	return best
}

type LivenessVerdict struct {
	PassedChecks int  `json:"passedChecks"`
	IsLive       bool `json:"isLive"`
	Texture      bool `json:"texture"`
	Brightness   bool `json:"brightness"`
	Eyes         bool `json:"eyes"`
	Proportions  bool `json:"proportions"`
}

func NewLivenessVerdict(texture, brightness, eyes, proportions bool) LivenessVerdict {
	passed := 0
	for _, ok := range []bool{texture, brightness, eyes, proportions} {
		if ok {
			passed++
		}
	}
	return LivenessVerdict{
		PassedChecks: passed,
		IsLive:       passed >= 3,
		Texture:      texture,
		Brightness:   brightness,
		Eyes:         eyes,
		Proportions:  proportions,
	}
}

type SelfieRejection string

const (
	SelfieNoFace       SelfieRejection = "no_face"
	SelfieNoDominant   SelfieRejection = "no_dominant_face"
	SelfieFaceTooSmall SelfieRejection = "face_too_small"
	SelfieOffCenter    SelfieRejection = "face_off_center"
	SelfieEyesMissing  SelfieRejection = "eyes_not_visible"
	SelfieNotLive      SelfieRejection = "not_live"
)

type SelfieDecision struct {
	Accepted       bool            `json:"accepted"`
	Rejection      SelfieRejection `json:"rejection,omitempty"`
	FaceRatio      float64         `json:"faceRatio"`
	CenterDistance float64         `json:"centerDistance"`
}

type VerificationStatus string

const (
	StatusApproved              VerificationStatus = "APPROVED"
	StatusRejectedNotSelfie     VerificationStatus = "REJECTED_NOT_SELFIE"
	StatusRejectedPossibleFraud VerificationStatus = "REJECTED_POSSIBLE_FRAUD"
)

type ForensicGate string

const (
	GateResolution ForensicGate = "resolution"
	GateSharpness  ForensicGate = "sharpness"
	GateMetadata   ForensicGate = "metadata"
	GateColorPeaks ForensicGate = "color_peaks"
)

type ForensicVerdict struct {
	Passed                 bool         `json:"passed"`
	FailedGate             ForensicGate `json:"failedGate,omitempty"`
	SharpnessVariance      float64      `json:"sharpnessVariance"`
	MetadataChecked        bool         `json:"metadataChecked"`
	RecentCapture          bool         `json:"recentCapture"`
	CameraSignaturePresent bool         `json:"cameraSignaturePresent"`
	CaptureTime            *time.Time   `json:"captureTime,omitempty"`
	ColorPeakCount         int          `json:"colorPeakCount"`
}

type FraudReason string

const (
	ReasonNoFace             FraudReason = "no_face"
	ReasonMultipleFaces      FraudReason = "multiple_faces"
	ReasonNotFrontal         FraudReason = "not_frontal"
	ReasonLowResolution      FraudReason = "low_resolution"
	ReasonCPFInvalid         FraudReason = "cpf_invalid"
	ReasonRGInvalid          FraudReason = "rg_invalid"
	ReasonDocumentsInvalid   FraudReason = "documentos_invalidos"
	ReasonInvalidFingerprint FraudReason = "invalid_fingerprint"
	ReasonFakeFingerprint    FraudReason = "digital_falsa"
)

// FraudVerdict is clean when Reason is empty.
type FraudVerdict struct {
	Reason FraudReason `json:"reason,omitempty"`
}

func (v FraudVerdict) IsFraud() bool {
	return v.Reason != ""
}

type FingerprintRejection string

const (
	FingerprintTooSmall      FingerprintRejection = "too_small"
	FingerprintTooLarge      FingerprintRejection = "too_large"
	FingerprintBlackRatio    FingerprintRejection = "black_ratio"
	FingerprintTooFewLines   FingerprintRejection = "too_few_lines"
	FingerprintLineDensity   FingerprintRejection = "line_density"
	FingerprintUniformAngles FingerprintRejection = "uniform_angles"
)

type FingerprintValidation struct {
	Valid         bool                 `json:"valid"`
	Rejection     FingerprintRejection `json:"rejection,omitempty"`
	Width         int                  `json:"width"`
	Height        int                  `json:"height"`
	BlackRatio    float64              `json:"blackRatio"`
	SegmentCount  int                  `json:"segmentCount"`
	LineDensity   float64              `json:"lineDensity"`
	AngleVariance float64              `json:"angleVariance"`
}

const FingerprintFeatureCount = 52

// FingerprintDigest holds the 5x5 grid (mean, stddev) pairs in row-major
// order followed by the global pair, and the SHA-256 hex of their
// serialization.
type FingerprintDigest struct {
	Features []float64 `json:"features" bson:"features"`
	Hash     string    `json:"hash" bson:"hash"`
}

// ImageAnalysis is everything the pipeline learned about one still image.
type ImageAnalysis struct {
	Width       int
	Height      int
	Format      ImageFormat
	Faces       []DetectedFace
	Liveness    LivenessVerdict
	Selfie      SelfieDecision
	Forensic    ForensicVerdict
	Fraud       FraudVerdict
	Description string
}

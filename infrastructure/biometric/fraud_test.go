package biometric

import (
	"testing"

	"biointake.io/infrastructure/biometric/types"
)

func TestDecideFraudRuleOrder(t *testing.T) {
	frontalEyes := face(100, 100, 120, 120, true)
	frontalNoEyes := face(100, 100, 120, 120, false)
	profile := types.DetectedFace{Rectangle: types.Rectangle{X: 10, Y: 10, Width: 60, Height: 60}}

	tests := []struct {
		name     string
		faces    []types.DetectedFace
		width    int
		height   int
		expected types.FraudReason
	}{
		{"no face at low resolution", nil, 50, 50, types.ReasonNoFace},
		{"no face", nil, 800, 600, types.ReasonNoFace},
		{"two equal faces", []types.DetectedFace{frontalEyes, face(300, 100, 120, 120, true)}, 800, 600, types.ReasonMultipleFaces},
		{"multiple faces at low resolution", []types.DetectedFace{frontalEyes, profile}, 100, 100, types.ReasonMultipleFaces},
		{"profile only", []types.DetectedFace{profile}, 800, 600, types.ReasonNotFrontal},
		{"frontal without eyes", []types.DetectedFace{frontalNoEyes}, 800, 600, types.ReasonNotFrontal},
		{"low width", []types.DetectedFace{frontalEyes}, 199, 600, types.ReasonLowResolution},
		{"low height", []types.DetectedFace{frontalEyes}, 600, 199, types.ReasonLowResolution},
		{"boundary is clean", []types.DetectedFace{frontalEyes}, 200, 200, ""},
		{"clean", []types.DetectedFace{frontalEyes}, 400, 400, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := DecideFraud(tt.faces, tt.width, tt.height)
			if verdict.Reason != tt.expected {
				t.Errorf("DecideFraud() reason = %q, expected %q", verdict.Reason, tt.expected)
			}
			if verdict.IsFraud() != (tt.expected != "") {
				t.Errorf("IsFraud() = %v with reason %q", verdict.IsFraud(), verdict.Reason)
			}
		})
	}
}

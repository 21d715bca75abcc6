package biometric

import "biointake.io/infrastructure/biometric/types"

const fraudMinDimension = 200

// DecideFraud applies the rules in order and stops at the first match.
func DecideFraud(faces []types.DetectedFace, width, height int) types.FraudVerdict {
	switch {
	case len(faces) == 0:
		return types.FraudVerdict{Reason: types.ReasonNoFace}
	case len(faces) > 1:
		return types.FraudVerdict{Reason: types.ReasonMultipleFaces}
	case !hasFrontalFaceWithEyes(faces):
		return types.FraudVerdict{Reason: types.ReasonNotFrontal}
	case width < fraudMinDimension || height < fraudMinDimension:
		return types.FraudVerdict{Reason: types.ReasonLowResolution}
	}
	return types.FraudVerdict{}
}

func hasFrontalFaceWithEyes(faces []types.DetectedFace) bool {
	for _, f := range faces {
		if f.IsFrontal && f.HasEyes {
			return true
		}
	}
	return false
}

package biometric

import "biointake.io/infrastructure/biometric/types"

const (
	dominantFaceShare = 0.70
	selfieMinRatio    = 0.10
	selfieMaxCenter   = 0.30
)

// ClassifySelfie decides whether an image is a selfie of one live subject.
// Rules run in order and the first failing one is reported.
func ClassifySelfie(width, height int, faces []types.DetectedFace, liveness types.LivenessVerdict) types.SelfieDecision {
	largest := types.LargestFace(faces)
	if largest < 0 {
		return types.SelfieDecision{Rejection: types.SelfieNoFace}
	}
	face := faces[largest]

	if len(faces) > 1 {
		total := 0
		for _, f := range faces {
			total += f.Area()
		}
		if float64(face.Area()) < dominantFaceShare*float64(total) {
			return types.SelfieDecision{Rejection: types.SelfieNoDominant}
		}
	}

	decision := types.SelfieDecision{
		CenterDistance: face.CenterDistance(width, height),
	}
	if imageArea := width * height; imageArea > 0 {
		decision.FaceRatio = float64(face.Area()) / float64(imageArea)
	}

	switch {
	case decision.FaceRatio < selfieMinRatio:
		decision.Rejection = types.SelfieFaceTooSmall
	case decision.CenterDistance > selfieMaxCenter:
		decision.Rejection = types.SelfieOffCenter
	case !face.HasEyes:
		decision.Rejection = types.SelfieEyesMissing
	case !liveness.IsLive:
		decision.Rejection = types.SelfieNotLive
	default:
		decision.Accepted = true
	}
	return decision
}

// ClassifyVerification maps the selfie decision and the forensic outcome to
// exactly one status.
func ClassifyVerification(selfie types.SelfieDecision, verified bool) types.VerificationStatus {
	switch {
	case !selfie.Accepted:
		return types.StatusRejectedNotSelfie
	case !verified:
		return types.StatusRejectedPossibleFraud
	default:
		return types.StatusApproved
	}
}

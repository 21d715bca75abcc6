package biometric_usecases

import (
	"context"
	"errors"

	"biointake.io/entities"
	"biointake.io/infrastructure/biometric/types"
)

type fakeSource struct {
	raw   types.RawImage
	err   error
	calls int
}

func (f *fakeSource) Resolve(ctx context.Context, imageURL, imageBase64 string) (types.RawImage, error) {
	f.calls++
	if f.err != nil {
		return types.RawImage{}, f.err
	}
	raw := f.raw
	if raw.Reference == "" {
		raw.Reference = imageURL
	}
	return raw, nil
}

type fakeAnalyzer struct {
	analysis    *types.ImageAnalysis
	validation  types.FingerprintValidation
	digest      types.FingerprintDigest
	err         error
	inspections int
}

func (f *fakeAnalyzer) AnalyzeImage(ctx context.Context, raw []byte) (*types.ImageAnalysis, error) {
	if f.err != nil {
		return nil, f.err
	}
	copied := *f.analysis
	return &copied, nil
}

func (f *fakeAnalyzer) InspectFingerprint(ctx context.Context, raw []byte) (types.FingerprintValidation, types.FingerprintDigest, error) {
	f.inspections++
	return f.validation, f.digest, f.err
}

type memoryStore struct {
	analyses     []entities.AnalysisRecord
	fingerprints []entities.FingerprintRecord
	saveErr      error
}

func (m *memoryStore) SaveAnalysisRecord(ctx context.Context, record entities.AnalysisRecord) (*entities.AnalysisRecord, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	parsed := record.ParseModel().(*entities.AnalysisRecord)
	m.analyses = append(m.analyses, *parsed)
	return parsed, nil
}

func (m *memoryStore) ListAnalysisRecords(ctx context.Context, userID string, limit int64) ([]entities.AnalysisRecord, error) {
	out := []entities.AnalysisRecord{}
	for i := len(m.analyses) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		if m.analyses[i].UserID == userID {
			out = append(out, m.analyses[i])
		}
	}
	return out, nil
}

func (m *memoryStore) FindAnalysisRecord(ctx context.Context, id string) (*entities.AnalysisRecord, error) {
	for i := range m.analyses {
		if m.analyses[i].ID == id {
			return &m.analyses[i], nil
		}
	}
	return nil, nil
}

func (m *memoryStore) SaveFingerprintDigest(ctx context.Context, record entities.FingerprintRecord) (*entities.FingerprintRecord, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	parsed := record.ParseModel().(*entities.FingerprintRecord)
	m.fingerprints = append(m.fingerprints, *parsed)
	return parsed, nil
}

func (m *memoryStore) LoadFingerprintDigest(ctx context.Context, userID string) (*entities.FingerprintRecord, error) {
	for i := len(m.fingerprints) - 1; i >= 0; i-- {
		if m.fingerprints[i].UserID == userID {
			return &m.fingerprints[i], nil
		}
	}
	return nil, nil
}

func (m *memoryStore) HasFingerprintReference(ctx context.Context, userID string, imageReference string) (bool, error) {
	for _, f := range m.fingerprints {
		if f.UserID == userID && f.ImageReference == imageReference {
			return true, nil
		}
	}
	return false, nil
}

type recordingNotifier struct {
	events []entities.FraudNotification
	fail   bool
}

func (r *recordingNotifier) Publish(ctx context.Context, event entities.FraudNotification) (string, error) {
	if r.fail {
		return "", errors.New("queue unavailable")
	}
	r.events = append(r.events, event)
	return "tx-" + event.FraudType, nil
}

func face(x, y, w, h int, eyes, frontal bool) types.DetectedFace {
	return types.DetectedFace{Rectangle: types.Rectangle{X: x, Y: y, Width: w, Height: h}, HasEyes: eyes, IsFrontal: frontal}
}

func cleanSelfie() *types.ImageAnalysis {
	return &types.ImageAnalysis{
		Width:       400,
		Height:      400,
		Format:      types.FormatJPEG,
		Faces:       []types.DetectedFace{face(125, 100, 150, 200, true, true)},
		Liveness:    types.NewLivenessVerdict(true, true, true, false),
		Selfie:      types.SelfieDecision{Accepted: true, FaceRatio: 0.19},
		Forensic:    types.ForensicVerdict{Passed: true},
		Description: "Image of 400x400 pixels. Detected 1 face in the image. ",
	}
}

func groupPhoto() *types.ImageAnalysis {
	return &types.ImageAnalysis{
		Width:  800,
		Height: 600,
		Format: types.FormatPNG,
		Faces:  []types.DetectedFace{face(10, 10, 100, 100, true, true), face(400, 10, 100, 100, true, true)},
		Selfie: types.SelfieDecision{Rejection: types.SelfieNoDominant},
		Fraud:  types.FraudVerdict{Reason: types.ReasonMultipleFaces},
	}
}

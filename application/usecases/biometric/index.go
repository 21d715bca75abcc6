package biometric_usecases

import (
	"context"
	"errors"

	"biointake.io/application/constants"
	"biointake.io/entities"
	"biointake.io/infrastructure/biometric/types"
)

const AnonymousUser = "anonymous"

var (
	ErrAnalysisNotFound         = errors.New("analysis not found")
	ErrForbidden                = errors.New("this analysis belongs to another user")
	ErrAuthenticationRequired   = errors.New("sign in to use this feature")
	ErrFingerprintNotRegistered = errors.New("no fingerprint registered for this user")
)

type Analyzer interface {
	AnalyzeImage(ctx context.Context, raw []byte) (*types.ImageAnalysis, error)
	InspectFingerprint(ctx context.Context, raw []byte) (types.FingerprintValidation, types.FingerprintDigest, error)
}

type ImageSource interface {
	Resolve(ctx context.Context, imageURL, imageBase64 string) (types.RawImage, error)
}

type Store interface {
	SaveAnalysisRecord(ctx context.Context, record entities.AnalysisRecord) (*entities.AnalysisRecord, error)
	ListAnalysisRecords(ctx context.Context, userID string, limit int64) ([]entities.AnalysisRecord, error)
	FindAnalysisRecord(ctx context.Context, id string) (*entities.AnalysisRecord, error)
	SaveFingerprintDigest(ctx context.Context, record entities.FingerprintRecord) (*entities.FingerprintRecord, error)
	LoadFingerprintDigest(ctx context.Context, userID string) (*entities.FingerprintRecord, error)
	HasFingerprintReference(ctx context.Context, userID string, imageReference string) (bool, error)
}

type Notifier interface {
	Publish(ctx context.Context, event entities.FraudNotification) (string, error)
}

// BiometricUseCase runs the analysis pipeline for the HTTP layer and records
// its outcomes.
type BiometricUseCase struct {
	analyzer     Analyzer
	source       ImageSource
	store        Store
	notifier     Notifier
	tolerance    float64
	historyLimit int64
}

func NewBiometricUseCase(analyzer Analyzer, source ImageSource, store Store, notifier Notifier, tolerance float64) *BiometricUseCase {
	return &BiometricUseCase{
		analyzer:     analyzer,
		source:       source,
		store:        store,
		notifier:     notifier,
		tolerance:    tolerance,
		historyLimit: constants.ANALYSIS_HISTORY_LIMIT,
	}
}

// Caller identifies who submitted a request and from where.
type Caller struct {
	UserID    string
	ClientIP  string
	UserAgent string
}

func (c Caller) user() string {
	if c.UserID == "" {
		return AnonymousUser
	}
	return c.UserID
}

func (c Caller) authenticated() bool {
	return c.UserID != "" && c.UserID != AnonymousUser
}

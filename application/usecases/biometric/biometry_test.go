package biometric_usecases

import (
	"context"
	"testing"

	"biointake.io/application/controller/dto"
	"biointake.io/entities"
	"biointake.io/infrastructure/biometric/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFacialBiometryValid(t *testing.T) {
	notifier := &recordingNotifier{}
	store := &memoryStore{}
	uc := newUseCase(&fakeAnalyzer{analysis: cleanSelfie()}, store, notifier)

	result, err := uc.FacialBiometry(context.Background(), Caller{UserID: "u"}, dto.BiometryRequest{ImageRequest: urlRequest})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.TransactionID)
	assert.Empty(t, result.NotificationID)
	assert.Empty(t, notifier.events)
	require.Len(t, store.analyses, 1)
	assert.Equal(t, entities.FacialAnalysis, store.analyses[0].Kind)
}

func TestFacialBiometryFraudPublishesNotification(t *testing.T) {
	notifier := &recordingNotifier{}
	store := &memoryStore{}
	uc := newUseCase(&fakeAnalyzer{analysis: groupPhoto()}, store, notifier)
	lat, long := 51.5, -0.12

	result, err := uc.FacialBiometry(context.Background(), Caller{UserID: "u", ClientIP: "10.0.0.9"}, dto.BiometryRequest{
		ImageRequest: urlRequest,
		Device:       &dto.DeviceDTO{Manufacturer: "Apple", Model: "iPhone 15", OperatingSystem: "iOS"},
		Location:     &dto.LocationDTO{Latitude: &lat, Longitude: &long},
	})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "multiple_faces", result.FraudReason)
	assert.Equal(t, "tx-multiple_faces", result.NotificationID)

	require.Len(t, notifier.events, 1)
	event := notifier.events[0]
	assert.Equal(t, entities.FacialBiometry, event.BiometryType)
	assert.Equal(t, "Apple", event.Device.Manufacturer)
	assert.Equal(t, 51.5, event.Metadata.Latitude)
	assert.Equal(t, -0.12, event.Metadata.Longitude)
	assert.Equal(t, "10.0.0.9", event.Metadata.OriginIP)
	assert.Equal(t, urlRequest.ImageURL, event.Metadata.ImageReference)
	assert.Equal(t, "tx-multiple_faces", store.analyses[0].NotificationID)
}

func TestFacialBiometryDefaultsLocation(t *testing.T) {
	notifier := &recordingNotifier{}
	noFace := &types.ImageAnalysis{Width: 300, Height: 300, Fraud: types.FraudVerdict{Reason: types.ReasonNoFace}}
	uc := newUseCase(&fakeAnalyzer{analysis: noFace}, &memoryStore{}, notifier)

	_, err := uc.FacialBiometry(context.Background(), Caller{}, dto.BiometryRequest{ImageRequest: urlRequest})
	require.NoError(t, err)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, entities.DefaultLatitude, notifier.events[0].Metadata.Latitude)
	assert.Equal(t, entities.DefaultLongitude, notifier.events[0].Metadata.Longitude)
	assert.Equal(t, "no_face", notifier.events[0].FraudType)
}

func TestFacialBiometryDeviceFromUserAgent(t *testing.T) {
	notifier := &recordingNotifier{}
	uc := newUseCase(&fakeAnalyzer{analysis: groupPhoto()}, &memoryStore{}, notifier)
	caller := Caller{
		UserID:    "u",
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_4 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.4 Mobile/15E148 Safari/604.1",
	}

	_, err := uc.FacialBiometry(context.Background(), caller, dto.BiometryRequest{
		ImageRequest: urlRequest,
		Device:       &dto.DeviceDTO{Model: "iPhone 15"},
	})
	require.NoError(t, err)
	require.Len(t, notifier.events, 1)
	device := notifier.events[0].Device
	assert.Equal(t, "iPhone 15", device.Model)
	assert.Equal(t, "Apple", device.Manufacturer)
	assert.Contains(t, device.OperatingSystem, "iOS")
}

func TestPublishFailureDoesNotFailBiometry(t *testing.T) {
	uc := newUseCase(&fakeAnalyzer{analysis: groupPhoto()}, &memoryStore{}, &recordingNotifier{fail: true})

	result, err := uc.FacialBiometry(context.Background(), Caller{}, dto.BiometryRequest{ImageRequest: urlRequest})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Empty(t, result.NotificationID)
}

func TestValidateFingerprint(t *testing.T) {
	notifier := &recordingNotifier{}
	analyzer := &fakeAnalyzer{validation: types.FingerprintValidation{Valid: true}}
	uc := newUseCase(analyzer, &memoryStore{}, notifier)

	result, err := uc.ValidateFingerprint(context.Background(), Caller{}, dto.BiometryRequest{ImageRequest: urlRequest})
	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, notifier.events)

	analyzer.validation = types.FingerprintValidation{Rejection: types.FingerprintBlackRatio}
	result, err = uc.ValidateFingerprint(context.Background(), Caller{}, dto.BiometryRequest{ImageRequest: urlRequest})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, "digital_falsa", result.FraudReason)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, entities.DigitalBiometry, notifier.events[0].BiometryType)
	assert.Equal(t, "digital_falsa", notifier.events[0].FraudType)
}

func TestRegisterAndVerifyFingerprint(t *testing.T) {
	digest := types.FingerprintDigest{Features: make([]float64, types.FingerprintFeatureCount), Hash: "abc"}
	analyzer := &fakeAnalyzer{validation: types.FingerprintValidation{Valid: true}, digest: digest}
	store := &memoryStore{}
	uc := newUseCase(analyzer, store, &recordingNotifier{})
	ctx := context.Background()
	caller := Caller{UserID: "alice"}

	_, err := uc.VerifyFingerprint(ctx, caller, dto.ImageRequest{ImageBase64: "AAAA"})
	assert.ErrorIs(t, err, ErrFingerprintNotRegistered)

	registered, err := uc.RegisterFingerprint(ctx, caller, urlRequest)
	require.NoError(t, err)
	assert.True(t, registered.Registered)
	assert.Equal(t, "abc", registered.Hash)
	require.NotNil(t, registered.RegisteredAt)

	verified, err := uc.VerifyFingerprint(ctx, caller, dto.ImageRequest{ImageBase64: "AAAA"})
	require.NoError(t, err)
	assert.True(t, verified.Match)
	assert.False(t, verified.KnownReference)

	analyzer.digest = types.FingerprintDigest{Features: make([]float64, types.FingerprintFeatureCount), Hash: "other"}
	verified, err = uc.VerifyFingerprint(ctx, caller, dto.ImageRequest{ImageBase64: "AAAA"})
	require.NoError(t, err)
	assert.False(t, verified.Match)

	inspections := analyzer.inspections
	verified, err = uc.VerifyFingerprint(ctx, caller, urlRequest)
	require.NoError(t, err)
	assert.True(t, verified.Match)
	assert.True(t, verified.KnownReference)
	assert.Equal(t, inspections, analyzer.inspections)
}

func TestVerifyFingerprintWithTolerance(t *testing.T) {
	stored := make([]float64, types.FingerprintFeatureCount)
	candidate := make([]float64, types.FingerprintFeatureCount)
	for i := range candidate {
		candidate[i] = 0.5
	}
	analyzer := &fakeAnalyzer{validation: types.FingerprintValidation{Valid: true}, digest: types.FingerprintDigest{Features: candidate, Hash: "candidate"}}
	store := &memoryStore{fingerprints: []entities.FingerprintRecord{{UserID: "alice", Hash: "stored", Features: stored}}}
	uc := NewBiometricUseCase(analyzer, &fakeSource{}, store, &recordingNotifier{}, 1.0)

	verified, err := uc.VerifyFingerprint(context.Background(), Caller{UserID: "alice"}, dto.ImageRequest{ImageBase64: "AAAA"})
	require.NoError(t, err)
	assert.True(t, verified.Match)
}

func TestRegisterRejectsInvalidCapture(t *testing.T) {
	store := &memoryStore{}
	analyzer := &fakeAnalyzer{validation: types.FingerprintValidation{Rejection: types.FingerprintTooFewLines}}
	uc := newUseCase(analyzer, store, &recordingNotifier{})

	result, err := uc.RegisterFingerprint(context.Background(), Caller{UserID: "alice"}, urlRequest)
	require.NoError(t, err)
	assert.False(t, result.Registered)
	assert.Equal(t, types.FingerprintTooFewLines, result.Validation.Rejection)
	assert.Empty(t, store.fingerprints)

	verified, err := uc.VerifyFingerprint(context.Background(), Caller{UserID: "alice"}, dto.ImageRequest{ImageBase64: "AAAA"})
	require.NoError(t, err)
	assert.True(t, verified.IsFraud)
	assert.False(t, verified.Match)
}

func TestFingerprintFlowsRequireSignedInCaller(t *testing.T) {
	uc := newUseCase(&fakeAnalyzer{}, &memoryStore{}, &recordingNotifier{})
	_, err := uc.RegisterFingerprint(context.Background(), Caller{}, urlRequest)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	_, err = uc.VerifyFingerprint(context.Background(), Caller{UserID: AnonymousUser}, urlRequest)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

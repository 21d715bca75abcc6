package biometric_usecases

import (
	"context"

	"biointake.io/application/controller/dto"
	"biointake.io/infrastructure/biometric"
	"biointake.io/infrastructure/biometric/types"
)

// VerifyFingerprint compares a capture against the caller's registered
// digest. A URL the caller already registered matches without re-analysis.
func (uc *BiometricUseCase) VerifyFingerprint(ctx context.Context, caller Caller, payload dto.ImageRequest) (*dto.FingerprintVerificationResponse, error) {
	if !caller.authenticated() {
		return nil, ErrAuthenticationRequired
	}
	if payload.ImageURL != "" {
		known, err := uc.store.HasFingerprintReference(ctx, caller.UserID, payload.ImageURL)
		if err != nil {
			return nil, err
		}
		if known {
			return &dto.FingerprintVerificationResponse{
				Match:          true,
				Message:        "fingerprint matches a registered capture",
				KnownReference: true,
			}, nil
		}
	}

	raw, err := uc.source.Resolve(ctx, payload.ImageURL, payload.ImageBase64)
	if err != nil {
		return nil, err
	}
	validation, digest, err := uc.analyzer.InspectFingerprint(ctx, raw.Bytes)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return &dto.FingerprintVerificationResponse{
			IsFraud:    true,
			Message:    "fingerprint image failed validation",
			Validation: &validation,
		}, nil
	}

	stored, err := uc.store.LoadFingerprintDigest(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrFingerprintNotRegistered
	}
	match := biometric.MatchDigest(types.FingerprintDigest{Features: stored.Features, Hash: stored.Hash}, digest, uc.tolerance)
	response := &dto.FingerprintVerificationResponse{
		Match:      match,
		Validation: &validation,
		Message:    "fingerprint does not match the registered capture",
	}
	if match {
		response.Message = "fingerprint matches the registered capture"
	}
	return response, nil
}

package biometric_usecases

import (
	"context"
	"fmt"

	"biointake.io/application/controller/dto"
	"biointake.io/application/utils"
	"biointake.io/entities"
	"biointake.io/infrastructure/biometric/types"
	"biointake.io/infrastructure/logger"
	"biointake.io/infrastructure/useragent"
)

func notificationFor(caller Caller, payload dto.BiometryRequest, biometry entities.BiometryType, fraudType string, reference string) entities.FraudNotification {
	metadata := entities.NotificationMetadata{
		Latitude:       entities.DefaultLatitude,
		Longitude:      entities.DefaultLongitude,
		OriginIP:       caller.ClientIP,
		ImageReference: reference,
	}
	if loc := payload.Location; loc != nil {
		if loc.Latitude != nil {
			metadata.Latitude = *loc.Latitude
		}
		if loc.Longitude != nil {
			metadata.Longitude = *loc.Longitude
		}
		if loc.OriginIP != "" {
			metadata.OriginIP = loc.OriginIP
		}
	}
	notification := entities.FraudNotification{
		BiometryType: biometry,
		FraudType:    fraudType,
		Metadata:     metadata,
	}
	if dev := payload.Device; dev != nil {
		notification.Device = entities.DeviceInfo{
			Manufacturer:    dev.Manufacturer,
			Model:           dev.Model,
			OperatingSystem: dev.OperatingSystem,
		}
	}
	// blanks are filled from the User-Agent header before falling back to "unknown"
	parsed := useragent.ParseDevice(caller.UserAgent)
	if notification.Device.Manufacturer == "" {
		notification.Device.Manufacturer = parsed.Manufacturer
	}
	if notification.Device.Model == "" {
		notification.Device.Model = parsed.Model
	}
	if notification.Device.OperatingSystem == "" {
		notification.Device.OperatingSystem = parsed.OperatingSystem
	}
	return notification
}

// publish never fails the caller; a lost notification is only logged.
func (uc *BiometricUseCase) publish(ctx context.Context, notification entities.FraudNotification) string {
	id, err := uc.notifier.Publish(ctx, notification)
	if err != nil {
		logger.Error("fraud notification was not published", logger.LoggerOptions{
			Key:  "fraudType",
			Data: notification.FraudType,
		}, logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return ""
	}
	return id
}

// FacialBiometry accepts a capture when it has faces and no fraud reason;
// otherwise it publishes a facial fraud notification.
func (uc *BiometricUseCase) FacialBiometry(ctx context.Context, caller Caller, payload dto.BiometryRequest) (*dto.BiometryResponse, error) {
	raw, analysis, err := uc.analyze(ctx, payload.ImageRequest)
	if err != nil {
		return nil, err
	}
	record := newRecord(caller, entities.FacialAnalysis, raw, analysis)
	response := &dto.BiometryResponse{TransactionID: utils.GenerateUUIDString()}

	if len(analysis.Faces) > 0 && !analysis.Fraud.IsFraud() {
		response.Valid = true
		response.Message = "facial biometry validated successfully"
		response.Detail = analysis.Description
	} else {
		reason := string(analysis.Fraud.Reason)
		if reason == "" {
			reason = string(types.ReasonNoFace)
		}
		response.Message = "facial validation failed"
		response.Detail = fmt.Sprintf("reason: %s. a fraud notification has been raised", reason)
		response.FraudReason = reason
		response.NotificationID = uc.publish(ctx, notificationFor(caller, payload, entities.FacialBiometry, reason, raw.Reference))
		record.NotificationID = response.NotificationID
	}

	if _, err := uc.store.SaveAnalysisRecord(ctx, record); err != nil {
		return nil, err
	}
	return response, nil
}

// ValidateFingerprint runs the ridge heuristics on a capture and publishes a
// digital fraud notification when it is rejected.
func (uc *BiometricUseCase) ValidateFingerprint(ctx context.Context, caller Caller, payload dto.BiometryRequest) (*dto.BiometryResponse, error) {
	raw, err := uc.source.Resolve(ctx, payload.ImageURL, payload.ImageBase64)
	if err != nil {
		return nil, err
	}
	validation, _, err := uc.analyzer.InspectFingerprint(ctx, raw.Bytes)
	if err != nil {
		return nil, err
	}
	response := &dto.BiometryResponse{TransactionID: utils.GenerateUUIDString()}
	if validation.Valid {
		response.Valid = true
		response.Message = "digital biometry validated successfully"
		response.Detail = "fingerprint is valid"
		return response, nil
	}
	response.Message = "possible fraud detected in digital biometry"
	response.Detail = fmt.Sprintf("fingerprint is invalid or forged (%s). a fraud notification has been raised", validation.Rejection)
	response.FraudReason = string(types.ReasonFakeFingerprint)
	response.NotificationID = uc.publish(ctx, notificationFor(caller, payload, entities.DigitalBiometry, string(types.ReasonFakeFingerprint), raw.Reference))
	return response, nil
}

// RegisterFingerprint stores the digest of a valid capture for the caller.
func (uc *BiometricUseCase) RegisterFingerprint(ctx context.Context, caller Caller, payload dto.ImageRequest) (*dto.FingerprintRegistrationResponse, error) {
	if !caller.authenticated() {
		return nil, ErrAuthenticationRequired
	}
	raw, err := uc.source.Resolve(ctx, payload.ImageURL, payload.ImageBase64)
	if err != nil {
		return nil, err
	}
	validation, digest, err := uc.analyzer.InspectFingerprint(ctx, raw.Bytes)
	if err != nil {
		return nil, err
	}
	response := &dto.FingerprintRegistrationResponse{ImageReference: raw.Reference, Validation: validation}
	if !validation.Valid {
		return response, nil
	}
	saved, err := uc.store.SaveFingerprintDigest(ctx, entities.FingerprintRecord{
		UserID:         caller.UserID,
		ImageReference: raw.Reference,
		Hash:           digest.Hash,
		Features:       digest.Features,
	})
	if err != nil {
		return nil, err
	}
	response.Registered = true
	response.ID = saved.ID
	response.Hash = saved.Hash
	response.RegisteredAt = &saved.CreatedAt
	return response, nil
}

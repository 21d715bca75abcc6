package controller

import (
	"net/http"

	apperrors "biointake.io/application/appErrors"
	"biointake.io/application/constants"
	"biointake.io/application/controller/dto"
	"biointake.io/application/interfaces"
	biometric_usecases "biointake.io/application/usecases/biometric"
	server_response "biointake.io/infrastructure/serverResponse"
	"biointake.io/infrastructure/validator"
)

func ValidateFingerprint(ctx *interfaces.ApplicationContext[dto.BiometryRequest], uc *biometric_usecases.BiometricUseCase) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}
	result, err := uc.ValidateFingerprint(ctx.Context, callerOf(ctx), *ctx.Body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, result.Message, result, nil, nil, &ctx.DeviceID)
}

func RegisterFingerprint(ctx *interfaces.ApplicationContext[dto.ImageRequest], uc *biometric_usecases.BiometricUseCase) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}
	result, err := uc.RegisterFingerprint(ctx.Context, callerOf(ctx), *ctx.Body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	if !result.Registered {
		server_response.Responder.Respond(ctx.Ctx, http.StatusUnprocessableEntity, "fingerprint image failed validation", result, nil, &constants.FINGERPRINT_REJECTED, &ctx.DeviceID)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusCreated, "fingerprint registered", result, nil, nil, &ctx.DeviceID)
}

func VerifyFingerprint(ctx *interfaces.ApplicationContext[dto.ImageRequest], uc *biometric_usecases.BiometricUseCase) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}
	result, err := uc.VerifyFingerprint(ctx.Context, callerOf(ctx), *ctx.Body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, result.Message, result, nil, nil, &ctx.DeviceID)
}

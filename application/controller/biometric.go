package controller

import (
	"errors"
	"net/http"

	apperrors "biointake.io/application/appErrors"
	"biointake.io/application/constants"
	"biointake.io/application/controller/dto"
	"biointake.io/application/interfaces"
	biometric_usecases "biointake.io/application/usecases/biometric"
	server_response "biointake.io/infrastructure/serverResponse"
	"biointake.io/infrastructure/validator"
)

func callerOf[T any](ctx *interfaces.ApplicationContext[T]) biometric_usecases.Caller {
	caller := biometric_usecases.Caller{UserID: ctx.UserID, ClientIP: ctx.ClientIP}
	if ua := ctx.GetHeader("User-Agent"); ua != nil {
		caller.UserAgent = *ua
	}
	return caller
}

func respondError[T any](ctx *interfaces.ApplicationContext[T], err error) {
	switch {
	case errors.Is(err, biometric_usecases.ErrAuthenticationRequired):
		apperrors.AuthenticationError(ctx.Ctx, err.Error(), ctx.DeviceID)
	case errors.Is(err, biometric_usecases.ErrForbidden):
		apperrors.ForbiddenError(ctx.Ctx, err.Error(), ctx.DeviceID)
	case errors.Is(err, biometric_usecases.ErrAnalysisNotFound):
		apperrors.NotFoundError(ctx.Ctx, err.Error(), &ctx.DeviceID)
	case errors.Is(err, biometric_usecases.ErrFingerprintNotRegistered):
		server_response.Responder.Respond(ctx.Ctx, http.StatusNotFound, err.Error(), nil, nil, &constants.FINGERPRINT_NOT_REGISTERED, &ctx.DeviceID)
	default:
		apperrors.AnalysisFailed(ctx.Ctx, err, ctx.DeviceID)
	}
}

func AnalyzeFraud(ctx *interfaces.ApplicationContext[dto.ImageRequest], uc *biometric_usecases.BiometricUseCase) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}
	result, err := uc.AnalyzeFraud(ctx.Context, callerOf(ctx), *ctx.Body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "image analysed", result, nil, nil, &ctx.DeviceID)
}

func DescribeImage(ctx *interfaces.ApplicationContext[dto.ImageRequest], uc *biometric_usecases.BiometricUseCase) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}
	result, err := uc.Describe(ctx.Context, *ctx.Body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "image described", result, nil, nil, &ctx.DeviceID)
}

func VerifySelfie(ctx *interfaces.ApplicationContext[dto.ImageRequest], uc *biometric_usecases.BiometricUseCase) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}
	result, err := uc.VerifySelfie(ctx.Context, callerOf(ctx), *ctx.Body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "selfie verification completed", result, nil, nil, &ctx.DeviceID)
}

func FacialBiometry(ctx *interfaces.ApplicationContext[dto.BiometryRequest], uc *biometric_usecases.BiometricUseCase) {
	validationErr := validator.ValidatorInstance.ValidateStruct(ctx.Body)
	if validationErr != nil {
		apperrors.ValidationFailedError(ctx.Ctx, validationErr, ctx.DeviceID)
		return
	}
	result, err := uc.FacialBiometry(ctx.Context, callerOf(ctx), *ctx.Body)
	if err != nil {
		respondError(ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, result.Message, result, nil, nil, &ctx.DeviceID)
}

func AnalysisHistory(ctx *interfaces.ApplicationContext[any], uc *biometric_usecases.BiometricUseCase) {
	result, err := uc.History(ctx.Context, callerOf(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "analysis history fetched", result, nil, nil, &ctx.DeviceID)
}

func FetchAnalysis(ctx *interfaces.ApplicationContext[any], uc *biometric_usecases.BiometricUseCase) {
	id, _ := ctx.Param["id"].(string)
	if err := validator.ValidatorInstance.ValidateValue(id, "required,max=64"); err != nil {
		apperrors.ClientError(ctx.Ctx, err.Error(), nil, nil, ctx.DeviceID)
		return
	}
	result, err := uc.GetAnalysis(ctx.Context, callerOf(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	server_response.Responder.Respond(ctx.Ctx, http.StatusOK, "analysis fetched", result, nil, nil, &ctx.DeviceID)
}

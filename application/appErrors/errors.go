package apperrors

import (
	"context"
	"errors"
	"net/http"

	"biointake.io/application/constants"
	"biointake.io/infrastructure/biometric/types"
	"biointake.io/infrastructure/logger"
	server_response "biointake.io/infrastructure/serverResponse"
)

func NotFoundError(ctx interface{}, message string, deviceID *string) {
	server_response.Responder.Respond(ctx, http.StatusNotFound, message, nil, nil, nil, deviceID)
}

func ValidationFailedError(ctx interface{}, errMessages *[]error, deviceID string) {
	server_response.Responder.Respond(ctx, http.StatusUnprocessableEntity, "Payload validation failed", nil, *errMessages, nil, &deviceID)
}

func AuthenticationError(ctx interface{}, message string, deviceID string) {
	server_response.Responder.Respond(ctx, http.StatusUnauthorized, message, nil, nil, &constants.SIGN_IN_REQUIRED, &deviceID)
}

func ForbiddenError(ctx interface{}, message string, deviceID string) {
	server_response.Responder.Respond(ctx, http.StatusForbidden, message, nil, nil, nil, &deviceID)
}

func ExternalDependencyError(ctx interface{}, message string, err error, deviceID string) {
	logger.Error(message, logger.LoggerOptions{
		Key:  "error",
		Data: err,
	})
	server_response.Responder.Respond(ctx, http.StatusBadGateway, message, map[string]any{
		"retryable": true,
	}, nil, &constants.RETRYABLE_FETCH_FAILURE, &deviceID)
}

func ServiceSaturatedError(ctx interface{}, deviceID string) {
	server_response.Responder.Respond(ctx, http.StatusServiceUnavailable,
		"All analysis workers are busy. Please try again shortly.", map[string]any{
			"retryable": true,
		}, nil, &constants.ANALYSIS_CAPACITY_REACHED, &deviceID)
}

func ErrorProcessingPayload(ctx interface{}, deviceID *string) {
	server_response.Responder.Respond(ctx, http.StatusBadRequest, "Abnormal payload passed", nil, nil, nil, deviceID)
}

// RequestAbandoned answers a request whose context ended before the analysis
// finished. The caller has usually gone away, so it is logged at info level.
func RequestAbandoned(ctx interface{}, err error, deviceID string) {
	logger.Info("analysis abandoned", logger.LoggerOptions{
		Key:  "reason",
		Data: err.Error(),
	})
	server_response.Responder.Respond(ctx, http.StatusRequestTimeout,
		"The request ended before the analysis completed.", nil, nil, nil, &deviceID)
}

func FatalServerError(ctx interface{}, err error, deviceID string) {
	logger.Error("unexpected server error", logger.LoggerOptions{
		Key:  "error",
		Data: err,
	})
	server_response.Responder.Respond(ctx, http.StatusInternalServerError,
		"Our service is temporarily down. Our team is working to fix it. Please check back later.", nil, nil, nil, &deviceID)
}

func ClientError(ctx interface{}, msg string, errs []error, responseCode *uint, deviceID string) {
	server_response.Responder.Respond(ctx, http.StatusBadRequest, msg, nil, errs, responseCode, &deviceID)
}

// AnalysisFailed maps a pipeline error to its response. Input and decode
// failures are the caller's and are echoed back; network failures are
// retryable even when they wrap a deadline; an ended request context is
// answered with 408.
func AnalysisFailed(ctx interface{}, err error, deviceID string) {
	if errors.Is(err, types.ErrPoolSaturated) {
		ServiceSaturatedError(ctx, deviceID)
		return
	}
	var analysisErr *types.AnalysisError
	if errors.As(err, &analysisErr) {
		switch analysisErr.Kind {
		case types.InputError, types.DecodeError:
			ClientError(ctx, analysisErr.Message, nil, nil, deviceID)
			return
		case types.NetworkError:
			ExternalDependencyError(ctx, analysisErr.Message, err, deviceID)
			return
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		RequestAbandoned(ctx, err, deviceID)
		return
	}
	FatalServerError(ctx, err, deviceID)
}

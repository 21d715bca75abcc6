package middlewares

import (
	"strings"

	apperrors "biointake.io/application/appErrors"
	"biointake.io/application/interfaces"
)

// DeviceHeaderMiddleware records the optional X-Device-Id header and rejects
// values that cannot be a device identifier.
func DeviceHeaderMiddleware(ctx *interfaces.ApplicationContext[any], clientIP string) (*interfaces.ApplicationContext[any], bool) {
	ctx.ClientIP = clientIP
	deviceID := ctx.GetHeader("X-Device-Id")
	if deviceID == nil {
		return ctx, true
	}
	id := strings.TrimSpace(*deviceID)
	if len(id) > 100 || strings.ContainsAny(id, "\r\n") {
		apperrors.ErrorProcessingPayload(ctx.Ctx, nil)
		return nil, false
	}
	ctx.DeviceID = id
	return ctx, true
}

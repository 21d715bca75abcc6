package middlewares

import (
	"strings"

	apperrors "biointake.io/application/appErrors"
	"biointake.io/application/interfaces"
	biometric_usecases "biointake.io/application/usecases/biometric"
	"biointake.io/infrastructure/auth"
)

// UserIdentityMiddleware resolves the bearer token to a user ID. Requests
// without a token continue as the anonymous user; a bad token is rejected.
func UserIdentityMiddleware(ctx *interfaces.ApplicationContext[any], signingKey string) (*interfaces.ApplicationContext[any], bool) {
	header := ctx.GetHeader("Authorization")
	if header == nil {
		ctx.UserID = biometric_usecases.AnonymousUser
		ctx.SetContextData("UserID", ctx.UserID)
		return ctx, true
	}
	token, found := strings.CutPrefix(*header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" || signingKey == "" {
		apperrors.AuthenticationError(ctx.Ctx, "malformed authorization header", ctx.DeviceID)
		return nil, false
	}
	userID, err := auth.UserIDFromToken(strings.TrimSpace(token), signingKey)
	if err != nil {
		apperrors.AuthenticationError(ctx.Ctx, "invalid or expired token", ctx.DeviceID)
		return nil, false
	}
	ctx.UserID = userID
	ctx.SetContextData("UserID", userID)
	return ctx, true
}

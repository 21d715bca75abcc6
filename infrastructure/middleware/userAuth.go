package middlewares

import (
	"biointake.io/application/interfaces"
	"biointake.io/application/middlewares"
	"github.com/gin-gonic/gin"
)

// UserIdentityMiddleware must run after DeviceHeaderMiddleware.
func UserIdentityMiddleware(signingKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
		appContext, next := middlewares.UserIdentityMiddleware(appContext, signingKey)
		if next {
			ctx.Set("AppContext", appContext)
			ctx.Next()
		}
	}
}

package middlewares

import (
	"biointake.io/application/interfaces"
	"biointake.io/application/middlewares"
	"github.com/gin-gonic/gin"
)

func DeviceHeaderMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		appContext, next := middlewares.DeviceHeaderMiddleware(&interfaces.ApplicationContext[any]{
			Ctx:     ctx,
			Context: ctx.Request.Context(),
			Keys:    ctx.Keys,
			Header:  ctx.Request.Header,
		}, ctx.ClientIP())
		if next {
			ctx.Set("AppContext", appContext)
			ctx.Next()
		}
	}
}

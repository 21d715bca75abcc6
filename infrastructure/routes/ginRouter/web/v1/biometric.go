package routev1

import (
	apperrors "biointake.io/application/appErrors"
	"biointake.io/application/controller"
	"biointake.io/application/controller/dto"
	"biointake.io/application/interfaces"
	biometric_usecases "biointake.io/application/usecases/biometric"
	"github.com/gin-gonic/gin"
)

func bind[T any](ctx *gin.Context) (*interfaces.ApplicationContext[T], bool) {
	appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
	var body T
	if err := ctx.ShouldBindJSON(&body); err != nil {
		apperrors.ErrorProcessingPayload(ctx, &appContext.DeviceID)
		return nil, false
	}
	return &interfaces.ApplicationContext[T]{
		Ctx:      ctx,
		Context:  ctx.Request.Context(),
		Keys:     appContext.Keys,
		Header:   appContext.Header,
		DeviceID: appContext.DeviceID,
		UserID:   appContext.UserID,
		ClientIP: appContext.ClientIP,
		Body:     &body,
	}, true
}

func BiometricRouter(router *gin.RouterGroup, usecase *biometric_usecases.BiometricUseCase) {
	biometricRouter := router.Group("/biometric")
	{
		biometricRouter.POST("/analysis", func(ctx *gin.Context) {
			appContext, ok := bind[dto.ImageRequest](ctx)
			if !ok {
				return
			}
			controller.AnalyzeFraud(appContext, usecase)
		})

		biometricRouter.GET("/analysis/history", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			appContext.Context = ctx.Request.Context()
			controller.AnalysisHistory(appContext, usecase)
		})

		biometricRouter.GET("/analysis/:id", func(ctx *gin.Context) {
			appContext := ctx.MustGet("AppContext").(*interfaces.ApplicationContext[any])
			appContext.Context = ctx.Request.Context()
			appContext.Param = map[string]any{"id": ctx.Param("id")}
			controller.FetchAnalysis(appContext, usecase)
		})

		biometricRouter.POST("/describe", func(ctx *gin.Context) {
			appContext, ok := bind[dto.ImageRequest](ctx)
			if !ok {
				return
			}
			controller.DescribeImage(appContext, usecase)
		})

		biometricRouter.POST("/selfie", func(ctx *gin.Context) {
			appContext, ok := bind[dto.ImageRequest](ctx)
			if !ok {
				return
			}
			controller.VerifySelfie(appContext, usecase)
		})

		biometricRouter.POST("/facial", func(ctx *gin.Context) {
			appContext, ok := bind[dto.BiometryRequest](ctx)
			if !ok {
				return
			}
			controller.FacialBiometry(appContext, usecase)
		})
	}

	fingerprintRouter := biometricRouter.Group("/fingerprint")
	{
		fingerprintRouter.POST("/validate", func(ctx *gin.Context) {
			appContext, ok := bind[dto.BiometryRequest](ctx)
			if !ok {
				return
			}
			controller.ValidateFingerprint(appContext, usecase)
		})

		fingerprintRouter.POST("/register", func(ctx *gin.Context) {
			appContext, ok := bind[dto.ImageRequest](ctx)
			if !ok {
				return
			}
			controller.RegisterFingerprint(appContext, usecase)
		})

		fingerprintRouter.POST("/verify", func(ctx *gin.Context) {
			appContext, ok := bind[dto.ImageRequest](ctx)
			if !ok {
				return
			}
			controller.VerifyFingerprint(appContext, usecase)
		})
	}
}

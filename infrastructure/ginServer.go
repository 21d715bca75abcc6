package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "biointake.io/application/appErrors"
	"biointake.io/infrastructure/env"
	"biointake.io/infrastructure/logger"
	middlewares "biointake.io/infrastructure/middleware"
	"biointake.io/infrastructure/ratelimit"
	webRoutev1 "biointake.io/infrastructure/routes/ginRouter/web/v1"
	server_response "biointake.io/infrastructure/serverResponse"
	startup "biointake.io/infrastructure/startUp"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type ginServer struct{}

func newRouter(cfg *env.Config, services *startup.Services) *gin.Engine {
	server := gin.New()
	server.Use(gin.Recovery())
	server.Use(logger.RequestLoggerMiddleware())

	origins := cfg.CorsOrigins
	if len(origins) == 0 && cfg.GinMode == gin.DebugMode {
		origins = []string{"http://localhost:5173"}
	}
	if len(origins) > 0 {
		server.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Device-Id", "User-Agent"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if cfg.RateLimit > 0 {
		server.Use(ratelimit.TokenBucketPerIP(cfg.RateLimit))
	}
	server.MaxMultipartMemory = 15 << 20

	v1 := server.Group("/api")
	v1.Use(middlewares.DeviceHeaderMiddleware())
	v1.Use(middlewares.UserIdentityMiddleware(cfg.JWTSigningKey))

	routerV1 := v1.Group("/v1")
	{
		webRoutev1.BiometricRouter(routerV1, services.Biometric)
	}

	server.GET("/ping", func(ctx *gin.Context) {
		server_response.Responder.Respond(ctx, http.StatusOK, "pong!", nil, nil, nil, nil)
	})

	server.NoRoute(func(ctx *gin.Context) {
		apperrors.NotFoundError(ctx, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL), nil)
	})
	return server
}

func (s *ginServer) Start(ctx context.Context) {
	cfg := env.Get()
	if cfg.GinMode != gin.DebugMode && cfg.GinMode != gin.ReleaseMode {
		panic(fmt.Sprintf("invalid gin mode used - %s", cfg.GinMode))
	}
	gin.SetMode(cfg.GinMode)

	services := startup.StartServices(cfg)
	defer startup.CleanUpServices(services)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: newRouter(cfg, services),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info(fmt.Sprintf("Server starting on PORT %s", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped unexpectedly", logger.LoggerOptions{Key: "error", Data: err})
	}
}

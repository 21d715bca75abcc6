package logger

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a no-op until InitializeLogger runs so packages that log during
// init never dereference nil.
var Logger = zap.NewNop()

func InitializeLogger() {
	var cfg zap.Config
	if os.Getenv("LOG_DEV") == "1" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		level, err := zapcore.ParseLevel(lvl)
		if err == nil {
			cfg.Level = zap.NewAtomicLevelAt(level)
		}
	}
	built, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	Logger = built
}

// RequestLoggerMiddleware logs one line per handled request.
func RequestLoggerMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()
		Info("http request", LoggerOptions{
			Key:  "method",
			Data: ctx.Request.Method,
		}, LoggerOptions{
			Key:  "path",
			Data: ctx.FullPath(),
		}, LoggerOptions{
			Key:  "status",
			Data: ctx.Writer.Status(),
		}, LoggerOptions{
			Key:  "duration_ms",
			Data: float64(time.Since(start).Microseconds()) / 1000.0,
		})
	}
}

func Sync() {
	_ = Logger.Sync()
}

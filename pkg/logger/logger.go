package logger

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bimaplus/bima-api/pkg/config"
	"github.com/bimaplus/bima-api/pkg/middleware/requestid"
)

// New builds the process logger: JSON in production, console-friendly output
// during development. LOG_LEVEL and LOG_FORMAT override the environment
// defaults; an unparseable level falls back to the preset's default.
func New(cfg *config.Config) (*zap.Logger, error) {
	base := zap.NewDevelopmentConfig()
	if cfg.Env == config.EnvProduction {
		base = zap.NewProductionConfig()
	}

	if cfg.Log.Format == "console" {
		base.Encoding = "console"
	} else {
		base.Encoding = "json"
	}

	if cfg.Log.Level != "" {
		if level, err := zap.ParseAtomicLevel(cfg.Log.Level); err == nil {
			base.Level = level
		}
	}

	return base.Build()
}

// GinMiddleware emits one access-log line per request once the handler chain
// completes. Server errors log at error level so they stand out in aggregate.
func GinMiddleware(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestid.Value(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("client_ip", c.ClientIP()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(started)),
		}

		if c.Writer.Status() >= http.StatusInternalServerError {
			l.Error("request", fields...)
			return
		}
		l.Info("request", fields...)
	}
}

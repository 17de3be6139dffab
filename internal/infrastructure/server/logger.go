package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eslsoft/speaktrack/internal/infrastructure/config"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// NewLogger builds a configured logrus logger from application config.
func NewLogger(cfg *config.Config) (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)
	switch cfg.Log.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// RequestLogger logs one line per request once the handler has returned.
func RequestLogger(logger logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			entry := logger.WithFields(requestFields(r, status, time.Since(start)))
			entry = entry.WithField("response_bytes", ww.BytesWritten())

			switch determineLogLevel(status) {
			case logrus.ErrorLevel:
				entry.Error("request completed")
			case logrus.WarnLevel:
				entry.Warn("request completed")
			default:
				entry.Info("request completed")
			}
		})
	}
}

func determineLogLevel(status int) logrus.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return logrus.ErrorLevel
	case status >= http.StatusBadRequest:
		return logrus.WarnLevel
	default:
		return logrus.InfoLevel
	}
}

func requestFields(r *http.Request, status int, duration time.Duration) logrus.Fields {
	fields := logrus.Fields{
		"http_method": r.Method,
		"path":        r.URL.Path,
		"status":      status,
		"duration":    duration,
	}
	appendStringField(fields, "query", r.URL.RawQuery)
	appendStringField(fields, "request_id", middleware.GetReqID(r.Context()))
	appendStringField(fields, "user_agent", r.Header.Get("User-Agent"))
	appendStringField(fields, "client_ip", firstForwardedFor(r.Header))
	appendStringField(fields, "peer_addr", r.RemoteAddr)
	if r.ContentLength >= 0 {
		fields["request_bytes"] = r.ContentLength
	}
	return fields
}

func appendStringField(fields logrus.Fields, key, value string) {
	if value == "" {
		return
	}
	fields[key] = value
}

func firstForwardedFor(header http.Header) string {
	forwarded := header.Get("X-Forwarded-For")
	if forwarded == "" {
		return ""
	}
	for _, part := range strings.Split(forwarded, ",") {
		if candidate := strings.TrimSpace(part); candidate != "" {
			return candidate
		}
	}
	return ""
}

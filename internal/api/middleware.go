package api

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arturocg96/EduTrackAPI/internal/pkg/cache"
)

// responseCachePrefix namespaces cached GET responses inside the store
const responseCachePrefix = "resp:"

// RequestLogger logs one line per request
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		switch {
		case status >= http.StatusInternalServerError:
			log.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("Request rejected", fields...)
		default:
			log.Info("Request handled", fields...)
		}
	}
}

// bodyRecorder tees the response body so it can be cached
type bodyRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCache serves successful JSON GET responses from store for ttl.
// Store errors degrade to an uncached request.
func ResponseCache(store cache.Store, ttl time.Duration, log *zap.Logger) gin.HandlerFunc {
	maxAge := "public,max-age=" + strconv.Itoa(int(ttl.Seconds()))

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := responseCachePrefix + c.Request.URL.RequestURI()
		ctx := c.Request.Context()

		body, err := store.Get(ctx, key)
		if err == nil {
			c.Header("Cache-Control", maxAge)
			c.Header("X-Cache", "HIT")
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Warn("Response cache read failed", zap.String("key", key), zap.Error(err))
		}

		rec := &bodyRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Header("Cache-Control", maxAge)
		c.Header("X-Cache", "MISS")
		c.Next()

		if rec.Status() != http.StatusOK {
			return
		}
		if err := store.Set(ctx, key, rec.body.Bytes(), ttl); err != nil {
			log.Warn("Response cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// InvalidateCache drops every cached response after a successful write
func InvalidateCache(store cache.Store, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == http.MethodGet || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		if err := store.DeletePrefix(c.Request.Context(), responseCachePrefix); err != nil {
			log.Warn("Response cache invalidation failed", zap.Error(err))
		}
	}
}

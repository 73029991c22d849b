package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// requestEntry pulls the completed-request entry out of the observed logs
func requestEntry(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			return entry
		}
	}
	t.Fatal("no request log entry recorded")
	return observer.LoggedEntry{}
}

func fieldByKey(entry observer.LoggedEntry, key string) (zapcore.Field, bool) {
	for _, f := range entry.Context {
		if f.Key == key {
			return f, true
		}
	}
	return zapcore.Field{}, false
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("logs level by status", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			level  zapcore.Level
		}{
			{"2xx is info", http.StatusOK, zapcore.InfoLevel},
			{"4xx is warn", http.StatusNotFound, zapcore.WarnLevel},
			{"5xx is error", http.StatusBadGateway, zapcore.ErrorLevel},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				core, recorded := observer.New(zapcore.InfoLevel)

				r := gin.New()
				r.Use(GinMiddleware(zap.New(core)))
				r.GET("/civic/questions", func(c *gin.Context) {
					c.JSON(tt.status, gin.H{})
				})

				w := httptest.NewRecorder()
				r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/civic/questions", nil))

				entry := requestEntry(t, recorded)
				assert.Equal(t, tt.level, entry.Level)
			})
		}
	})

	t.Run("carries request id and request fields", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)

		r := gin.New()
		r.Use(func(c *gin.Context) {
			c.Set("request_id", "req-123")
			c.Next()
		})
		r.Use(GinMiddleware(zap.New(core)))
		r.POST("/civic/questions", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{})
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/civic/questions", nil)
		req.Header.Set("User-Agent", "civic-app/1.0")
		r.ServeHTTP(w, req)

		entry := requestEntry(t, recorded)
		id, ok := fieldByKey(entry, "request_id")
		require.True(t, ok)
		assert.Equal(t, "req-123", id.String)
		for _, key := range []string{"method", "path", "status", "latency", "client_ip", "user_agent", "body_size"} {
			_, ok := fieldByKey(entry, key)
			assert.True(t, ok, "missing field %s", key)
		}
	})

	t.Run("includes the query string when present", func(t *testing.T) {
		core, recorded := observer.New(zapcore.InfoLevel)

		r := gin.New()
		r.Use(GinMiddleware(zap.New(core)))
		r.GET("/news/search", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/news/search?q=water+supply", nil))

		entry := requestEntry(t, recorded)
		query, ok := fieldByKey(entry, "query")
		require.True(t, ok)
		assert.Contains(t, query.String, "q=water")
	})
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)

	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(c *gin.Context) {
		panic("storage exploded")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "Panic recovered", logs[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns the request-scoped logger", func(t *testing.T) {
		core, _ := observer.New(zapcore.InfoLevel)

		var got *zap.Logger
		r := gin.New()
		r.Use(GinMiddleware(zap.New(core)))
		r.GET("/health", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.NotNil(t, got)
	})

	t.Run("falls back to a no-op logger", func(t *testing.T) {
		var got *zap.Logger
		r := gin.New()
		r.GET("/health", func(c *gin.Context) {
			got = GetGinLogger(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

		require.NotNil(t, got)
		assert.NotPanics(t, func() { got.Info("noop") })
	})
}

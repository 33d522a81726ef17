package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/chat-service/internal/config"
)

func TestMaskEmail(t *testing.T) {
	tests := map[string]string{
		"ana@x.com":             "a***@x.com",
		"Ana.Smith@Example.com": "a***h@example.com",
		"@x.com":                "***@x.com",
		"not-an-email":          "***",
	}
	for in, want := range tests {
		assert.Equal(t, want, MaskEmail(in), in)
	}
}

func TestNewLogger_FallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "loud"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestMetrics_RecordRequestAndError(t *testing.T) {
	m, err := NewMetrics("test")
	require.NoError(t, err)

	m.RecordRequest("/api/messages", http.MethodGet, 200, 5*time.Millisecond)
	m.RecordRequest("/api/messages", http.MethodGet, 200, 7*time.Millisecond)
	m.RecordError("/api/login", http.MethodPost, "UNAUTHORIZED")
	m.RecordMail("failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/api/messages", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("/api/login", http.MethodPost, "UNAUTHORIZED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MailsSent.WithLabelValues("failed")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.RecordRequest("/", http.MethodGet, 200, time.Millisecond)
		nilMetrics.RecordError("/", http.MethodGet, "X")
		nilMetrics.RecordMail("sent")
	})
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m, err := NewMetrics("test")
	require.NoError(t, err)

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), m))
	app.Get("/api/users/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/42", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "/api/users/42", entries[0].ContextMap()["path"])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(http.MethodGet, "/api/users/:id", "204")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}

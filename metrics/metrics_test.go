package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/placora/backend/auth"
	"github.com/placora/backend/metrics"
	"github.com/stretchr/testify/assert"
)

func TestCollector_Record(t *testing.T) {
	collector := metrics.NewCollector()

	for i := 0; i < 3; i++ {
		err := collector.Record(context.Background(), auth.ActivityEvent{
			EventType: auth.ActivityEventLoginSuccess,
		})
		assert.NoError(t, err)
	}
	err := collector.Record(context.Background(), auth.ActivityEvent{
		EventType: auth.ActivityEventGuardRejection,
	})
	assert.NoError(t, err)

	app := fiber.New()
	app.Get("/metrics", collector.Handler())

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	assert.NoError(t, err)

	assert.Contains(t, string(body), `placora_auth_events_total{event="auth.login.success"} 3`)
	assert.Contains(t, string(body), `placora_auth_events_total{event="auth.guard.rejection"} 1`)
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveToolCallExports(t *testing.T) {
	m := New()
	m.ObserveToolCall("search_components", false, 5*time.Millisecond)
	m.ObserveToolCall("search_components", true, time.Millisecond)
	m.ObserveScaffoldSize(17)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `loom_tool_calls_total{outcome="ok",tool="search_components"} 1`)
	assert.Contains(t, body, `loom_tool_calls_total{outcome="error",tool="search_components"} 1`)
	assert.Contains(t, body, "loom_tool_call_duration_seconds")
	assert.Contains(t, body, "loom_scaffold_files")
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		_ = New()
		_ = New()
	})
}

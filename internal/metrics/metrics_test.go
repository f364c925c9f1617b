package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltyorg/wbnkit/internal/model"
)

func TestCollector_Observe(t *testing.T) {
	c := New()

	c.Observe(model.Op{Name: "find", Table: "users", Duration: 2 * time.Millisecond})
	c.Observe(model.Op{Name: "find", Table: "users", Err: fmt.Errorf("wrap: %w", model.ErrRecordNotFound)})
	c.Observe(model.Op{Name: "create", Table: "users", Err: fmt.Errorf("boom")})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("find", "users", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("find", "users", ResultNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("create", "users", ResultError)))
	assert.Equal(t, 2, testutil.CollectAndCount(c.duration))
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.Observe(model.Op{Name: "all", Table: "notes"})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `wbnkit_model_operations_total{operation="all",result="ok",table="notes"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}

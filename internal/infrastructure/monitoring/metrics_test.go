package monitoring

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilinTux/forgeprint-sub000/internal/domain/catalog"
)

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	// Two instances must not collide on registration.
	a := NewMetrics()
	b := NewMetrics()

	a.IncDriversGenerated()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.DriversGenerated))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.DriversGenerated))
}

func TestObserveParse(t *testing.T) {
	m := NewMetrics()

	m.ObserveParse(catalog.Stats{Groups: 2, Features: 5, DroppedGroups: 1, SkippedKeys: 3, SkippedItems: 4})
	m.ObserveParse(catalog.Stats{Groups: 1, Features: 1})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CatalogParses))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CatalogGroups))
	assert.Equal(t, 6.0, testutil.ToFloat64(m.CatalogFeatures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CatalogDroppedGroups))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.CatalogSkipped.WithLabelValues("key")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.CatalogSkipped.WithLabelValues("item")))
}

func TestObserveCacheLookup(t *testing.T) {
	m := NewMetrics()

	m.ObserveCacheLookup(false)
	m.ObserveCacheLookup(true)
	m.ObserveCacheLookup(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheLookups.WithLabelValues("miss")))
}

func TestRecordSearch(t *testing.T) {
	m := NewMetrics()

	m.RecordSearch(0)
	m.RecordSearch(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchQueries))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/api/blueprints/:id", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	router.GET("/api/search", func(c *gin.Context) {
		c.JSON(http.StatusOK, []string{})
	})

	for _, path := range []string{"/api/blueprints/a", "/api/blueprints/b", "/api/search", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/blueprints/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/search", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")))

	snap := m.Snapshot()
	assert.EqualValues(t, 4, snap.TotalRequests)
	assert.EqualValues(t, 3, snap.TotalErrors)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestHandlerExposition(t *testing.T) {
	m := NewMetrics()
	m.IncDriversGenerated()

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "forgeprint_drivers_generated_total 1")
	assert.Contains(t, string(body), "forgeprint_uptime_seconds")
	assert.Contains(t, string(body), "go_goroutines")
}

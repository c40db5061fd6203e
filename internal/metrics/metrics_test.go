package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("books")
	router := gin.New()
	router.Use(m.Handler())
	router.GET("/books/:book_id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/books/1", "/books/2", "/missing"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/books/:book_id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("unmatched", "GET", "404")))
}

func TestGaugeFuncAndExposer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("books")
	count := 3
	m.GaugeFunc("books_in_collection", "Books currently held in memory.", func() float64 { return float64(count) })

	router := gin.New()
	router.GET("/metrics", m.Exposer())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "books_in_collection 3")

	count = 5
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "books_in_collection 5")
}

func TestRegistriesAreIndependent(t *testing.T) {
	a := New("todos")
	b := New("todos")
	assert.NotSame(t, a.Registry, b.Registry)
	assert.NotPanics(t, func() {
		a.GaugeFunc("g", "h", func() float64 { return 1 })
		b.GaugeFunc("g", "h", func() float64 { return 1 })
	})
}

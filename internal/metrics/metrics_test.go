package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareObservesRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/ping/:id", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	router.GET("/metrics", gin.WrapH(Handler()))

	before := testutil.CollectAndCount(HTTPRequestDuration)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping/42", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(HTTPRequestDuration), before)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `bitnap_http_request_duration_seconds_count{method="GET",route="/ping/:id",status="418"}`)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(BuddyTransitions.WithLabelValues("accepted"))
	BuddyTransitions.WithLabelValues("accepted").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(BuddyTransitions.WithLabelValues("accepted")))
}

package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(capture *string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Middleware())
	router.GET("/", func(c *gin.Context) {
		*capture = Value(c)
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestMiddlewareKeepsInboundID(t *testing.T) {
	var seen string
	router := newRouter(&seen)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(Header, "upstream-42")
	router.ServeHTTP(recorder, req)

	assert.Equal(t, "upstream-42", seen)
	assert.Equal(t, "upstream-42", recorder.Header().Get(Header))
}

func TestMiddlewareMintsIDWhenMissing(t *testing.T) {
	var seen string
	router := newRouter(&seen)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, recorder.Header().Get(Header))
}

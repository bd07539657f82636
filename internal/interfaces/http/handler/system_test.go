package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping() error {
	return f.err
}

func newSystemTestRouter(pinger Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSystemHandler(pinger, zap.NewNop())

	engine := gin.New()
	engine.GET("/health", h.Health)
	return engine
}

func TestSystemHandler_Healthy(t *testing.T) {
	engine := newSystemTestRouter(&fakePinger{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"database":"up"`)
}

func TestSystemHandler_DatabaseDown(t *testing.T) {
	engine := newSystemTestRouter(&fakePinger{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"unhealthy"`)
	assert.Contains(t, w.Body.String(), `"database":"down"`)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationTestRequest struct {
	SupplierName string `json:"supplier_name" binding:"required"`
	Amount       int64  `json:"amount" binding:"required,gt=0"`
}

func newValidationTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var req validationTestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, req)
	})
	return engine
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	engine := newValidationTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"amount": -5}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)

	body := w.Body.String()
	// Field names come from json tags, not Go field names
	assert.Contains(t, body, "supplier_name")
	assert.Contains(t, body, "This field is required")
	assert.Contains(t, body, "amount")
	assert.Contains(t, body, "Must be greater than 0")
	assert.NotContains(t, body, "SupplierName")
}

func TestHandleValidationError_ValidPayload(t *testing.T) {
	engine := newValidationTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/echo",
		strings.NewReader(`{"supplier_name": "Warung Ibu Sari", "amount": 100}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

//go:build unit

package httperr_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/domain/order"
	"storefront/internal/handler/httperr"
	"storefront/internal/pkg/errs"
	"storefront/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performMapped(t *testing.T, err error) (int, httperr.Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", nil)

	httperr.AbortWithMappedError(c, err)

	var resp httperr.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestAbortWithMappedError(t *testing.T) {
	t.Run("stock failures name the product that ran short", func(t *testing.T) {
		cause := &order.StockError{ProductID: uuid.New(), Title: "Plain Tee", Requested: 3, Available: 1}
		code, resp := performMapped(t, errs.Mark(cause, commands.ErrInsufficientStock))

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Insufficient stock", resp.Message)
		require.Len(t, resp.Errors, 1)
		assert.Contains(t, resp.Errors[0], "Plain Tee")
	})

	t.Run("stock failures without a product line carry no details", func(t *testing.T) {
		code, resp := performMapped(t, errs.Mark(errs.New("insufficient stock"), commands.ErrInsufficientStock))

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Empty(t, resp.Errors)
	})

	t.Run("unmapped errors collapse to a generic 500", func(t *testing.T) {
		code, resp := performMapped(t, errs.New("connection reset"))

		assert.Equal(t, http.StatusInternalServerError, code)
		assert.Equal(t, "Internal server error", resp.Message)
		assert.Empty(t, resp.Errors)
	})
}

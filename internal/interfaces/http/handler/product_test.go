package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartshop/backend/internal/application/catalog"
	"github.com/smartshop/backend/internal/infrastructure/persistence/memory"
	"github.com/smartshop/backend/internal/interfaces/http/dto"
	"github.com/smartshop/backend/internal/interfaces/http/middleware"
)

// newProductRouter wires the product routes with requests authenticated
// as the given user
func newProductRouter(svc *catalog.ProductService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewProductHandler(svc, zap.NewNop())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID.String())
	})
	r.POST("/products", h.Create)
	r.GET("/products", h.List)
	r.GET("/products/categories", h.ListCategories)
	r.GET("/products/:id", h.GetByID)
	r.PUT("/products/:id", h.Update)
	r.PUT("/products/:id/stock", h.AdjustStock)
	r.POST("/products/:id/deactivate", h.Deactivate)
	r.DELETE("/products/:id", h.Delete)
	return r
}

func setupProductRouter(t *testing.T) *gin.Engine {
	t.Helper()
	svc := catalog.NewProductService(memory.NewProductRepository(), zap.NewNop())
	return newProductRouter(svc, uuid.New())
}

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func createTestProduct(t *testing.T, r *gin.Engine, name, price string, stock int) map[string]interface{} {
	t.Helper()
	w := performJSON(t, r, http.MethodPost, "/products", gin.H{
		"name":     name,
		"category": "Grocery",
		"price":    price,
		"stock":    stock,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	return data
}

func TestProductHandler_Create(t *testing.T) {
	r := setupProductRouter(t)

	t.Run("creates product", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPost, "/products", gin.H{
			"name":     "Basmati Rice 5kg",
			"category": "Grocery",
			"price":    "450.00",
			"stock":    25,
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "Basmati Rice 5kg", data["name"])
		assert.Equal(t, "450.00", data["price"])
		assert.Equal(t, "INR", data["currency"])
	})

	t.Run("missing required fields rejected", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPost, "/products", gin.H{
			"name": "No Price",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.Details)
	})

	t.Run("unparseable price is a business refusal", func(t *testing.T) {
		w := performJSON(t, r, http.MethodPost, "/products", gin.H{
			"name":     "Sugar 1kg",
			"category": "Grocery",
			"price":    "one hundred",
			"stock":    5,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_PRICE", resp.Error.Code)
	})
}

func TestProductHandler_GetByID(t *testing.T) {
	r := setupProductRouter(t)
	created := createTestProduct(t, r, "Toor Dal 1kg", "120.00", 40)

	t.Run("returns product", func(t *testing.T) {
		w := performJSON(t, r, http.MethodGet, "/products/"+created["id"].(string), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "Toor Dal 1kg", data["name"])
	})

	t.Run("invalid id rejected", func(t *testing.T) {
		w := performJSON(t, r, http.MethodGet, "/products/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown id not found", func(t *testing.T) {
		w := performJSON(t, r, http.MethodGet, "/products/7b8a1f8e-44a0-4f5b-9f50-0f2b6a1c9d3e", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})
}

func TestProductHandler_List(t *testing.T) {
	r := setupProductRouter(t)
	createTestProduct(t, r, "Basmati Rice 5kg", "450.00", 25)
	createTestProduct(t, r, "Toor Dal 1kg", "120.00", 40)

	w := performJSON(t, r, http.MethodGet, "/products?page=1&page_size=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
}

func TestProductHandler_AdjustStock(t *testing.T) {
	r := setupProductRouter(t)
	created := createTestProduct(t, r, "Atta 10kg", "380.00", 10)

	w := performJSON(t, r, http.MethodPut, "/products/"+created["id"].(string)+"/stock", gin.H{
		"stock": 0,
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(0), data["stock"])
	assert.Equal(t, false, data["in_stock"])
}

func TestProductHandler_MutationByOtherShopkeeperForbidden(t *testing.T) {
	svc := catalog.NewProductService(memory.NewProductRepository(), zap.NewNop())
	owner := newProductRouter(svc, uuid.New())
	intruder := newProductRouter(svc, uuid.New())
	created := createTestProduct(t, owner, "Atta 10kg", "380.00", 10)
	path := "/products/" + created["id"].(string)

	w := performJSON(t, intruder, http.MethodPut, path, gin.H{"name": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performJSON(t, intruder, http.MethodPut, path+"/stock", gin.H{"stock": 0})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performJSON(t, intruder, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performJSON(t, owner, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Atta 10kg", data["name"])
}

func TestProductHandler_Delete(t *testing.T) {
	r := setupProductRouter(t)
	created := createTestProduct(t, r, "Ghee 500ml", "290.00", 5)

	w := performJSON(t, r, http.MethodDelete, "/products/"+created["id"].(string), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = performJSON(t, r, http.MethodGet, "/products/"+created["id"].(string), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

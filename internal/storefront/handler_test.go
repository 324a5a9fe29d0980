package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mserebryaakov/boodai-storefront-service/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	status int
	userID string
}

func (f fakeResolver) Auth(context.Context, []string, string) (int, string, error) {
	return f.status, f.userID, nil
}

func newTestRouter(t *testing.T, auth UserResolver) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := NewRegistry(kv.NewMemoryStore(), testDeps(newFakeBackend(), nil))
	router := gin.New()
	NewHandler(registry, testLog(), auth).Register(router)
	return router
}

func call(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SessionHeader, "test-session")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestHandler_NewSessionGetsCookie(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(SessionHeader))
	assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookie+"=")
}

func TestHandler_CatalogRequiresBranch(t *testing.T) {
	router := newTestRouter(t, nil)

	w := call(t, router, http.MethodGet, "/api/catalog", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_BrowseAndOrder(t *testing.T) {
	router := newTestRouter(t, nil)

	w := call(t, router, http.MethodGet, "/api/branches", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, router, http.MethodPost, "/api/branch", gin.H{"branchId": "b1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ready", decode(t, w)["status"])

	w = call(t, router, http.MethodGet, "/api/catalog?lang=en", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cat := decode(t, w)
	groups := cat["groups"].([]any)
	require.Len(t, groups, 2)
	first := groups[0].(map[string]any)
	assert.Equal(t, "Напитки", first["category"])
	tea := first["products"].([]any)[0].(map[string]any)
	assert.Equal(t, "Tea", tea["name"])
	assert.Equal(t, "200.00", tea["price"])

	w = call(t, router, http.MethodPost, "/api/cart/items", gin.H{"productId": "pizza"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "variantKey", decode(t, w)["field"])

	w = call(t, router, http.MethodPost, "/api/cart/items", gin.H{"productId": "pizza", "variantKey": "small"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	line := decode(t, w)
	assert.Equal(t, "300.00", line["price"])

	w = call(t, router, http.MethodPatch, "/api/cart/items/"+line["id"].(string), gin.H{"delta": 1})
	require.Equal(t, http.StatusOK, w.Code)
	totals := decode(t, w)["totals"].(map[string]any)
	assert.Equal(t, "600.00", totals["finalTotal"])

	w = call(t, router, http.MethodPatch, "/api/cart/items/"+line["id"].(string), gin.H{"delta": int64(math.MaxInt64)})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(t, router, http.MethodPatch, "/api/cart/items/missing", gin.H{"delta": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(t, router, http.MethodPost, "/api/promo", gin.H{"promoCode": "WRONG"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Промокод недействителен", decode(t, w)["message"])

	w = call(t, router, http.MethodPost, "/api/promo", gin.H{"promoCode": "BOODAI10"})
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, router, http.MethodGet, "/api/cart/total", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "540.00", decode(t, w)["finalTotal"])

	w = call(t, router, http.MethodPost, "/api/checkout", gin.H{
		"details": gin.H{"mode": "delivery", "name": "Айбек", "phone": "0555"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.NotEmpty(t, decode(t, w)["fields"])

	w = call(t, router, http.MethodPost, "/api/checkout", gin.H{
		"details": gin.H{"mode": "delivery", "name": "Айбек", "phone": "+996555123456", "address": "Киевская 1"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "42", decode(t, w)["orderId"])

	w = call(t, router, http.MethodGet, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["items"])
}

func TestHandler_ClearCart(t *testing.T) {
	router := newTestRouter(t, nil)

	require.Equal(t, http.StatusOK, call(t, router, http.MethodPost, "/api/branch", gin.H{"branchId": "b1"}).Code)
	require.Equal(t, http.StatusCreated, call(t, router, http.MethodPost, "/api/cart/items", gin.H{"productId": "tea"}).Code)

	w := call(t, router, http.MethodDelete, "/api/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["items"])
}

func TestHandler_CheckoutEmptyCart(t *testing.T) {
	router := newTestRouter(t, nil)
	require.Equal(t, http.StatusOK, call(t, router, http.MethodPost, "/api/branch", gin.H{"branchId": "b1"}).Code)

	w := call(t, router, http.MethodPost, "/api/checkout", gin.H{
		"details": gin.H{"mode": "pickup", "name": "Айбек", "phone": "+996555123456"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_UnknownBranchIsUnavailable(t *testing.T) {
	router := newTestRouter(t, nil)

	w := call(t, router, http.MethodPost, "/api/branch", gin.H{"branchId": "zzz"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = call(t, router, http.MethodGet, "/api/branch", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "error", decode(t, w)["status"])
}

func TestHandler_RejectedToken(t *testing.T) {
	router := newTestRouter(t, fakeResolver{status: http.StatusUnauthorized})

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(SessionHeader, "s")
	req.Header.Set("Authorization", "bad")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_TokenResolvesUser(t *testing.T) {
	router := newTestRouter(t, fakeResolver{status: http.StatusOK, userID: "7"})

	req := httptest.NewRequest(http.MethodGet, "/api/cart/total?useCoins=true", nil)
	req.Header.Set(SessionHeader, "s")
	req.Header.Set("Authorization", "good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0.00", decode(t, w)["coinsUsed"])
}

package routes_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Black25dvp/silverlux/models"
)

type productList struct {
	Products []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"products"`
	Total      int      `json:"total"`
	Categories []string `json:"categories"`
	MaxPrice   float64  `json:"max_price"`
}

func TestProducts_ListAndFilter(t *testing.T) {
	h := newHarness(t)
	h.seedProduct("Anel Prata", "100.00", "rings")
	h.seedProduct("Colar Lua", "300.00", "necklaces")
	h.seedProduct("Brinco Gota", "200.00", "earrings")

	w := h.do(request{method: http.MethodGet, path: "/products"})
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[productList](t, w)
	assert.Equal(t, 3, all.Total)
	assert.ElementsMatch(t, []string{"rings", "necklaces", "earrings"}, all.Categories)
	assert.InDelta(t, 300.0, all.MaxPrice, 0.001)

	w = h.do(request{method: http.MethodGet, path: "/products?min_price=0&max_price=200&category=rings&category=earrings"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, decode[productList](t, w).Total)

	w = h.do(request{method: http.MethodGet, path: "/products?free_shipping=true"})
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[productList](t, w)
	require.Equal(t, 2, list.Total)

	w = h.do(request{method: http.MethodGet, path: "/products?search=LUA"})
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[productList](t, w)
	require.Len(t, list.Products, 1)
	assert.Equal(t, "Colar Lua", list.Products[0].Name)

	w = h.do(request{method: http.MethodGet, path: "/products?min_price=cheap"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProducts_Detail(t *testing.T) {
	h := newHarness(t)
	cheap := h.seedProduct("Pingente", "199.99", "pendants")
	pricey := h.seedProduct("Pulseira", "200.00", "bracelets")

	w := h.do(request{method: http.MethodGet, path: "/products/" + cheap.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode[gin.H](t, w)["free_shipping"])

	w = h.do(request{method: http.MethodGet, path: "/products/" + pricey.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[gin.H](t, w)["free_shipping"])

	assert.Equal(t, http.StatusNotFound, h.do(request{method: http.MethodGet, path: "/products/00000000-0000-0000-0000-000000000000"}).Code)
	assert.Equal(t, http.StatusNotFound, h.do(request{method: http.MethodGet, path: "/products/42"}).Code)
}

func TestProducts_AdminCRUD(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken()

	w := h.do(request{method: http.MethodPost, path: "/admin/products", token: admin, body: gin.H{
		"name": "Anel Aurora", "price": "89.90", "image_url": "/img/aurora.jpg", "category": "rings",
	}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[gin.H](t, w)
	id := created["id"].(string)
	assert.Equal(t, 89.9, created["price"])

	w = h.do(request{method: http.MethodPost, path: "/admin/products", token: admin, body: gin.H{
		"name": "Free", "price": -1, "image_url": "/img/x.jpg", "category": "rings",
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(request{method: http.MethodPost, path: "/admin/products", token: admin, body: gin.H{"price": 10}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(request{method: http.MethodPut, path: "/admin/products/" + id, token: admin, body: gin.H{
		"name": "Anel Aurora II", "price": 99, "image_url": "/img/aurora.jpg", "category": "rings", "location": "São Paulo",
	}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "São Paulo", decode[gin.H](t, w)["location"])

	// the product sits in a cart and a collection when it is deleted
	token := h.login("lara@silverlux.test")
	require.Equal(t, http.StatusOK, h.do(request{method: http.MethodPost, path: "/user/cart", body: gin.H{"product_id": id}, token: token}).Code)
	col := models.Collection{Name: "Verão"}
	require.NoError(t, h.db.Create(&col).Error)
	require.NoError(t, h.db.Exec("INSERT INTO collection_products (collection_id, product_id) VALUES (?, ?)", col.ID, id).Error)

	w = h.do(request{method: http.MethodDelete, path: "/admin/products/" + id, token: admin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusNotFound, h.do(request{method: http.MethodGet, path: "/products/" + id}).Code)

	var rows int64
	require.NoError(t, h.db.Table("collection_products").Count(&rows).Error)
	assert.Zero(t, rows)
	require.NoError(t, h.db.Table("cart_items").Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestProducts_ExcelRoundTrip(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken()
	ring := h.seedProduct("Anel", "120.00", "rings")
	h.seedProduct("Colar", "250.00", "necklaces")

	w := h.do(request{method: http.MethodGet, path: "/admin/products/export-excel", token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "products.xlsx")
	workbook := w.Body.Bytes()

	// change a price, then import the exported workbook back
	require.NoError(t, h.db.Model(&models.Product{}).Where("id = ?", ring.ID).Update("price", 1).Error)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "products.xlsx")
	require.NoError(t, err)
	_, err = part.Write(workbook)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/products/import-excel", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+admin)
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	result := decode[gin.H](t, rec)
	assert.EqualValues(t, 0, result["created_count"])
	assert.EqualValues(t, 2, result["updated_count"])

	var restored models.Product
	require.NoError(t, h.db.First(&restored, "id = ?", ring.ID).Error)
	assert.Equal(t, "120", restored.Price.String())

	w = h.do(request{method: http.MethodPost, path: "/admin/products/import-excel", token: admin})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollections(t *testing.T) {
	h := newHarness(t)
	admin := h.adminToken()
	a := h.seedProduct("Anel", "100.00", "rings")
	b := h.seedProduct("Brinco", "60.00", "earrings")

	w := h.do(request{method: http.MethodPost, path: "/admin/collections", token: admin, body: gin.H{"name": "Lua Cheia", "image_url": "/img/lua.jpg"}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	colID := decode[gin.H](t, w)["id"].(string)

	for _, p := range []models.Product{a, b, a} {
		w := h.do(request{method: http.MethodPost, path: "/admin/collections/" + colID + "/products", token: admin, body: gin.H{"product_id": p.ID}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = h.do(request{method: http.MethodDelete, path: "/admin/collections/" + colID + "/products/" + a.ID, token: admin})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = h.do(request{method: http.MethodGet, path: "/collections/" + colID})
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[struct {
		Collection struct {
			Name string `json:"name"`
		} `json:"collection"`
		Products []struct {
			ID string `json:"id"`
		} `json:"products"`
	}](t, w)
	assert.Equal(t, "Lua Cheia", detail.Collection.Name)
	require.Len(t, detail.Products, 1)
	assert.Equal(t, b.ID, detail.Products[0].ID)

	w = h.do(request{method: http.MethodPut, path: "/admin/collections/" + colID, token: admin, body: gin.H{"name": "Lua Nova", "is_sold_out": true}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode[gin.H](t, w)["is_sold_out"])

	w = h.do(request{method: http.MethodGet, path: "/collections"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]gin.H](t, w), 1)

	w = h.do(request{method: http.MethodPost, path: "/admin/collections/" + colID + "/products", token: admin, body: gin.H{"product_id": "00000000-0000-0000-0000-000000000000"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(request{method: http.MethodDelete, path: "/admin/collections/" + colID + "/products/not-a-uuid", token: admin})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(request{method: http.MethodDelete, path: "/admin/collections/" + colID, token: admin})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, h.do(request{method: http.MethodGet, path: "/collections/" + colID}).Code)
	assert.Equal(t, http.StatusNotFound, h.do(request{method: http.MethodGet, path: "/collections/not-a-uuid"}).Code)
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	ring := h.seedProduct("Anel Estrela", "100.00", "rings")
	chain := h.seedProduct("Corrente Estrela", "180.00", "necklaces")
	h.seedProduct("Brinco Sol", "90.00", "earrings")

	w := h.do(request{method: http.MethodGet, path: "/search?q=estrela"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]gin.H](t, w), 2)

	w = h.do(request{method: http.MethodGet, path: "/search?q="})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[[]gin.H](t, w))

	token := h.login("mia@silverlux.test")
	require.Equal(t, http.StatusCreated, h.do(request{method: http.MethodPost, path: "/search", body: gin.H{"term": "estrela"}, token: token}).Code)
	assert.Equal(t, http.StatusBadRequest, h.do(request{method: http.MethodPost, path: "/search", body: gin.H{"term": "   "}}).Code)

	for i := 0; i < 3; i++ {
		w := h.do(request{method: http.MethodPost, path: "/search/clicks", body: gin.H{"product_id": chain.ID, "term": "estrela"}})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w = h.do(request{method: http.MethodPost, path: "/search/clicks", body: gin.H{"product_id": ring.ID}, token: token})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, http.StatusBadRequest, h.do(request{method: http.MethodPost, path: "/search/clicks", body: gin.H{"product_id": "nope"}}).Code)

	var stale models.ProductSearch
	stale.ProductID = &ring.ID
	stale.CreatedAt = time.Now().UTC().Add(-40 * 24 * time.Hour)
	for i := 0; i < 5; i++ {
		stale.ID = ""
		require.NoError(t, h.db.Create(&stale).Error)
	}

	w = h.do(request{method: http.MethodGet, path: "/search/popular"})
	require.Equal(t, http.StatusOK, w.Code)
	popular := decode[[]struct {
		ID          string `json:"id"`
		SearchCount int    `json:"search_count"`
	}](t, w)
	require.Len(t, popular, 2)
	assert.Equal(t, chain.ID, popular[0].ID)
	assert.Equal(t, 3, popular[0].SearchCount)
	assert.Equal(t, 1, popular[1].SearchCount)

	var withUser int64
	require.NoError(t, h.db.Model(&models.ProductSearch{}).Where("user_id IS NOT NULL").Count(&withUser).Error)
	assert.EqualValues(t, 2, withUser)
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, http.StatusOK, h.do(request{method: http.MethodGet, path: "/healthz"}).Code)
}

package routes_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Black25dvp/silverlux/auth"
	"github.com/Black25dvp/silverlux/auth/authtest"
	"github.com/Black25dvp/silverlux/cart"
	"github.com/Black25dvp/silverlux/models"
	"github.com/Black25dvp/silverlux/routes"
	"github.com/Black25dvp/silverlux/store"
)

const (
	apiKey     = "service-key"
	superAdmin = "boss@silverlux.test"
)

type harness struct {
	t        *testing.T
	db       *gorm.DB
	provider *authtest.Provider
	tokens   *auth.Tokens
	carts    *cart.Registry
	engine   *gin.Engine
}

func newHarness(t *testing.T) *harness {
	return newHarnessWith(t, authtest.NewProvider())
}

// newHarnessWith builds the full route table over a fresh in-memory
// database. A nil provider leaves identity unconfigured.
func newHarnessWith(t *testing.T, provider *authtest.Provider) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.Open(store.Options{
		Driver:   "sqlite",
		URL:      "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		LogLevel: logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	log, _ := test.NewNullLogger()
	log.SetLevel(logrus.PanicLevel)

	tokens := auth.NewTokens("test-secret", time.Hour)
	carts := cart.NewRegistry(store.NewCartItems(db), log)

	var p auth.Provider
	if provider != nil {
		p = provider
	}

	r := gin.New()
	routes.SetupRoutes(r, routes.Deps{
		DB:       db,
		Carts:    carts,
		Searches: store.NewSearches(db),
		Tokens:   tokens,
		Auth: &auth.Handlers{
			DB:              db,
			Provider:        p,
			Tokens:          tokens,
			Carts:           carts,
			SuperAdminEmail: superAdmin,
			Log:             log,
		},
		AdminAPIKey: apiKey,
		Log:         log,
	})

	return &harness{t: t, db: db, provider: provider, tokens: tokens, carts: carts, engine: r}
}

type request struct {
	method string
	path   string
	body   any
	token  string
	header map[string]string
}

func (h *harness) do(req request) *httptest.ResponseRecorder {
	h.t.Helper()
	var body io.Reader
	switch b := req.body.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(h.t, err)
		body = bytes.NewReader(raw)
	}

	r := httptest.NewRequest(req.method, req.path, body)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		r.Header.Set("Authorization", "Bearer "+req.token)
	}
	for k, v := range req.header {
		r.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.engine.ServeHTTP(w, r)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// login signs a new account up and in, returning its session token.
func (h *harness) login(email string) string {
	h.t.Helper()
	w := h.do(request{method: http.MethodPost, path: "/auth/signup", body: gin.H{"email": email, "password": "secret123"}})
	require.Equal(h.t, http.StatusCreated, w.Code, w.Body.String())

	w = h.do(request{method: http.MethodPost, path: "/auth/login", body: gin.H{"idToken": authtest.Token(email)}})
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	return decode[struct {
		Token string `json:"token"`
	}](h.t, w).Token
}

func (h *harness) adminToken() string {
	h.t.Helper()
	token, err := h.tokens.Issue(models.User{ID: "admin-1", Email: "staff@silverlux.test", Role: models.RoleAdmin})
	require.NoError(h.t, err)
	return token
}

func (h *harness) seedProduct(name, price, category string) models.Product {
	h.t.Helper()
	p := models.Product{Name: name, Price: decimal.RequireFromString(price), ImageURL: "/img/" + name, Category: category}
	require.NoError(h.t, h.db.Create(&p).Error)
	return p
}

type cartBody struct {
	Items []struct {
		ID        string  `json:"id"`
		ProductID string  `json:"product_id"`
		Quantity  int     `json:"quantity"`
		Price     float64 `json:"price"`
	} `json:"items"`
	TotalItems int     `json:"total_items"`
	TotalPrice float64 `json:"total_price"`
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Black25dvp/silverlux/auth"
	"github.com/Black25dvp/silverlux/models"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
	})
	return r
}

func get(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOptionalUser(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	token, err := tokens.Issue(models.User{ID: "u1", Email: "a@b.c", Role: models.RoleUser})
	require.NoError(t, err)

	r := newEngine(OptionalUser(tokens))

	w := get(r, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u1"`)

	w = get(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)

	w = get(r, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)
}

func TestRequireUser(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	r := newEngine(RequireUser(tokens))

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)

	other, err := auth.NewTokens("other", time.Hour).Issue(models.User{ID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, get(r, other).Code)

	token, err := tokens.Issue(models.User{ID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, get(r, token).Code)

	req := httptest.NewRequest(http.MethodGet, "/whoami?token="+token, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	tokens := auth.NewTokens("secret", time.Hour)
	r := newEngine(RequireAdmin(tokens))

	user, err := tokens.Issue(models.User{ID: "u1", Role: models.RoleUser})
	require.NoError(t, err)
	admin, err := tokens.Issue(models.User{ID: "a1", Role: models.RoleAdmin})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusForbidden, get(r, user).Code)
	assert.Equal(t, http.StatusOK, get(r, admin).Code)
}

func TestValidateAPIKey(t *testing.T) {
	r := newEngine(ValidateAPIKey("k3y"))

	call := func(key string) int {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if key != "" {
			req.Header.Set("X-API-KEY", key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("wrong"))
	assert.Equal(t, http.StatusOK, call("k3y"))

	unset := newEngine(ValidateAPIKey(""))
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	unset.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequestLogger(t *testing.T) {
	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	r := newEngine(RequestLogger(log))
	get(r, "")

	require.Len(t, hook.Entries, 1)
	entry := hook.LastEntry()
	assert.Equal(t, "request served", entry.Message)
	assert.Equal(t, 200, entry.Data["status"])
	assert.Equal(t, "/whoami", entry.Data["path"])
}

package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/Black25dvp/silverlux/cart"
	"github.com/Black25dvp/silverlux/controllers"
	"github.com/Black25dvp/silverlux/models"
)

// Handlers serves the /auth endpoints, logout and admin provisioning.
type Handlers struct {
	DB              *gorm.DB
	Provider        Provider
	Tokens          *Tokens
	Carts           *cart.Registry
	SuperAdminEmail string
	Log             logrus.FieldLogger
}

type credentials struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

func (in *credentials) normalize() {
	in.Email = strings.TrimSpace(in.Email)
}

// POST /auth/signup
func (h *Handlers) Signup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input credentials
		if err := c.ShouldBindJSON(&input); err != nil {
			controllers.Fail(c, controllers.BindError(err))
			return
		}
		input.normalize()
		if h.Provider == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": ErrNotConfigured.Error()})
			return
		}

		uid, err := h.Provider.CreateUser(c.Request.Context(), input.Email, input.Password)
		if errors.Is(err, ErrUserExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "This email is already registered"})
			return
		}
		if err != nil {
			h.Log.WithError(err).Warn("❌ signup rejected by identity provider")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not create account"})
			return
		}

		h.Log.WithField("user_id", uid).Info("📝 account created")
		c.JSON(http.StatusCreated, gin.H{"message": "Account created, sign in to continue", "user_id": uid})
	}
}

// POST /auth/login
func (h *Handlers) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			controllers.Fail(c, controllers.BindError(err))
			return
		}
		if h.Provider == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": ErrNotConfigured.Error()})
			return
		}

		ctx := c.Request.Context()
		identity, err := h.Provider.VerifyIDToken(ctx, req.IDToken)
		if err != nil {
			h.Log.WithError(err).Warn("❌ ID token verification failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or revoked ID token"})
			return
		}

		user, err := h.upsertUser(c, identity)
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		token, err := h.Tokens.Issue(user)
		if err != nil {
			controllers.Fail(c, err)
			return
		}

		// a cart that fails to load does not block sign-in; the next cart
		// request retries
		session, err := h.Carts.Open(ctx, user.ID)
		if err != nil {
			h.Log.WithError(err).WithField("user_id", user.ID).Warn("⚠️ cart not loaded at sign-in")
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",
			"token":   token,
			"user":    user,
			"cart":    session.Snapshot(),
		})
	}
}

func (h *Handlers) upsertUser(c *gin.Context, identity Identity) (models.User, error) {
	ctx := c.Request.Context()
	role, err := RoleFor(ctx, h.DB, h.SuperAdminEmail, identity.Email)
	if err != nil {
		return models.User{}, models.Remote("resolve role", err)
	}

	user := models.User{ID: identity.UID}
	err = h.DB.WithContext(ctx).
		Where(models.User{ID: identity.UID}).
		Assign(models.User{Email: strings.ToLower(identity.Email), Name: identity.Name, Role: role}).
		FirstOrCreate(&user).Error
	if err != nil {
		return models.User{}, models.Remote("save user", err)
	}
	return user, nil
}

// POST /user/logout
func (h *Handlers) Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.Carts.Close(controllers.CurrentUser(c))
		c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
	}
}

// POST /admin/bootstrap
func (h *Handlers) Bootstrap() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email or password"})
			return
		}

		status, err := ProvisionAdmin(c.Request.Context(), h.DB, h.Provider, req.Email, req.Password)
		switch {
		case errors.Is(err, ErrNotConfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server not configured"})
			return
		case errors.Is(err, models.ErrRemote):
			h.Log.WithError(err).Error("❌ failed to record admin")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record admin"})
			return
		case err != nil:
			h.Log.WithError(err).Warn("❌ admin provisioning rejected")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		h.Log.WithFields(logrus.Fields{"email": req.Email, "status": status}).Info("👑 admin provisioned")
		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}

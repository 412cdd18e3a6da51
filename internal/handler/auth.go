package handler

import (
	"context"      // provides context with cancellation for DB calls
	"database/sql" // SQL sentinel errors
	"errors"       // errors.Is comparisons
	"net/http"     // HTTP status codes and primitives
	"strings"      // string manipulation utilities
	"time"         // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/rorogames/fishing-backend/internal/config"     // app configuration
	"github.com/rorogames/fishing-backend/internal/identity"   // external identity provider client
	"github.com/rorogames/fishing-backend/internal/model"      // user model
	"github.com/rorogames/fishing-backend/internal/repository" // DB repositories
	"github.com/rorogames/fishing-backend/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for auth endpoints.  Provider may be nil
// when no external identity provider is configured; the external login
// endpoint then responds 503.
type AuthHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Provider identity.Provider
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, p identity.Provider) *AuthHandler {
	if u == nil {
		panic("nil repository passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: u, Provider: p}
}

// ----- DTOs -----

type registerReq struct {
	Pseudo   string `json:"pseudo"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Pseudo   string `json:"pseudo"`
	Password string `json:"password"`
}
type externalReq struct {
	ProviderToken string `json:"provider_token"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type userPart struct {
	ID      uint64 `json:"id"`
	Pseudo  string `json:"pseudo"`
	Email   string `json:"email,omitempty"`
	Balance int64  `json:"balance"`
}
type authResp struct {
	User   userPart  `json:"user"`
	Access tokenPart `json:"access"`
}

// Register: create user and return a token immediately.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Pseudo = strings.TrimSpace(req.Pseudo)
	if req.Pseudo == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pseudo/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Pseudo, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrPseudoExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "pseudo already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}

	return h.respondWithToken(c, http.StatusCreated, u)
}

// Login: verify credentials and return a fresh token.  Unknown pseudo,
// password mismatch and external-only accounts (no password hash) are
// indistinguishable in the response.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Pseudo = strings.TrimSpace(req.Pseudo)
	if req.Pseudo == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pseudo/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByPseudo(ctx, req.Pseudo)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.PasswordHash == "" || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return h.respondWithToken(c, http.StatusOK, u)
}

// External: exchange a provider access token for a session, creating the
// account on first login.  Repeated logins with the same provider identity
// always land on the same account.
func (h *AuthHandler) External(c echo.Context) error {
	if h.Provider == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "external login disabled"})
	}
	var req externalReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.ProviderToken) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "provider_token required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	profile, err := h.Provider.Resolve(ctx, strings.TrimSpace(req.ProviderToken))
	if err != nil {
		if errors.Is(err, identity.ErrTokenRejected) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid provider token"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "identity provider unavailable"})
	}

	u, err := h.Users.FindOrCreateExternal(ctx, profile.ExternalID, profile.Pseudo, profile.Email)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "link account failed"})
	}

	return h.respondWithToken(c, http.StatusOK, u)
}

// Me: return the authenticated user's profile and current balance.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load user failed"})
	}

	return c.JSON(http.StatusOK, userPart{ID: u.ID, Pseudo: u.Pseudo, Email: u.Email, Balance: u.Balance})
}

func (h *AuthHandler) respondWithToken(c echo.Context, status int, u model.User) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(status, authResp{
		User:   userPart{ID: u.ID, Pseudo: u.Pseudo, Email: u.Email, Balance: u.Balance},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

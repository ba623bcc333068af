package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "infinitebz/internal/delivery/http/helpers"
	"infinitebz/internal/delivery/http/middleware"
	"infinitebz/internal/domain"
)

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// LoginSuccessResponse is the success response envelope for POST /auth/login (200).
type LoginSuccessResponse struct {
	Data  LoginResponse `json:"data"`
	Error *h.APIError   `json:"error"`
}

// MeSuccessResponse is the success response envelope for GET /auth/me (200).
type MeSuccessResponse struct {
	Data  *domain.User `json:"data"`
	Error *h.APIError  `json:"error"`
}

type AuthController struct {
	Logger   *slog.Logger
	Sessions domain.SessionService
}

func NewAuthController(logger *slog.Logger, sessions domain.SessionService) *AuthController {
	return &AuthController{
		Logger:   logger,
		Sessions: sessions,
	}
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for an access token issued by the InfiniteBZ API. Send it as "Authorization: Bearer <token>" on every other call.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} controllers.LoginSuccessResponse "data contains the access token"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	sess, err := c.Sessions.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "incorrect email or password")
			return
		}
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	resp := LoginResponse{AccessToken: sess.Token, TokenType: "bearer"}
	if !sess.ExpiresAt.IsZero() {
		exp := sess.ExpiresAt.UTC()
		resp.ExpiresAt = &exp
	}
	h.WriteJSONSuccess(w, http.StatusOK, resp)
}

// Logout godoc
// @Summary Log out
// @Description Invalidates the bearer token for the rest of this server's lifetime.
// @Tags auth
// @Security BearerAuth
// @Success 204 "logged out"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/logout [post]
func (c *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	c.Sessions.Logout(sess)
	w.WriteHeader(http.StatusNoContent)
}

// Me godoc
// @Summary Current user
// @Description Returns the profile of the logged-in user from the InfiniteBZ API.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.MeSuccessResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/me [get]
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Sessions.Me(r.Context(), sess)
	if err != nil {
		h.WriteDomainError(w, r, c.Logger, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, user)
}

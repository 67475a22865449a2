package handlers

import (
	"net/http"

	"github.com/geocoder89/admindash/internal/auth"
	"github.com/geocoder89/admindash/internal/config"
	"github.com/geocoder89/admindash/internal/domain/user"
	"github.com/geocoder89/admindash/internal/store"
	"github.com/geocoder89/admindash/internal/validation"
	"github.com/gin-gonic/gin"
)

type TokenIssuer interface {
	GenerateAccessToken(userID, email, role string) (string, error)
}

// Admin is the single operator account configured through the environment.
type Admin struct {
	Email        string
	PasswordHash string
}

type AuthHandler struct {
	tokens TokenIssuer
	admin  Admin
	users  store.Store[user.User] // optional, supplies the admin's user id
	opts   Options
}

func NewAuthHandler(tokens TokenIssuer, admin Admin, users store.Store[user.User], opts Options) *AuthHandler {
	admin.Email = validation.NormalizeEmail(admin.Email)
	return &AuthHandler{tokens: tokens, admin: admin, users: users, opts: opts.withDefaults()}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,emailaddr"`
	Password string `json:"password" binding:"required"`
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	email := validation.NormalizeEmail(req.Email)
	if h.admin.Email == "" || h.admin.PasswordHash == "" || email != h.admin.Email {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	if err := auth.CheckPassword(h.admin.PasswordHash, req.Password); err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Email or password is incorrect.")
		return
	}

	userID := "admin"
	if h.users != nil {
		c, cancel := config.WithTimeout(ctx.Request.Context(), h.opts.Timeout)
		defer cancel()

		if u, err := h.users.FindOne(c, "email", email); err == nil {
			userID = u.ID.Hex()
		}
	}

	accessToken, err := h.tokens.GenerateAccessToken(userID, email, user.RoleAdmin)
	if err != nil {
		RespondInternal(ctx, "Could not generate access token")
		return
	}

	RespondData(ctx, http.StatusOK, gin.H{
		"accessToken": accessToken,
		"tokenType":   "Bearer",
	}, "Login successful")
}

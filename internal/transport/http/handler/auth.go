package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"secondhand-market/internal/app"
	"secondhand-market/internal/model"
	"secondhand-market/internal/transport/http/middleware"
	"secondhand-market/internal/transport/http/response"
)

type AuthService interface {
	Register(ctx context.Context, input app.RegisterInput) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*app.AuthResult, error)
	Profile(ctx context.Context, caller *app.Caller) (*model.User, error)
}

type AuthHandler struct {
	authService AuthService
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName" binding:"max=128"`
	Address  string `json:"address" binding:"max=255"`
}

type AuthenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token          string `json:"token"`
	ExpirationTime int64  `json:"expirationTime"`
}

type ProfileResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Address  string `json:"address"`
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	_, err := h.authService.Register(c.Request.Context(), app.RegisterInput{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Address:  req.Address,
	})
	if err != nil {
		respondError(c, err, "register")
		return
	}

	response.Message(c, "User registered successfully")
}

func (h *AuthHandler) Authenticate(c *gin.Context) {
	var req AuthenticateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.authService.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "authenticate")
		return
	}

	response.OK(c, TokenResponse{
		Token:          result.Token,
		ExpirationTime: result.ExpiresAt.UnixMilli(),
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Profile(c.Request.Context(), middleware.CallerFromContext(c))
	if err != nil {
		respondError(c, err, "fetch profile")
		return
	}

	response.OK(c, ProfileResponse{
		ID:       user.ID,
		Username: user.Username,
		FullName: user.FullName,
		Address:  user.Address,
	})
}

package handler

import (
	"net/http"
	"time"

	"solafi-wallet-core/internal/adapter/http/dto"
	"solafi-wallet-core/internal/adapter/http/middleware"
	"solafi-wallet-core/internal/core/domain"
	"solafi-wallet-core/internal/core/ports"
	"solafi-wallet-core/pkg/apperror"
	"solafi-wallet-core/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles authentication and profile endpoints.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.authSvc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.RegisterResponse{
		AccountID:     result.Account.ID.String(),
		Email:         result.Account.Email,
		WalletAddress: result.WalletAddress,
		Session:       toSessionResponse(result.Session),
	})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	session, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toSessionResponse(session))
}

// Logout handles POST /api/v1/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authSvc.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"logged_out": true})
}

// Session handles GET /api/v1/auth/session.
func (h *AuthHandler) Session(c *gin.Context) {
	session, found, err := h.authSvc.CurrentSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	if !found {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	response.OK(c, toSessionResponse(session))
}

// ResetPassword handles POST /api/v1/auth/reset-password.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	if err := h.authSvc.ResetPassword(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"reset_requested": true})
}

// Profile handles GET /api/v1/profile/me.
func (h *AuthHandler) Profile(c *gin.Context) {
	accountID, ok := contextAccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	profile, err := h.authSvc.GetProfile(c.Request.Context(), accountID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ProfileResponse{
		AccountID:     profile.AccountID.String(),
		Email:         profile.Email,
		WalletAddress: profile.WalletAddress,
		CreatedAt:     profile.CreatedAt.Format(time.RFC3339),
		LastLoginAt:   profile.LastLoginAt.Format(time.RFC3339),
	})
}

// ReassociateWallet handles PUT /api/v1/profile/wallet.
func (h *AuthHandler) ReassociateWallet(c *gin.Context) {
	accountID, ok := contextAccountID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.ReassociateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	if err := h.authSvc.ReassociateWallet(c.Request.Context(), accountID, req.WalletAddress); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"wallet_address": req.WalletAddress})
}

// HealthCheck handles GET /health — deep health check verifying all dependencies.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}

func toSessionResponse(s *domain.Session) dto.SessionResponse {
	return dto.SessionResponse{
		AccountID: s.AccountID.String(),
		Email:     s.Email,
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt.Format(time.RFC3339),
	}
}

func contextAccountID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(middleware.CtxAccountID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

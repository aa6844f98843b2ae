package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/btech-hub/backend/internal/config"
	"github.com/btech-hub/backend/internal/service"
	"github.com/btech-hub/backend/pkg/auth"
)

// @title B-Tech Hub API
// @version 1.0
// @description Student portal onboarding: email verification codes, signup and password recovery.

// @BasePath /api/v1

// @securityDefinitions.apikey UserAuth
// @in header
// @name Authorization

type Handler struct {
	services     *service.Services
	tokenManager auth.TokenManager
	config       *config.Config
}

func NewHandler(
	services *service.Services,
	tokenManager auth.TokenManager,
	config *config.Config,
) *Handler {
	return &Handler{
		services:     services,
		tokenManager: tokenManager,
		config:       config,
	}
}

func (h *Handler) Init(api *gin.RouterGroup) {
	v1 := api.Group("v1")

	h.initOTPRoutes(v1)
	h.initSignupRoutes(v1)
	h.initAuthRoutes(v1)
	h.initUsersRoutes(v1)
}

package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) initAuthRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	auth.POST("/login", h.login)
	auth.POST("/refresh", h.refresh)
	auth.POST("/logout", h.logout)
	auth.POST("/recovery/confirm", h.confirmRecovery)
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userAuthResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken uuid.UUID `json:"refresh_token"`
} // @name UserAuthResponse

// @Summary Sign in
// @Tags Auth
// @ModuleID login
// @Accept  json
// @Produce  json
// @Param input body loginInput true "credentials"
// @Success 200 {object} userAuthResponse
// @Failure 400 {object} ValidationErrorStruct
// @Failure 401 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /auth/login [post]
func (h *Handler) login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	tokens, err := h.services.Identity.SignIn(c.Request.Context(), input.Email, input.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, userAuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

type refreshTokenInput struct {
	RefreshToken uuid.UUID `json:"refresh_token" binding:"required"`
}

// @Summary Refresh tokens
// @Tags Auth
// @Description Spends the refresh token and returns a new token pair
// @ModuleID refresh
// @Accept  json
// @Produce  json
// @Param input body refreshTokenInput true "refresh token"
// @Success 200 {object} userAuthResponse
// @Failure 400 {object} ValidationErrorStruct
// @Failure 401 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /auth/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	var input refreshTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	tokens, err := h.services.Identity.Refresh(c.Request.Context(), input.RefreshToken, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, userAuthResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

// @Summary Sign out
// @Tags Auth
// @Description Revokes the refresh session
// @ModuleID logout
// @Accept  json
// @Param input body refreshTokenInput true "refresh token"
// @Success 204
// @Failure 400 {object} ValidationErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /auth/logout [post]
func (h *Handler) logout(c *gin.Context) {
	var input refreshTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Identity.SignOut(c.Request.Context(), input.RefreshToken); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type confirmRecoveryInput struct {
	Email    string `json:"email" binding:"required,email"`
	Code     string `json:"code" binding:"required,otpcode"`
	Password string `json:"password" binding:"required,max=72"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// @Summary Reset password
// @Tags Auth
// @Description Spends a recovery code and sets a new password
// @ModuleID confirmRecovery
// @Accept  json
// @Produce  json
// @Param input body confirmRecoveryInput true "email, code and new password"
// @Success 200 {object} messageResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /auth/recovery/confirm [post]
func (h *Handler) confirmRecovery(c *gin.Context) {
	var input confirmRecoveryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.Recovery.Confirm(c.Request.Context(), input.Email, input.Code, input.Password); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, messageResponse{Message: "Password updated"})
}

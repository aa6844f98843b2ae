package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/btech-hub/backend/internal/domain"
	"github.com/btech-hub/backend/internal/service"
)

const (
	codeSentMessage    = "OTP sent successfully"
	codeNotSentMessage = "OTP generated but the email could not be delivered"
)

func (h *Handler) initOTPRoutes(api *gin.RouterGroup) {
	otp := api.Group("/auth/otp")
	otp.POST("", h.issueCode)
	otp.POST("/verify", h.verifyCode)
}

type issueCodeInput struct {
	Email string             `json:"email" binding:"required,email"`
	Type  domain.CodePurpose `json:"type" binding:"required,oneof=signup recovery"`
}

type issueCodeResponse struct {
	Message    string `json:"message"`
	EmailSent  bool   `json:"email_sent"`
	EmailError string `json:"email_error,omitempty"`
	DebugCode  string `json:"debug_code,omitempty"`
} // @name IssueCodeResponse

func newIssueCodeResponse(res *service.IssueResult) issueCodeResponse {
	out := issueCodeResponse{
		Message:   codeSentMessage,
		EmailSent: res.Sent,
		DebugCode: res.DebugCode,
	}
	if !res.Sent {
		out.Message = codeNotSentMessage
		out.EmailError = deliveryNotice(res.DeliveryError)
	}
	return out
}

// deliveryNotice hides transport detail, the notifier has already logged the cause.
func deliveryNotice(err error) string {
	if errors.Is(err, service.ErrEmailDisabled) {
		return service.ErrEmailDisabled.Error()
	}
	return service.ErrDeliveryFailed.Error()
}

// @Summary Issue verification code
// @Tags OTP
// @Description Stores a new code for the address and tries to email it
// @ModuleID issueCode
// @Accept  json
// @Produce  json
// @Param input body issueCodeInput true "email and purpose"
// @Success 200 {object} issueCodeResponse
// @Failure 400 {object} ValidationErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /auth/otp [post]
func (h *Handler) issueCode(c *gin.Context) {
	var input issueCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	res, err := h.services.OTP.Issue(c.Request.Context(), input.Email, input.Type)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, newIssueCodeResponse(res))
}

type verifyCodeInput struct {
	Email string             `json:"email" binding:"required,email"`
	Type  domain.CodePurpose `json:"type" binding:"required,oneof=signup recovery"`
	Code  string             `json:"code" binding:"required,otpcode"`
}

type verifyCodeResponse struct {
	Valid bool `json:"valid"`
}

// @Summary Verify code
// @Tags OTP
// @Description Spends a code, each code is accepted once
// @ModuleID verifyCode
// @Accept  json
// @Produce  json
// @Param input body verifyCodeInput true "email, purpose and code"
// @Success 200 {object} verifyCodeResponse
// @Failure 400 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /auth/otp/verify [post]
func (h *Handler) verifyCode(c *gin.Context) {
	var input verifyCodeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	if err := h.services.OTP.Verify(c.Request.Context(), input.Email, input.Type, input.Code); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, verifyCodeResponse{Valid: true})
}

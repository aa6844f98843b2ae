package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/btech-hub/backend/internal/domain"
	"github.com/btech-hub/backend/internal/service"
)

func (h *Handler) initSignupRoutes(api *gin.RouterGroup) {
	signup := api.Group("/signup")
	signup.POST("", h.startSignup)
	signup.GET("/:id", h.signupStatus)
	signup.POST("/:id/verify", h.verifySignup)
	signup.POST("/:id/resend", h.resendSignupCode)
	signup.DELETE("/:id", h.cancelSignup)
}

type startSignupInput struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,max=72"`
	FullName    string `json:"full_name" binding:"required,max=255"`
	Course      string `json:"course" binding:"omitempty,max=128"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,phonenumber"`
	Year        string `json:"year" binding:"omitempty,max=16"`
	Semester    string `json:"semester" binding:"omitempty,max=16"`
}

type signupStatusResponse struct {
	SignupID          uuid.UUID          `json:"signup_id"`
	State             domain.SignupState `json:"state"`
	Email             string             `json:"email"`
	ResendAvailableIn int                `json:"resend_available_in"`
} // @name SignupStatusResponse

type signupStepResponse struct {
	signupStatusResponse
	issueCodeResponse
} // @name SignupStepResponse

func newSignupStatusResponse(step *service.SignupStep) signupStatusResponse {
	return signupStatusResponse{
		SignupID:          step.SignupID,
		State:             step.State,
		Email:             step.Email,
		ResendAvailableIn: ceilSeconds(step.ResendAvailableIn),
	}
}

func newSignupStepResponse(step *service.SignupStep) signupStepResponse {
	return signupStepResponse{
		signupStatusResponse: newSignupStatusResponse(step),
		issueCodeResponse:    newIssueCodeResponse(step.Issue),
	}
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

// @Summary Start signup
// @Tags Signup
// @Description Validates the profile and emails a signup code
// @ModuleID startSignup
// @Accept  json
// @Produce  json
// @Param input body startSignupInput true "signup form"
// @Success 200 {object} signupStepResponse
// @Failure 400 {object} ValidationErrorStruct
// @Failure 409 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /signup [post]
func (h *Handler) startSignup(c *gin.Context) {
	var input startSignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	step, err := h.services.Signup.Start(c.Request.Context(), service.SignupInput{
		Email:    input.Email,
		Password: input.Password,
		Profile: domain.Profile{
			FullName:    input.FullName,
			Course:      input.Course,
			PhoneNumber: input.PhoneNumber,
			Year:        input.Year,
			Semester:    input.Semester,
		},
	})
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, newSignupStepResponse(step))
}

// @Summary Signup status
// @Tags Signup
// @ModuleID signupStatus
// @Produce  json
// @Param id path string true "signup id"
// @Success 200 {object} signupStatusResponse
// @Failure 400 {object} ErrorStruct
// @Failure 410 {object} ErrorStruct
// @Router /signup/{id} [get]
func (h *Handler) signupStatus(c *gin.Context) {
	signupID, ok := parseSignupID(c)
	if !ok {
		return
	}

	step, err := h.services.Signup.Status(c.Request.Context(), signupID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, newSignupStatusResponse(step))
}

type verifySignupInput struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,otpcode"`
}

type signupCompletedResponse struct {
	State        domain.SignupState `json:"state"`
	UserID       uuid.UUID          `json:"user_id"`
	AccessToken  string             `json:"access_token"`
	RefreshToken uuid.UUID          `json:"refresh_token"`
} // @name SignupCompletedResponse

// @Summary Verify signup code
// @Tags Signup
// @Description Spends the code and creates the account
// @ModuleID verifySignup
// @Accept  json
// @Produce  json
// @Param id path string true "signup id"
// @Param input body verifySignupInput true "email and code"
// @Success 200 {object} signupCompletedResponse
// @Failure 400 {object} ErrorStruct
// @Failure 409 {object} ErrorStruct
// @Failure 410 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /signup/{id}/verify [post]
func (h *Handler) verifySignup(c *gin.Context) {
	signupID, ok := parseSignupID(c)
	if !ok {
		return
	}

	var input verifySignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationErrorResponse(c, err)
		return
	}

	done, err := h.services.Signup.Verify(c.Request.Context(), signupID, input.Email, input.Code, service.SessionMeta{
		UserAgent: c.Request.UserAgent(),
		IP:        c.ClientIP(),
	})
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, signupCompletedResponse{
		State:        done.State,
		UserID:       done.User.ID,
		AccessToken:  done.Tokens.AccessToken,
		RefreshToken: done.Tokens.RefreshToken,
	})
}

// @Summary Resend signup code
// @Tags Signup
// @Description Issues another code, earlier codes stay valid until they expire
// @ModuleID resendSignupCode
// @Produce  json
// @Param id path string true "signup id"
// @Success 200 {object} signupStepResponse
// @Failure 410 {object} ErrorStruct
// @Failure 500 {object} ErrorStruct
// @Router /signup/{id}/resend [post]
func (h *Handler) resendSignupCode(c *gin.Context) {
	signupID, ok := parseSignupID(c)
	if !ok {
		return
	}

	step, err := h.services.Signup.Resend(c.Request.Context(), signupID)
	if err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, newSignupStepResponse(step))
}

// @Summary Cancel signup
// @Tags Signup
// @ModuleID cancelSignup
// @Param id path string true "signup id"
// @Success 204
// @Failure 500 {object} ErrorStruct
// @Router /signup/{id} [delete]
func (h *Handler) cancelSignup(c *gin.Context) {
	signupID, ok := parseSignupID(c)
	if !ok {
		return
	}

	if err := h.services.Signup.Cancel(c.Request.Context(), signupID); err != nil {
		serviceErrorResponse(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseSignupID(c *gin.Context) (uuid.UUID, bool) {
	signupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		errorResponse(c, http.StatusBadRequest, InvalidSignupIDCode)
		return uuid.Nil, false
	}
	return signupID, true
}

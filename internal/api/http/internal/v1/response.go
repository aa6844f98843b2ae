package v1

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/btech-hub/backend/internal/service"
	"github.com/btech-hub/backend/pkg/logger"
)

func errorResponse(c *gin.Context, status int, code ErrorCode) {
	c.AbortWithStatusJSON(status, getErrorStruct(code))
}

func validationErrorResponse(c *gin.Context, err error) {
	response := ValidationErrorStruct{
		ErrorCode:    ValidationErrorCode,
		ErrorMessage: ValidationErrorMessage,
	}

	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		out := make([]ValidationError, len(verr))
		for i, ferr := range verr {
			out[i] = ValidationError{ferr.Field(), msgForTag(ferr.Tag(), ferr.Param())}
		}
		response.Errors = out
	} else {
		response.ErrorMessage = "invalid request body"
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, response)
}

// serviceErrorResponse maps the service error taxonomy onto HTTP statuses.
func serviceErrorResponse(c *gin.Context, err error) {
	var verr *service.ValidationError

	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorStruct{
			ErrorCode:    ValidationErrorCode,
			ErrorMessage: verr.Error(),
			Errors:       []ValidationError{{verr.Field, verr.Reason}},
		})
	case errors.Is(err, service.ErrInvalidOrExpiredCode):
		errorResponse(c, http.StatusBadRequest, InvalidOrExpiredCodeCode)
	case errors.Is(err, service.ErrSessionExpired):
		errorResponse(c, http.StatusGone, SignupExpiredCode)
	case errors.Is(err, service.ErrUserAlreadyExist):
		errorResponse(c, http.StatusConflict, UserAlreadyExistsCode)
	case errors.Is(err, service.ErrInvalidCredentials):
		errorResponse(c, http.StatusUnauthorized, InvalidCredentialsCode)
	case errors.Is(err, service.ErrInvalidRefreshToken):
		errorResponse(c, http.StatusUnauthorized, InvalidRefreshTokenCode)
	case errors.Is(err, service.ErrUserNotFound):
		errorResponse(c, http.StatusNotFound, UserNotFoundCode)
	default:
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		errorResponse(c, http.StatusInternalServerError, UnknownErrorCode)
	}
}

func msgForTag(tag string, value string) string {
	switch tag {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "number", "numeric":
		return "This field must be numeric"
	case "min":
		return fmt.Sprintf("Minimum length is %v", value)
	case "max":
		return fmt.Sprintf("Maximum length is %v", value)
	case "oneof":
		return fmt.Sprintf("Must be one of: %v", value)
	case "phonenumber":
		return "Phone number must have 10 to 15 digits with an optional leading +"
	case "otpcode":
		return "Code must contain digits only"
	}
	return tag
}

package v1

// Errors
const (
	UnknownErrorCode    = 0
	UnknownErrorMessage = "Internal server error"

	UserAlreadyExistsCode       = 1001
	UserAlreadyExistsMessage    = "user already exists"
	UserNotFoundCode            = 1002
	UserNotFoundMessage         = "user not found"
	InvalidCredentialsCode      = 1003
	InvalidCredentialsMessage   = "invalid email or password"
	InvalidOrExpiredCodeCode    = 1004
	InvalidOrExpiredCodeMessage = "invalid or expired verification code"
	SignupExpiredCode           = 1005
	SignupExpiredMessage        = "signup session expired, please start again"
	InvalidSignupIDCode         = 1006
	InvalidSignupIDMessage      = "invalid signup id"
	InvalidRefreshTokenCode     = 1007
	InvalidRefreshTokenMessage  = "invalid or expired refresh token"

	ValidationErrorCode    = 6000
	ValidationErrorMessage = "Validation error"
)

type ErrorCode int
type ErrorMessage string

type ErrorStruct struct {
	ErrorCode    `json:"error_code"`
	ErrorMessage `json:"error"`
} // @name ErrorStruct

type ValidationErrorStruct struct {
	ErrorCode    int               `json:"error_code"`
	ErrorMessage string            `json:"error"`
	Errors       []ValidationError `json:"validation_errors,omitempty"`
} // @name ValidationErrorStruct

type ValidationError struct {
	FieldKey     string `json:"field_key"`
	ErrorMessage string `json:"error_message"`
}

func getErrorStruct(code ErrorCode) *ErrorStruct {
	errorStruct := &ErrorStruct{
		ErrorCode:    UnknownErrorCode,
		ErrorMessage: UnknownErrorMessage,
	}

	switch code {
	case UserAlreadyExistsCode:
		errorStruct.ErrorCode = UserAlreadyExistsCode
		errorStruct.ErrorMessage = UserAlreadyExistsMessage
	case UserNotFoundCode:
		errorStruct.ErrorCode = UserNotFoundCode
		errorStruct.ErrorMessage = UserNotFoundMessage
	case InvalidCredentialsCode:
		errorStruct.ErrorCode = InvalidCredentialsCode
		errorStruct.ErrorMessage = InvalidCredentialsMessage
	case InvalidOrExpiredCodeCode:
		errorStruct.ErrorCode = InvalidOrExpiredCodeCode
		errorStruct.ErrorMessage = InvalidOrExpiredCodeMessage
	case SignupExpiredCode:
		errorStruct.ErrorCode = SignupExpiredCode
		errorStruct.ErrorMessage = SignupExpiredMessage
	case InvalidSignupIDCode:
		errorStruct.ErrorCode = InvalidSignupIDCode
		errorStruct.ErrorMessage = InvalidSignupIDMessage
	case InvalidRefreshTokenCode:
		errorStruct.ErrorCode = InvalidRefreshTokenCode
		errorStruct.ErrorMessage = InvalidRefreshTokenMessage
	}

	return errorStruct
}

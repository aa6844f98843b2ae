package validator

import (
	"log"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/btech-hub/backend/pkg/otp"
)

var phoneNumberRegexp = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

func RegisterGinValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := Register(v); err != nil {
			log.Fatalf("register validators failed: %s", err)
		}
	}
}

// Register installs json field naming and the custom tags used by request models.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("phonenumber", phoneNumberValidator); err != nil {
		return err
	}
	return v.RegisterValidation("otpcode", otpCodeValidator)
}

var phoneNumberValidator validator.Func = func(fl validator.FieldLevel) bool {
	return phoneNumberRegexp.MatchString(fl.Field().String())
}

// otpcode checks the shape only, the configured length is enforced by the OTP service.
var otpCodeValidator validator.Func = func(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	return len(code) >= otp.MinLength && len(code) <= otp.MaxLength && otp.IsNumeric(code, len(code))
}

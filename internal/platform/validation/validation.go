package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// Register installs the gstin and pan validation tags on Gin's binding
// engine. Must run once before any routes are served.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("gstin", validGSTIN); err != nil {
		return err
	}
	return v.RegisterValidation("pan", validPAN)
}

func validGSTIN(fl validator.FieldLevel) bool {
	return gstinPattern.MatchString(fl.Field().String())
}

func validPAN(fl validator.FieldLevel) bool {
	return panPattern.MatchString(fl.Field().String())
}

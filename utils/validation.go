package utils

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	mobilePattern = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	registerOnce  sync.Once
)

// IsMobileNumber accepts an optional leading + and 7 to 15 digits.
// Spaces, dashes, dots and parentheses are ignored.
func IsMobileNumber(s string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "").Replace(s)
	return mobilePattern.MatchString(cleaned)
}

// RegisterValidators adds the custom binding tags to gin's validator.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return IsMobileNumber(fl.Field().String())
		})
	})
}

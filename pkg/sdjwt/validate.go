package sdjwt

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newStructValidator builds a validator.Validate that reads the "json" tag
// for field names in error messages, matching the teacher's
// helpers.NewValidator (pkg/helpers.NewValidator) tag-name registration.
func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the package's `validate` struct tags (see
// VerificationOptions.AllowedClockSkew and CredentialOptions.DecoyDigests)
// and reports the first violation as a KindInvalidInput *Error, generalizing
// the teacher's helpers.CheckSimple off its ctx/cfg-bearing Check into a
// dependency-free call usable from defaultVerificationOptions/
// defaultCredentialOptions.
func validateStruct(s any) error {
	if err := newStructValidator().Struct(s); err != nil {
		return WrapError(KindInvalidInput, "option validation failed", err)
	}
	return nil
}

// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type phoneHolder struct {
	Phone string `validate:"required,il_phone"`
}

func TestILPhoneValidation(t *testing.T) {
	assert.Empty(t, ValidateStruct(phoneHolder{Phone: "0521234567"}))

	for _, phone := range []string{"052123456", "05212345678", "0621234567", "+972521234567", "abc"} {
		errs := ValidateStruct(phoneHolder{Phone: phone})
		assert.NotEmpty(t, errs, "expected %q to be rejected", phone)
	}
}

type rangeHolder struct {
	Name string `validate:"required,min=2,max=5"`
}

func TestValidationMessages(t *testing.T) {
	errs := ValidateStruct(rangeHolder{})
	if assert.Len(t, errs, 1) {
		assert.Equal(t, "name", errs[0].Field)
		assert.Contains(t, errs[0].Message, "required")
	}

	errs = ValidateStruct(rangeHolder{Name: "a"})
	if assert.Len(t, errs, 1) {
		assert.Contains(t, errs[0].Message, "at least 2")
	}
}

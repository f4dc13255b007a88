package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/care-portal-api/pkg/errors"
)

type contactForm struct {
	Name  string `json:"contact_person" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

func TestValidate_ReportsJSONNames(t *testing.T) {
	err := New().Validate(contactForm{Name: "Dr. Rao", Email: "not-an-email"})
	require.Error(t, err)

	assert.True(t, apperrors.Is(err, apperrors.KindValidation))
	assert.Contains(t, err.Error(), "email must be a valid email")
	assert.Contains(t, err.Error(), "phone is required")
}

func TestValidate_OK(t *testing.T) {
	err := New().Validate(&contactForm{Name: "Dr. Rao", Email: "rao@example.com", Phone: "+91 98450 00000"})
	assert.NoError(t, err)
}

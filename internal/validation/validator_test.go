package validation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/inkwellapp/inkwell-server/internal/errors"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

type testRequest struct {
	Email string `json:"email" validate:"required,email"`
	Title string `json:"title" validate:"required,max=200"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := testRequest{
		Email: "test@example.com",
		Title: "A Fine Post",
	}

	assert.NoError(t, v.Validate(req))
}

func TestValidator_MissingRequired(t *testing.T) {
	v := validation.New()

	err := v.Validate(testRequest{Email: "test@example.com"})
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrValidation))

	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	details, ok := derr.Details.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["title"])
}

func TestValidator_InvalidEmail(t *testing.T) {
	v := validation.New()

	err := v.Validate(testRequest{Email: "not-an-email", Title: "Post"})
	require.Error(t, err)

	var derr *domainerrors.Error
	require.True(t, errors.As(err, &derr))
	details, ok := derr.Details.(map[string]string)
	require.True(t, ok)
	// Field names come from JSON tags, not Go names
	assert.Equal(t, "must be a valid email address", details["email"])
}

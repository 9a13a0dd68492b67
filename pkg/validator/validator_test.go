package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mergington/pkg/validator"
)

type enrollInput struct {
	Email string `validate:"required"`
}

type capacityInput struct {
	MaxParticipants int `validate:"positive"`
}

func TestValidateRequired(t *testing.T) {
	err := validator.Validate(context.Background(), enrollInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), validator.ErrFieldRequired)

	assert.NoError(t, validator.Validate(context.Background(), enrollInput{Email: "a@mergington.edu"}))
}

func TestValidatePositive(t *testing.T) {
	err := validator.Validate(context.Background(), capacityInput{MaxParticipants: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Value must be positive")

	assert.NoError(t, validator.Validate(context.Background(), capacityInput{MaxParticipants: 12}))
}

package services

import (
	"testing"

	"clubhouse/internal/models/dtos/requests"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormValidator_Messages(t *testing.T) {
	v := NewFormValidator()

	err := v.Validate(requests.EquipmentRequest{Quantity: -1})
	require.ErrorIs(t, err, ErrValidation)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Name is required.", verr.Field("name"))
	assert.Equal(t, "Quantity must be at least 0.", verr.Field("quantity"))
	assert.Contains(t, verr.Summary(), "Brand is required.")

	msg, ok := UserMessage(err)
	assert.True(t, ok)
	assert.Equal(t, verr.Summary(), msg)
}

func TestFormValidator_CustomRules(t *testing.T) {
	v := NewFormValidator()

	err := v.Validate(requests.RegisterMemberRequest{Name: "n", Email: "a@b.co", Username: "bad name!", Password: "secret1"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Field("username"), "may only contain")

	for _, date := range []string{"2030-05-01", "2030-05-01T18:30"} {
		assert.NoError(t, v.Validate(requests.EventRequest{Title: "t", Description: "d", EventDate: date, Location: "l"}), date)
	}
	assert.Error(t, v.Validate(requests.EventRequest{Title: "t", Description: "d", EventDate: "May 1", Location: "l"}))
}

func TestUserMessageHidesInternalErrors(t *testing.T) {
	_, ok := UserMessage(ErrInsufficientStock)
	assert.False(t, ok)

	msg, ok := UserMessage(conflict("taken"))
	assert.True(t, ok)
	assert.Equal(t, "taken", msg)
}

package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Status string  `json:"status" validate:"required,oneof=resolved dismissed"`
	Notes  string  `json:"resolution_notes" validate:"max=5"`
	Title  *string `json:"title" validate:"omitempty,max=3"`
}

func TestStructUsesJSONNames(t *testing.T) {
	err := Struct(&sample{Notes: "too long"})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "status is required")
		assert.Contains(t, err.Error(), "resolution_notes must be at most 5 characters long")
	}
}

func TestStructOneOf(t *testing.T) {
	err := Struct(&sample{Status: "pending"})
	assert.EqualError(t, err, "status must be one of: resolved, dismissed")
}

func TestStructValid(t *testing.T) {
	title := "abc"
	assert.NoError(t, Struct(&sample{Status: "dismissed", Title: &title}))
	assert.NoError(t, Struct(&sample{Status: "resolved"}))
}

// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longboxhq/longbox/internal/platform/apperr"
	"github.com/longboxhq/longbox/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Longbox", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				appError := apperr.As(err)
				require.NotNil(t, appError)
				assert.Equal(t, "VALIDATION_ERROR", appError.Code)
				require.Len(t, appError.Details, 1)
				assert.Equal(t, tt.field, appError.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.NoError(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Chaining verifies multiple failures accumulate into one error.
*/
func TestValidator_Chaining(t *testing.T) {
	v := &validate.Validator{}
	v.Required("name", "").
		Range("workers", 99, 1, 16).
		UUID("root_id", "not-a-uuid")

	err := v.Err()
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Len(t, appError.Details, 3)
}

/*
TestValidator_AbsolutePath covers the library root path rule.
*/
func TestValidator_AbsolutePath(t *testing.T) {
	valid := &validate.Validator{}
	valid.AbsolutePath("path", "/srv/comics")
	assert.NoError(t, valid.Err())

	invalid := &validate.Validator{}
	invalid.AbsolutePath("path", "comics/incoming")
	assert.Error(t, invalid.Err())
}

/*
TestValidator_OneOf covers membership checks used for enum-like inputs.
*/
func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("mode", "manga", "standard", "manga")
	assert.NoError(t, v.Err())

	v2 := &validate.Validator{}
	v2.OneOf("mode", "sideways", "standard", "manga")
	assert.Error(t, v2.Err())
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/usergroups/internal/platform/apperr"
	"github.com/taibuivan/usergroups/internal/platform/validate"
)

/*
TestValidator_Custom tests error accumulation in the chain.
*/
func TestValidator_Custom(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		details int
	}{
		{"within_bounds", 20, 0},
		{"empty", 0, 1},
		{"oversized", 501, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			err := v.
				Custom("users", tt.size == 0, "At least one user status update is required").
				Custom("users", tt.size > 500, "Maximum 500 users can be updated at once").
				Err()

			if tt.details == 0 {
				assert.NoError(t, err)
				return
			}

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Len(t, ae.Details, tt.details)
			assert.Equal(t, "users", ae.Details[0].Field)
		})
	}
}

/*
TestRequiredError builds a single-field validation error.
*/
func TestRequiredError(t *testing.T) {
	ae := validate.RequiredError("groupID", "Must be a positive integer")

	assert.Equal(t, apperr.CodeValidation, ae.Code)
	assert.Equal(t, []apperr.FieldError{{Field: "groupID", Message: "Must be a positive integer"}}, ae.Details)
}

type statusEntry struct {
	UserID int64  `json:"userId" validate:"gt=0"`
	Status string `json:"status" validate:"required,oneof=pending active blocked"`
}

type statusBatch struct {
	Users []statusEntry `json:"users" validate:"required,dive"`
}

/*
TestStruct_Valid accepts a well-formed batch.
*/
func TestStruct_Valid(t *testing.T) {
	batch := statusBatch{Users: []statusEntry{{UserID: 1, Status: "active"}, {UserID: 2, Status: "blocked"}}}

	assert.NoError(t, validate.Struct(batch))
}

/*
TestStruct_FieldPaths reports json field paths including slice positions.
*/
func TestStruct_FieldPaths(t *testing.T) {
	batch := statusBatch{Users: []statusEntry{
		{UserID: 1, Status: "active"},
		{UserID: 0, Status: "deleted"},
	}}

	ae := apperr.As(validate.Struct(batch))
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 2)

	fields := []string{ae.Details[0].Field, ae.Details[1].Field}
	assert.ElementsMatch(t, []string{"users[1].userId", "users[1].status"}, fields)
}

/*
TestStruct_MissingList flags an absent users array.
*/
func TestStruct_MissingList(t *testing.T) {
	ae := apperr.As(validate.Struct(statusBatch{}))
	require.NotNil(t, ae)
	assert.Equal(t, "users", ae.Details[0].Field)
}

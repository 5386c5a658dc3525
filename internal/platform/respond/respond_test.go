// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/usergroups/internal/platform/apperr"
	"github.com/taibuivan/usergroups/internal/platform/respond"
	"github.com/taibuivan/usergroups/pkg/pagination"
)

/*
TestError_StatusMapping checks the HTTP status and envelope for each error class.
*/
func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		body   string
	}{
		{"validation", apperr.ValidationError("Validation failed"), http.StatusBadRequest, apperr.CodeValidation, "Validation failed"},
		{"not_found", apperr.NotFoundMessage("User 7 is not a member of group 3"), http.StatusNotFound, apperr.CodeNotFound, "User 7 is not a member of group 3"},
		{"plain_error", errors.New("connection refused"), http.StatusInternalServerError, apperr.CodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest(http.MethodGet, "/", nil)

			respond.Error(recorder, request, tt.err)

			assert.Equal(t, tt.status, recorder.Code)

			var envelope respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, tt.code, envelope.Code)
			assert.Equal(t, tt.body, envelope.Error)
		})
	}
}

/*
TestPaginated writes data alongside the meta block.
*/
func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()

	respond.Paginated(recorder, []int{1, 2}, pagination.Meta{Total: 12, Limit: 2, Offset: 0})

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":[1,2],"meta":{"total":12,"limit":2,"offset":0}}`, recorder.Body.String())
}

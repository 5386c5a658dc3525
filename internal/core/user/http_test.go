// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user_test

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/usergroups/internal/core/user"
)

func patchStatuses(service *user.Service, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPatch, "/statuses", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	user.NewHandler(service).Routes().ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_UpdateStatuses runs the bulk update end to end.
*/
func TestHandler_UpdateStatuses(t *testing.T) {
	service, mock := newService(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CASE id WHEN $1 THEN $2 WHEN $3 THEN $4 END")).
		WithArgs(int64(1), "active", int64(2), "blocked").
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	mock.ExpectCommit()

	recorder := patchStatuses(service, `{"users":[{"userId":1,"status":"active"},{"userId":2,"status":"blocked"}]}`)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"message":"Successfully updated 2 users","count":2}}`, recorder.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestHandler_UpdateStatuses_Rejected covers shape failures that never reach the store.
*/
func TestHandler_UpdateStatuses_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"empty_list", `{"users":[]}`, "users"},
		{"missing_list", `{}`, "users"},
		{"unknown_status", `{"users":[{"userId":1,"status":"deleted"}]}`, "users[0].status"},
		{"zero_id", `{"users":[{"userId":0,"status":"active"}]}`, "users[0].userId"},
		{"negative_id", `{"users":[{"userId":1,"status":"active"},{"userId":-4,"status":"active"}]}`, "users[1].userId"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mock := newService(t)

			recorder := patchStatuses(service, tt.body)

			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"field":"`+tt.field+`"`)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

/*
TestHandler_UpdateStatuses_Oversized rejects 501 entries.
*/
func TestHandler_UpdateStatuses_Oversized(t *testing.T) {
	service, mock := newService(t)

	entries := make([]string, user.MaxBatchSize+1)
	for index := range entries {
		entries[index] = `{"userId":1,"status":"active"}`
	}

	recorder := patchStatuses(service, `{"users":[`+strings.Join(entries, ",")+`]}`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Maximum 500 users can be updated at once")
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestHandler_ListUsers applies the default window.
*/
func TestHandler_ListUsers(t *testing.T) {
	service, mock := newService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users`).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`FROM users\s+ORDER BY id ASC`).
		WithArgs(10, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "status", "created_at"}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	recorder := httptest.NewRecorder()
	user.NewHandler(service).Routes().ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":[],"meta":{"total":0,"limit":10,"offset":0}}`, recorder.Body.String())
}

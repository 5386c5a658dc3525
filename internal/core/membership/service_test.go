// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/usergroups/internal/core/group"
	"github.com/taibuivan/usergroups/internal/core/membership"
	"github.com/taibuivan/usergroups/internal/platform/apperr"
	"github.com/taibuivan/usergroups/internal/platform/postgres"
)

const (
	existsQuery = `SELECT 1\s+FROM user_groups ug\s+JOIN users u ON u.id = ug.user_id\s+JOIN groups g ON g.id = ug.group_id\s+WHERE ug.user_id = \$1 AND ug.group_id = \$2\s+FOR UPDATE OF g`
	deleteQuery = `DELETE FROM user_groups WHERE user_id = \$1 AND group_id = \$2`
	countQuery  = `SELECT COUNT\(\*\) FROM user_groups WHERE group_id = \$1`
	statusQuery = `UPDATE groups SET status = \$2 WHERE id = \$1`
)

type fixture struct {
	service *membership.Service
	mock    pgxmock.PgxPoolIface
	redis   *miniredis.Miniredis
	log     *bytes.Buffer
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	server := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	buffer := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buffer, nil))
	transactor := postgres.NewTransactor(mock, logger)
	groups := group.NewService(group.NewPostgresRepository(mock), transactor, group.NewRedisCache(client, time.Minute), logger)
	service := membership.NewService(membership.NewPostgresRepository(mock), groups, transactor, logger)

	return fixture{service: service, mock: mock, redis: server, log: buffer}
}

func (f fixture) expectMember(userID, groupID int64) {
	f.mock.ExpectQuery(existsQuery).WithArgs(userID, groupID).WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
}

/*
TestRemove_LastMember empties the group in the same transaction.

Group 7 has exactly one member, user 3.
*/
func TestRemove_LastMember(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.redis.Set("groups:group:7", `{"id":7,"name":"Ops","status":"active"}`))

	f.mock.ExpectBegin()
	f.expectMember(3, 7)
	f.mock.ExpectExec(deleteQuery).WithArgs(int64(3), int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	f.mock.ExpectQuery(countQuery).WithArgs(int64(7)).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	f.mock.ExpectExec(statusQuery).WithArgs(int64(7), "empty").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.mock.ExpectCommit()

	result, err := f.service.Remove(context.Background(), 3, 7)

	require.NoError(t, err)
	assert.Equal(t, &membership.RemovalResult{Message: "User 3 removed from group 7", GroupStatus: group.StatusEmpty}, result)
	assert.False(t, f.redis.Exists("groups:group:7"), "cached group must be evicted after commit")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

/*
TestRemove_MembersRemain reports ACTIVE without writing the group status.

Group 9 has two members, users 4 and 5.
*/
func TestRemove_MembersRemain(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.redis.Set("groups:group:9", `{"id":9,"name":"Platform","status":"inactive"}`))

	f.mock.ExpectBegin()
	f.expectMember(4, 9)
	f.mock.ExpectExec(deleteQuery).WithArgs(int64(4), int64(9)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	f.mock.ExpectQuery(countQuery).WithArgs(int64(9)).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))
	f.mock.ExpectCommit()

	result, err := f.service.Remove(context.Background(), 4, 9)

	require.NoError(t, err)
	assert.Equal(t, group.StatusActive, result.GroupStatus)
	assert.Equal(t, "User 4 removed from group 9", result.Message)
	assert.True(t, f.redis.Exists("groups:group:9"), "status untouched, cache untouched")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

/*
TestRemove_NotMember rolls back before deleting anything.
*/
func TestRemove_NotMember(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(existsQuery).WithArgs(int64(3), int64(8)).WillReturnRows(pgxmock.NewRows([]string{"?column?"}))
	f.mock.ExpectRollback()

	result, err := f.service.Remove(context.Background(), 3, 8)

	assert.Nil(t, result)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeNotFound, ae.Code)
	assert.Equal(t, "User 3 is not a member of group 8", ae.Message)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

/*
TestRemove_LostRace treats a delete that removed nothing as NOT_FOUND.
*/
func TestRemove_LostRace(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	f.expectMember(3, 7)
	f.mock.ExpectExec(deleteQuery).WithArgs(int64(3), int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 0))
	f.mock.ExpectRollback()

	_, err := f.service.Remove(context.Background(), 3, 7)

	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

/*
TestRemove_StoreFailures rolls the whole workflow back at every step.
*/
func TestRemove_StoreFailures(t *testing.T) {
	storeErr := errors.New("connection reset by peer")

	tests := []struct {
		name   string
		expect func(f fixture)
	}{
		{
			name: "exists",
			expect: func(f fixture) {
				f.mock.ExpectQuery(existsQuery).WithArgs(int64(3), int64(7)).WillReturnError(storeErr)
			},
		},
		{
			name: "delete",
			expect: func(f fixture) {
				f.expectMember(3, 7)
				f.mock.ExpectExec(deleteQuery).WithArgs(int64(3), int64(7)).WillReturnError(storeErr)
			},
		},
		{
			name: "count",
			expect: func(f fixture) {
				f.expectMember(3, 7)
				f.mock.ExpectExec(deleteQuery).WithArgs(int64(3), int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
				f.mock.ExpectQuery(countQuery).WithArgs(int64(7)).WillReturnError(storeErr)
			},
		},
		{
			name: "set_empty",
			expect: func(f fixture) {
				f.expectMember(3, 7)
				f.mock.ExpectExec(deleteQuery).WithArgs(int64(3), int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
				f.mock.ExpectQuery(countQuery).WithArgs(int64(7)).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
				f.mock.ExpectExec(statusQuery).WithArgs(int64(7), "empty").WillReturnError(storeErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			require.NoError(t, f.redis.Set("groups:group:7", `{"id":7}`))

			f.mock.ExpectBegin()
			tt.expect(f)
			f.mock.ExpectRollback()

			result, err := f.service.Remove(context.Background(), 3, 7)

			assert.Nil(t, result)
			assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
			assert.ErrorIs(t, err, storeErr)
			assert.True(t, f.redis.Exists("groups:group:7"), "no eviction without a commit")
			assert.NoError(t, f.mock.ExpectationsWereMet())
		})
	}
}

/*
TestRemove_CommitFailure reports the failed commit and skips eviction.
*/
func TestRemove_CommitFailure(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.redis.Set("groups:group:7", `{"id":7}`))

	f.mock.ExpectBegin()
	f.expectMember(3, 7)
	f.mock.ExpectExec(deleteQuery).WithArgs(int64(3), int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	f.mock.ExpectQuery(countQuery).WithArgs(int64(7)).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	f.mock.ExpectExec(statusQuery).WithArgs(int64(7), "empty").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.mock.ExpectCommit().WillReturnError(errors.New("server closed the connection"))

	_, err := f.service.Remove(context.Background(), 3, 7)

	assert.True(t, apperr.HasCode(err, apperr.CodeInternal))
	assert.True(t, f.redis.Exists("groups:group:7"))
	assert.NotContains(t, f.log.String(), "group_status_set")
	assert.NotContains(t, f.log.String(), "membership_removed")
}

/*
TestRemove_LogsToServiceLogger stamps the removal line with both ids on the injected logger.
*/
func TestRemove_LogsToServiceLogger(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	f.expectMember(3, 7)
	f.mock.ExpectExec(deleteQuery).WithArgs(int64(3), int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	f.mock.ExpectQuery(countQuery).WithArgs(int64(7)).WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))
	f.mock.ExpectExec(statusQuery).WithArgs(int64(7), "empty").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	f.mock.ExpectCommit()

	_, err := f.service.Remove(context.Background(), 3, 7)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(f.log.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"msg":"group_status_set"`)
	assert.Contains(t, lines[1], `"msg":"membership_removed"`)
	assert.Contains(t, lines[1], `"user_id":3`)
	assert.Contains(t, lines[1], `"group_id":7`)
	assert.Contains(t, lines[1], `"group_status":"empty"`)
}

/*
TestRemove_LocksGroupRow checks that the existence query takes the group row lock.

Concurrent removals from one group serialise on that lock, so the member
count read after the delete is never stale.
*/
func TestRemove_LocksGroupRow(t *testing.T) {
	var statements []string
	matcher := pgxmock.QueryMatcherFunc(func(expected, actual string) error {
		statements = append(statements, actual)
		return pgxmock.QueryMatcherRegexp.Match(expected, actual)
	})

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(matcher))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	transactor := postgres.NewTransactor(mock, logger)
	service := membership.NewService(membership.NewPostgresRepository(mock), stubEngine{count: 1}, transactor, logger)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT 1`).WithArgs(int64(3), int64(7)).WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(`DELETE FROM user_groups`).WithArgs(int64(3), int64(7)).WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	_, err = service.Remove(context.Background(), 3, 7)
	require.NoError(t, err)

	require.NotEmpty(t, statements)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(statements[0]), "FOR UPDATE OF g"), statements[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

type stubEngine struct {
	count int
}

func (engine stubEngine) MemberCount(context.Context, int64) (int, error) { return engine.count, nil }

func (engine stubEngine) SetEmpty(context.Context, int64) error { return nil }

/*
TestRemove_InvalidIDs fails before opening a transaction.
*/
func TestRemove_InvalidIDs(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Remove(context.Background(), 0, -1)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 2)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"strconv"
	"strings"

	"github.com/taibuivan/usergroups/internal/platform/apperr"
	"github.com/taibuivan/usergroups/internal/platform/dberr"
	"github.com/taibuivan/usergroups/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository constructs a PostgreSQL backed user store.
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # User Retrieval

// List returns a page of users ordered by ascending id.
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*User, int, error) {
	db := postgres.Executor(context, repository.db)

	var total int
	if err := db.QueryRow(context, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	rows, err := db.Query(context, `
		SELECT id, name, email, status, created_at
		FROM users
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := make([]*User, 0, limit)
	for rows.Next() {
		user := &User{}
		if err := rows.Scan(&user.ID, &user.Name, &user.Email, &user.Status, &user.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}

	return users, total, nil
}

// FindByID retrieves a single user by its primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*User, error) {
	const query = `SELECT id, name, email, status, created_at FROM users WHERE id = $1`

	user := &User{}
	err := postgres.Executor(context, repository.db).QueryRow(context, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.Status, &user.CreatedAt,
	)
	if dberr.IsNoRows(err) {
		return nil, apperr.NotFound("User")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_user")
	}

	return user, nil
}

// ListGroups returns the groups of a user ordered by group id.
func (repository *PostgresRepository) ListGroups(context context.Context, id int64) ([]GroupRef, error) {
	const query = `
		SELECT g.id, g.name, g.status, g.created_at
		FROM user_groups ug
		JOIN groups g ON g.id = ug.group_id
		WHERE ug.user_id = $1
		ORDER BY g.id ASC
	`

	rows, err := postgres.Executor(context, repository.db).Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "list_user_groups")
	}
	defer rows.Close()

	groups := []GroupRef{}
	for rows.Next() {
		var group GroupRef
		if err := rows.Scan(&group.ID, &group.Name, &group.Status, &group.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_user_group")
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_user_groups")
	}

	return groups, nil
}

// # Bulk Status Update

// UpdateStatuses runs one keyed CASE update for the whole batch.
func (repository *PostgresRepository) UpdateStatuses(context context.Context, updates []StatusUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	query, args := buildStatusUpdate(updates)
	if _, err := postgres.Executor(context, repository.db).Exec(context, query, args...); err != nil {
		return dberr.Wrap(err, "update_user_statuses")
	}

	return nil
}

/*
buildStatusUpdate renders the single-statement bulk update.

	UPDATE users SET status = CASE id WHEN $1 THEN $2 WHEN $3 THEN $4 END
	WHERE id IN ($1, $3)

Each id is bound once and referenced from both the CASE and the IN list.
*/
func buildStatusUpdate(updates []StatusUpdate) (string, []any) {
	var cases, ids strings.Builder
	args := make([]any, 0, len(updates)*2)

	for index, update := range updates {
		idParam := "$" + strconv.Itoa(len(args)+1)
		statusParam := "$" + strconv.Itoa(len(args)+2)
		args = append(args, update.UserID, string(update.Status))

		cases.WriteString(" WHEN " + idParam + " THEN " + statusParam)
		if index > 0 {
			ids.WriteString(", ")
		}
		ids.WriteString(idParam)
	}

	query := "UPDATE users SET status = CASE id" + cases.String() + " END WHERE id IN (" + ids.String() + ")"
	return query, args
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group

import (
	"context"

	"github.com/taibuivan/usergroups/internal/platform/apperr"
	"github.com/taibuivan/usergroups/internal/platform/dberr"
	"github.com/taibuivan/usergroups/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository constructs a PostgreSQL backed group store.
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// # Group Retrieval

// List returns a page of groups ordered by ascending id.
func (repository *PostgresRepository) List(context context.Context, limit, offset int) ([]*Group, int, error) {
	db := postgres.Executor(context, repository.db)

	var total int
	if err := db.QueryRow(context, `SELECT COUNT(*) FROM groups`).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_groups")
	}

	rows, err := db.Query(context, `
		SELECT id, name, status, created_at
		FROM groups
		ORDER BY id ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_groups")
	}
	defer rows.Close()

	groups := make([]*Group, 0, limit)
	for rows.Next() {
		group := &Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Status, &group.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_group")
		}
		groups = append(groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "list_groups")
	}

	return groups, total, nil
}

// FindByID retrieves a single group by its primary key.
func (repository *PostgresRepository) FindByID(context context.Context, id int64) (*Group, error) {
	const query = `SELECT id, name, status, created_at FROM groups WHERE id = $1`

	group := &Group{}
	err := postgres.Executor(context, repository.db).QueryRow(context, query, id).Scan(
		&group.ID, &group.Name, &group.Status, &group.CreatedAt,
	)
	if dberr.IsNoRows(err) {
		return nil, apperr.NotFound("Group")
	}
	if err != nil {
		return nil, dberr.Wrap(err, "find_group")
	}

	return group, nil
}

// ListMembers returns the users of a group ordered by user id.
func (repository *PostgresRepository) ListMembers(context context.Context, id int64) ([]Member, error) {
	const query = `
		SELECT u.id, u.name, u.email, u.status, u.created_at
		FROM user_groups ug
		JOIN users u ON u.id = ug.user_id
		WHERE ug.group_id = $1
		ORDER BY u.id ASC
	`

	rows, err := postgres.Executor(context, repository.db).Query(context, query, id)
	if err != nil {
		return nil, dberr.Wrap(err, "list_group_members")
	}
	defer rows.Close()

	members := []Member{}
	for rows.Next() {
		var member Member
		if err := rows.Scan(&member.ID, &member.Name, &member.Email, &member.Status, &member.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_group_member")
		}
		members = append(members, member)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "list_group_members")
	}

	return members, nil
}

// # Status Engine Queries

// CountMembers counts association rows for the group.
func (repository *PostgresRepository) CountMembers(context context.Context, id int64) (int, error) {
	const query = `SELECT COUNT(*) FROM user_groups WHERE group_id = $1`

	var count int
	if err := postgres.Executor(context, repository.db).QueryRow(context, query, id).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "count_group_members")
	}

	return count, nil
}

// UpdateStatus writes the status column without checking that the group exists.
func (repository *PostgresRepository) UpdateStatus(context context.Context, id int64, status Status) error {
	const query = `UPDATE groups SET status = $2 WHERE id = $1`

	if _, err := postgres.Executor(context, repository.db).Exec(context, query, id, string(status)); err != nil {
		return dberr.Wrap(err, "update_group_status")
	}

	return nil
}

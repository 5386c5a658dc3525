// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import (
	"context"

	"github.com/taibuivan/usergroups/internal/platform/dberr"
	"github.com/taibuivan/usergroups/internal/platform/postgres"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.DBTX
}

// NewPostgresRepository constructs a PostgreSQL backed membership store.
func NewPostgresRepository(db postgres.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Exists joins the association with both entities and locks the group row.
func (repository *PostgresRepository) Exists(context context.Context, userID, groupID int64) (bool, error) {
	const query = `
		SELECT 1
		FROM user_groups ug
		JOIN users u ON u.id = ug.user_id
		JOIN groups g ON g.id = ug.group_id
		WHERE ug.user_id = $1 AND ug.group_id = $2
		FOR UPDATE OF g
	`

	var found int
	err := postgres.Executor(context, repository.db).QueryRow(context, query, userID, groupID).Scan(&found)
	if dberr.IsNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, dberr.Wrap(err, "find_membership")
	}

	return true, nil
}

// Delete removes one association row.
func (repository *PostgresRepository) Delete(context context.Context, userID, groupID int64) (int64, error) {
	const query = `DELETE FROM user_groups WHERE user_id = $1 AND group_id = $2`

	tag, err := postgres.Executor(context, repository.db).Exec(context, query, userID, groupID)
	if err != nil {
		return 0, dberr.Wrap(err, "delete_membership")
	}

	return tag.RowsAffected(), nil
}

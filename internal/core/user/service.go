// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/usergroups/internal/platform/ctxutil"
	"github.com/taibuivan/usergroups/internal/platform/postgres"
	"github.com/taibuivan/usergroups/internal/platform/validate"
	"github.com/taibuivan/usergroups/pkg/pagination"
)

// # Service Layer

// Service orchestrates user reads and bulk status changes.
type Service struct {
	repo       Repository
	transactor *postgres.Transactor
	logger     *slog.Logger
}

// NewService constructs a new user [Service].
func NewService(repo Repository, transactor *postgres.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		transactor: transactor,
		logger:     logger,
	}
}

// # User Retrieval

// ListUsers returns a page of users ordered by id.
func (service *Service) ListUsers(context context.Context, params pagination.Params) ([]*User, int, error) {
	return service.repo.List(context, params.Limit, params.Offset)
}

// GetUser loads a user and the groups they belong to.
func (service *Service) GetUser(context context.Context, id int64) (*Detail, error) {
	user, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	groups, err := service.repo.ListGroups(context, id)
	if err != nil {
		return nil, err
	}

	return &Detail{User: user, Groups: groups}, nil
}

// # Bulk Status Update

/*
UpdateStatuses applies a batch of status changes atomically.

Description: The batch size is checked before any transaction is opened.
Entries are then collapsed by user id, the last entry for an id winning, and
written with a single UPDATE. Ids that match no user are not reported.

Parameters:
  - ctx: context.Context
  - updates: []StatusUpdate (1 to MaxBatchSize entries)

Returns:
  - *BatchResult: Count equals len(updates)
  - error: VALIDATION_ERROR for an empty or oversized batch, or the store failure
*/
func (service *Service) UpdateStatuses(ctx context.Context, updates []StatusUpdate) (*BatchResult, error) {
	validator := &validate.Validator{}
	validator.
		Custom(FieldUsers, len(updates) == 0, "At least one user status update is required").
		Custom(FieldUsers, len(updates) > MaxBatchSize, fmt.Sprintf("Maximum %d users can be updated at once", MaxBatchSize))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	distinct := collapse(updates)

	err := service.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		return service.repo.UpdateStatuses(txCtx, distinct)
	})
	if err != nil {
		return nil, err
	}

	ctxutil.LoggerOr(ctx, service.logger).InfoContext(ctx, "user_statuses_updated",
		slog.Int("submitted", len(updates)),
		slog.Int("distinct", len(distinct)),
	)

	return &BatchResult{
		Message: fmt.Sprintf("Successfully updated %d users", len(updates)),
		Count:   len(updates),
	}, nil
}

// collapse keeps one entry per user id, in first-appearance order, carrying
// the status of the last occurrence.
func collapse(updates []StatusUpdate) []StatusUpdate {
	position := make(map[int64]int, len(updates))
	distinct := make([]StatusUpdate, 0, len(updates))

	for _, update := range updates {
		if index, seen := position[update.UserID]; seen {
			distinct[index].Status = update.Status
			continue
		}
		position[update.UserID] = len(distinct)
		distinct = append(distinct, update)
	}

	return distinct
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group

import (
	"context"
	"log/slog"

	"github.com/taibuivan/usergroups/internal/platform/ctxutil"
	"github.com/taibuivan/usergroups/internal/platform/postgres"
	"github.com/taibuivan/usergroups/internal/platform/validate"
	"github.com/taibuivan/usergroups/pkg/pagination"
)

// # Service Layer

// Service is the group status engine and read model.
type Service struct {
	repo       Repository
	transactor *postgres.Transactor
	cache      Cache
	logger     *slog.Logger
}

// NewService constructs a new group [Service].
func NewService(repo Repository, transactor *postgres.Transactor, cache Cache, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		transactor: transactor,
		cache:      cache,
		logger:     logger,
	}
}

// # Status Engine

/*
SetStatus persists a group's status in its own unit of work.

Description: Issues a single UPDATE keyed by id. There is no existence
check, so an unknown id is a silent no-op. When called with a context that
already carries a transaction, the write joins it. The cached group entry is
evicted, and the change logged, once the outermost transaction commits.

Parameters:
  - ctx: context.Context
  - id: int64
  - status: Status

Returns:
  - error: VALIDATION_ERROR for an unknown status, or the store failure
*/
func (service *Service) SetStatus(ctx context.Context, id int64, status Status) error {
	validator := &validate.Validator{}
	if err := validator.Custom(FieldStatus, !status.Valid(), "Must be one of: empty, active, inactive").Err(); err != nil {
		return err
	}

	return service.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := service.repo.UpdateStatus(txCtx, id, status); err != nil {
			return err
		}
		postgres.AfterCommit(txCtx, func() {
			service.evict(txCtx, id)
			ctxutil.LoggerOr(txCtx, service.logger).InfoContext(txCtx, "group_status_set",
				slog.Int64("group_id", id),
				slog.String("status", string(status)),
			)
		})
		return nil
	})
}

// SetActive marks the group ACTIVE.
func (service *Service) SetActive(context context.Context, id int64) error {
	return service.SetStatus(context, id, StatusActive)
}

// SetInactive marks the group INACTIVE.
func (service *Service) SetInactive(context context.Context, id int64) error {
	return service.SetStatus(context, id, StatusInactive)
}

// SetEmpty marks the group EMPTY.
func (service *Service) SetEmpty(context context.Context, id int64) error {
	return service.SetStatus(context, id, StatusEmpty)
}

// MemberCount returns the group's live member count, seen through the
// context's transaction when there is one.
func (service *Service) MemberCount(context context.Context, id int64) (int, error) {
	return service.repo.CountMembers(context, id)
}

// # Group Retrieval

// ListGroups returns a page of groups ordered by id.
func (service *Service) ListGroups(context context.Context, params pagination.Params) ([]*Group, int, error) {
	return service.repo.List(context, params.Limit, params.Offset)
}

/*
GetGroup retrieves a group record using the Redis cache-aside path.

Description: Cache failures are logged and fall through to PostgreSQL; they
never fail the read.

Returns:
  - *Group: The group
  - error: NOT_FOUND if missing
*/
func (service *Service) GetGroup(context context.Context, id int64) (*Group, error) {
	logger := ctxutil.LoggerOr(context, service.logger)

	cached, err := service.cache.Get(context, id)
	if err != nil {
		logger.WarnContext(context, "group_cache_read_failed", slog.Int64("group_id", id), slog.Any("error", err))
	}
	if cached != nil {
		return cached, nil
	}

	group, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.cache.Set(context, group); err != nil {
		logger.WarnContext(context, "group_cache_write_failed", slog.Int64("group_id", id), slog.Any("error", err))
	}

	return group, nil
}

// GetGroupWithMembers loads a group and its members from PostgreSQL.
func (service *Service) GetGroupWithMembers(context context.Context, id int64) (*Detail, error) {
	group, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	members, err := service.repo.ListMembers(context, id)
	if err != nil {
		return nil, err
	}

	return &Detail{Group: group, Members: members}, nil
}

// evict drops the cached entry after a status write has committed.
func (service *Service) evict(ctx context.Context, id int64) {
	ctx = context.WithoutCancel(ctx)
	if err := service.cache.Delete(ctx, id); err != nil {
		ctxutil.LoggerOr(ctx, service.logger).WarnContext(ctx, "group_cache_evict_failed",
			slog.Int64("group_id", id),
			slog.Any("error", err),
		)
	}
}

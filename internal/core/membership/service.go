// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/usergroups/internal/core/group"
	"github.com/taibuivan/usergroups/internal/platform/apperr"
	"github.com/taibuivan/usergroups/internal/platform/ctxutil"
	"github.com/taibuivan/usergroups/internal/platform/postgres"
	"github.com/taibuivan/usergroups/internal/platform/validate"
)

// # Service Layer

// Service runs the membership removal workflow.
type Service struct {
	repo       Repository
	groups     StatusEngine
	transactor *postgres.Transactor
	logger     *slog.Logger
}

// NewService constructs a new membership [Service].
func NewService(repo Repository, groups StatusEngine, transactor *postgres.Transactor, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		groups:     groups,
		transactor: transactor,
		logger:     logger,
	}
}

/*
Remove deletes the (userID, groupID) membership.

Description: In one transaction it:
 1. Verifies the membership exists, locking the group row.
 2. Deletes the association row.
 3. Recounts the group's members.
 4. Marks the group EMPTY when none remain.

Any failure rolls everything back. A missing membership, including one
removed concurrently between steps 1 and 2, is NOT_FOUND.

Parameters:
  - ctx: context.Context
  - userID: int64
  - groupID: int64

Returns:
  - *RemovalResult: Message and resulting group status
  - error: NOT_FOUND, VALIDATION_ERROR for non-positive ids, or the store failure
*/
func (service *Service) Remove(ctx context.Context, userID, groupID int64) (*RemovalResult, error) {
	validator := &validate.Validator{}
	validator.
		Custom(FieldUserID, userID <= 0, "Must be a positive integer").
		Custom(FieldGroupID, groupID <= 0, "Must be a positive integer")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	ctx = ctxutil.WithLogAttrs(ctx, service.logger, slog.Int64("user_id", userID), slog.Int64("group_id", groupID))
	status := group.StatusActive

	err := service.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		found, err := service.repo.Exists(txCtx, userID, groupID)
		if err != nil {
			return err
		}
		if !found {
			return notMember(userID, groupID)
		}

		removed, err := service.repo.Delete(txCtx, userID, groupID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return notMember(userID, groupID)
		}

		remaining, err := service.groups.MemberCount(txCtx, groupID)
		if err != nil {
			return err
		}

		if remaining == 0 {
			if err := service.groups.SetEmpty(txCtx, groupID); err != nil {
				return err
			}
			status = group.StatusEmpty
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "membership_removed", slog.String("group_status", string(status)))

	return &RemovalResult{
		Message:     fmt.Sprintf("User %d removed from group %d", userID, groupID),
		GroupStatus: status,
	}, nil
}

func notMember(userID, groupID int64) error {
	return apperr.NotFoundMessage(fmt.Sprintf("User %d is not a member of group %d", userID, groupID))
}

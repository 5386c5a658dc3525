// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package membership removes users from groups.

Removal is the only path that destroys a user_groups row, and the only place
a group becomes EMPTY automatically. The existence check, delete, recount and
status write all share one transaction; the group row is locked by the
existence check so concurrent removals from the same group count in turn.
*/
package membership

import (
	"context"

	"github.com/taibuivan/usergroups/internal/core/group"
)

// StatusEngine is the part of the group service the removal workflow drives.
type StatusEngine interface {
	MemberCount(context context.Context, groupID int64) (int, error)
	SetEmpty(context context.Context, groupID int64) error
}

// RemovalResult describes a committed removal.
//
// GroupStatus is EMPTY when the group lost its last member and ACTIVE
// otherwise, whatever status the group held before.
type RemovalResult struct {
	Message     string       `json:"message"`
	GroupStatus group.Status `json:"groupStatus"`
}

// # Field Identifiers

const (
	FieldUserID  = "userID"
	FieldGroupID = "groupID"
)

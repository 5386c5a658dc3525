// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group

import "context"

// # Group Data Access

// Repository defines the data access contract for groups.
//
// Implementations must run on the transaction carried by the context when
// there is one, so that counts and writes share a single unit of work.
type Repository interface {

	/*
		List returns a page of groups ordered by id and the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*Group: Page of groups
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*Group, int, error)

	/*
		FindByID retrieves a group by its identifier.

		Returns:
		  - *Group: Hydrated entity
		  - error: NOT_FOUND if missing
	*/
	FindByID(context context.Context, id int64) (*Group, error)

	// ListMembers returns the users associated with the group, ordered by user id.
	ListMembers(context context.Context, id int64) ([]Member, error)

	// CountMembers returns the number of association rows for the group.
	CountMembers(context context.Context, id int64) (int, error)

	/*
		UpdateStatus sets the status column of one group.

		Description: Zero affected rows is not an error; callers decide
		whether the group must exist.
	*/
	UpdateStatus(context context.Context, id int64, status Status) error
}

// # Group Cache

// Cache stores group records keyed by id. A miss is (nil, nil).
type Cache interface {
	Get(context context.Context, id int64) (*Group, error)
	Set(context context.Context, group *Group) error
	Delete(context context.Context, id int64) error
}

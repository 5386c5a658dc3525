// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import "context"

// # User Data Access

// Repository defines the data access contract for users.
type Repository interface {

	/*
		List returns a page of users ordered by id and the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*User: Page of users
		  - int: Total record count
		  - error: Database retrieval failures
	*/
	List(context context.Context, limit, offset int) ([]*User, int, error)

	// FindByID retrieves a user by id, or NOT_FOUND.
	FindByID(context context.Context, id int64) (*User, error)

	// ListGroups returns the groups a user belongs to, ordered by group id.
	ListGroups(context context.Context, id int64) ([]GroupRef, error)

	/*
		UpdateStatuses applies every entry with one statement.

		Description: updates must already be free of duplicate ids. Ids that
		match no row are ignored by the store.
	*/
	UpdateStatuses(context context.Context, updates []StatusUpdate) error
}

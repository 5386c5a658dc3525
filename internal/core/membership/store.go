// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import "context"

// # Membership Data Access

// Repository defines the data access contract for user_groups rows.
// Both methods are meant to run inside the caller's transaction.
type Repository interface {

	/*
		Exists reports whether the pair is a membership of an existing user
		and an existing group.

		Description: Locks the group row until the transaction ends.

		Returns:
		  - bool: true when the membership row was found
		  - error: Database failures
	*/
	Exists(context context.Context, userID, groupID int64) (bool, error)

	// Delete removes the pair and returns the number of rows removed.
	Delete(context context.Context, userID, groupID int64) (int64, error)
}

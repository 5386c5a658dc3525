// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package user manages user records and their account status.

The notable operation is [Service.UpdateStatuses], which applies up to
[MaxBatchSize] status changes with a single UPDATE statement inside one
transaction.
*/
package user

import "time"

// MaxBatchSize is the largest batch accepted by [Service.UpdateStatuses].
const MaxBatchSize = 500

// # User Enums

// Status is the account state of a user. A user may have no status yet.
type Status string

const (
	StatusPending Status = "pending"
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// # Core Entities

// User is a person who may belong to any number of groups.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    *Status   `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// GroupRef is the group summary shown in a user's detail view.
type GroupRef struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Detail is a user together with the groups they belong to.
type Detail struct {
	*User
	Groups []GroupRef `json:"groups"`
}

// # Bulk Status Update

// StatusUpdate is one entry of a bulk status change.
type StatusUpdate struct {
	UserID int64
	Status Status
}

// BatchResult reports a committed bulk status change.
//
// Count is the number of entries submitted, duplicates included, not the
// number of rows the store reported as changed.
type BatchResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// # Field Identifiers

const (
	FieldID    = "id"
	FieldUsers = "users"
)

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package group manages groups and the status derived from their membership.

# Core Responsibility

  - Entity: Defines the [Group] record and its closed [Status] enumeration.
  - Status Engine: Persists status transitions atomically ([Service.SetStatus]).
  - Counting: Reports live member counts, inside or outside a transaction.

A group is EMPTY exactly when it has no members. That transition is written
by the membership removal workflow; ACTIVE and INACTIVE are set by callers.
*/
package group

import "time"

// # Group Enums

// Status is the lifecycle state of a group.
type Status string

const (
	StatusEmpty    Status = "empty"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Valid reports whether s is one of the recognised values.
func (s Status) Valid() bool {
	switch s {
	case StatusEmpty, StatusActive, StatusInactive:
		return true
	}
	return false
}

// # Core Entities

// Group is a named collection of users.
type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Member is the user summary shown in a group's detail view.
type Member struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Status    *string   `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// Detail is a group together with its current members.
type Detail struct {
	*Group
	Members []Member `json:"members"`
}

// # Field Identifiers

const (
	FieldID     = "id"
	FieldStatus = "status"
)

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// Lists are windowed with limit/offset query parameters and always ordered by
// ascending id, so a client walking offsets sees every row exactly once as
// long as no rows are inserted in between.
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items returned when no limit is given.
	DefaultLimit = 10
	// MaxLimit caps the page size; larger requests are clamped to it.
	MaxLimit = 100
)

// Params holds the parsed limit and offset from a request's query string.
type Params struct {
	Limit  int
	Offset int
}

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(params Params, total int) Meta {
	return Meta{
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	}
}

// Normalize applies defaults and bounds to raw values.
//
// # Clamping
//
//   - limit <= 0 (missing or invalid) becomes [DefaultLimit].
//   - limit > [MaxLimit] becomes [MaxLimit].
//   - offset < 0 becomes 0.
func Normalize(limit, offset int) Params {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Params{Limit: limit, Offset: offset}
}

// FromRequest parses "limit" and "offset" query parameters from an HTTP request.
func FromRequest(r *http.Request) Params {
	return Normalize(
		parseIntParam(r, "limit", DefaultLimit),
		parseIntParam(r, "offset", 0),
	)
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}

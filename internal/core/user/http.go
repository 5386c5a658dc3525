// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/usergroups/internal/platform/request"
	"github.com/taibuivan/usergroups/internal/platform/respond"
	"github.com/taibuivan/usergroups/internal/platform/validate"
	"github.com/taibuivan/usergroups/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for user operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new user [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with user endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listUsers)
	router.Patch("/statuses", handler.updateStatuses)
	router.Get("/{id}", handler.getUser)

	return router
}

// # Request Shapes

type statusEntry struct {
	UserID int64  `json:"userId" validate:"gt=0"`
	Status string `json:"status" validate:"required,oneof=pending active blocked"`
}

// The batch bounds are enforced by the service so that they fail the same
// way for every caller.
type statusUpdateRequest struct {
	Users []statusEntry `json:"users" validate:"required,dive"`
}

// # User Endpoints

/*
GET /api/v1/users.

Request:
  - limit: int (default 10, max 100)
  - offset: int (default 0)

Response:
  - 200: []User: Paginated list ordered by id
*/
func (handler *Handler) listUsers(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	users, total, err := handler.service.ListUsers(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, users, pagination.NewMeta(params, total))
}

/*
GET /api/v1/users/{id}.

Response:
  - 200: Detail: The user with its groups
  - 404: User not found
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.GetUser(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
PATCH /api/v1/users/statuses.

Request (Body):
  - {"users": [{"userId": 1, "status": "active"}, ...]} (1 to 500 entries)

Response:
  - 200: {"message": "Successfully updated 2 users", "count": 2}
  - 400: Malformed body, bad entry, empty or oversized batch
*/
func (handler *Handler) updateStatuses(writer http.ResponseWriter, request *http.Request) {
	var input statusUpdateRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updates := make([]StatusUpdate, len(input.Users))
	for index, entry := range input.Users {
		updates[index] = StatusUpdate{UserID: entry.UserID, Status: Status(entry.Status)}
	}

	result, err := handler.service.UpdateStatuses(request.Context(), updates)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

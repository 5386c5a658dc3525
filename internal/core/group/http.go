// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package group

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/usergroups/internal/platform/request"
	"github.com/taibuivan/usergroups/internal/platform/respond"
	"github.com/taibuivan/usergroups/internal/platform/validate"
	"github.com/taibuivan/usergroups/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for group operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new group [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with group endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listGroups)
	router.Route("/{id}", func(subRouter chi.Router) {
		subRouter.Get("/", handler.getGroup)
		subRouter.Get("/members/count", handler.countMembers)
		subRouter.Put("/status", handler.setStatus)
	})

	return router
}

// # Request / Response Shapes

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=empty active inactive"`
}

type statusResponse struct {
	GroupID int64  `json:"groupId"`
	Status  Status `json:"status"`
}

type countResponse struct {
	GroupID int64 `json:"groupId"`
	Count   int   `json:"count"`
}

// # Group Endpoints

/*
GET /api/v1/groups.

Request:
  - limit: int (default 10, max 100)
  - offset: int (default 0)

Response:
  - 200: []Group: Paginated list ordered by id
*/
func (handler *Handler) listGroups(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	groups, total, err := handler.service.ListGroups(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, groups, pagination.NewMeta(params, total))
}

/*
GET /api/v1/groups/{id}.

Request:
  - members: bool (default true). When false the group is served from cache.

Response:
  - 200: Detail or Group
  - 400: Invalid id
  - 404: Group not found
*/
func (handler *Handler) getGroup(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if !requestutil.BoolQuery(request, "members", true) {
		group, err := handler.service.GetGroup(request.Context(), id)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, group)
		return
	}

	detail, err := handler.service.GetGroupWithMembers(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
GET /api/v1/groups/{id}/members/count.

Response:
  - 200: {"groupId": 7, "count": 0}
*/
func (handler *Handler) countMembers(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	count, err := handler.service.MemberCount(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, countResponse{GroupID: id, Count: count})
}

/*
PUT /api/v1/groups/{id}/status.

Request (Body):
  - {"status": "empty" | "active" | "inactive"}

Response:
  - 200: {"groupId": 7, "status": "inactive"}
  - 400: Invalid id or status
*/
func (handler *Handler) setStatus(writer http.ResponseWriter, request *http.Request) {
	id, err := requestutil.ID(request, FieldID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input statusRequest
	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := validate.Struct(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	status := Status(input.Status)
	switch status {
	case StatusActive:
		err = handler.service.SetActive(request.Context(), id)
	case StatusInactive:
		err = handler.service.SetInactive(request.Context(), id)
	case StatusEmpty:
		err = handler.service.SetEmpty(request.Context(), id)
	}
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, statusResponse{GroupID: id, Status: status})
}

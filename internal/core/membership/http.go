// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package membership

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/usergroups/internal/platform/request"
	"github.com/taibuivan/usergroups/internal/platform/respond"
)

// Handler implements the HTTP layer for membership removal.
type Handler struct {
	service *Service
}

// NewHandler constructs a new membership [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with membership endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Delete("/{userID}/{groupID}", handler.removeMembership)
	return router
}

/*
DELETE /api/v1/user-groups/{userID}/{groupID}.

Response:
  - 200: {"message": "User 3 removed from group 7", "groupStatus": "empty"}
  - 400: Invalid id
  - 404: The pair is not a membership
*/
func (handler *Handler) removeMembership(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.ID(request, FieldUserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	groupID, err := requestutil.ID(request, FieldGroupID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.service.Remove(request.Context(), userID, groupID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/litigio/tramita/pkg/service/archive"
	"github.com/litigio/tramita/pkg/usecase"
	"github.com/litigio/tramita/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// actionResponse is the wire form of an action row
type actionResponse struct {
	ID            int64      `json:"id"`
	ClientID      int64      `json:"client_id"`
	ClientName    string     `json:"client_name,omitempty"`
	Reference     string     `json:"reference,omitempty"`
	Title         string     `json:"title"`
	Complexity    string     `json:"complexity"`
	Status        string     `json:"status"`
	AssigneeID    int64      `json:"assignee_id"`
	AssigneeName  string     `json:"assignee_name,omitempty"`
	CreatorID     int64      `json:"creator_id"`
	CreatorName   string     `json:"creator_name,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	Filed         bool       `json:"filed"`
	ReviewComment string     `json:"review_comment,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toActionResponse(view *usecase.ActionView) actionResponse {
	action := view.Action
	return actionResponse{
		ID:            action.ID,
		ClientID:      action.ClientID,
		ClientName:    view.ClientName,
		Reference:     view.Reference,
		Title:         action.Title,
		Complexity:    action.Complexity.String(),
		Status:        action.Status.String(),
		AssigneeID:    action.AssigneeID,
		AssigneeName:  view.AssigneeName,
		CreatorID:     action.CreatorID,
		CreatorName:   view.CreatorName,
		ApprovedAt:    action.ApprovedAt,
		Filed:         action.Filed,
		ReviewComment: action.ReviewComment,
		CompletedAt:   action.CompletedAt,
		CreatedAt:     action.CreatedAt,
		UpdatedAt:     action.UpdatedAt,
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data) //nolint:errcheck // header already committed
}

// respondError maps domain errors to HTTP status codes
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrActionNotFound),
		errors.Is(err, usecase.ErrClientNotFound),
		errors.Is(err, usecase.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, archive.ErrInvalidFilename):
		status = http.StatusBadRequest
	case errors.Is(err, usecase.ErrNotApproved):
		status = http.StatusConflict
	case errors.Is(err, usecase.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, archive.ErrNotDeletable):
		status = http.StatusForbidden
	}

	errutil.HandleHTTP(r.Context(), w, err, status)
}

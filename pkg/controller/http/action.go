package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/litigio/tramita/pkg/domain/model/auth"
	"github.com/litigio/tramita/pkg/domain/types"
	"github.com/litigio/tramita/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
)

// requestScope extracts the caller tenant from the session token and
// the listing scope from the query string.
func requestScope(r *http.Request) (string, usecase.Scope, error) {
	token, err := auth.TokenFromContext(r.Context())
	if err != nil {
		return "", "", goerr.Wrap(usecase.ErrUnauthorized, "no caller identity")
	}

	scope, err := usecase.ParseScope(r.URL.Query().Get("scope"))
	if err != nil {
		return "", "", err
	}

	return token.TenantID, scope, nil
}

func actionIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "actionID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, goerr.Wrap(usecase.ErrInvalidInput, "invalid action ID", goerr.V("id", raw))
	}
	return id, nil
}

func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	tenantID, scope, err := requestScope(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	views, err := s.uc.Action.ListActions(r.Context(), tenantID, scope, r.URL.Query().Get("status"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	actions := make([]actionResponse, len(views))
	for i, view := range views {
		actions[i] = toActionResponse(view)
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"actions": actions})
}

type createActionRequest struct {
	ClientID   int64  `json:"client_id"`
	Title      string `json:"title"`
	Complexity string `json:"complexity"`
	Assignee   string `json:"assignee"`
}

func (req createActionRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ClientID, validation.Required, validation.Min(1)),
		validation.Field(&req.Title, validation.Required, validation.Length(1, 500)),
		validation.Field(&req.Complexity, validation.Required),
	)
}

func (s *Server) createAction(w http.ResponseWriter, r *http.Request) {
	token, err := auth.TokenFromContext(r.Context())
	if err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrUnauthorized, "no caller identity"))
		return
	}

	var req createActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, err.Error()))
		return
	}

	complexity, err := types.ParseComplexity(req.Complexity)
	if err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid complexity",
			goerr.V("complexity", req.Complexity)))
		return
	}

	action, err := s.uc.Action.CreateAction(r.Context(), token.TenantID, usecase.CreateActionInput{
		ClientID:    req.ClientID,
		Title:       req.Title,
		Complexity:  complexity,
		AssigneeRef: req.Assignee,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.respondAction(w, r, token.TenantID, action.ID, http.StatusCreated)
}

func (s *Server) getAction(w http.ResponseWriter, r *http.Request) {
	tenantID, scope, err := requestScope(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := actionIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	view, err := s.uc.Action.GetActionView(r.Context(), tenantID, id, scope)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, map[string]any{"action": toActionResponse(view)})
}

type updateActionRequest struct {
	Status     *string `json:"status"`
	Assignee   *string `json:"assignee"`
	Complexity *string `json:"complexity"`
}

func (req updateActionRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Status, validation.NilOrNotEmpty),
		validation.Field(&req.Complexity, validation.NilOrNotEmpty),
	)
}

func (s *Server) updateAction(w http.ResponseWriter, r *http.Request) {
	tenantID, scope, err := requestScope(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := actionIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updateActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, err.Error()))
		return
	}

	if _, err := s.uc.Action.UpdateAction(r.Context(), tenantID, id, scope, usecase.UpdateActionInput{
		Status:      req.Status,
		AssigneeRef: req.Assignee,
		Complexity:  req.Complexity,
	}); err != nil {
		respondError(w, r, err)
		return
	}

	s.respondAction(w, r, tenantID, id, http.StatusOK)
}

func (s *Server) approveAction(w http.ResponseWriter, r *http.Request) {
	s.lifecycleEvent(w, r, func(tenantID string, id int64, scope usecase.Scope) error {
		_, err := s.uc.Action.Approve(r.Context(), tenantID, id, scope)
		return err
	})
}

type returnActionRequest struct {
	Comment string `json:"comment"`
}

func (s *Server) returnAction(w http.ResponseWriter, r *http.Request) {
	var req returnActionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, r, goerr.Wrap(usecase.ErrInvalidInput, "invalid request body"))
			return
		}
	}

	s.lifecycleEvent(w, r, func(tenantID string, id int64, scope usecase.Scope) error {
		_, err := s.uc.Action.Return(r.Context(), tenantID, id, scope, req.Comment)
		return err
	})
}

func (s *Server) markFiled(w http.ResponseWriter, r *http.Request) {
	s.lifecycleEvent(w, r, func(tenantID string, id int64, scope usecase.Scope) error {
		_, err := s.uc.Action.MarkFiled(r.Context(), tenantID, id, scope)
		return err
	})
}

func (s *Server) unfileAction(w http.ResponseWriter, r *http.Request) {
	s.lifecycleEvent(w, r, func(tenantID string, id int64, scope usecase.Scope) error {
		_, err := s.uc.Action.Unfile(r.Context(), tenantID, id, scope)
		return err
	})
}

// lifecycleEvent runs a status side-channel operation and responds with
// the refreshed action row.
func (s *Server) lifecycleEvent(w http.ResponseWriter, r *http.Request, op func(tenantID string, id int64, scope usecase.Scope) error) {
	tenantID, scope, err := requestScope(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	id, err := actionIDParam(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := op(tenantID, id, scope); err != nil {
		respondError(w, r, err)
		return
	}

	s.respondAction(w, r, tenantID, id, http.StatusOK)
}

// respondAction writes a single enriched action row
func (s *Server) respondAction(w http.ResponseWriter, r *http.Request, tenantID string, id int64, status int) {
	view, err := s.uc.Action.GetActionView(r.Context(), tenantID, id, usecase.ScopeAll)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, status, map[string]any{"action": toActionResponse(view)})
}

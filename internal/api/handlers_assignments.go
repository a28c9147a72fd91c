package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"zimmetd/internal/zimmet"
)

// actorFrom builds the acting user from request headers. The dashboard's
// session layer fills these in; unauthenticated tooling falls back to
// "system" so audit entries are never anonymous.
func actorFrom(r *http.Request) zimmet.Actor {
	actor := zimmet.Actor{Name: strings.TrimSpace(r.Header.Get("X-Actor-Name"))}
	if actor.Name == "" {
		actor.Name = "system"
	}
	if id, err := uuid.Parse(r.Header.Get("X-Actor-Id")); err == nil {
		actor.ID = id
	}
	return actor
}

func urlID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}

func (a *API) handleCreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ItemIDs   []uuid.UUID `json:"item_ids"`
		HolderID  uuid.UUID   `json:"holder_id"`
		CompanyID *uuid.UUID  `json:"company_id"`
		Unit      string      `json:"unit"`
		Notes     string      `json:"notes"`
		Pending   bool        `json:"pending"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.ItemIDs) == 0 {
		respondError(w, http.StatusBadRequest, errors.New("item_ids is required"))
		return
	}
	if req.HolderID == uuid.Nil {
		respondError(w, http.StatusBadRequest, errors.New("holder_id is required"))
		return
	}

	assignments, err := a.engine.CreateAssignment(r.Context(), actorFrom(r), zimmet.CreateParams{
		ItemIDs:   req.ItemIDs,
		HolderID:  req.HolderID,
		CompanyID: req.CompanyID,
		Unit:      req.Unit,
		Notes:     req.Notes,
		Pending:   req.Pending,
	})
	observeOp("create_assignment", err)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"assignments": assignments})
}

func (a *API) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	var filter zimmet.ListFilter
	if v := r.URL.Query().Get("holder_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, errors.New("invalid holder_id"))
			return
		}
		filter.HolderID = &id
	}
	if v := r.URL.Query().Get("item_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, errors.New("invalid item_id"))
			return
		}
		filter.ItemID = &id
	}
	if v := r.URL.Query().Get("status"); v != "" {
		status := zimmet.AssignmentStatus(v)
		if !zimmet.ValidAssignmentStatus(status) {
			respondError(w, http.StatusBadRequest, errors.New("invalid status"))
			return
		}
		filter.Status = &status
	}

	assignments, err := a.engine.ListAssignments(r.Context(), filter)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"assignments": assignments})
}

func (a *API) handleGetAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid assignment id"))
		return
	}

	assignment, err := a.engine.GetAssignment(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"assignment": assignment})
}

func (a *API) handleUpdateAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid assignment id"))
		return
	}

	var req struct {
		Status       *zimmet.AssignmentStatus `json:"status"`
		Unit         *string                  `json:"unit"`
		Notes        *string                  `json:"notes"`
		FormPath     *string                  `json:"form_path"`
		ItemName     *string                  `json:"item_name"`
		ItemBrand    *string                  `json:"item_brand"`
		ItemTypeCode *string                  `json:"item_type_code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	assignment, err := a.engine.UpdateAssignment(r.Context(), actorFrom(r), id, zimmet.UpdateParams{
		Status:       req.Status,
		Unit:         req.Unit,
		Notes:        req.Notes,
		FormPath:     req.FormPath,
		ItemName:     req.ItemName,
		ItemBrand:    req.ItemBrand,
		ItemTypeCode: req.ItemTypeCode,
	})
	observeOp("update_assignment", err)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"assignment": assignment})
}

func (a *API) handleDeleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid assignment id"))
		return
	}

	err = a.engine.DeleteAssignment(r.Context(), actorFrom(r), id)
	observeOp("delete_assignment", err)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleReturnAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid assignment id"))
		return
	}

	assignment, err := a.engine.ReturnAssignment(r.Context(), actorFrom(r), id)
	observeOp("return_assignment", err)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"assignment": assignment})
}

func (a *API) handleReturnMultiple(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AssignmentIDs []uuid.UUID `json:"assignment_ids"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if len(req.AssignmentIDs) == 0 {
		respondError(w, http.StatusBadRequest, errors.New("assignment_ids is required"))
		return
	}

	receipt, err := a.engine.ReturnMultiple(r.Context(), actorFrom(r), req.AssignmentIDs)
	observeOp("return_multiple", err)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"receipt": receipt})
}

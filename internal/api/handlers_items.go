package api

import (
	"errors"
	"net/http"
	"strings"

	"zimmetd/internal/zimmet"
)

func (a *API) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string         `json:"name"`
		TypeCode string         `json:"type_code"`
		Brand    string         `json:"brand"`
		AssetTag *string        `json:"asset_tag"`
		SerialNo *string        `json:"serial_no"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, errors.New("name is required"))
		return
	}

	item, err := a.registry.CreateItem(r.Context(), zimmet.ItemParams{
		Name:     req.Name,
		TypeCode: req.TypeCode,
		Brand:    req.Brand,
		AssetTag: req.AssetTag,
		SerialNo: req.SerialNo,
		Metadata: req.Metadata,
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"item": item})
}

func (a *API) handleListItems(w http.ResponseWriter, r *http.Request) {
	status := zimmet.ItemStatus(r.URL.Query().Get("status"))

	items, err := a.registry.ListItems(r.Context(), status)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (a *API) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	item, err := a.registry.GetItem(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (a *API) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	// Pointer fields distinguish absent from empty: omitted fields are left
	// alone, explicit empty strings clear.
	var req struct {
		Name     *string        `json:"name"`
		TypeCode *string        `json:"type_code"`
		Brand    *string        `json:"brand"`
		AssetTag *string        `json:"asset_tag"`
		SerialNo *string        `json:"serial_no"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	item, err := a.registry.UpdateItem(r.Context(), id, zimmet.ItemUpdate{
		Name:     req.Name,
		TypeCode: req.TypeCode,
		Brand:    req.Brand,
		AssetTag: req.AssetTag,
		SerialNo: req.SerialNo,
		Metadata: req.Metadata,
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"item": item})
}

func (a *API) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid item id"))
		return
	}

	if err := a.registry.DeleteItem(r.Context(), id); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

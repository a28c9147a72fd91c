package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"zimmetd/internal/zimmet"
)

func (a *API) handleCreatePersonnel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string     `json:"name"`
		RegNo     string     `json:"reg_no"`
		CompanyID *uuid.UUID `json:"company_id"`
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

	person, err := a.directory.CreatePersonnel(r.Context(), zimmet.PersonnelParams{
		Name:      req.Name,
		RegNo:     req.RegNo,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"personnel": person})
}

func (a *API) handleListPersonnel(w http.ResponseWriter, r *http.Request) {
	people, err := a.directory.ListPersonnel(r.Context())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"personnel": people})
}

func (a *API) handleGetPersonnel(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid personnel id"))
		return
	}

	person, err := a.directory.GetPersonnel(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"personnel": person})
}

func (a *API) handleUpdatePersonnel(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid personnel id"))
		return
	}

	// Pointer fields distinguish absent from empty: omitted fields are left
	// alone, an explicit empty reg_no clears it.
	var req struct {
		Name      *string    `json:"name"`
		RegNo     *string    `json:"reg_no"`
		CompanyID *uuid.UUID `json:"company_id"`
		Active    *bool      `json:"active"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	person, err := a.directory.UpdatePersonnel(r.Context(), id, zimmet.PersonnelUpdate{
		Name:      req.Name,
		RegNo:     req.RegNo,
		CompanyID: req.CompanyID,
		Active:    req.Active,
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"personnel": person})
}

func (a *API) handleDeletePersonnel(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid personnel id"))
		return
	}

	if err := a.directory.DeletePersonnel(r.Context(), id); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
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

	company, err := a.directory.CreateCompany(r.Context(), req.Name)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"company": company})
}

func (a *API) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := a.directory.ListCompanies(r.Context())
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

func (a *API) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid company id"))
		return
	}

	company, err := a.directory.GetCompany(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"company": company})
}

func (a *API) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid company id"))
		return
	}

	if err := a.directory.DeleteCompany(r.Context(), id); err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

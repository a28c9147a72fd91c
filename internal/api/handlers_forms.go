package api

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// handleFormPresign issues a presigned PUT URL for uploading the scanned,
// signed assignment form. The returned key is what callers store on the
// assignment via form_path.
func (a *API) handleFormPresign(w http.ResponseWriter, r *http.Request) {
	if a.store.S3 == nil {
		respondError(w, http.StatusServiceUnavailable, errors.New("form storage is not configured"))
		return
	}

	var req struct {
		AssignmentID uuid.UUID `json:"assignment_id"`
		Filename     string    `json:"filename"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if req.AssignmentID == uuid.Nil {
		respondError(w, http.StatusBadRequest, errors.New("assignment_id is required"))
		return
	}
	req.Filename = path.Base(strings.TrimSpace(req.Filename))
	if req.Filename == "" || req.Filename == "." {
		respondError(w, http.StatusBadRequest, errors.New("filename is required"))
		return
	}

	// The assignment must exist before a form can be attached to it.
	if _, err := a.engine.GetAssignment(r.Context(), req.AssignmentID); err != nil {
		respondEngineError(w, err)
		return
	}

	key := fmt.Sprintf("forms/%s/%s", req.AssignmentID, req.Filename)
	uploadURL, err := a.store.S3.PresignPut(r.Context(), a.config.FormBucket, key, a.config.PresignTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"upload_url": uploadURL,
		"form_path":  key,
	})
}

// handleFormDownload issues a presigned GET URL for the scanned form attached
// to an assignment.
func (a *API) handleFormDownload(w http.ResponseWriter, r *http.Request) {
	if a.store.S3 == nil {
		respondError(w, http.StatusServiceUnavailable, errors.New("form storage is not configured"))
		return
	}

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
	if assignment.FormPath == "" {
		respondError(w, http.StatusNotFound, errors.New("assignment has no form on file"))
		return
	}

	downloadURL, err := a.store.S3.PresignGet(r.Context(), a.config.FormBucket, assignment.FormPath, a.config.PresignTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"download_url": downloadURL,
		"form_path":    assignment.FormPath,
	})
}

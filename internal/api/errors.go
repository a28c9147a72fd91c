package api

import (
	"errors"
	"net/http"

	"zimmetd/internal/zimmet"
)

// respondEngineError maps engine error kinds to HTTP statuses and keeps the
// machine-readable kind plus offending ids in the payload so multi-item
// callers can tell which member failed.
func respondEngineError(w http.ResponseWriter, err error) {
	var ze *zimmet.Error
	if !errors.As(err, &ze) {
		respondError(w, http.StatusInternalServerError, err)
		return
	}

	status := http.StatusInternalServerError
	switch ze.Kind {
	case zimmet.KindNotFound:
		status = http.StatusNotFound
	case zimmet.KindUnavailable, zimmet.KindInvalidState, zimmet.KindCrossHolderBatch, zimmet.KindDuplicateKey:
		status = http.StatusConflict
	case zimmet.KindTransactional:
		// Validation passed and nothing committed; the caller may retry the
		// identical request safely.
		status = http.StatusServiceUnavailable
	}

	payload := map[string]any{
		"error": ze.Message,
		"kind":  ze.Kind,
	}
	if len(ze.ItemIDs) > 0 {
		payload["item_ids"] = ze.ItemIDs
	}
	if len(ze.AssignmentIDs) > 0 {
		payload["assignment_ids"] = ze.AssignmentIDs
	}
	if ze.Field != "" {
		payload["field"] = ze.Field
	}
	respondJSON(w, status, payload)
}

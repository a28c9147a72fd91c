package api

import (
	"errors"
	"net/http"
)

func (a *API) handleGetReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid receipt id"))
		return
	}

	receipt, err := a.receipts.Get(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"receipt": receipt})
}

func (a *API) handleReceiptDocument(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, errors.New("invalid receipt id"))
		return
	}

	doc, err := a.receipts.Document(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"zimmetd/pkg/db"
)

// InventoryRow is one line of the inventory status report: the denormalized
// item status next to the status derived from the newest assignment, so
// drift (which the engine's transactions should make impossible) is visible
// in one query.
type InventoryRow struct {
	ItemID        uuid.UUID  `db:"item_id" json:"item_id"`
	Name          string     `db:"name" json:"name"`
	AssetTag      *string    `db:"asset_tag" json:"asset_tag,omitempty"`
	SerialNo      *string    `db:"serial_no" json:"serial_no,omitempty"`
	Status        string     `db:"status" json:"status"`
	DerivedStatus string     `db:"derived_status" json:"derived_status"`
	HolderID      *uuid.UUID `db:"holder_id" json:"holder_id,omitempty"`
	HolderName    *string    `db:"holder_name" json:"holder_name,omitempty"`
}

const inventoryReportQuery = `
SELECT i.id AS item_id,
       i.name,
       i.asset_tag,
       i.serial_no,
       i.status,
       CASE
           WHEN a.status IS NULL OR a.status = 'returned' THEN 'idle'
           ELSE a.status
       END AS derived_status,
       a.holder_id,
       p.name AS holder_name
FROM items i
LEFT JOIN LATERAL (
    SELECT status, holder_id
    FROM assignments
    WHERE item_id = i.id
    ORDER BY created_at DESC
    LIMIT 1
) a ON true
LEFT JOIN personnel p ON p.id = a.holder_id
ORDER BY i.name
`

func (a *API) handleInventoryReport(w http.ResponseWriter, r *http.Request) {
	if a.store.DB == nil {
		respondError(w, http.StatusServiceUnavailable, errors.New("reporting pool is not configured"))
		return
	}

	var rows []InventoryRow
	if err := db.Select(r.Context(), a.store.DB, &rows, inventoryReportQuery); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"inventory": rows})
}

// AuditRow is one audit log entry as listed by the reporting endpoint.
type AuditRow struct {
	ID      int64      `db:"id" json:"id"`
	ActorID *uuid.UUID `db:"actor_id" json:"actor_id,omitempty"`
	Actor   string     `db:"actor" json:"actor"`
	Action  string     `db:"action" json:"action"`
	Obj     string     `db:"obj" json:"obj"`
	Summary string     `db:"summary" json:"summary"`
	At      time.Time  `db:"at" json:"at"`
}

func (a *API) handleListAudit(w http.ResponseWriter, r *http.Request) {
	if a.store.DB == nil {
		respondError(w, http.StatusServiceUnavailable, errors.New("reporting pool is not configured"))
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 || parsed > 1000 {
			respondError(w, http.StatusBadRequest, errors.New("invalid limit"))
			return
		}
		limit = parsed
	}

	query := `SELECT id, actor_id, actor, action, obj, summary, at FROM audit`
	args := []any{}
	if action := r.URL.Query().Get("action"); action != "" {
		query += ` WHERE action = $1`
		args = append(args, action)
	}
	query += ` ORDER BY at DESC LIMIT ` + strconv.Itoa(limit)

	var rows []AuditRow
	if err := db.Select(r.Context(), a.store.DB, &rows, query, args...); err != nil {
		respondError(w, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"audit": rows})
}

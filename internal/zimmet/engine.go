package zimmet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"zimmetd/internal/audit"
)

// Audit action codes emitted by the engine. Approval is deliberately distinct
// from a generic update so reviewers can find sign-offs.
const (
	ActionAssignmentCreated  = "ASSIGNMENT_CREATED"
	ActionAssignmentUpdated  = "ASSIGNMENT_UPDATED"
	ActionAssignmentApproved = "ASSIGNMENT_APPROVED"
	ActionAssignmentReturned = "ASSIGNMENT_RETURNED"
	ActionAssignmentRejected = "ASSIGNMENT_REJECTED"
	ActionAssignmentDeleted  = "ASSIGNMENT_DELETED"
	ActionBulkReturn         = "BULK_RETURN"
)

// Engine orchestrates assignment lifecycle operations. Every operation that
// touches both the item registry and the assignment ledger runs inside one
// database transaction, so the denormalized item status can never drift from
// the ledger, even under concurrent requests or partial failures.
type Engine struct {
	orm    *gorm.DB
	audit  *audit.Recorder
	logger zerolog.Logger
}

// NewEngine constructs the engine. The audit recorder may be nil in tests.
func NewEngine(orm *gorm.DB, recorder *audit.Recorder, logger zerolog.Logger) (*Engine, error) {
	if orm == nil {
		return nil, errors.New("orm is required")
	}
	return &Engine{orm: orm, audit: recorder, logger: logger}, nil
}

// CreateAssignment assigns every listed item to the holder in one atomic
// unit: N ledger rows are inserted and N item statuses flipped, or nothing
// happens at all. Items that are not idle abort the whole request with an
// unavailable error naming them.
func (e *Engine) CreateAssignment(ctx context.Context, actor Actor, p CreateParams) ([]Assignment, error) {
	ids := dedupeIDs(p.ItemIDs)
	if len(ids) == 0 {
		return nil, errors.New("item_ids is required")
	}
	if p.HolderID == uuid.Nil {
		return nil, errors.New("holder_id is required")
	}

	target := StatusAssigned
	if p.Pending {
		target = StatusPending
	}

	var (
		out        []Assignment
		holderName string
	)

	err := e.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var holder personnelModel
		if err := tx.First(&holder, "id = ?", p.HolderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("holder", p.HolderID)
			}
			return err
		}
		holderName = holder.Name

		if p.CompanyID != nil {
			var company companyModel
			if err := tx.First(&company, "id = ?", *p.CompanyID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errNotFound("company", *p.CompanyID)
				}
				return err
			}
		}

		var items []itemModel
		if err := tx.Where("id IN ?", ids).Find(&items).Error; err != nil {
			return err
		}
		if len(items) != len(ids) {
			return errNotFound("item", missingIDs(ids, items)...)
		}

		var busy []uuid.UUID
		for _, it := range items {
			if ItemStatus(it.Status) != ItemIdle {
				busy = append(busy, it.ID)
			}
		}
		if len(busy) > 0 {
			return errUnavailable(busy)
		}

		if err := claimItems(tx, ids, itemStatusFor(target)); err != nil {
			return err
		}

		now := time.Now().UTC()
		entry := HistoryEntry{
			ActorID:   actor.ID,
			ActorName: actor.Name,
			At:        now,
			Changes:   []FieldChange{{Field: FieldStatus, From: "", To: string(target)}},
		}

		models := make([]assignmentModel, 0, len(ids))
		for _, itemID := range ids {
			models = append(models, assignmentModel{
				ID:         uuid.New(),
				ItemID:     itemID,
				HolderID:   p.HolderID,
				CompanyID:  p.CompanyID,
				Unit:       p.Unit,
				Notes:      p.Notes,
				Status:     string(target),
				AssignedAt: now,
				History:    datatypes.NewJSONSlice([]HistoryEntry{entry}),
			})
		}
		if err := tx.Create(&models).Error; err != nil {
			return err
		}

		out = make([]Assignment, 0, len(models))
		for _, m := range models {
			out = append(out, m.toAPI())
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxErr("create assignment", err)
	}

	e.logger.Info().
		Str("holder_id", p.HolderID.String()).
		Int("items", len(out)).
		Str("status", string(target)).
		Msg("assignment created")

	e.recordAudit(ctx, actor, audit.Entry{
		Action:  ActionAssignmentCreated,
		Obj:     p.HolderID.String(),
		Summary: fmt.Sprintf("assigned %d item(s) to %s", len(out), holderName),
		Details: map[string]any{
			"holder_id":      p.HolderID,
			"item_ids":       ids,
			"assignment_ids": assignmentIDs(out),
			"status":         target,
		},
	})
	return out, nil
}

// UpdateAssignment applies the fields present in p and records them all in a
// single history entry. A pending-to-assigned transition is an approval and
// is audited under its own action code. Status changes are mirrored to the
// item inside the same transaction.
func (e *Engine) UpdateAssignment(ctx context.Context, actor Actor, id uuid.UUID, p UpdateParams) (Assignment, error) {
	var (
		out      Assignment
		approved bool
		changed  bool
	)

	err := e.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model assignmentModel
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("assignment", id)
			}
			return err
		}
		loadedStatus := model.Status

		now := time.Now().UTC()
		var changes []FieldChange

		if p.Status != nil && *p.Status != AssignmentStatus(model.Status) {
			from := AssignmentStatus(model.Status)
			to := *p.Status
			if !ValidAssignmentStatus(to) {
				return errInvalidState(fmt.Sprintf("unknown status %q", to), id)
			}
			if !canTransition(from, to) {
				return errInvalidState(fmt.Sprintf("assignment %s cannot move from %s to %s", id, from, to), id)
			}

			changes = append(changes, FieldChange{Field: FieldStatus, From: string(from), To: string(to)})
			model.Status = string(to)
			approved = from == StatusPending && to == StatusAssigned

			if (to == StatusReturned || to == StatusScrapped) && model.ReturnedAt == nil {
				model.ReturnedAt = &now
				changes = append(changes, FieldChange{Field: FieldReturnDate, From: "", To: now.Format(time.RFC3339)})
			}

			if err := setItemStatus(tx, []uuid.UUID{model.ItemID}, itemStatusFor(to)); err != nil {
				return err
			}
		}

		changes = appendStringChange(changes, FieldUnit, &model.Unit, p.Unit)
		changes = appendStringChange(changes, FieldNotes, &model.Notes, p.Notes)
		changes = appendStringChange(changes, FieldFormPath, &model.FormPath, p.FormPath)

		if p.ItemName != nil || p.ItemBrand != nil || p.ItemTypeCode != nil {
			var item itemModel
			if err := tx.First(&item, "id = ?", model.ItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return errNotFound("item", model.ItemID)
				}
				return err
			}
			changes = appendStringChange(changes, FieldItemName, &item.Name, p.ItemName)
			changes = appendStringChange(changes, FieldItemBrand, &item.Brand, p.ItemBrand)
			changes = appendStringChange(changes, FieldItemTypeCode, &item.TypeCode, p.ItemTypeCode)
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		if len(changes) == 0 {
			out = model.toAPI()
			return nil
		}
		changed = true

		model.History = append(model.History, HistoryEntry{
			ActorID:   actor.ID,
			ActorName: actor.Name,
			At:        now,
			Changes:   changes,
		})

		if err := saveAssignmentGuarded(tx, &model, loadedStatus); err != nil {
			return err
		}
		out = model.toAPI()
		return nil
	})
	if err != nil {
		return Assignment{}, wrapTxErr("update assignment", err)
	}

	if changed {
		action := ActionAssignmentUpdated
		summary := fmt.Sprintf("updated assignment %s", id)
		if approved {
			action = ActionAssignmentApproved
			summary = fmt.Sprintf("approved assignment %s for holder %s", id, out.HolderID)
		}
		e.recordAudit(ctx, actor, audit.Entry{
			Action:  action,
			Obj:     id.String(),
			Summary: summary,
			Details: map[string]any{
				"assignment_id": id,
				"item_id":       out.ItemID,
				"holder_id":     out.HolderID,
			},
		})
	}
	return out, nil
}

// ReturnAssignment closes a single assignment and releases its item, both in
// one transaction. Returning an already-returned assignment is rejected.
func (e *Engine) ReturnAssignment(ctx context.Context, actor Actor, id uuid.UUID) (Assignment, error) {
	var out Assignment

	err := e.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model assignmentModel
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("assignment", id)
			}
			return err
		}

		if AssignmentStatus(model.Status) == StatusReturned {
			return errInvalidState(fmt.Sprintf("assignment %s is already returned", id), id)
		}
		loadedStatus := model.Status

		now := time.Now().UTC()
		changes := []FieldChange{
			{Field: FieldStatus, From: model.Status, To: string(StatusReturned)},
			{Field: FieldReturnDate, From: "", To: now.Format(time.RFC3339)},
		}
		model.Status = string(StatusReturned)
		model.ReturnedAt = &now
		model.History = append(model.History, HistoryEntry{
			ActorID:   actor.ID,
			ActorName: actor.Name,
			At:        now,
			Changes:   changes,
		})

		if err := saveAssignmentGuarded(tx, &model, loadedStatus); err != nil {
			return err
		}
		if err := setItemStatus(tx, []uuid.UUID{model.ItemID}, ItemIdle); err != nil {
			return err
		}

		out = model.toAPI()
		return nil
	})
	if err != nil {
		return Assignment{}, wrapTxErr("return assignment", err)
	}

	e.recordAudit(ctx, actor, audit.Entry{
		Action:  ActionAssignmentReturned,
		Obj:     id.String(),
		Summary: fmt.Sprintf("returned item %s from holder %s", out.ItemID, out.HolderID),
		Details: map[string]any{
			"assignment_id": id,
			"item_id":       out.ItemID,
			"holder_id":     out.HolderID,
		},
	})
	return out, nil
}

// ReturnMultiple closes a batch of assignments belonging to one holder and
// issues a receipt, all inside one transaction. Any missing, cross-holder, or
// wrong-state member aborts the whole batch with no partial returns.
func (e *Engine) ReturnMultiple(ctx context.Context, actor Actor, ids []uuid.UUID) (ReturnReceipt, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return ReturnReceipt{}, errors.New("assignment_ids is required")
	}

	var out ReturnReceipt

	err := e.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var models []assignmentModel
		if err := tx.Where("id IN ?", ids).Find(&models).Error; err != nil {
			return err
		}
		if len(models) != len(ids) {
			return errNotFound("assignment", missingAssignmentIDs(ids, models)...)
		}

		holderID := models[0].HolderID
		var crossed bool
		var wrongState []uuid.UUID
		for _, m := range models {
			if m.HolderID != holderID {
				crossed = true
			}
			if AssignmentStatus(m.Status) != StatusAssigned {
				wrongState = append(wrongState, m.ID)
			}
		}
		if crossed {
			return errCrossHolder(ids)
		}
		if len(wrongState) > 0 {
			return errInvalidState(
				fmt.Sprintf("assignment(s) not in assigned state: %s", joinIDs(wrongState)),
				wrongState...,
			)
		}

		now := time.Now().UTC()
		itemIDs := make([]uuid.UUID, 0, len(models))
		lines := make([]ReceiptLine, 0, len(models))

		for i := range models {
			m := &models[i]
			m.Status = string(StatusReturned)
			m.ReturnedAt = &now
			m.History = append(m.History, HistoryEntry{
				ActorID:   actor.ID,
				ActorName: actor.Name,
				At:        now,
				Changes: []FieldChange{
					{Field: FieldStatus, From: string(StatusAssigned), To: string(StatusReturned)},
					{Field: FieldReturnDate, From: "", To: now.Format(time.RFC3339)},
				},
			})
			if err := saveAssignmentGuarded(tx, m, string(StatusAssigned)); err != nil {
				return err
			}
			itemIDs = append(itemIDs, m.ItemID)
			lines = append(lines, ReceiptLine{ItemID: m.ItemID, AssignmentID: m.ID})
		}

		if err := setItemStatus(tx, itemIDs, ItemIdle); err != nil {
			return err
		}

		receipt := returnReceiptModel{
			ID:          uuid.New(),
			HolderID:    holderID,
			ProcessorID: actor.ID,
			Lines:       datatypes.NewJSONSlice(lines),
			CreatedAt:   now,
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}

		out = receipt.toAPI()
		return nil
	})
	if err != nil {
		return ReturnReceipt{}, wrapTxErr("bulk return", err)
	}

	e.logger.Info().
		Str("receipt_id", out.ID.String()).
		Str("holder_id", out.HolderID.String()).
		Int("items", len(out.Lines)).
		Msg("bulk return processed")

	e.recordAudit(ctx, actor, audit.Entry{
		Action:  ActionBulkReturn,
		Obj:     out.ID.String(),
		Summary: fmt.Sprintf("bulk-returned %d item(s) from holder %s", len(out.Lines), out.HolderID),
		Details: map[string]any{
			"receipt_id":     out.ID,
			"holder_id":      out.HolderID,
			"assignment_ids": ids,
		},
	})
	return out, nil
}

// DeleteAssignment removes a ledger row. Deleting a pending assignment is a
// rejection; everything else is an administrative override. Either way the
// linked item's status is intentionally left untouched: deletion is an
// out-of-band correction, not a state transition, and callers who need the
// status to move must use Return or Update instead.
func (e *Engine) DeleteAssignment(ctx context.Context, actor Actor, id uuid.UUID) error {
	var (
		wasPending bool
		itemID     uuid.UUID
		holderID   uuid.UUID
	)

	err := e.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model assignmentModel
		if err := tx.First(&model, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errNotFound("assignment", id)
			}
			return err
		}

		wasPending = AssignmentStatus(model.Status) == StatusPending
		itemID = model.ItemID
		holderID = model.HolderID

		return tx.Delete(&assignmentModel{}, "id = ?", id).Error
	})
	if err != nil {
		return wrapTxErr("delete assignment", err)
	}

	action := ActionAssignmentDeleted
	summary := fmt.Sprintf("deleted assignment %s", id)
	if wasPending {
		action = ActionAssignmentRejected
		summary = fmt.Sprintf("rejected pending assignment %s", id)
	}
	e.recordAudit(ctx, actor, audit.Entry{
		Action:  action,
		Obj:     id.String(),
		Summary: summary,
		Details: map[string]any{
			"assignment_id": id,
			"item_id":       itemID,
			"holder_id":     holderID,
		},
	})
	return nil
}

// GetAssignment fetches one assignment with its full history.
func (e *Engine) GetAssignment(ctx context.Context, id uuid.UUID) (Assignment, error) {
	var model assignmentModel
	if err := e.orm.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Assignment{}, errNotFound("assignment", id)
		}
		return Assignment{}, err
	}
	return model.toAPI(), nil
}

// ListAssignments returns assignments matching the filter, newest first.
func (e *Engine) ListAssignments(ctx context.Context, f ListFilter) ([]Assignment, error) {
	q := e.orm.WithContext(ctx).Order("created_at DESC")
	if f.HolderID != nil {
		q = q.Where("holder_id = ?", *f.HolderID)
	}
	if f.ItemID != nil {
		q = q.Where("item_id = ?", *f.ItemID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}

	var models []assignmentModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]Assignment, 0, len(models))
	for _, m := range models {
		out = append(out, m.toAPI())
	}
	return out, nil
}

// DerivedItemStatus computes an item's status from its most recent
// assignment: returned (or no assignment at all) means idle, anything else is
// shown as-is. The engine keeps the denormalized items.status column equal to
// this derivation; the method exists for cross-checks and reporting.
func (e *Engine) DerivedItemStatus(ctx context.Context, itemID uuid.UUID) (ItemStatus, error) {
	var model assignmentModel
	err := e.orm.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ItemIdle, nil
		}
		return "", err
	}
	return itemStatusFor(AssignmentStatus(model.Status)), nil
}

func (e *Engine) recordAudit(ctx context.Context, actor Actor, entry audit.Entry) {
	if e.audit == nil {
		return
	}
	entry.ActorID = actor.ID
	entry.Actor = actor.Name
	e.audit.Record(ctx, entry)
}

// saveAssignmentGuarded writes the mutated row back, but only while the
// stored status is still the one the transaction loaded. Like claimItems,
// the WHERE clause turns read-then-write into a compare-and-swap: of two
// transactions that both read the same row, the one that commits second sees
// a zero row count instead of overwriting the winner's status and history.
func saveAssignmentGuarded(tx *gorm.DB, m *assignmentModel, loadedStatus string) error {
	res := tx.Model(&assignmentModel{}).
		Where("id = ? AND status = ?", m.ID, loadedStatus).
		Updates(map[string]any{
			"unit":        m.Unit,
			"notes":       m.Notes,
			"form_path":   m.FormPath,
			"status":      m.Status,
			"returned_at": m.ReturnedAt,
			"history":     m.History,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return errInvalidState(
			fmt.Sprintf("assignment %s was changed by a concurrent operation", m.ID), m.ID)
	}
	return nil
}

// appendStringChange applies an optional edit to dst and records it when the
// value actually changed.
func appendStringChange(changes []FieldChange, field Field, dst *string, src *string) []FieldChange {
	if src == nil || *src == *dst {
		return changes
	}
	changes = append(changes, FieldChange{Field: field, From: *dst, To: *src})
	*dst = *src
	return changes
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func missingIDs(requested []uuid.UUID, found []itemModel) []uuid.UUID {
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, m := range found {
		present[m.ID] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func missingAssignmentIDs(requested []uuid.UUID, found []assignmentModel) []uuid.UUID {
	present := make(map[uuid.UUID]struct{}, len(found))
	for _, m := range found {
		present[m.ID] = struct{}{}
	}
	var missing []uuid.UUID
	for _, id := range requested {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}

func assignmentIDs(assignments []Assignment) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, a.ID)
	}
	return out
}

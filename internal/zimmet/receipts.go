package zimmet

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"zimmetd/pkg/render"
)

const deletedItemName = "deleted item"

// Receipts is the read side for return receipts: resolving a stored receipt
// against the current registry and rendering the printable document. Items or
// personnel deleted since the return degrade the affected line instead of
// failing the read.
type Receipts struct {
	orm      *gorm.DB
	renderer *render.Engine
}

// NewReceipts constructs the receipt reader. The renderer may be nil when
// only structured reads are needed.
func NewReceipts(orm *gorm.DB, renderer *render.Engine) (*Receipts, error) {
	if orm == nil {
		return nil, errors.New("orm is required")
	}
	return &Receipts{orm: orm, renderer: renderer}, nil
}

// Get resolves one receipt for reprint.
func (r *Receipts) Get(ctx context.Context, id uuid.UUID) (ReceiptDetail, error) {
	orm := r.orm.WithContext(ctx)

	var model returnReceiptModel
	if err := orm.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ReceiptDetail{}, errNotFound("receipt", id)
		}
		return ReceiptDetail{}, err
	}

	detail := ReceiptDetail{
		ID:            model.ID,
		HolderID:      model.HolderID,
		ProcessorID:   model.ProcessorID,
		HolderName:    r.personnelName(ctx, model.HolderID),
		ProcessorName: r.personnelName(ctx, model.ProcessorID),
		CreatedAt:     model.CreatedAt,
	}

	itemIDs := make([]uuid.UUID, 0, len(model.Lines))
	for _, line := range model.Lines {
		itemIDs = append(itemIDs, line.ItemID)
	}

	var items []itemModel
	if len(itemIDs) > 0 {
		if err := orm.Where("id IN ?", itemIDs).Find(&items).Error; err != nil {
			return ReceiptDetail{}, err
		}
	}
	byID := make(map[uuid.UUID]itemModel, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}

	detail.Lines = make([]ReceiptLineDetail, 0, len(model.Lines))
	for _, line := range model.Lines {
		lineDetail := ReceiptLineDetail{
			ItemID:       line.ItemID,
			AssignmentID: line.AssignmentID,
		}
		if it, ok := byID[line.ItemID]; ok {
			lineDetail.ItemName = it.Name
			if it.AssetTag != nil {
				lineDetail.AssetTag = *it.AssetTag
			}
			if it.SerialNo != nil {
				lineDetail.SerialNo = *it.SerialNo
			}
		} else {
			lineDetail.ItemName = deletedItemName
			lineDetail.Deleted = true
		}
		detail.Lines = append(detail.Lines, lineDetail)
	}

	return detail, nil
}

// Document renders the printable receipt document.
func (r *Receipts) Document(ctx context.Context, id uuid.UUID) (string, error) {
	if r.renderer == nil {
		return "", errors.New("renderer is not configured")
	}

	detail, err := r.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return r.renderer.Render("receipt.tmpl", detail)
}

// personnelName resolves a holder or processor display name, tolerating
// records deleted since the receipt was written.
func (r *Receipts) personnelName(ctx context.Context, id uuid.UUID) string {
	var model personnelModel
	if err := r.orm.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return "(deleted)"
	}
	return model.Name
}

package zimmet

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Registry owns item records. Descriptive fields are freely editable here;
// the status column is only ever written inside the engine's transactions.
type Registry struct {
	orm *gorm.DB
}

// NewRegistry constructs a Registry over the provided GORM session.
func NewRegistry(orm *gorm.DB) (*Registry, error) {
	if orm == nil {
		return nil, errors.New("orm is required")
	}
	return &Registry{orm: orm}, nil
}

// CreateItem registers a new asset in the idle state. Asset tag and serial
// number collisions are reported as duplicate-key errors naming the field.
func (r *Registry) CreateItem(ctx context.Context, p ItemParams) (Item, error) {
	model := itemModel{
		ID:       uuid.New(),
		Name:     p.Name,
		TypeCode: p.TypeCode,
		Brand:    p.Brand,
		AssetTag: normalizeOptional(p.AssetTag),
		SerialNo: normalizeOptional(p.SerialNo),
		Metadata: toJSONMap(p.Metadata),
		Status:   string(ItemIdle),
	}

	if err := r.orm.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Item{}, errDuplicateKey(r.collidingField(ctx, model.ID, model.AssetTag, model.SerialNo))
		}
		return Item{}, err
	}
	return model.toAPI(), nil
}

// UpdateItem edits descriptive fields of an item. Nil pointers are left
// alone; an empty string clears the field.
func (r *Registry) UpdateItem(ctx context.Context, id uuid.UUID, p ItemUpdate) (Item, error) {
	orm := r.orm.WithContext(ctx)

	var model itemModel
	if err := orm.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Item{}, errNotFound("item", id)
		}
		return Item{}, err
	}

	if p.Name != nil {
		model.Name = *p.Name
	}
	if p.TypeCode != nil {
		model.TypeCode = *p.TypeCode
	}
	if p.Brand != nil {
		model.Brand = *p.Brand
	}
	if p.AssetTag != nil {
		model.AssetTag = normalizeOptional(p.AssetTag)
	}
	if p.SerialNo != nil {
		model.SerialNo = normalizeOptional(p.SerialNo)
	}
	if p.Metadata != nil {
		model.Metadata = toJSONMap(p.Metadata)
	}

	if err := orm.Save(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Item{}, errDuplicateKey(r.collidingField(ctx, model.ID, model.AssetTag, model.SerialNo))
		}
		return Item{}, err
	}
	return model.toAPI(), nil
}

// DeleteItem removes an item. Assignment history referencing the item is kept
// as-is; receipt reprints render such lines as deleted items.
func (r *Registry) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res := r.orm.WithContext(ctx).Delete(&itemModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound("item", id)
	}
	return nil
}

// GetItem fetches one item.
func (r *Registry) GetItem(ctx context.Context, id uuid.UUID) (Item, error) {
	var model itemModel
	if err := r.orm.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Item{}, errNotFound("item", id)
		}
		return Item{}, err
	}
	return model.toAPI(), nil
}

// ListItems returns items, optionally filtered by status.
func (r *Registry) ListItems(ctx context.Context, status ItemStatus) ([]Item, error) {
	q := r.orm.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", string(status))
	}

	var models []itemModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(models))
	for _, m := range models {
		items = append(items, m.toAPI())
	}
	return items, nil
}

// FindAvailable returns the subset of the requested ids whose status is idle.
// Callers must treat everything outside the subset as unavailable.
func (r *Registry) FindAvailable(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var available []uuid.UUID
	err := r.orm.WithContext(ctx).
		Model(&itemModel{}).
		Where("id IN ? AND status = ?", ids, string(ItemIdle)).
		Pluck("id", &available).Error
	if err != nil {
		return nil, err
	}
	return available, nil
}

// collidingField reports which unique column an insert collided on, best
// effort, so the error can name the field instead of a bare constraint.
func (r *Registry) collidingField(ctx context.Context, excludeID uuid.UUID, assetTag, serialNo *string) string {
	if assetTag != nil {
		var n int64
		if err := r.orm.WithContext(ctx).Model(&itemModel{}).
			Where("asset_tag = ? AND id <> ?", *assetTag, excludeID).
			Count(&n).Error; err == nil && n > 0 {
			return "asset_tag"
		}
	}
	if serialNo != nil {
		var n int64
		if err := r.orm.WithContext(ctx).Model(&itemModel{}).
			Where("serial_no = ? AND id <> ?", *serialNo, excludeID).
			Count(&n).Error; err == nil && n > 0 {
			return "serial_no"
		}
	}
	return "asset_tag"
}

// claimItems flips every listed item from idle to the target status inside tx.
// The WHERE clause re-checks idle status, so the read and the write are one
// compare-and-swap: when two creates race for an item, exactly one sees the
// full row count and the other must abort.
func claimItems(tx *gorm.DB, ids []uuid.UUID, target ItemStatus) error {
	res := tx.Model(&itemModel{}).
		Where("id IN ? AND status = ?", ids, string(ItemIdle)).
		Update("status", string(target))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return errUnavailable(ids)
	}
	return nil
}

// setItemStatus bulk-writes the status of the listed items inside tx.
func setItemStatus(tx *gorm.DB, ids []uuid.UUID, status ItemStatus) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&itemModel{}).
		Where("id IN ?", ids).
		Update("status", string(status)).Error
}

func normalizeOptional(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

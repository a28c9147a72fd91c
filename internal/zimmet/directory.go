package zimmet

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Directory holds the personnel and company records the engine validates
// holders and org units against. Plain CRUD, no state machine.
type Directory struct {
	orm *gorm.DB
}

// NewDirectory constructs a Directory over the provided GORM session.
func NewDirectory(orm *gorm.DB) (*Directory, error) {
	if orm == nil {
		return nil, errors.New("orm is required")
	}
	return &Directory{orm: orm}, nil
}

// CreatePersonnel registers a holder record.
func (d *Directory) CreatePersonnel(ctx context.Context, p PersonnelParams) (Personnel, error) {
	active := true
	if p.Active != nil {
		active = *p.Active
	}

	model := personnelModel{
		ID:        uuid.New(),
		Name:      p.Name,
		RegNo:     normalizeOptional(&p.RegNo),
		CompanyID: p.CompanyID,
		Active:    active,
	}

	if err := d.orm.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Personnel{}, errDuplicateKey("reg_no")
		}
		return Personnel{}, err
	}
	return model.toAPI(), nil
}

// UpdatePersonnel edits a holder record. Nil pointers are left alone; an
// empty registration number clears the column to NULL so the unique index
// only binds real values.
func (d *Directory) UpdatePersonnel(ctx context.Context, id uuid.UUID, p PersonnelUpdate) (Personnel, error) {
	orm := d.orm.WithContext(ctx)

	var model personnelModel
	if err := orm.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Personnel{}, errNotFound("personnel", id)
		}
		return Personnel{}, err
	}

	if p.Name != nil {
		model.Name = *p.Name
	}
	if p.RegNo != nil {
		model.RegNo = normalizeOptional(p.RegNo)
	}
	if p.CompanyID != nil {
		model.CompanyID = p.CompanyID
	}
	if p.Active != nil {
		model.Active = *p.Active
	}

	if err := orm.Save(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Personnel{}, errDuplicateKey("reg_no")
		}
		return Personnel{}, err
	}
	return model.toAPI(), nil
}

// DeletePersonnel removes a holder record. Historical assignments and
// receipts keep their holder reference; reads tolerate the gap.
func (d *Directory) DeletePersonnel(ctx context.Context, id uuid.UUID) error {
	res := d.orm.WithContext(ctx).Delete(&personnelModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound("personnel", id)
	}
	return nil
}

// GetPersonnel fetches one holder record.
func (d *Directory) GetPersonnel(ctx context.Context, id uuid.UUID) (Personnel, error) {
	var model personnelModel
	if err := d.orm.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Personnel{}, errNotFound("personnel", id)
		}
		return Personnel{}, err
	}
	return model.toAPI(), nil
}

// ListPersonnel returns all holder records.
func (d *Directory) ListPersonnel(ctx context.Context) ([]Personnel, error) {
	var models []personnelModel
	if err := d.orm.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]Personnel, 0, len(models))
	for _, m := range models {
		out = append(out, m.toAPI())
	}
	return out, nil
}

// CreateCompany registers an organizational unit.
func (d *Directory) CreateCompany(ctx context.Context, name string) (Company, error) {
	model := companyModel{ID: uuid.New(), Name: name}
	if err := d.orm.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Company{}, errDuplicateKey("name")
		}
		return Company{}, err
	}
	return model.toAPI(), nil
}

// GetCompany fetches one organizational unit.
func (d *Directory) GetCompany(ctx context.Context, id uuid.UUID) (Company, error) {
	var model companyModel
	if err := d.orm.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Company{}, errNotFound("company", id)
		}
		return Company{}, err
	}
	return model.toAPI(), nil
}

// ListCompanies returns all organizational units.
func (d *Directory) ListCompanies(ctx context.Context) ([]Company, error) {
	var models []companyModel
	if err := d.orm.WithContext(ctx).Order("name").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]Company, 0, len(models))
	for _, m := range models {
		out = append(out, m.toAPI())
	}
	return out, nil
}

// DeleteCompany removes an organizational unit.
func (d *Directory) DeleteCompany(ctx context.Context, id uuid.UUID) error {
	res := d.orm.WithContext(ctx).Delete(&companyModel{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return errNotFound("company", id)
	}
	return nil
}

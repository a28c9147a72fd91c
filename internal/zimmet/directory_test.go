package zimmet

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestPersonnelCRUD(t *testing.T) {
	orm := newTestDB(t)
	directory, _ := NewDirectory(orm)
	ctx := context.Background()

	company, err := directory.CreateCompany(ctx, "HQ Company")
	if err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}

	person, err := directory.CreatePersonnel(ctx, PersonnelParams{
		Name:      "Alice",
		RegNo:     "R-100",
		CompanyID: &company.ID,
	})
	if err != nil {
		t.Fatalf("CreatePersonnel: %v", err)
	}
	if !person.Active {
		t.Error("new personnel should default to active")
	}

	inactive := false
	updated, err := directory.UpdatePersonnel(ctx, person.ID, PersonnelUpdate{Active: &inactive})
	if err != nil {
		t.Fatalf("UpdatePersonnel: %v", err)
	}
	if updated.Active {
		t.Error("personnel should be inactive after update")
	}
	if updated.Name != "Alice" {
		t.Errorf("name = %q, want Alice", updated.Name)
	}

	if err := directory.DeletePersonnel(ctx, person.ID); err != nil {
		t.Fatalf("DeletePersonnel: %v", err)
	}
	if _, err := directory.GetPersonnel(ctx, person.ID); KindOf(err) != KindNotFound {
		t.Errorf("expected not_found after delete, got %v", err)
	}
}

func TestUpdatePersonnelClearsRegNo(t *testing.T) {
	orm := newTestDB(t)
	directory, _ := NewDirectory(orm)
	ctx := context.Background()

	person, err := directory.CreatePersonnel(ctx, PersonnelParams{Name: "Alice", RegNo: "R-9"})
	if err != nil {
		t.Fatalf("CreatePersonnel: %v", err)
	}

	empty := ""
	updated, err := directory.UpdatePersonnel(ctx, person.ID, PersonnelUpdate{RegNo: &empty})
	if err != nil {
		t.Fatalf("UpdatePersonnel: %v", err)
	}
	if updated.RegNo != "" {
		t.Errorf("reg_no = %q, want cleared", updated.RegNo)
	}
	if updated.Name != "Alice" {
		t.Errorf("name = %q, want untouched", updated.Name)
	}

	// The cleared number is free for someone else.
	if _, err := directory.CreatePersonnel(ctx, PersonnelParams{Name: "Bob", RegNo: "R-9"}); err != nil {
		t.Fatalf("reuse cleared reg_no: %v", err)
	}
}

func TestPersonnelDuplicateRegNo(t *testing.T) {
	orm := newTestDB(t)
	directory, _ := NewDirectory(orm)
	ctx := context.Background()

	if _, err := directory.CreatePersonnel(ctx, PersonnelParams{Name: "Alice", RegNo: "R-1"}); err != nil {
		t.Fatalf("CreatePersonnel: %v", err)
	}
	_, err := directory.CreatePersonnel(ctx, PersonnelParams{Name: "Bob", RegNo: "R-1"})
	if KindOf(err) != KindDuplicateKey {
		t.Fatalf("expected duplicate_key error, got %v", err)
	}
}

func TestCompanyNotFound(t *testing.T) {
	orm := newTestDB(t)
	directory, _ := NewDirectory(orm)

	if _, err := directory.GetCompany(context.Background(), uuid.New()); KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found error, got %v", err)
	}
	if err := directory.DeleteCompany(context.Background(), uuid.New()); KindOf(err) != KindNotFound {
		t.Fatalf("expected not_found error, got %v", err)
	}
}

func TestSeedIdempotent(t *testing.T) {
	orm := newTestDB(t)
	directory, _ := NewDirectory(orm)
	ctx := context.Background()

	if err := Seed(ctx, orm); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if err := Seed(ctx, orm); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	companies, err := directory.ListCompanies(ctx)
	if err != nil {
		t.Fatalf("ListCompanies: %v", err)
	}
	if len(companies) != 1 || companies[0].Name != DefaultCompanyName {
		t.Errorf("expected single default company, got %v", companies)
	}
}

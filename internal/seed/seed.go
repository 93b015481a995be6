package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	doctordomain "github.com/carelinkhq/carelink/internal/doctor/domain"
	pharmacydomain "github.com/carelinkhq/carelink/internal/pharmacy/domain"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type doctorSeed struct {
	Name            string
	Specialty       string
	YearsExperience int
}

type medicineSeed struct {
	Name        string
	Description string
	PriceCents  int64
	Stock       int
}

var defaultDoctors = []doctorSeed{
	{Name: "Dr. Amelia Reyes", Specialty: "Cardiology", YearsExperience: 14},
	{Name: "Dr. Tomas Lindqvist", Specialty: "General Practice", YearsExperience: 9},
	{Name: "Dr. Priya Nair", Specialty: "Dermatology", YearsExperience: 11},
	{Name: "Dr. Samuel Okoye", Specialty: "Pediatrics", YearsExperience: 7},
}

var defaultMedicines = []medicineSeed{
	{Name: "Paracetamol 500mg", Description: "Pain and fever relief, 20 tablets", PriceCents: 599, Stock: 200},
	{Name: "Ibuprofen 200mg", Description: "Anti-inflammatory, 16 tablets", PriceCents: 749, Stock: 150},
	{Name: "Cetirizine 10mg", Description: "Antihistamine, 14 tablets", PriceCents: 899, Stock: 120},
	{Name: "Amoxicillin 250mg", Description: "Antibiotic capsules, prescription required", PriceCents: 1299, Stock: 80},
	{Name: "Omeprazole 20mg", Description: "Acid reflux relief, 14 capsules", PriceCents: 1099, Stock: 100},
}

// EnsureCatalog seeds the doctor directory and the medicine catalog.
// Idempotent: existing rows are left untouched.
func EnsureCatalog(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureDoctorsTx(ctx, tx, node); err != nil {
			return err
		}
		return ensureMedicinesTx(ctx, tx, node)
	})
}

func ensureDoctorsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	now := time.Now().UTC()
	for _, seed := range defaultDoctors {
		doctorSlug := slug.Make(seed.Name)

		var existing doctordomain.Doctor
		err := tx.WithContext(ctx).
			Where("slug = ?", doctorSlug).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		doctor := doctordomain.Doctor{
			ID:              node.Generate(),
			Slug:            doctorSlug,
			Name:            seed.Name,
			Specialty:       seed.Specialty,
			YearsExperience: seed.YearsExperience,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := tx.WithContext(ctx).Create(&doctor).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureMedicinesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	now := time.Now().UTC()
	for _, seed := range defaultMedicines {
		var existing pharmacydomain.Medicine
		err := tx.WithContext(ctx).
			Where("name = ?", seed.Name).
			First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		med := pharmacydomain.Medicine{
			ID:          node.Generate(),
			Name:        seed.Name,
			Description: seed.Description,
			PriceCents:  seed.PriceCents,
			Stock:       seed.Stock,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.WithContext(ctx).Create(&med).Error; err != nil {
			return err
		}
	}
	return nil
}

package repository

import (
	"time"

	"github.com/jobconnect-ng/jobconnect/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db}
}

func (r *PaymentRepository) FindByIdentifier(identifier string) (*model.Payment, error) {
	var p model.Payment
	err := r.db.First(&p, "identifier = ?", identifier).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Upsert inserts a payment row for the identifier or, if one exists, replaces
// its reference, status and email in place. Rows are never deleted.
func (r *PaymentRepository) Upsert(p *model.Payment) error {
	p.UpdatedAt = time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = p.UpdatedAt
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identifier"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "reference", "email", "updated_at"}),
	}).Create(p).Error
}

func (r *PaymentRepository) MarkCompleted(identifier string) error {
	return r.db.Model(&model.Payment{}).
		Where("identifier = ?", identifier).
		Updates(map[string]any{"status": model.PaymentStatusCompleted, "updated_at": time.Now()}).
		Error
}

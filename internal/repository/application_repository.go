package repository

import (
	"github.com/jobconnect-ng/jobconnect/internal/model"
	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db}
}

// Create appends one application row. Applications are never updated or
// deleted; scores are snapshots from submission time.
func (r *ApplicationRepository) Create(app *model.Application) error {
	return r.db.Create(app).Error
}

func (r *ApplicationRepository) FindByIdentifier(identifier string) ([]model.Application, error) {
	var apps []model.Application
	err := r.db.Where("identifier = ?", identifier).Order("id").Find(&apps).Error
	return apps, err
}

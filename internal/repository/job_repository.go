package repository

import (
	"strings"

	"github.com/jobconnect-ng/jobconnect/internal/model"
	"gorm.io/gorm"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

// SearchJobs applies each set filter as a case-insensitive substring match
// (exact match on the remote flag) and caps the result set at limit.
func (r *JobRepository) SearchJobs(filters model.JobFilters, limit int) ([]model.Job, error) {
	q := r.db.Model(&model.Job{})

	if filters.Title != "" {
		q = q.Where("LOWER(title) LIKE ?", like(filters.Title))
	}
	if filters.Company != "" {
		q = q.Where("LOWER(company) LIKE ?", like(filters.Company))
	}
	if filters.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", like(filters.Location))
	}
	if filters.Remote != nil {
		q = q.Where("remote = ?", *filters.Remote)
	}

	var jobs []model.Job
	err := q.Order("id").Limit(limit).Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) FindByID(id uint) (*model.Job, error) {
	var j model.Job
	err := r.db.First(&j, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) CreateJob(job *model.Job) error {
	return r.db.Create(job).Error
}

func like(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

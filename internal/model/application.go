package model

import "time"

// Application is an append-only record of one submission. CV text and the AI
// score are snapshots taken at submission time and never recomputed.
type Application struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Identifier  string    `gorm:"type:varchar(64);index:idx_app_identifier_job" json:"identifier"`
	JobID       uint      `gorm:"index:idx_app_identifier_job" json:"job_id"`
	CVText      string    `gorm:"type:text" json:"cv_text"`
	CoverLetter string    `gorm:"type:text" json:"cover_letter"`
	Skills      float64   `json:"skills"`
	Experience  float64   `json:"experience"`
	Education   float64   `json:"education"`
	Summary     string    `gorm:"type:text" json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Application) TableName() string {
	return "applications"
}

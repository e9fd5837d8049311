package model

import "time"

// Job is an immutable posting. Rows are seeded by an external pipeline and
// only ever read by the service.
type Job struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"type:varchar(255);index" json:"title"`
	Company        string    `gorm:"type:varchar(255);index" json:"company"`
	Location       string    `gorm:"type:varchar(255);index" json:"location"`
	Remote         bool      `json:"remote"`
	RecruiterEmail string    `gorm:"type:varchar(255)" json:"recruiter_email"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Job) TableName() string {
	return "jobs"
}

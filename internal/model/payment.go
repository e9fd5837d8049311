package model

import "time"

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

// Payment tracks the one-time access fee per identifier. At most one row per
// identifier; re-initiating overwrites Reference in place, rows are never
// deleted.
type Payment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Identifier string    `gorm:"type:varchar(64);uniqueIndex" json:"identifier"`
	Status     string    `gorm:"type:varchar(20)" json:"status"` // "pending" or "completed"
	Reference  string    `gorm:"type:varchar(128);index" json:"reference"`
	Email      string    `gorm:"type:varchar(255)" json:"email"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

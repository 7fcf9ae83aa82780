package models

import "time"

// Task is one tenant-owned to-do record. Timestamps are owned by the service
// layer, so GORM's automatic time tracking is disabled.
type Task struct {
	Id          uint      `json:"id" gorm:"primaryKey"`
	TenantId    string    `json:"tenant_id" gorm:"index;not null"`
	Title       string    `json:"title" gorm:"size:200;not null"`
	Description *string   `json:"description" gorm:"size:1000"`
	Completed   bool      `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"not null;autoUpdateTime:false"`
}

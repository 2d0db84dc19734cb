package models

import (
	"time"
)

// StatusChange records one triage action.
type StatusChange struct {
	ID         uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt  time.Time    `json:"created_at"`
	ReportID   uint         `gorm:"not null;index" json:"report_id"`
	Report     Report       `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"-"`
	AdminID    uint         `gorm:"not null" json:"admin_id"`
	FromStatus ReportStatus `gorm:"size:20;not null" json:"from_status"`
	ToStatus   ReportStatus `gorm:"size:20;not null" json:"to_status"`
}

package models

import (
	"strings"
	"time"
)

type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusInProgress ReportStatus = "in_progress"
	StatusResolved   ReportStatus = "resolved"
)

// ReportStatuses lists every status in triage order.
var ReportStatuses = []ReportStatus{StatusPending, StatusInProgress, StatusResolved}

func ParseReportStatus(s string) (ReportStatus, bool) {
	st := ReportStatus(strings.ToLower(strings.TrimSpace(s)))
	return st, st.Valid()
}

func (s ReportStatus) Valid() bool {
	for _, known := range ReportStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label is the human readable form used by the templates.
func (s ReportStatus) Label() string {
	return strings.ReplaceAll(string(s), "_", " ")
}

type Report struct {
	ID          uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time    `gorm:"index;<-:create" json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	UserID      uint         `gorm:"not null;index" json:"user_id"`
	User        User         `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Image       *string      `gorm:"size:255" json:"image"`
	Latitude    *float64     `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude   *float64     `gorm:"type:decimal(11,8)" json:"longitude"`
	WasteType   string       `gorm:"size:50" json:"waste_type"`
	Description string       `gorm:"type:text" json:"description"`
	Status      ReportStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
}

// ReportListing is a report joined with the name of whoever filed it.
type ReportListing struct {
	Report
	Reporter string `json:"reporter"`
}

// HasLocation is true when both coordinates were supplied.
func (r Report) HasLocation() bool {
	return r.Latitude != nil && r.Longitude != nil
}

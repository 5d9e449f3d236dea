package models

import (
	"time"
)

// DownloadRecord is one logged download request. Rows are append-only.
type DownloadRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255" json:"name"`
	Email       string    `gorm:"size:255" json:"email"`
	Affiliation string    `gorm:"size:255;index" json:"affiliation"`
	Date        time.Time `gorm:"column:date;not null;index" json:"date"`
}

func (DownloadRecord) TableName() string {
	return "download_records"
}

package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/tillgate/tillgate/internal/shared/constants"
)

// AuditLogModel is insert-only.
type AuditLogModel struct {
	ID           uint    `gorm:"primarykey"`
	UserID       *uint   `gorm:"index"`
	Action       string  `gorm:"not null;size:100;index"`
	Resource     string  `gorm:"not null;size:100;index"`
	ResourceID   *string `gorm:"size:100"`
	OldValues    datatypes.JSONMap
	NewValues    datatypes.JSONMap
	IPAddress    string    `gorm:"size:64"`
	UserAgent    string    `gorm:"size:500"`
	SessionID    string    `gorm:"size:100"`
	RequestID    string    `gorm:"size:64"`
	Timestamp    time.Time `gorm:"not null;index"`
	Success      bool      `gorm:"not null"`
	ErrorMessage string    `gorm:"type:text"`
	Metadata     datatypes.JSONMap
}

func (AuditLogModel) TableName() string {
	return constants.TableAuditLogs
}

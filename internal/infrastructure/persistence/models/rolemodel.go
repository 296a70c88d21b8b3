package models

import (
	"time"

	"github.com/tillgate/tillgate/internal/shared/constants"
)

type RoleModel struct {
	ID           uint   `gorm:"primarykey"`
	Name         string `gorm:"uniqueIndex;not null;size:50"`
	Description  string `gorm:"type:text"`
	Level        int    `gorm:"not null;default:0"`
	IsSuperAdmin bool   `gorm:"not null;default:false"`
	IsActive     bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (RoleModel) TableName() string {
	return constants.TableRoles
}

package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/tillgate/tillgate/internal/shared/constants"
)

type PermissionModel struct {
	ID          uint   `gorm:"primarykey"`
	Name        string `gorm:"uniqueIndex;not null;size:100"`
	Resource    string `gorm:"not null;size:50;index:idx_permission_resource_action"`
	Action      string `gorm:"not null;size:50;index:idx_permission_resource_action"`
	Scope       string `gorm:"size:50"`
	Conditions  datatypes.JSONMap
	Description string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PermissionModel) TableName() string {
	return constants.TablePermissions
}

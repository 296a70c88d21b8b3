package mappers

import (
	"gorm.io/datatypes"

	"github.com/tillgate/tillgate/internal/domain/audit"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/models"
)

func AuditEntryToModel(e *audit.Entry) *models.AuditLogModel {
	return &models.AuditLogModel{
		ID:           e.ID,
		UserID:       e.UserID,
		Action:       e.Action,
		Resource:     e.Resource,
		ResourceID:   e.ResourceID,
		OldValues:    jsonMap(e.OldValues),
		NewValues:    jsonMap(e.NewValues),
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		SessionID:    e.SessionID,
		RequestID:    e.RequestID,
		Timestamp:    e.Timestamp,
		Success:      e.Success,
		ErrorMessage: e.ErrorMessage,
		Metadata:     jsonMap(e.Metadata),
	}
}

func AuditEntryToDomain(m *models.AuditLogModel) *audit.Entry {
	return &audit.Entry{
		ID:           m.ID,
		UserID:       m.UserID,
		Action:       m.Action,
		Resource:     m.Resource,
		ResourceID:   m.ResourceID,
		OldValues:    plainMap(m.OldValues),
		NewValues:    plainMap(m.NewValues),
		IPAddress:    m.IPAddress,
		UserAgent:    m.UserAgent,
		SessionID:    m.SessionID,
		RequestID:    m.RequestID,
		Timestamp:    m.Timestamp,
		Success:      m.Success,
		ErrorMessage: m.ErrorMessage,
		Metadata:     plainMap(m.Metadata),
	}
}

func jsonMap(m map[string]any) datatypes.JSONMap {
	if len(m) == 0 {
		return nil
	}
	return datatypes.JSONMap(m)
}

// plainMap maps NULL and empty JSON columns back to a nil map.
func plainMap(m datatypes.JSONMap) map[string]any {
	if len(m) == 0 {
		return nil
	}
	return map[string]any(m)
}

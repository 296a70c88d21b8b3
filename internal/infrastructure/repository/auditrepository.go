package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tillgate/tillgate/internal/domain/audit"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/mappers"
	"github.com/tillgate/tillgate/internal/infrastructure/persistence/models"
	"github.com/tillgate/tillgate/internal/shared/db"
)

// AuditRepository never updates or deletes rows.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

var _ audit.Repository = (*AuditRepository)(nil)

func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	model := mappers.AuditEntryToModel(entry)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	entry.ID = model.ID
	return nil
}

func (r *AuditRepository) List(ctx context.Context, filter audit.Filter) ([]*audit.Entry, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.AuditLogModel{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Resource != "" {
		query = query.Where("resource = ?", filter.Resource)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Success != nil {
		query = query.Where("success = ?", *filter.Success)
	}
	if filter.From != nil {
		query = query.Where("timestamp >= ?", *filter.From)
	}
	if filter.To != nil {
		op := "<="
		if filter.ToExclusive {
			op = "<"
		}
		query = query.Where("timestamp "+op+" ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit entries: %w", err)
	}

	var rows []*models.AuditLogModel
	err := query.
		Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Order("timestamp DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries := make([]*audit.Entry, 0, len(rows))
	for _, m := range rows {
		entries = append(entries, mappers.AuditEntryToDomain(m))
	}
	return entries, total, nil
}

// Package audit writes and queries the append-only audit log.
package audit

import (
	"context"
	"fmt"
	"time"

	domainAudit "github.com/tillgate/tillgate/internal/domain/audit"
	"github.com/tillgate/tillgate/internal/shared/biztime"
	"github.com/tillgate/tillgate/internal/shared/constants"
	"github.com/tillgate/tillgate/internal/shared/logger"
)

// FailureCounter is notified whenever a best-effort write is dropped.
type FailureCounter interface {
	AuditWriteFailed()
}

type Service struct {
	repo     domainAudit.Repository
	logger   logger.Interface
	failures FailureCounter
	now      func() time.Time
}

func NewService(repo domainAudit.Repository, logger logger.Interface) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    biztime.NowUTC,
	}
}

func (s *Service) SetFailureCounter(c FailureCounter) {
	s.failures = c
}

// Denial describes a request rejected by a permission guard.
type Denial struct {
	Resource           string
	Action             string
	ResourceID         *string
	RequiredPermission string
	Reason             string
}

// Mutation describes a state change, successful or not.
type Mutation struct {
	Action       string
	Resource     string
	ResourceID   *string
	OldValues    map[string]any
	NewValues    map[string]any
	Success      bool
	ErrorMessage string
	Metadata     map[string]any
}

// RecordDenial writes exactly one "unauthorized_<action>" entry. Failures are
// logged and swallowed.
func (s *Service) RecordDenial(ctx context.Context, d Denial) {
	info := RequestInfoFrom(ctx)
	entry := s.newEntry(info)
	entry.Action = domainAudit.DenialAction(d.Action)
	entry.Resource = d.Resource
	entry.ResourceID = d.ResourceID
	entry.Success = false
	entry.ErrorMessage = constants.ErrMsgInsufficientPerms
	entry.Metadata = map[string]any{
		"requiredPermission": d.RequiredPermission,
		"endpoint":           info.Endpoint,
		"reason":             d.Reason,
	}
	s.bestEffort(ctx, entry)
}

// RecordMutation is the best-effort path used by the HTTP layer.
func (s *Service) RecordMutation(ctx context.Context, m Mutation) {
	s.bestEffort(ctx, s.MutationEntry(ctx, m))
}

// RecordError logs a failed operation with its message.
func (s *Service) RecordError(ctx context.Context, action, resource string, resourceID *string, cause error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	s.RecordMutation(ctx, Mutation{
		Action:       action,
		Resource:     resource,
		ResourceID:   resourceID,
		Success:      false,
		ErrorMessage: msg,
	})
}

// Append writes an entry and returns the storage error, for callers that
// must fail together with their audit trail.
func (s *Service) Append(ctx context.Context, entry *domainAudit.Entry) error {
	if err := s.repo.Append(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// MutationEntry builds the entry for m using the request info in ctx.
func (s *Service) MutationEntry(ctx context.Context, m Mutation) *domainAudit.Entry {
	entry := s.newEntry(RequestInfoFrom(ctx))
	entry.Action = m.Action
	entry.Resource = m.Resource
	entry.ResourceID = m.ResourceID
	entry.OldValues = m.OldValues
	entry.NewValues = m.NewValues
	entry.Success = m.Success
	entry.ErrorMessage = m.ErrorMessage
	entry.Metadata = m.Metadata
	return entry
}

func (s *Service) List(ctx context.Context, filter domainAudit.Filter) ([]*domainAudit.Entry, int64, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, total, nil
}

func (s *Service) newEntry(info RequestInfo) *domainAudit.Entry {
	return &domainAudit.Entry{
		UserID:    info.UserID,
		IPAddress: info.IPAddress,
		UserAgent: info.UserAgent,
		SessionID: info.SessionID,
		RequestID: info.RequestID,
		Timestamp: s.now(),
	}
}

func (s *Service) bestEffort(ctx context.Context, entry *domainAudit.Entry) {
	if err := s.repo.Append(ctx, entry); err != nil {
		s.logger.Errorw("failed to write audit entry",
			"action", entry.Action,
			"resource", entry.Resource,
			"request_id", entry.RequestID,
			"error", err,
		)
		if s.failures != nil {
			s.failures.AuditWriteFailed()
		}
	}
}

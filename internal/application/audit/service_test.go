package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainAudit "github.com/tillgate/tillgate/internal/domain/audit"
	"github.com/tillgate/tillgate/internal/shared/logger"
)

type mockRepository struct {
	AppendFunc func(ctx context.Context, entry *domainAudit.Entry) error
	ListFunc   func(ctx context.Context, filter domainAudit.Filter) ([]*domainAudit.Entry, int64, error)
	appended   []*domainAudit.Entry
}

func (m *mockRepository) Append(ctx context.Context, entry *domainAudit.Entry) error {
	if m.AppendFunc != nil {
		if err := m.AppendFunc(ctx, entry); err != nil {
			return err
		}
	}
	m.appended = append(m.appended, entry)
	return nil
}

func (m *mockRepository) List(ctx context.Context, filter domainAudit.Filter) ([]*domainAudit.Entry, int64, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

type countingFailures struct{ n int }

func (c *countingFailures) AuditWriteFailed() { c.n++ }

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(repo domainAudit.Repository) *Service {
	s := NewService(repo, logger.NewDiscard())
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestRecordDenial(t *testing.T) {
	repo := &mockRepository{}
	svc := newTestService(repo)

	uid := uint(5)
	ctx := WithRequestInfo(context.Background(), RequestInfo{
		UserID:    &uid,
		IPAddress: "10.0.0.1",
		UserAgent: "pos-terminal",
		RequestID: "req-1",
		Endpoint:  "DELETE /orders/9",
	})
	orderID := "9"
	svc.RecordDenial(ctx, Denial{
		Resource:           "orders",
		Action:             "delete",
		ResourceID:         &orderID,
		RequiredPermission: "orders:delete",
		Reason:             "no_matching_permission",
	})

	require.Len(t, repo.appended, 1)
	e := repo.appended[0]
	assert.Equal(t, "unauthorized_delete", e.Action)
	assert.Equal(t, "orders", e.Resource)
	assert.Equal(t, "9", *e.ResourceID)
	assert.Equal(t, uid, *e.UserID)
	assert.False(t, e.Success)
	assert.Equal(t, "Insufficient permissions", e.ErrorMessage)
	assert.Equal(t, fixedNow, e.Timestamp)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, map[string]any{
		"requiredPermission": "orders:delete",
		"endpoint":           "DELETE /orders/9",
		"reason":             "no_matching_permission",
	}, e.Metadata)
}

func TestRecordDenial_SwallowsStorageErrors(t *testing.T) {
	repo := &mockRepository{
		AppendFunc: func(context.Context, *domainAudit.Entry) error {
			return errors.New("disk full")
		},
	}
	failures := &countingFailures{}
	svc := newTestService(repo)
	svc.SetFailureCounter(failures)

	assert.NotPanics(t, func() {
		svc.RecordDenial(context.Background(), Denial{Resource: "orders", Action: "view"})
	})
	assert.Equal(t, 1, failures.n)
}

func TestRecordMutationAndError(t *testing.T) {
	repo := &mockRepository{}
	svc := newTestService(repo)
	ctx := context.Background()

	svc.RecordMutation(ctx, Mutation{
		Action:    "update",
		Resource:  "roles",
		OldValues: map[string]any{"level": 40},
		NewValues: map[string]any{"level": 60},
		Success:   true,
	})
	svc.RecordError(ctx, "create", "roles", nil, errors.New("duplicate"))

	require.Len(t, repo.appended, 2)
	assert.True(t, repo.appended[0].Success)
	assert.Equal(t, 60, repo.appended[0].NewValues["level"])
	assert.Nil(t, repo.appended[0].UserID)
	assert.False(t, repo.appended[1].Success)
	assert.Equal(t, "duplicate", repo.appended[1].ErrorMessage)
}

func TestAppend_PropagatesErrors(t *testing.T) {
	repo := &mockRepository{
		AppendFunc: func(context.Context, *domainAudit.Entry) error {
			return errors.New("boom")
		},
	}
	svc := newTestService(repo)

	err := svc.Append(context.Background(), &domainAudit.Entry{Action: "a", Resource: "b", Timestamp: fixedNow})
	assert.ErrorContains(t, err, "boom")
}

func TestRequestInfoFrom_Empty(t *testing.T) {
	assert.Equal(t, RequestInfo{}, RequestInfoFrom(context.Background()))
}

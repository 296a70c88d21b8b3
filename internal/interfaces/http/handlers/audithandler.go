package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domainAudit "github.com/tillgate/tillgate/internal/domain/audit"
	"github.com/tillgate/tillgate/internal/shared/biztime"
	"github.com/tillgate/tillgate/internal/shared/errors"
	"github.com/tillgate/tillgate/internal/shared/logger"
	"github.com/tillgate/tillgate/internal/shared/utils"
)

type AuditHandler struct {
	audit  auditReader
	logger logger.Interface
}

func NewAuditHandler(audit auditReader, logger logger.Interface) *AuditHandler {
	return &AuditHandler{
		audit:  audit,
		logger: logger,
	}
}

type AuditLogResponse struct {
	ID           uint           `json:"id"`
	UserID       *uint          `json:"user_id,omitempty"`
	Action       string         `json:"action"`
	Resource     string         `json:"resource"`
	ResourceID   *string        `json:"resource_id,omitempty"`
	OldValues    map[string]any `json:"old_values,omitempty"`
	NewValues    map[string]any `json:"new_values,omitempty"`
	IPAddress    string         `json:"ip_address,omitempty"`
	UserAgent    string         `json:"user_agent,omitempty"`
	SessionID    string         `json:"session_id,omitempty"`
	RequestID    string         `json:"request_id,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
	Success      bool           `json:"success"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// ListAuditLogs godoc
// @Summary List audit log entries
// @Description Newest first. Time bounds are RFC 3339.
// @Tags audit
// @Produce json
// @Security Bearer
// @Param user_id query int false "Acting user"
// @Param resource query string false "Resource"
// @Param action query string false "Action"
// @Param success query bool false "Outcome"
// @Param from query string false "Lower time bound, inclusive (RFC3339 or YYYY-MM-DD)"
// @Param to query string false "Upper time bound: an RFC3339 instant is inclusive, a YYYY-MM-DD date includes that whole day"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} utils.APIResponse{data=utils.ListResponse}
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	filter, err := parseAuditFilter(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	entries, total, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Errorw("failed to list audit logs", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	items := make([]*AuditLogResponse, 0, len(entries))
	for _, e := range entries {
		items = append(items, toAuditLogResponse(e))
	}

	utils.ListSuccessResponse(c, items, total, filter.Page, filter.PageSize)
}

func parseAuditFilter(c *gin.Context) (domainAudit.Filter, error) {
	p := utils.ParsePagination(c)
	filter := domainAudit.Filter{
		Resource: c.Query("resource"),
		Action:   c.Query("action"),
		Page:     p.Page,
		PageSize: p.PageSize,
	}

	userID, err := utils.ParseUintQuery(c, "user_id")
	if err != nil {
		return filter, err
	}
	filter.UserID = userID

	if raw := c.Query("success"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, errors.NewValidationError("invalid success", raw)
		}
		filter.Success = &v
	}

	if filter.From, err = parseTimeQuery(c, "from", false); err != nil {
		return filter, err
	}
	if filter.To, err = parseTimeQuery(c, "to", true); err != nil {
		return filter, err
	}
	filter.ToExclusive = filter.To != nil && biztime.IsDateOnly(c.Query("to"))
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, errors.NewValidationError("to must not be before from")
	}

	return filter, nil
}

// parseTimeQuery accepts RFC3339 or a plain date in the business timezone;
// a plain "to" date covers the whole day.
func parseTimeQuery(c *gin.Context, name string, endOfDay bool) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := biztime.ParseBoundary(raw, endOfDay)
	if err != nil {
		return nil, errors.NewValidationError("invalid "+name, raw)
	}
	return &t, nil
}

func toAuditLogResponse(e *domainAudit.Entry) *AuditLogResponse {
	return &AuditLogResponse{
		ID:           e.ID,
		UserID:       e.UserID,
		Action:       e.Action,
		Resource:     e.Resource,
		ResourceID:   e.ResourceID,
		OldValues:    e.OldValues,
		NewValues:    e.NewValues,
		IPAddress:    e.IPAddress,
		UserAgent:    e.UserAgent,
		SessionID:    e.SessionID,
		RequestID:    e.RequestID,
		Timestamp:    e.Timestamp,
		Success:      e.Success,
		ErrorMessage: e.ErrorMessage,
		Metadata:     e.Metadata,
	}
}

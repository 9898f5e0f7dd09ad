package client

import (
	"context"
	"net/http"

	"school-admin/internal/gateway"
	"school-admin/internal/model"
)

type AuditClient struct {
	gateway *gateway.Gateway
}

func NewAuditClient(g *gateway.Gateway) *AuditClient {
	return &AuditClient{gateway: g}
}

// List pages through the change history, newest first. Admin only.
func (c *AuditClient) List(ctx context.Context, page model.PageRequest, filter model.AuditFilter) (*model.Envelope[model.Page[model.AuditEntry]], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	return gateway.Call[model.Page[model.AuditEntry]](ctx, c.gateway, http.MethodGet, "/api/audit/list", model.ListQuery(page, filter), nil)
}

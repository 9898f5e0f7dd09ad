package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"school-admin/internal/event"
	"school-admin/internal/model"
	"school-admin/internal/repository"
)

const auditWriteTimeout = 5 * time.Second

// AuditService keeps the trail of changes to school records.
type AuditService struct {
	store repository.AuditStore
}

func NewAuditService(store repository.AuditStore) *AuditService {
	return &AuditService{store: store}
}

// Run records every event published on bus until ctx is done.
func (s *AuditService) Run(ctx context.Context, bus event.Bus) {
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
			_ = s.Log(writeCtx, e)
			cancel()
		}
	}
}

func (s *AuditService) Log(ctx context.Context, e event.Event) error {
	entry := model.AuditEntry{
		ID:         e.ID,
		Action:     string(e.Type),
		Resource:   e.Resource,
		ActorID:    e.ActorID,
		ActorName:  e.ActorName,
		OccurredAt: e.Timestamp,
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}
	if e.Payload != nil {
		data, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
		entry.Data = data
	}

	if err := s.store.LogAudit(ctx, entry); err != nil {
		slog.Error("failed to record audit entry", "action", entry.Action, "resource", entry.Resource, "error", err)
		return err
	}

	slog.Info("school record changed", "action", entry.Action, "resource", entry.Resource, "actor", entry.ActorName)
	return nil
}

func (s *AuditService) List(ctx context.Context, filter model.AuditFilter, page model.PageRequest) (model.Page[model.AuditEntry], error) {
	if err := page.Validate(); err != nil {
		return model.Page[model.AuditEntry]{}, err
	}
	filter.Action = strings.ToLower(strings.TrimSpace(filter.Action))
	filter.Actor = strings.TrimSpace(filter.Actor)
	filter.Resource = strings.TrimSpace(filter.Resource)

	entries, total, err := s.store.ListAudit(ctx, filter, page)
	if err != nil {
		return model.Page[model.AuditEntry]{}, err
	}
	return model.Page[model.AuditEntry]{List: entries, Total: total}, nil
}

package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
	"github.com/ariefcatur/go-stock-orders/internal/postgres/auditrepo"
)

type reader interface {
	List(ctx context.Context, f auditrepo.Filter) ([]domain.AuditLog, error)
}

// Service answers audit log lookups, newest first.
type Service struct {
	store reader
}

func NewService(store reader) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context) ([]domain.AuditLog, error) {
	return s.list(ctx, auditrepo.Filter{})
}

func (s *Service) ByTable(ctx context.Context, table string) ([]domain.AuditLog, error) {
	if table == "" {
		return nil, domain.NewValidationError("table", "is required")
	}
	return s.list(ctx, auditrepo.Filter{Table: table})
}

func (s *Service) ByEntity(ctx context.Context, table, entityID string) ([]domain.AuditLog, error) {
	if table == "" {
		return nil, domain.NewValidationError("table", "is required")
	}
	if entityID == "" {
		return nil, domain.NewValidationError("entity_id", "is required")
	}
	return s.list(ctx, auditrepo.Filter{Table: table, EntityID: entityID})
}

// ByDateRange returns records with start <= changed_at <= end.
func (s *Service) ByDateRange(ctx context.Context, start, end time.Time) ([]domain.AuditLog, error) {
	if start.After(end) {
		return nil, domain.NewValidationError("startDate", "cannot be greater than end date")
	}
	return s.list(ctx, auditrepo.Filter{From: start.UTC(), To: end.UTC()})
}

func (s *Service) list(ctx context.Context, f auditrepo.Filter) ([]domain.AuditLog, error) {
	logs, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("audit logs: %w", err)
	}
	if logs == nil {
		logs = []domain.AuditLog{}
	}
	return logs, nil
}

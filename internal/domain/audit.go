package domain

import (
	"encoding/json"
	"time"
)

type AuditAction string

const (
	AuditAdded    AuditAction = "Added"
	AuditModified AuditAction = "Modified"
	AuditDeleted  AuditAction = "Deleted"
)

// Table names as they appear in audit logs.
const (
	TableUsers     = "users"
	TableProducts  = "products"
	TableOrders    = "orders"
	TableAuditLogs = "audit_logs"
)

// AuditLog is append-only; rows are never updated.
type AuditLog struct {
	ID        int64           `json:"id"         db:"id"`
	TableName string          `json:"table_name" db:"table_name"`
	Action    AuditAction     `json:"action"     db:"action"`
	EntityID  string          `json:"entity_id"  db:"entity_id"`
	OldValues json.RawMessage `json:"old_values,omitempty" db:"old_values"`
	NewValues json.RawMessage `json:"new_values,omitempty" db:"new_values"`
	ChangedAt time.Time       `json:"changed_at" db:"changed_at"`
}

// EntityChange is a before/after snapshot staged by a repository inside a
// unit of work. Before is nil for Added, After is nil for Deleted.
type EntityChange struct {
	Table    string
	Action   AuditAction
	EntityID int64
	Before   map[string]any
	After    map[string]any
}

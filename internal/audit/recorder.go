// Package audit turns staged entity changes into audit log rows and serves
// audit log queries.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/ariefcatur/go-stock-orders/internal/domain"
)

type writer interface {
	Insert(ctx context.Context, logs ...domain.AuditLog) error
}

// Recorder is a postgres.CommitHook. It writes audit rows in the same
// transaction as the changes they describe.
type Recorder struct {
	store writer
	now   func() time.Time
}

func NewRecorder(store writer) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

func (r *Recorder) BeforeCommit(ctx context.Context, changes []domain.EntityChange) error {
	logs, err := Entries(changes, r.now().UTC())
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		return nil
	}
	if err := r.store.Insert(ctx, logs...); err != nil {
		return fmt.Errorf("record audit: %w", err)
	}
	return nil
}

// Entries converts changes into audit rows stamped with changedAt.
// Modified changes keep only the fields whose values differ; a
// modification without differences yields no row.
func Entries(changes []domain.EntityChange, changedAt time.Time) ([]domain.AuditLog, error) {
	out := make([]domain.AuditLog, 0, len(changes))
	for _, ch := range changes {
		if ch.Table == domain.TableAuditLogs {
			continue
		}

		var before, after map[string]any
		switch ch.Action {
		case domain.AuditAdded:
			after = ch.After
		case domain.AuditDeleted:
			before = ch.Before
		case domain.AuditModified:
			before, after = diff(ch.Before, ch.After)
			if len(before) == 0 && len(after) == 0 {
				continue
			}
		default:
			return nil, fmt.Errorf("audit %s %d: unknown action %q", ch.Table, ch.EntityID, ch.Action)
		}

		oldJSON, err := marshal(before)
		if err != nil {
			return nil, err
		}
		newJSON, err := marshal(after)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.AuditLog{
			TableName: ch.Table,
			Action:    ch.Action,
			EntityID:  strconv.FormatInt(ch.EntityID, 10),
			OldValues: oldJSON,
			NewValues: newJSON,
			ChangedAt: changedAt,
		})
	}
	return out, nil
}

func diff(before, after map[string]any) (map[string]any, map[string]any) {
	oldVals := map[string]any{}
	newVals := map[string]any{}
	for k, nv := range after {
		ov, ok := before[k]
		if ok && reflect.DeepEqual(ov, nv) {
			continue
		}
		if ok {
			oldVals[k] = ov
		}
		newVals[k] = nv
	}
	for k, ov := range before {
		if _, ok := after[k]; !ok {
			oldVals[k] = ov
		}
	}
	return oldVals, newVals
}

func marshal(m map[string]any) (json.RawMessage, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal audit values: %w", err)
	}
	return b, nil
}

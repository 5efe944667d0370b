// Package audit records administrative actions.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/skyportlabs/panel/internal/db/models"
)

const defaultWriteTimeout = 5 * time.Second

// Entry describes one administrative action.
type Entry struct {
	ActorID   uint64
	ActorName string
	Action    string
	Origin    string
}

// Notifier receives audit entries. Notify must not block the caller on I/O
// and never reports failures back.
type Notifier interface {
	Notify(ctx context.Context, entry Entry)
}

var _ Notifier = (*DBNotifier)(nil)

// DBNotifier persists entries as models.AuditLog rows in the background.
type DBNotifier struct {
	db      *gorm.DB
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewDBNotifier returns a notifier writing to db.
func NewDBNotifier(db *gorm.DB) *DBNotifier {
	return &DBNotifier{db: db, timeout: defaultWriteTimeout}
}

// Notify stores entry on a separate goroutine. The write is detached from
// ctx cancellation, a client hanging up does not drop the entry.
func (n *DBNotifier) Notify(ctx context.Context, entry Entry) {
	n.wg.Add(1)

	go func() {
		defer n.wg.Done()

		writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()

		row := models.AuditLog{
			ActorID:   entry.ActorID,
			ActorName: entry.ActorName,
			Action:    entry.Action,
			Origin:    entry.Origin,
		}

		if err := n.db.WithContext(writeCtx).Create(&row).Error; err != nil {
			log.Error().Err(err).
				Str("action", entry.Action).
				Str("actor", entry.ActorName).
				Msg("failed to write audit entry")

			return
		}

		log.Debug().Str("id", row.ID).Str("action", entry.Action).Msg("audit entry written")
	}()
}

// Wait blocks until all pending entries are written.
func (n *DBNotifier) Wait() {
	n.wg.Wait()
}

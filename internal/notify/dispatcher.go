package notify

import (
	"sync"

	"fintrack/internal/logger"

	"github.com/robfig/cron/v3"
)

type cronDispatcher struct {
	enabled bool
	sender  Sender
	cron    *cron.Cron

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// NewDispatcher creates a cron-backed Dispatcher. When enabled is false
// every delivery and scheduling call becomes a no-op, mirroring a user
// who has denied notification permission.
func NewDispatcher(sender Sender, enabled bool) Dispatcher {
	d := &cronDispatcher{
		enabled: enabled,
		sender:  sender,
		cron:    cron.New(),
		entries: make(map[string]cron.EntryID),
	}
	d.cron.Start()
	return d
}

func (d *cronDispatcher) Enabled() bool {
	return d.enabled
}

func (d *cronDispatcher) Deliver(n Notification) error {
	if !d.enabled {
		return nil
	}
	if err := d.sender.Send(n); err != nil {
		return err
	}
	logger.Get().Infow("notification delivered", "kind", n.Kind, "title", n.Title)
	return nil
}

func (d *cronDispatcher) ScheduleRecurring(kind, cronSpec string, fn func() (Notification, bool)) error {
	if !d.enabled {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	// Replace any existing schedule for this kind before adding the new
	// one, so a kind never fires twice.
	if id, ok := d.entries[kind]; ok {
		d.cron.Remove(id)
		delete(d.entries, kind)
	}

	id, err := d.cron.AddFunc(cronSpec, func() {
		n, ok := fn()
		if !ok {
			return
		}
		if err := d.Deliver(n); err != nil {
			logger.Get().Errorw("scheduled notification failed", "kind", kind, "error", err)
		}
	})
	if err != nil {
		return err
	}
	d.entries[kind] = id
	logger.Get().Infow("notification scheduled", "kind", kind, "cron", cronSpec)
	return nil
}

func (d *cronDispatcher) CancelScheduled(kind string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if id, ok := d.entries[kind]; ok {
		d.cron.Remove(id)
		delete(d.entries, kind)
		logger.Get().Infow("notification schedule cancelled", "kind", kind)
	}
}

func (d *cronDispatcher) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
}

// Package notify delivers user-facing notifications: immediate alerts
// raised by transaction activity and recurring scheduled reminders.
package notify

// Notification is a user-facing message.
type Notification struct {
	// Kind groups notifications so scheduled ones can be cancelled as a
	// set, e.g. "monthly_summary", "large_transaction", "low_balance".
	Kind  string `json:"kind"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Dispatcher schedules and delivers notifications.
type Dispatcher interface {
	// Enabled reports whether the user has granted notification
	// permission. Delivery is a no-op when disabled.
	Enabled() bool
	// Deliver sends a notification immediately.
	Deliver(n Notification) error
	// ScheduleRecurring registers a notification produced by fn on the
	// given cron schedule. Scheduling the same kind again replaces the
	// previous entry.
	ScheduleRecurring(kind, cronSpec string, fn func() (Notification, bool)) error
	// CancelScheduled removes the recurring entry for kind, if any.
	CancelScheduled(kind string)
	// Stop halts the scheduler and waits for running jobs.
	Stop()
}

// Sender is the delivery transport for notifications.
type Sender interface {
	Send(n Notification) error
}

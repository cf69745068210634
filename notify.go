package authdash

import (
	"context"
	"time"

	"github.com/alexedwards/scs/v2"
)

// NotificationKind is success or error
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// DefaultToastDuration is how long a toast stays on screen
const DefaultToastDuration = 5 * time.Second

// Notification is one toast
type Notification struct {
	Kind     NotificationKind
	Message  string
	Duration time.Duration
}

// DurationMillis is the toast lifetime as the page script expects it
func (n Notification) DurationMillis() int64 {
	return n.Duration.Milliseconds()
}

// Notifications queues toasts in the browser session until the next page
// render picks them up
type Notifications struct {
	Session  *scs.SessionManager
	Duration time.Duration
}

func (n *Notifications) push(ctx context.Context, kind NotificationKind, msg string) {
	d := n.Duration
	if d <= 0 {
		d = DefaultToastDuration
	}
	queue, _ := n.Session.Get(ctx, sessionKeyToasts).([]Notification)
	queue = append(queue, Notification{Kind: kind, Message: msg, Duration: d})
	n.Session.Put(ctx, sessionKeyToasts, queue)
}

// Success queues a success toast
func (n *Notifications) Success(ctx context.Context, msg string) {
	n.push(ctx, NotifySuccess, msg)
}

// Error queues an error toast
func (n *Notifications) Error(ctx context.Context, msg string) {
	n.push(ctx, NotifyError, msg)
}

// Drain returns and forgets every queued toast
func (n *Notifications) Drain(ctx context.Context) []Notification {
	queue, _ := n.Session.Pop(ctx, sessionKeyToasts).([]Notification)
	return queue
}

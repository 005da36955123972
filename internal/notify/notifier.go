package notify

// Message is one outbound email. Notifications are best-effort: senders run
// in their own goroutine and failures are logged, never surfaced to the
// request that triggered them.
type Message struct {
	To      []string
	Subject string
	Body    string
}

type Notifier interface {
	Send(msg Message) error
}

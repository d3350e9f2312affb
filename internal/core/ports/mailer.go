package ports

import "context"

// MailMessage is a plain-text email handed to the outbound mail path.
type MailMessage struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers a single message to the email relay. Acceptance by the
// relay is all the caller learns; delivery confirmation is out of scope.
type Mailer interface {
	Send(ctx context.Context, msg MailMessage) error
}

// MailDispatcher decouples OTP issuance from SMTP latency: Enqueue returns
// immediately and delivery happens on a background worker.
type MailDispatcher interface {
	Enqueue(msg MailMessage)
}

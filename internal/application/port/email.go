package port

import "context"

// EmailMessage is an outbound transactional email
type EmailMessage struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender delivers transactional email. Implementations must not be
// relied on for the outcome of a workflow transition; send failures are
// logged by the caller and never propagated to the submitter-facing
// request.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

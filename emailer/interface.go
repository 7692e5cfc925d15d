package emailer

// Emailer sends a single html email
type Emailer interface {
	Send(toName string, to string, subject string, content string) error
}

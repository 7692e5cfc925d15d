// Package notify tells the site admins about new contact messages.
package notify

import (
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/ngunnawal/heritage/emailer"
	"github.com/ngunnawal/heritage/model"
)

type Notifier interface {
	ContactReceived(msg model.ContactMessage) error
}

// Nop discards every notification
type Nop struct{}

func (Nop) ContactReceived(model.ContactMessage) error { return nil }

// Multi fans a notification out to every notifier and joins their errors
type Multi []Notifier

func (m Multi) ContactReceived(msg model.ContactMessage) error {
	var errs []error
	for _, n := range m {
		if err := n.ContactReceived(msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var emailBody = template.Must(template.New("contact").Parse(
	`<p>A new message was left on the contact page.</p>
<p><strong>{{.Name}}</strong> &lt;{{.Email}}&gt;</p>
<p>{{.Message}}</p>`))

// Email sends the message to a fixed admin address
type Email struct {
	Mailer emailer.Emailer
	ToName string
	To     string
}

func (e Email) ContactReceived(msg model.ContactMessage) error {
	var body strings.Builder
	if err := emailBody.Execute(&body, msg); err != nil {
		return err
	}
	subject := fmt.Sprintf("Contact message from %s", msg.Name)
	if err := e.Mailer.Send(e.ToName, e.To, subject, body.String()); err != nil {
		return fmt.Errorf("cannot email contact message: %w", err)
	}
	return nil
}

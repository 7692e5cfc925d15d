package telegram

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/NicoNex/echotron/v3"

	"github.com/ngunnawal/heritage/model"
)

// maxMessageLen keeps the text under Telegram's 4096 character limit
const maxMessageLen = 4000

// Notifier posts new contact messages to a Telegram chat
type Notifier struct {
	api    echotron.API
	chatID int64
}

func NewNotifier(token string, chatID int64) *Notifier {
	return &Notifier{
		api:    echotron.NewAPI(token),
		chatID: chatID,
	}
}

func (n *Notifier) ContactReceived(msg model.ContactMessage) error {
	res, err := n.api.SendMessage(formatContact(msg), n.chatID, nil)
	if err != nil {
		return fmt.Errorf("cannot send telegram message: %w", err)
	}
	if !res.Ok {
		return fmt.Errorf("telegram refused message: %s", res.Description)
	}
	return nil
}

func formatContact(msg model.ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New contact message #%d\n", msg.ID)
	fmt.Fprintf(&b, "From: %s <%s>\n\n", msg.Name, msg.Email)
	b.WriteString(msg.Message)

	text := b.String()
	if len(text) > maxMessageLen {
		cut := maxMessageLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut] + "…"
	}
	return text
}

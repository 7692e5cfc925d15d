package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ngunnawal/heritage/model"
)

func TestFormatContact(t *testing.T) {
	text := formatContact(model.ContactMessage{ID: 3, Name: "Mia", Email: "mia@example.com", Message: "Hello"})

	for _, want := range []string{"#3", "Mia <mia@example.com>", "Hello"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in %q", want, text)
		}
	}
}

func TestFormatContactTruncates(t *testing.T) {
	text := formatContact(model.ContactMessage{Message: strings.Repeat("a", 5000)})
	if len(text) > maxMessageLen+len("…") {
		t.Errorf("Expected truncated text, got %d bytes", len(text))
	}
}

func TestFormatContactTruncatesOnRuneBoundary(t *testing.T) {
	text := formatContact(model.ContactMessage{Name: "Visitor", Email: "visitor@example.com", Message: strings.Repeat("€", 2000)})
	if !utf8.ValidString(text) {
		t.Fatal("Truncated text is not valid UTF-8")
	}
	if len(text) > maxMessageLen+len("…") {
		t.Errorf("Expected truncated text, got %d bytes", len(text))
	}
	if !strings.HasSuffix(text, "€…") {
		t.Errorf("Expected the text to end on a whole character, got %q", text[len(text)-8:])
	}
}

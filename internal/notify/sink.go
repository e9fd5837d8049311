// Package notify routes outbound text to the right chat channel and emails
// recruiters about successful applications.
package notify

import "strings"

// Channel is one outbound chat client.
type Channel interface {
	Send(identifier, text string) error
}

// Sink is the single place channel selection lives: +-prefixed identifiers
// belong to WhatsApp, everything else to Telegram.
type Sink struct {
	whatsapp Channel
	telegram Channel
}

func NewSink(whatsapp, telegram Channel) *Sink {
	return &Sink{whatsapp: whatsapp, telegram: telegram}
}

// Send delivers text to the identifier's channel. Delivery failures surface
// to the caller, which decides whether the turn is fatal.
func (s *Sink) Send(identifier, text string) error {
	if strings.HasPrefix(identifier, "+") {
		return s.whatsapp.Send(identifier, text)
	}
	return s.telegram.Send(identifier, text)
}

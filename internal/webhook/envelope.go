// Package webhook answers WhatsApp shipment-status queries: the provider
// delivers inbound messages to POST /webhook, the service matches the text
// against a viagem document reference and replies with its status.
package webhook

// Envelope is the messaging-provider event payload. Only the fields the
// service reads are mapped; everything else is ignored.
type Envelope struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

type Value struct {
	MessagingProduct string    `json:"messaging_product"`
	Messages         []Message `json:"messages"`
}

type Message struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text *Text  `json:"text,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

// FirstTextMessage walks the envelope and returns the first text message, or
// nil when the event carries none (status updates, media, reactions).
func (e Envelope) FirstTextMessage() *Message {
	for _, entry := range e.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Type == "text" && msg.Text != nil {
					return &msg
				}
			}
		}
	}
	return nil
}

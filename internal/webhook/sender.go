package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender delivers outbound text messages through the provider.
type Sender interface {
	SendText(ctx context.Context, to, body string) error
}

// WhatsAppSender posts replies to the WhatsApp Cloud API.
type WhatsAppSender struct {
	apiURL     string
	phoneID    string
	token      string
	httpClient *http.Client
}

// NewWhatsAppSender builds a sender for the given phone-number id.
func NewWhatsAppSender(apiURL, phoneID, token string) *WhatsAppSender {
	return &WhatsAppSender{
		apiURL:     apiURL,
		phoneID:    phoneID,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type outboundText struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             Text   `json:"text"`
}

// SendText posts one text message to a recipient.
func (s *WhatsAppSender) SendText(ctx context.Context, to, body string) error {
	payload, err := json.Marshal(outboundText{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             Text{Body: body},
	})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", s.apiURL, s.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: send text: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook: send text returned %d", resp.StatusCode)
	}
	return nil
}

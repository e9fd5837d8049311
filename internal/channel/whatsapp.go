// Package channel implements the outbound chat clients. WhatsApp identifiers
// are +-prefixed phone numbers, Telegram identifiers are numeric chat IDs.
package channel

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/jobconnect-ng/jobconnect/internal/apperr"
	"github.com/jobconnect-ng/jobconnect/internal/config"
	"github.com/tidwall/gjson"
)

// WhatsApp sends messages through the Cloud API.
type WhatsApp struct {
	http          *resty.Client
	phoneNumberID string
}

func NewWhatsApp(cfg config.WhatsAppConfig) *WhatsApp {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.Token).
		SetHeader("Content-Type", "application/json")
	return &WhatsApp{http: client, phoneNumberID: cfg.PhoneNumberID}
}

func (w *WhatsApp) Send(identifier, text string) error {
	resp, err := w.http.R().
		SetBody(map[string]any{
			"messaging_product": "whatsapp",
			"to":                identifier,
			"type":              "text",
			"text":              map[string]string{"body": text},
		}).
		Post("/" + w.phoneNumberID + "/messages")
	if err != nil {
		return &apperr.ProviderError{Provider: "whatsapp", Err: err}
	}
	if resp.IsError() {
		message := gjson.Get(resp.String(), "error.message").String()
		return &apperr.ProviderError{
			Provider: "whatsapp",
			Err:      fmt.Errorf("send to %s: %s: %s", identifier, resp.Status(), message),
		}
	}
	return nil
}

package payment

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/jobconnect-ng/jobconnect/internal/config"
	"github.com/tidwall/gjson"
)

// Paystack talks to the Paystack transaction API.
type Paystack struct {
	http     *resty.Client
	amount   int64
	callback string
}

func NewPaystack(cfg config.PaystackConfig) *Paystack {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.SecretKey).
		SetHeader("Content-Type", "application/json")
	return &Paystack{http: client, amount: cfg.AmountKobo, callback: cfg.CallbackURL}
}

func (p *Paystack) Initialize(ctx context.Context, email, reference string) (string, error) {
	body := map[string]any{
		"email":     email,
		"amount":    p.amount,
		"reference": reference,
	}
	if p.callback != "" {
		body["callback_url"] = p.callback
	}

	resp, err := p.http.R().
		SetContext(ctx).
		SetBody(body).
		Post("/transaction/initialize")
	if err != nil {
		return "", fmt.Errorf("initialize transaction: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("initialize transaction: %s: %s", resp.Status(), resp.String())
	}

	doc := resp.String()
	if !gjson.Get(doc, "status").Bool() {
		return "", fmt.Errorf("initialize transaction rejected: %s", gjson.Get(doc, "message").String())
	}
	url := gjson.Get(doc, "data.authorization_url").String()
	if url == "" {
		return "", fmt.Errorf("initialize transaction: no authorization url in response")
	}
	return url, nil
}

func (p *Paystack) Verify(ctx context.Context, reference string) (bool, error) {
	resp, err := p.http.R().
		SetContext(ctx).
		Get("/transaction/verify/" + reference)
	if err != nil {
		return false, fmt.Errorf("verify transaction: %w", err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("verify transaction: %s: %s", resp.Status(), resp.String())
	}

	doc := resp.String()
	return gjson.Get(doc, "status").Bool() && gjson.Get(doc, "data.status").String() == "success", nil
}

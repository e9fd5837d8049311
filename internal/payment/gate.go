// Package payment implements the one-time payment gate. The relational store
// is the single source of truth for payment status; the session store only
// caches derived checkout URLs.
package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jobconnect-ng/jobconnect/internal/apperr"
	"github.com/jobconnect-ng/jobconnect/internal/model"
	"github.com/jobconnect-ng/jobconnect/internal/session"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Provider is the payment collaborator contract.
type Provider interface {
	Initialize(ctx context.Context, email, reference string) (string, error)
	Verify(ctx context.Context, reference string) (bool, error)
}

// Notifier delivers a text to an identifier on its channel.
type Notifier interface {
	Send(identifier, text string) error
}

type paymentStore interface {
	FindByIdentifier(identifier string) (*model.Payment, error)
	Upsert(p *model.Payment) error
	MarkCompleted(identifier string) error
}

type Gate struct {
	payments paymentStore
	provider Provider
	sessions *session.Store
	notifier Notifier
	logger   *zap.Logger
}

func NewGate(payments paymentStore, provider Provider, sessions *session.Store, notifier Notifier, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{payments: payments, provider: provider, sessions: sessions, notifier: notifier, logger: logger}
}

// CheckStatus reads the relational store. No row means pending.
func (g *Gate) CheckStatus(identifier string) (string, error) {
	p, err := g.payments.FindByIdentifier(identifier)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PaymentStatusPending, nil
	}
	if err != nil {
		return "", fmt.Errorf("check payment status: %w", err)
	}
	return p.Status, nil
}

// Completed reports whether the identifier has paid.
func (g *Gate) Completed(identifier string) (bool, error) {
	status, err := g.CheckStatus(identifier)
	if err != nil {
		return false, err
	}
	return status == model.PaymentStatusCompleted, nil
}

// Initiate opens a new checkout for the identifier and returns the redirect
// URL. Any prior pending reference for the identifier is overwritten.
func (g *Gate) Initiate(ctx context.Context, identifier string) (string, error) {
	email, ok := g.sessions.Email(identifier)
	if !ok {
		email = placeholderEmail(identifier)
	}

	reference := NewReference(identifier)
	if err := g.payments.Upsert(&model.Payment{
		Identifier: identifier,
		Status:     model.PaymentStatusPending,
		Reference:  reference,
		Email:      email,
	}); err != nil {
		return "", fmt.Errorf("record pending payment: %w", err)
	}

	url, err := g.provider.Initialize(ctx, email, reference)
	if err != nil {
		return "", &apperr.ProviderError{Provider: "payment", Err: err}
	}

	g.sessions.SetPaymentURL(identifier, url)
	return url, nil
}

// Confirm verifies a webhook reference and, on success, flips the row to
// completed and tells the payer to upload a CV. The reported bool is the
// verification outcome; a failed notification is logged, not fatal.
func (g *Gate) Confirm(ctx context.Context, reference string) (bool, error) {
	identifier, err := ParseReference(reference)
	if err != nil {
		return false, err
	}

	ok, err := g.provider.Verify(ctx, reference)
	if err != nil {
		return false, &apperr.ProviderError{Provider: "payment", Err: err}
	}
	if !ok {
		return false, nil
	}

	if err := g.payments.MarkCompleted(identifier); err != nil {
		return false, fmt.Errorf("mark payment completed: %w", err)
	}

	text := "Payment received! Upload your CV (PDF or DOCX) to continue."
	if pending, ok := g.sessions.PendingJobs(identifier); ok && len(pending) > 0 {
		text += fmt.Sprintf(" You have %d saved job(s) — once your CV and cover letter are in, I'll submit them for you.", len(pending))
	}
	if err := g.notifier.Send(identifier, text); err != nil {
		g.logger.Error("payment confirmation notice failed",
			zap.String("identifier", identifier), zap.Error(err))
	}
	return true, nil
}

func placeholderEmail(identifier string) string {
	local := strings.TrimPrefix(identifier, "+")
	return local + "@placeholder.jobconnect.app"
}

package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/jobconnect-ng/jobconnect/internal/apperr"
	"github.com/jobconnect-ng/jobconnect/internal/model"
	"github.com/jobconnect-ng/jobconnect/internal/repository"
	"github.com/jobconnect-ng/jobconnect/internal/session"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stubProvider struct {
	url       string
	initErr   error
	verified  bool
	verifyErr error

	initEmail string
	initRef   string
	verifyRef string
}

func (s *stubProvider) Initialize(_ context.Context, email, reference string) (string, error) {
	s.initEmail = email
	s.initRef = reference
	return s.url, s.initErr
}

func (s *stubProvider) Verify(_ context.Context, reference string) (bool, error) {
	s.verifyRef = reference
	return s.verified, s.verifyErr
}

type stubNotifier struct {
	sent map[string][]string
	err  error
}

func (s *stubNotifier) Send(identifier, text string) error {
	if s.sent == nil {
		s.sent = make(map[string][]string)
	}
	s.sent[identifier] = append(s.sent[identifier], text)
	return s.err
}

type gateFixture struct {
	gate     *Gate
	payments *repository.PaymentRepository
	provider *stubProvider
	notifier *stubNotifier
	sessions *session.Store
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Payment{}))

	f := &gateFixture{
		payments: repository.NewPaymentRepository(db),
		provider: &stubProvider{url: "https://checkout.test/abc"},
		notifier: &stubNotifier{},
		sessions: session.NewStore(),
	}
	t.Cleanup(f.sessions.Close)
	f.gate = NewGate(f.payments, f.provider, f.sessions, f.notifier, nil)
	return f
}

func TestCheckStatusAbsentRowIsPending(t *testing.T) {
	f := newGateFixture(t)

	status, err := f.gate.CheckStatus("+23415500001")
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusPending, status)
}

func TestInitiateUsesCachedEmail(t *testing.T) {
	f := newGateFixture(t)
	f.sessions.SetEmail("+23415500001", "seeker@example.test")

	url, err := f.gate.Initiate(context.Background(), "+23415500001")
	require.NoError(t, err)
	require.Equal(t, "https://checkout.test/abc", url)
	require.Equal(t, "seeker@example.test", f.provider.initEmail)

	identifier, err := ParseReference(f.provider.initRef)
	require.NoError(t, err)
	require.Equal(t, "+23415500001", identifier)

	row, err := f.payments.FindByIdentifier("+23415500001")
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusPending, row.Status)
	require.Equal(t, f.provider.initRef, row.Reference)

	cached, ok := f.sessions.PaymentURL("+23415500001")
	require.True(t, ok)
	require.Equal(t, url, cached)
}

func TestInitiateSynthesizesPlaceholderEmail(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.gate.Initiate(context.Background(), "+23415500001")
	require.NoError(t, err)
	require.Equal(t, "23415500001@placeholder.jobconnect.app", f.provider.initEmail)
}

func TestInitiateOverwritesPriorReference(t *testing.T) {
	f := newGateFixture(t)

	_, err := f.gate.Initiate(context.Background(), "+23415500001")
	require.NoError(t, err)
	first := f.provider.initRef

	_, err = f.gate.Initiate(context.Background(), "+23415500001")
	require.NoError(t, err)
	second := f.provider.initRef
	require.NotEqual(t, first, second)

	row, err := f.payments.FindByIdentifier("+23415500001")
	require.NoError(t, err)
	require.Equal(t, second, row.Reference)
}

func TestInitiateProviderFailure(t *testing.T) {
	f := newGateFixture(t)
	f.provider.initErr = errors.New("gateway down")

	_, err := f.gate.Initiate(context.Background(), "+23415500001")

	var provErr *apperr.ProviderError
	require.ErrorAs(t, err, &provErr)
	require.Equal(t, "payment", provErr.Provider)
}

func TestConfirmFlipsRowAndNotifies(t *testing.T) {
	f := newGateFixture(t)
	f.provider.verified = true

	_, err := f.gate.Initiate(context.Background(), "+23415500001")
	require.NoError(t, err)

	ok, err := f.gate.Confirm(context.Background(), f.provider.initRef)
	require.NoError(t, err)
	require.True(t, ok)

	row, err := f.payments.FindByIdentifier("+23415500001")
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusCompleted, row.Status)

	require.Len(t, f.notifier.sent["+23415500001"], 1)
	require.Contains(t, f.notifier.sent["+23415500001"][0], "Upload your CV")
}

func TestConfirmMentionsPendingJobs(t *testing.T) {
	f := newGateFixture(t)
	f.provider.verified = true
	f.sessions.SetPendingJobs("+23415500001", []uint{4, 9})

	_, err := f.gate.Initiate(context.Background(), "+23415500001")
	require.NoError(t, err)

	ok, err := f.gate.Confirm(context.Background(), f.provider.initRef)
	require.NoError(t, err)
	require.True(t, ok)
	require.Contains(t, f.notifier.sent["+23415500001"][0], "2 saved job(s)")
}

func TestConfirmVerificationFailure(t *testing.T) {
	f := newGateFixture(t)
	f.provider.verified = false

	_, err := f.gate.Initiate(context.Background(), "+23415500001")
	require.NoError(t, err)

	ok, err := f.gate.Confirm(context.Background(), f.provider.initRef)
	require.NoError(t, err)
	require.False(t, ok)

	row, err := f.payments.FindByIdentifier("+23415500001")
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusPending, row.Status, "unverified payments stay pending")
	require.Empty(t, f.notifier.sent)
}

func TestConfirmDoesNotTouchOtherIdentifiers(t *testing.T) {
	f := newGateFixture(t)
	f.provider.verified = true

	_, err := f.gate.Initiate(context.Background(), "99887766")
	require.NoError(t, err)
	otherRef := f.provider.initRef

	_, err = f.gate.Initiate(context.Background(), "+23415500001")
	require.NoError(t, err)

	ok, err := f.gate.Confirm(context.Background(), f.provider.initRef)
	require.NoError(t, err)
	require.True(t, ok)

	other, err := f.payments.FindByIdentifier("99887766")
	require.NoError(t, err)
	require.Equal(t, model.PaymentStatusPending, other.Status)
	_ = otherRef
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		want      string
		wantErr   bool
	}{
		{"round trip", NewReference("+23415500001"), "+23415500001", false},
		{"telegram identifier", NewReference("99887766"), "99887766", false},
		{"no separator", "abcdef", "", true},
		{"empty suffix", "abcdef_", "", true},
		{"empty prefix", "_+2341", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReference(tt.reference)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

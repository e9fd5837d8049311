package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jobconnect-ng/jobconnect/internal/bot"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "sk_test_secret"

type recordingTurnHandler struct {
	turns chan bot.Inbound
}

func (r *recordingTurnHandler) HandleMessage(_ context.Context, in bot.Inbound) {
	r.turns <- in
}

func (r *recordingTurnHandler) await(t *testing.T) bot.Inbound {
	t.Helper()
	select {
	case in := <-r.turns:
		return in
	case <-time.After(2 * time.Second):
		t.Fatal("no turn was dispatched")
		return bot.Inbound{}
	}
}

func (r *recordingTurnHandler) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case in := <-r.turns:
		t.Fatalf("unexpected turn dispatched: %+v", in)
	case <-time.After(50 * time.Millisecond):
	}
}

type stubConfirmer struct {
	reference string
	confirmed bool
	err       error
}

func (s *stubConfirmer) Confirm(_ context.Context, reference string) (bool, error) {
	s.reference = reference
	return s.confirmed, s.err
}

type stubFetcher struct {
	data []byte
	err  error
}

func (s *stubFetcher) DownloadDocument(string) ([]byte, error) { return s.data, s.err }

type webhookFixture struct {
	app       *fiber.App
	turns     *recordingTurnHandler
	confirmer *stubConfirmer
	fetcher   *stubFetcher
}

func newWebhookFixture(t *testing.T) *webhookFixture {
	t.Helper()
	f := &webhookFixture{
		app:       fiber.New(),
		turns:     &recordingTurnHandler{turns: make(chan bot.Inbound, 4)},
		confirmer: &stubConfirmer{confirmed: true},
		fetcher:   &stubFetcher{data: []byte("%PDF- doc bytes")},
	}
	h := NewWebhookHandler(f.turns, f.confirmer, f.fetcher, testSecret, false, zap.NewNop())
	h.RegisterRoutes(f.app)
	return f
}

func (f *webhookFixture) post(t *testing.T, path, body string, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func sign(body string) string {
	mac := hmac.New(sha512.New, []byte(testSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestWhatsAppTextTurn(t *testing.T) {
	f := newWebhookFixture(t)

	status := f.post(t, "/webhook/whatsapp", `{"from":"+2348012345678","text":"find jobs in Lagos"}`, nil)

	require.Equal(t, fiber.StatusAccepted, status)
	in := f.turns.await(t)
	require.Equal(t, "+2348012345678", in.Identifier)
	require.Equal(t, "find jobs in Lagos", in.Text)
	require.Nil(t, in.File)
}

func TestWhatsAppDocumentTurn(t *testing.T) {
	f := newWebhookFixture(t)
	encoded := base64.StdEncoding.EncodeToString([]byte("%PDF- cv bytes"))

	status := f.post(t, "/webhook/whatsapp",
		`{"from":"+2348012345678","email":"seeker@example.test","document":{"filename":"cv.pdf","data":"`+encoded+`"}}`, nil)

	require.Equal(t, fiber.StatusAccepted, status)
	in := f.turns.await(t)
	require.NotNil(t, in.File)
	require.Equal(t, "cv.pdf", in.File.Name)
	require.Equal(t, []byte("%PDF- cv bytes"), in.File.Data)
	require.Equal(t, "seeker@example.test", in.File.Email)
}

func TestWhatsAppRejectsMissingSender(t *testing.T) {
	f := newWebhookFixture(t)

	status := f.post(t, "/webhook/whatsapp", `{"text":"hello"}`, nil)

	require.Equal(t, fiber.StatusBadRequest, status)
	f.turns.assertIdle(t)
}

func TestWhatsAppRejectsBadBase64(t *testing.T) {
	f := newWebhookFixture(t)

	status := f.post(t, "/webhook/whatsapp",
		`{"from":"+2348012345678","document":{"filename":"cv.pdf","data":"!!not-base64!!"}}`, nil)

	require.Equal(t, fiber.StatusBadRequest, status)
	f.turns.assertIdle(t)
}

func TestTelegramTextTurn(t *testing.T) {
	f := newWebhookFixture(t)

	status := f.post(t, "/webhook/telegram",
		`{"update_id":1,"message":{"message_id":10,"chat":{"id":99887766},"text":"apply all"}}`, nil)

	require.Equal(t, fiber.StatusAccepted, status)
	in := f.turns.await(t)
	require.Equal(t, "99887766", in.Identifier)
	require.Equal(t, "apply all", in.Text)
}

func TestTelegramNonMessageUpdateIgnored(t *testing.T) {
	f := newWebhookFixture(t)

	status := f.post(t, "/webhook/telegram", `{"update_id":2}`, nil)

	require.Equal(t, fiber.StatusOK, status)
	f.turns.assertIdle(t)
}

func TestTelegramDocumentTurn(t *testing.T) {
	f := newWebhookFixture(t)

	status := f.post(t, "/webhook/telegram",
		`{"update_id":3,"message":{"message_id":11,"chat":{"id":99887766},"caption":"my cv","document":{"file_id":"abc","file_name":"cv.docx"}}}`, nil)

	require.Equal(t, fiber.StatusAccepted, status)
	in := f.turns.await(t)
	require.NotNil(t, in.File)
	require.Equal(t, "cv.docx", in.File.Name)
	require.Equal(t, []byte("%PDF- doc bytes"), in.File.Data)
	require.Equal(t, "my cv", in.Text)
}

func TestTelegramDocumentFetchFailure(t *testing.T) {
	f := newWebhookFixture(t)
	f.fetcher.err = errors.New("bot api down")

	status := f.post(t, "/webhook/telegram",
		`{"update_id":4,"message":{"message_id":12,"chat":{"id":99887766},"document":{"file_id":"abc","file_name":"cv.docx"}}}`, nil)

	require.Equal(t, fiber.StatusBadGateway, status)
	f.turns.assertIdle(t)
}

func TestPaymentChargeSuccess(t *testing.T) {
	f := newWebhookFixture(t)
	body := `{"event":"charge.success","data":{"reference":"a1b2c3_+2348012345678"}}`

	status := f.post(t, "/webhook/payment", body, map[string]string{
		"x-paystack-signature": sign(body),
	})

	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "a1b2c3_+2348012345678", f.confirmer.reference)
}

func TestPaymentRejectsBadSignature(t *testing.T) {
	f := newWebhookFixture(t)
	body := `{"event":"charge.success","data":{"reference":"ref_+234"}}`

	status := f.post(t, "/webhook/payment", body, map[string]string{
		"x-paystack-signature": "deadbeef",
	})

	require.Equal(t, fiber.StatusUnauthorized, status)
	require.Empty(t, f.confirmer.reference)
}

func TestPaymentRejectsMissingSignature(t *testing.T) {
	f := newWebhookFixture(t)
	body := `{"event":"charge.success","data":{"reference":"ref_+234"}}`

	status := f.post(t, "/webhook/payment", body, nil)

	require.Equal(t, fiber.StatusUnauthorized, status)
	require.Empty(t, f.confirmer.reference)
}

func TestPaymentIgnoresOtherEvents(t *testing.T) {
	f := newWebhookFixture(t)
	body := `{"event":"transfer.success","data":{"reference":"ref_+234"}}`

	status := f.post(t, "/webhook/payment", body, map[string]string{
		"x-paystack-signature": sign(body),
	})

	require.Equal(t, fiber.StatusOK, status)
	require.Empty(t, f.confirmer.reference)
}

func TestPaymentRequiresReference(t *testing.T) {
	f := newWebhookFixture(t)
	body := `{"event":"charge.success","data":{}}`

	status := f.post(t, "/webhook/payment", body, map[string]string{
		"x-paystack-signature": sign(body),
	})

	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestPaymentConfirmError(t *testing.T) {
	f := newWebhookFixture(t)
	f.confirmer.err = errors.New("provider unreachable")
	body := `{"event":"charge.success","data":{"reference":"ref_+234"}}`

	status := f.post(t, "/webhook/payment", body, map[string]string{
		"x-paystack-signature": sign(body),
	})

	require.Equal(t, fiber.StatusInternalServerError, status)
}

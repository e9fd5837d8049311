package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/jobconnect-ng/jobconnect/internal/bot"
	"github.com/jobconnect-ng/jobconnect/internal/extract"
	"github.com/jobconnect-ng/jobconnect/internal/util"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// turnTimeout bounds one conversational turn end to end, including the AI and
// extraction tasks it enqueues.
const turnTimeout = 2 * time.Minute

type turnHandler interface {
	HandleMessage(ctx context.Context, in bot.Inbound)
}

type paymentConfirmer interface {
	Confirm(ctx context.Context, reference string) (bool, error)
}

type documentFetcher interface {
	DownloadDocument(fileID string) ([]byte, error)
}

// WebhookHandler terminates the three inbound webhooks: the WhatsApp bridge,
// the Telegram bot API and Paystack payment events. Message turns are
// acknowledged immediately and processed in the background so providers never
// time out waiting on an AI call.
type WebhookHandler struct {
	bot            turnHandler
	payments       paymentConfirmer
	telegram       documentFetcher
	paystackSecret string
	debug          bool
	logger         *zap.Logger
}

func NewWebhookHandler(b turnHandler, payments paymentConfirmer, telegram documentFetcher, paystackSecret string, debug bool, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		bot:            b,
		payments:       payments,
		telegram:       telegram,
		paystackSecret: paystackSecret,
		debug:          debug,
		logger:         logger,
	}
}

func (h *WebhookHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/webhook/whatsapp", h.WhatsApp)
	app.Post("/webhook/telegram", h.Telegram)
	app.Post("/webhook/payment", h.Payment)
}

// WhatsApp accepts the bridge's normalized payload:
//
//	{"from": "+2348012345678", "text": "...",
//	 "document": {"filename": "cv.pdf", "data": "<base64>"}, "email": "..."}
func (h *WebhookHandler) WhatsApp(c *fiber.Ctx) error {
	body := c.Body()

	from := gjson.GetBytes(body, "from").String()
	if from == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "from is required",
			Debug:   h.debug,
		})
	}

	in := bot.Inbound{
		Identifier: from,
		Text:       gjson.GetBytes(body, "text").String(),
	}

	if doc := gjson.GetBytes(body, "document"); doc.Exists() {
		data, err := base64.StdEncoding.DecodeString(doc.Get("data").String())
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "document data is not valid base64",
				Debug:   h.debug,
			}, err)
		}
		in.File = &extract.Upload{
			Name:  doc.Get("filename").String(),
			Data:  data,
			Email: gjson.GetBytes(body, "email").String(),
		}
	}

	h.dispatch(in)
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "message accepted",
	})
}

// Telegram accepts a raw bot API update. Non-message updates are acknowledged
// and dropped; attached documents are fetched through the bot API before the
// turn is dispatched.
func (h *WebhookHandler) Telegram(c *fiber.Ctx) error {
	var update tgbotapi.Update
	if err := json.Unmarshal(c.Body(), &update); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid update payload",
			Debug:   h.debug,
		}, err)
	}
	if update.Message == nil {
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Message: "update ignored",
		})
	}

	in := bot.Inbound{
		Identifier: strconv.FormatInt(update.Message.Chat.ID, 10),
		Text:       update.Message.Text,
	}

	if doc := update.Message.Document; doc != nil {
		data, err := h.telegram.DownloadDocument(doc.FileID)
		if err != nil {
			h.logger.Error("telegram document download failed",
				zap.String("file_id", doc.FileID), zap.Error(err))
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadGateway,
				Message: "could not fetch document",
				Debug:   h.debug,
			}, err)
		}
		in.File = &extract.Upload{Name: doc.FileName, Data: data}
		in.Text = update.Message.Caption
	}

	h.dispatch(in)
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "update accepted",
	})
}

// Payment accepts Paystack events. Only charge.success is acted on; the
// x-paystack-signature header is an HMAC-SHA512 of the raw body under the
// secret key.
func (h *WebhookHandler) Payment(c *fiber.Ctx) error {
	body := c.Body()

	if h.paystackSecret != "" && !h.validSignature(body, c.Get("x-paystack-signature")) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnauthorized,
			Message: "invalid signature",
			Debug:   h.debug,
		})
	}

	if event := gjson.GetBytes(body, "event").String(); event != "charge.success" {
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Message: "event ignored",
		})
	}

	reference := gjson.GetBytes(body, "data.reference").String()
	if reference == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "data.reference is required",
			Debug:   h.debug,
		})
	}

	confirmed, err := h.payments.Confirm(c.Context(), reference)
	if err != nil {
		h.logger.Error("payment confirmation failed",
			zap.String("reference", reference), zap.Error(err))
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to confirm payment",
			Debug:   h.debug,
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "event processed",
		Data:    fiber.Map{"reference": reference, "confirmed": confirmed},
	})
}

func (h *WebhookHandler) validSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(h.paystackSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// dispatch runs the turn in the background. HandleMessage owns its own panic
// recovery and replies on the originating channel.
func (h *WebhookHandler) dispatch(in bot.Inbound) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
		defer cancel()
		h.bot.HandleMessage(ctx, in)
	}()
}

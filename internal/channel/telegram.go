package channel

import (
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/go-resty/resty/v2"
	"github.com/jobconnect-ng/jobconnect/internal/apperr"
)

// Telegram sends messages and fetches uploaded documents through the bot API.
type Telegram struct {
	api  *tgbotapi.BotAPI
	http *resty.Client
}

func NewTelegram(token string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot api: %w", err)
	}
	return &Telegram{api: api, http: resty.New()}, nil
}

func (t *Telegram) Send(identifier, text string) error {
	chatID, err := strconv.ParseInt(identifier, 10, 64)
	if err != nil {
		return &apperr.ProviderError{
			Provider: "telegram",
			Err:      fmt.Errorf("identifier %q is not a chat id: %w", identifier, err),
		}
	}
	if _, err := t.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return &apperr.ProviderError{Provider: "telegram", Err: err}
	}
	return nil
}

// DownloadDocument fetches the raw bytes of a document the user attached.
func (t *Telegram) DownloadDocument(fileID string) ([]byte, error) {
	file, err := t.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, &apperr.ProviderError{Provider: "telegram", Err: err}
	}

	resp, err := t.http.R().Get(file.Link(t.api.Token))
	if err != nil {
		return nil, &apperr.ProviderError{Provider: "telegram", Err: err}
	}
	if resp.IsError() {
		return nil, &apperr.ProviderError{
			Provider: "telegram",
			Err:      fmt.Errorf("download %s: %s", fileID, resp.Status()),
		}
	}
	return resp.Body(), nil
}

// notesbot/telegram/connect.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const reconnectDelay = 5 * time.Second

var ErrUnauthorized = errors.New("telegram rejected the bot token")

// Connect logs in to Telegram, retrying every few seconds while the API is
// unreachable. A rejected token is returned at once.
func Connect(ctx context.Context, token string, debug bool, log zerolog.Logger) (*tgbotapi.BotAPI, error) {
	var api *tgbotapi.BotAPI
	err := retry(ctx, reconnectDelay, log, func() error {
		var err error
		api, err = tgbotapi.NewBotAPI(token)
		return classify(err)
	})
	if err != nil {
		return nil, err
	}

	api.Debug = debug
	log.Info().Str("username", api.Self.UserName).Msg("connected to telegram")
	return api, nil
}

func classify(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusUnauthorized {
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)
	}
	return err
}

// retry calls attempt until it succeeds, fails with ErrUnauthorized, or ctx
// ends.
func retry(ctx context.Context, delay time.Duration, log zerolog.Logger, attempt func() error) error {
	for {
		err := attempt()
		if err == nil || errors.Is(err, ErrUnauthorized) {
			return err
		}
		log.Warn().Err(err).Dur("retry_in", delay).Msg("telegram unreachable, reconnecting")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

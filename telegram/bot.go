// notesbot/telegram/bot.go

// Package telegram connects the command dispatcher to a Telegram bot.
package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/notesbot/command"
	"github.com/vinizap/lumi/notesbot/reply"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	StopReceivingUpdates()
}

// Replier answers one command. *dispatch.Dispatcher implements it.
type Replier interface {
	Reply(ctx context.Context, verb command.Verb, args string) (string, reply.Outcome, error)
}

type Bot struct {
	api         API
	replier     Replier
	username    string
	log         zerolog.Logger
	pollTimeout int
}

// NewBot returns a bot answering as username. Commands addressed to another
// bot, as in "/list@other_bot", are ignored; an empty username accepts all.
func NewBot(api API, replier Replier, username string, pollTimeout int, log zerolog.Logger) *Bot {
	return &Bot{api: api, replier: replier, username: username, pollTimeout: pollTimeout, log: log}
}

// Run long-polls for updates until ctx is done. Every command message is
// handled on its own goroutine; Run returns only after those have finished.
// Handlers do not see ctx's cancellation, so a store call already in flight
// runs to completion.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.api.GetUpdatesChan(u)

	var wg sync.WaitGroup
	defer wg.Wait()

	handleCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info().Msg("stopped receiving updates")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			msg := update.Message
			if msg == nil || !msg.IsCommand() {
				continue
			}
			verb, args, ok := b.command(msg)
			if !ok {
				continue
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				b.handle(handleCtx, msg, verb, args)
			}()
		}
	}
}

// command extracts the verb and arguments of a message meant for this bot.
func (b *Bot) command(msg *tgbotapi.Message) (command.Verb, string, bool) {
	if _, to, addressed := strings.Cut(msg.CommandWithAt(), "@"); addressed && b.username != "" && !strings.EqualFold(to, b.username) {
		return "", "", false
	}
	verb, args, ok := command.ParseLine(msg.Text)
	if !ok || !verb.Valid() {
		b.log.Debug().Str("text", msg.Text).Msg("ignoring unknown command")
		return "", "", false
	}
	return verb, args, true
}

func (b *Bot) handle(ctx context.Context, msg *tgbotapi.Message, verb command.Verb, args string) {
	log := b.log.With().
		Str("request_id", uuid.NewString()).
		Int64("chat_id", msg.Chat.ID).
		Str("verb", string(verb)).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("command handler panicked")
		}
	}()

	start := time.Now()
	text, out, err := b.replier.Reply(ctx, verb, args)
	if errors.Is(err, command.ErrUnknownVerb) {
		log.Debug().Msg("ignoring unknown command")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("command failed")
		return
	}

	ev := log.Info()
	if out.Reason == reply.ReasonGeneric || out.Reason == reply.ReasonTransport {
		ev = log.Warn()
	}
	ev.Err(out.Err).
		Str("outcome", out.Reason.String()).
		Dur("duration", time.Since(start)).
		Msg("command handled")

	answer := tgbotapi.NewMessage(msg.Chat.ID, text)
	answer.ReplyToMessageID = msg.MessageID
	if _, err := b.api.Send(answer); err != nil {
		log.Error().Err(err).Msg("failed to send reply")
	}
}

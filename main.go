// notesbot/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/notesbot/client"
	"github.com/vinizap/lumi/notesbot/config"
	"github.com/vinizap/lumi/notesbot/dispatch"
	httphandlers "github.com/vinizap/lumi/notesbot/http"
	"github.com/vinizap/lumi/notesbot/logging"
	"github.com/vinizap/lumi/notesbot/store"
	"github.com/vinizap/lumi/notesbot/telegram"
)

const usage = `Usage: notesbot [-config file] <command>

Commands:
  bot       Run the Telegram bot against API_BASE_URL
  serve     Run the notes REST store
  migrate   Apply the postgres schema migrations`

const shutdownTimeout = 10 * time.Second

type invocation struct {
	configPath string
	command    string
}

func parseArgs(args []string, output io.Writer) (invocation, error) {
	fs := flag.NewFlagSet("notesbot", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() { fmt.Fprintln(output, usage) }

	var inv invocation
	fs.StringVar(&inv.configPath, "config", "", "yaml config file (default notesbot.yaml when present)")
	if err := fs.Parse(args); err != nil {
		return inv, err
	}

	rest := fs.Args()
	if len(rest) != 1 {
		return inv, errors.New("exactly one command required\n\n" + usage)
	}
	switch rest[0] {
	case "bot", "serve", "migrate":
		inv.command = rest[0]
	default:
		return inv, fmt.Errorf("unknown command %q\n\n%s", rest[0], usage)
	}
	return inv, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Fprintln(os.Stderr, "notesbot:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	inv, err := parseArgs(args, os.Stderr)
	if err != nil {
		return err
	}

	cfg, err := config.Load(inv.configPath)
	if err != nil {
		return err
	}
	log := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	switch inv.command {
	case "bot":
		return runBot(ctx, cfg, log)
	case "serve":
		return runServer(ctx, cfg, log)
	default:
		if cfg.Server.PostgresDSN == "" {
			return errors.New("migrate needs NOTESBOT_POSTGRES_DSN")
		}
		return store.Migrate(cfg.Server.PostgresDSN, log)
	}
}

func runBot(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if err := cfg.ValidateBot(); err != nil {
		return fmt.Errorf("invalid bot configuration: %w", err)
	}

	notes := client.New(cfg.Bot.APIBaseURL,
		client.WithTimeout(cfg.Bot.APITimeout),
		client.WithLogger(log.With().Str("component", "client").Logger()),
	)
	dispatcher := dispatch.New(notes, log.With().Str("component", "dispatch").Logger())

	api, err := telegram.Connect(ctx, cfg.Bot.Token, cfg.Bot.Debug, log)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	log.Info().Str("api", notes.BaseURL()).Msg("bot started")
	bot := telegram.NewBot(api, dispatcher, api.Self.UserName, cfg.Bot.PollTimeout, log.With().Str("component", "bot").Logger())
	return bot.Run(ctx)
}

func runServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if err := cfg.ValidateServer(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}

	if cfg.Server.Backend == store.BackendPostgres {
		if err := store.Migrate(cfg.Server.PostgresDSN, log); err != nil {
			return err
		}
	}
	repo, err := store.Open(ctx, cfg.Server.Backend, cfg.Server.Root, cfg.Server.PostgresDSN)
	if err != nil {
		return err
	}
	defer repo.Close()

	app := httphandlers.NewApp(httphandlers.NewServer(repo, log), cfg.Server.Prefix)

	errc := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Str("prefix", cfg.Server.Prefix).
			Str("backend", cfg.Server.Backend).
			Msg("store listening")
		errc <- app.Listen(cfg.Server.Addr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down store: %w", err)
	}
	log.Info().Msg("store stopped")
	return nil
}

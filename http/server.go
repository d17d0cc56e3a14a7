// notesbot/http/server.go
package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/notesbot/store"
)

// NewApp wires the notes routes under prefix, e.g. "/notes". Item routes
// are prefix + "/:id" and a trailing slash is optional everywhere.
func NewApp(s *Server, prefix string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "notesbot store",
		DisableStartupMessage: true,
		UnescapePath:          true,
		ErrorHandler:          s.handleError,
	})

	app.Use(recover.New())
	app.Use(requestLogger(s.log))
	app.Use(cors.New(cors.Config{
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Content-Type",
	}))

	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = ""
	}

	app.Get(prefix+"/", s.HandleListNotes)
	app.Post(prefix+"/", s.HandleCreateNote)
	app.Get(prefix+"/:id", s.HandleGetNote)
	app.Patch(prefix+"/:id", s.HandlePatchNote)
	app.Put(prefix+"/:id", s.HandlePutNote)
	app.Delete(prefix+"/:id", s.HandleDeleteNote)

	return app
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	var (
		br       badRequest
		fiberErr *fiber.Error
	)
	switch {
	case errors.As(err, &br):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map(br))
	case errors.Is(err, store.ErrNotFound):
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"detail": "Not found."})
	case errors.Is(err, store.ErrInvalid):
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"detail": err.Error()})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(fiber.Map{"detail": fiberErr.Message})
	}

	s.log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("request failed")
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"detail": "Internal server error."})
}

func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the error handler set the final status before logging it.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(http.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

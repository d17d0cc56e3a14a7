// notesbot/http/handlers.go
package http

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vinizap/lumi/notesbot/domain"
	"github.com/vinizap/lumi/notesbot/store"
)

type Server struct {
	repo     store.Repository
	log      zerolog.Logger
	validate *validator.Validate
}

func NewServer(repo store.Repository, log zerolog.Logger) *Server {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return &Server{repo: repo, log: log, validate: v}
}

type createRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

type patchRequest struct {
	Title   *string `json:"title" validate:"omitnil,min=1,max=255"`
	Content *string `json:"content" validate:"omitnil,min=1"`
}

// fieldErrors renders validation failures as {"field": ["message"]}.
func fieldErrors(err error) fiber.Map {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fiber.Map{"detail": err.Error()}
	}
	out := fiber.Map{}
	for _, fe := range verrs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = "This field is required."
		case "min":
			msg = "This field may not be blank."
		case "max":
			msg = "Ensure this field has no more than " + fe.Param() + " characters."
		default:
			msg = "Invalid value."
		}
		out[fe.Field()] = []string{msg}
	}
	return out
}

// badRequest carries the body of a 400 response to the error handler.
type badRequest fiber.Map

func (b badRequest) Error() string { return "bad request" }

func (s *Server) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return badRequest{"detail": "Malformed request body."}
	}
	if err := s.validate.Struct(req); err != nil {
		return badRequest(fieldErrors(err))
	}
	return nil
}

func (s *Server) HandleListNotes(c *fiber.Ctx) error {
	notes, err := s.repo.List(c.UserContext())
	if err != nil {
		return err
	}
	if notes == nil {
		notes = []*domain.Note{}
	}
	return c.JSON(notes)
}

func (s *Server) HandleCreateNote(c *fiber.Ctx) error {
	var req createRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}

	note, err := s.repo.Create(c.UserContext(), req.Title, req.Content)
	if err != nil {
		return err
	}
	s.log.Info().Str("note_id", note.ID.String()).Msg("note created")
	return c.Status(http.StatusCreated).JSON(note)
}

func (s *Server) HandleGetNote(c *fiber.Ctx) error {
	note, err := s.repo.Get(c.UserContext(), domain.NoteID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(note)
}

func (s *Server) HandlePatchNote(c *fiber.Ctx) error {
	var req patchRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	return s.update(c, store.Patch{Title: req.Title, Content: req.Content})
}

func (s *Server) HandlePutNote(c *fiber.Ctx) error {
	var req createRequest
	if err := s.bind(c, &req); err != nil {
		return err
	}
	return s.update(c, store.Patch{Title: &req.Title, Content: &req.Content})
}

func (s *Server) update(c *fiber.Ctx, patch store.Patch) error {
	id := domain.NoteID(c.Params("id"))
	note, err := s.repo.Update(c.UserContext(), id, patch)
	if err != nil {
		return err
	}
	s.log.Info().Str("note_id", id.String()).Msg("note updated")
	return c.JSON(note)
}

func (s *Server) HandleDeleteNote(c *fiber.Ctx) error {
	id := domain.NoteID(c.Params("id"))
	if err := s.repo.Delete(c.UserContext(), id); err != nil {
		return err
	}
	s.log.Info().Str("note_id", id.String()).Msg("note deleted")
	return c.SendStatus(http.StatusNoContent)
}

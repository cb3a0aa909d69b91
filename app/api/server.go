package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"casebot/app/config"
	"casebot/app/service/actions"
	"casebot/app/service/tracker"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/samber/do"
)

const shutdownTimeout = 5 * time.Second

// Runner executes framework actions by name.
type Runner interface {
	Run(ctx context.Context, req tracker.Request) (tracker.Response, error)
	Names() []string
}

// Server is the action webhook the dialogue framework calls after every prediction.
type Server struct {
	addr   string
	runner Runner
	app    *fiber.App
}

func New(di *do.Injector) (*Server, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return NewServer(cfg.Server.Addr, do.MustInvoke[*actions.Service](di)), nil
}

func NewServer(addr string, runner Runner) *Server {
	s := &Server{
		addr:   addr,
		runner: runner,
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "casebot",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	s.app.Use(recover.New())

	s.app.Get("/health", s.health)
	s.app.Get("/actions", s.actions)
	s.app.Post("/webhook", s.webhook)

	return s
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()

		if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			slog.Warn("Webhook shutdown failed", "error", err)
		}
	}()

	slog.Info("Action webhook listening", "addr", s.addr)

	if err := s.app.Listen(s.addr); err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}

	return nil
}

func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(shutdownTimeout)
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) actions(c *fiber.Ctx) error {
	return c.JSON(s.runner.Names())
}

func (s *Server) webhook(c *fiber.Ctx) error {
	var req tracker.Request
	if err := c.BodyParser(&req); err != nil {
		slog.Debug("Malformed webhook body", "error", err)
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body")
	}

	if req.NextAction == "" {
		return fiber.NewError(fiber.StatusBadRequest, "next_action is required")
	}

	resp, err := s.runner.Run(c.UserContext(), req)
	if errors.Is(err, actions.ErrUnknownAction) {
		slog.Warn("Unknown action requested", "action", req.NextAction)

		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":       fmt.Sprintf("No registered action found for name '%s'.", req.NextAction),
			"action_name": req.NextAction,
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(resp)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	} else {
		slog.Error("Webhook request failed",
			"path", c.Path(),
			"error", err,
		)
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}

package inventory

import (
	"errors"

	"dlc-updater/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the inventory.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api")
	group.Get("/games", h.HandleGames)
	group.Get("/inventory/:store", h.HandleInventory)
	group.Post("/reconcile", h.HandleReconcile)
	group.Get("/history", h.HandleHistory)
}

// HandleGames returns the game registry.
func (h *Handler) HandleGames(c *fiber.Ctx) error {
	return c.JSON(h.service.Games())
}

// HandleInventory returns the ids recorded in one store.
func (h *Handler) HandleInventory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	games, err := h.service.Inventory(c.Params("store"))
	if err != nil {
		if errors.Is(err, ErrUnknownStore) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to read inventory", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(games)
}

// HandleReconcile runs a reconciliation and returns its result.
// Query flags: dry_run, no_archive.
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts := RunOptions{
		DryRun:    c.QueryBool("dry_run", false),
		NoArchive: c.QueryBool("no_archive", false),
	}
	l.Info("Reconcile requested", zap.Bool("dry_run", opts.DryRun), zap.Bool("no_archive", opts.NoArchive))

	out, err := h.service.Run(c.Context(), opts)
	if err != nil {
		if errors.Is(err, ErrBusy) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Reconcile failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(out)
}

// HandleHistory returns the latest runs. Query: limit (default 10).
func (h *Handler) HandleHistory(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	runs, err := h.service.History(c.Context(), c.QueryInt("limit", 10))
	if err != nil {
		if errors.Is(err, ErrHistoryDisabled) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to load history", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(runs)
}

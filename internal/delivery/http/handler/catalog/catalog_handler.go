package catalog

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/delivery/middleware"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/logger"
	cataloguc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
)

type Handler struct {
	uc       *cataloguc.Usecase
	debounce *cataloguc.Debouncer
}

func New(uc *cataloguc.Usecase, debounce *cataloguc.Debouncer) *Handler {
	return &Handler{uc: uc, debounce: debounce}
}

func (h *Handler) List(c *fiber.Ctx) error {
	f := cataloguc.Filters{
		SearchTerm: c.Query("search"),
		CategoryID: c.Query("categoryId"),
		Code:       c.Query("code"),
	}
	p := cataloguc.Pagination{
		Skip: c.QueryInt("skip", 0),
		Take: c.QueryInt("take", cataloguc.DefaultTake),
	}

	out, err := h.uc.Search(c.UserContext(), f, p)
	if err != nil {
		return mapErr(c, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// Suggest answers 204 when a newer keystroke from the same terminal replaced
// this request.
func (h *Handler) Suggest(c *fiber.Ctx) error {
	out, err := h.uc.Suggest(c.UserContext(), h.debounce, middleware.TerminalID(c), c.Query("q"))
	if errors.Is(err, cataloguc.ErrSuperseded) {
		return c.SendStatus(fiber.StatusNoContent)
	}
	if err != nil {
		return mapErr(c, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

func (h *Handler) Scan(c *fiber.Ctx) error {
	p, ok := h.uc.Lookup(c.UserContext(), c.Params("code"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, cataloguc.ErrNotFound.Error())
	}
	return c.JSON(p)
}

func mapErr(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, cataloguc.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, cataloguc.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		logger.FromContext(c.UserContext()).Error("catalog request failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

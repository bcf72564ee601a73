package scan

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/scanner"
)

type Handler struct {
	listener *scanner.Listener
	// mapCartErr renders cart rejections the same way the cart routes do.
	mapCartErr func(c *fiber.Ctx, err error) error
}

func New(listener *scanner.Listener, mapCartErr func(c *fiber.Ctx, err error) error) *Handler {
	return &Handler{listener: listener, mapCartErr: mapCartErr}
}

type scanIn struct {
	Data string `json:"data"`
}

func (h *Handler) Handle(c *fiber.Ctx) error {
	var in scanIn
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}

	out, err := h.listener.Handle(c.UserContext(), scanner.Event{Data: in.Data})
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(out)
	case errors.Is(err, scanner.ErrEmptyScan):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, scanner.ErrThrottled):
		return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
	case errors.Is(err, scanner.ErrUnknownCode):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return h.mapCartErr(c, err)
	}
}

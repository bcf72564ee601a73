package cart

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/logger"
	cartuc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/cart"
	cataloguc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/catalog"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/pricing"
	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/stock"
)

type Handler struct {
	engine  *cartuc.Engine
	catalog *cataloguc.Usecase
}

func New(engine *cartuc.Engine, catalog *cataloguc.Usecase) *Handler {
	return &Handler{engine: engine, catalog: catalog}
}

type addItemIn struct {
	ProductID string           `json:"productId"`
	Code      string           `json:"code"`
	Quantity  *decimal.Decimal `json:"quantity"`
}

type quantityIn struct {
	Quantity decimal.Decimal `json:"quantity"`
}

type customItemIn struct {
	Name     string           `json:"name"`
	Price    decimal.Decimal  `json:"price"`
	Quantity *decimal.Decimal `json:"quantity"`
}

type discountIn struct {
	Type  cartuc.DiscountType `json:"type"`
	Value decimal.Decimal     `json:"value"`
}

type paymentModeIn struct {
	Mode       pricing.Mode       `json:"mode"`
	CreditMode pricing.CreditMode `json:"creditMode"`
}

type customerIn struct {
	CustomerID string `json:"customerId"`
}

func (h *Handler) Get(c *fiber.Ctx) error {
	return c.JSON(h.engine.Cart())
}

func (h *Handler) AddItem(c *fiber.Ctx) error {
	var in addItemIn
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	ctx := c.UserContext()

	var p *cataloguc.Product
	switch {
	case in.ProductID != "":
		found, err := h.catalog.GetByID(ctx, in.ProductID)
		if err != nil {
			return mapErr(c, err)
		}
		p = found
	case in.Code != "":
		found, ok := h.catalog.Lookup(ctx, in.Code)
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, cataloguc.ErrNotFound.Error())
		}
		p = found
	default:
		return fiber.NewError(fiber.StatusBadRequest, "productId or code is required")
	}

	out, err := h.engine.AddItem(ctx, *p, quantityOrOne(in.Quantity))
	return writeCart(c, out, err, fiber.StatusCreated)
}

func (h *Handler) UpdateItem(c *fiber.Ctx) error {
	var in quantityIn
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	out, err := h.engine.UpdateQuantity(c.UserContext(), c.Params("lineId"), in.Quantity)
	return writeCart(c, out, err, fiber.StatusOK)
}

func (h *Handler) RemoveItem(c *fiber.Ctx) error {
	out, err := h.engine.RemoveItem(c.UserContext(), c.Params("lineId"))
	return writeCart(c, out, err, fiber.StatusOK)
}

func (h *Handler) Clear(c *fiber.Ctx) error {
	out, err := h.engine.Clear(c.UserContext())
	return writeCart(c, out, err, fiber.StatusOK)
}

// AddCustomItem records the ad-hoc product first so the invoice line can
// reference it.
func (h *Handler) AddCustomItem(c *fiber.Ctx) error {
	var in customItemIn
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	ctx := c.UserContext()

	cp, err := h.catalog.CreateCustom(ctx, cataloguc.CustomProductInput{Name: in.Name, Price: in.Price})
	if err != nil {
		return mapErr(c, err)
	}
	out, err := h.engine.AddCustomItem(ctx, cp.ID, cp.Name, cp.Price, quantityOrOne(in.Quantity))
	return writeCart(c, out, err, fiber.StatusCreated)
}

func (h *Handler) SetDiscount(c *fiber.Ctx) error {
	var in discountIn
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	out, err := h.engine.ApplyBulkDiscount(c.UserContext(), in.Type, in.Value)
	return writeCart(c, out, err, fiber.StatusOK)
}

func (h *Handler) SetPaymentMode(c *fiber.Ctx) error {
	var in paymentModeIn
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	out, err := h.engine.SetPricing(c.UserContext(), in.Mode, in.CreditMode)
	return writeCart(c, out, err, fiber.StatusOK)
}

func (h *Handler) SetCustomer(c *fiber.Ctx) error {
	var in customerIn
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	out, err := h.engine.SetCustomer(c.UserContext(), in.CustomerID)
	return writeCart(c, out, err, fiber.StatusOK)
}

func (h *Handler) SetTender(c *fiber.Ctx) error {
	var in cartuc.Tender
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json")
	}
	out, err := h.engine.SetTender(c.UserContext(), in)
	return writeCart(c, out, err, fiber.StatusOK)
}

func (h *Handler) Save(c *fiber.Ctx) error {
	if err := h.engine.Save(c.UserContext()); err != nil {
		return mapErr(c, err)
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (h *Handler) Saved(c *fiber.Ctx) error {
	s, err := h.engine.Saved(c.UserContext())
	if err != nil {
		return mapErr(c, err)
	}
	return c.JSON(s)
}

func (h *Handler) Restore(c *fiber.Ctx) error {
	out, err := h.engine.Restore(c.UserContext())
	return writeCart(c, out, err, fiber.StatusOK)
}

func (h *Handler) Discard(c *fiber.Ctx) error {
	out, err := h.engine.Discard(c.UserContext())
	return writeCart(c, out, err, fiber.StatusOK)
}

func quantityOrOne(q *decimal.Decimal) decimal.Decimal {
	if q == nil {
		return decimal.NewFromInt(1)
	}
	return *q
}

func writeCart(c *fiber.Ctx, out cartuc.Cart, err error, okStatus int) error {
	if err != nil {
		return mapErr(c, err)
	}
	return c.Status(okStatus).JSON(out)
}

// MapErr renders cart errors. Exported for routes that end in a cart
// mutation.
func MapErr(c *fiber.Ctx, err error) error { return mapErr(c, err) }

func mapErr(c *fiber.Ctx, err error) error {
	var ve *cartuc.ValidationError
	if errors.As(err, &ve) {
		status := fiber.StatusUnprocessableEntity
		switch {
		case errors.Is(err, cartuc.ErrRestorePending),
			errors.Is(err, stock.ErrOutOfStock),
			errors.Is(err, stock.ErrInsufficientStock):
			status = fiber.StatusConflict
		case errors.Is(err, cartuc.ErrLineNotFound):
			status = fiber.StatusNotFound
		}
		body := fiber.Map{"error": ve.Err.Error()}
		if ve.Available != nil {
			body["available"] = ve.Available
		}
		return c.Status(status).JSON(body)
	}

	switch {
	case errors.Is(err, cartuc.ErrNoSnapshot), errors.Is(err, cataloguc.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, cataloguc.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, cartuc.ErrPersistence):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	default:
		logger.FromContext(c.UserContext()).Error("cart request failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}

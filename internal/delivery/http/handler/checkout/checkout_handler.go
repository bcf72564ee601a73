package checkout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/logger"
	cartuc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/cart"
	checkoutuc "github.com/isurusajith68/pos-system-multi-tenant-postgress-sync-sub001/internal/usecase/checkout"
)

type Handler struct {
	uc *checkoutuc.Processor
}

func New(uc *checkoutuc.Processor) *Handler {
	return &Handler{uc: uc}
}

// checkoutIn leaves the cart's own tender in place when no amount field is
// sent.
type checkoutIn struct {
	ReceivedAmount       *decimal.Decimal `json:"receivedAmount"`
	IsPartialPayment     *bool            `json:"isPartialPayment"`
	PartialPaymentAmount *decimal.Decimal `json:"partialPaymentAmount"`
	Print                bool             `json:"print"`
}

func (h *Handler) Checkout(c *fiber.Ctx) error {
	var in checkoutIn
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid json")
		}
	}

	opts := checkoutuc.Options{Print: in.Print}
	if in.ReceivedAmount != nil || in.IsPartialPayment != nil || in.PartialPaymentAmount != nil {
		t := cartuc.Tender{}
		if in.ReceivedAmount != nil {
			t.ReceivedAmount = *in.ReceivedAmount
		}
		if in.IsPartialPayment != nil {
			t.IsPartialPayment = *in.IsPartialPayment
		}
		if in.PartialPaymentAmount != nil {
			t.PartialPaymentAmount = *in.PartialPaymentAmount
		}
		opts.Tender = &t
	}

	out, err := h.uc.Checkout(c.UserContext(), opts)
	if err != nil {
		return mapErr(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func mapErr(c *fiber.Ctx, err error) error {
	var ve *cartuc.ValidationError
	switch {
	case errors.Is(err, cartuc.ErrRestorePending):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusUnprocessableEntity, ve.Err.Error())
	default:
		logger.FromContext(c.UserContext()).Error("checkout failed", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "checkout failed; cart kept")
	}
}

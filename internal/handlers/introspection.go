package handlers

import (
	"errors"

	apperrors "introspect/internal/errors"
	"introspect/internal/introspection"
	"introspect/internal/middleware"
	"introspect/internal/models"
	"introspect/internal/services/analysis"
	"introspect/internal/services/transfer"
	"introspect/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// IntrospectionHandler exposes the transfer-and-introspect endpoints.
type IntrospectionHandler struct {
	service analysis.Service
}

// NewIntrospectionHandler creates a new IntrospectionHandler.
func NewIntrospectionHandler(s analysis.Service) *IntrospectionHandler {
	return &IntrospectionHandler{service: s}
}

// BundleRequest is the wire form of an operation bundle.
type BundleRequest struct {
	TriggeringIndex uint32                              `json:"triggering_index"`
	Operations      []introspection.OperationDescriptor `json:"operations"`
}

func (b *BundleRequest) source() introspection.Source {
	return introspection.NewStaticBundle(b.Operations, b.TriggeringIndex)
}

// ProcessRequest is the body of POST /api/introspect.
type ProcessRequest struct {
	Recipient models.Pubkey `json:"recipient"`
	Mint      models.Pubkey `json:"mint"`
	Amount    uint64        `json:"amount"`
	Decimals  uint8         `json:"decimals"`
	Bundle    BundleRequest `json:"bundle"`
}

// Process handles POST /api/introspect requests.
func (h *IntrospectionHandler) Process(c *fiber.Ctx) error {
	caller, ok := middleware.Caller(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var req ProcessRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	out, err := h.service.Process(c.UserContext(), analysis.Request{
		Caller:    caller,
		Recipient: req.Recipient,
		Mint:      req.Mint,
		Amount:    req.Amount,
		Decimals:  req.Decimals,
		Bundle:    req.Bundle.source(),
	})
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "introspection completed", out)
}

// Preview handles POST /api/introspect/preview requests. Nothing is written.
func (h *IntrospectionHandler) Preview(c *fiber.Ctx) error {
	caller, ok := middleware.Caller(c)
	if !ok {
		return response.Unauthorized(c)
	}

	var req BundleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "invalid request body")
	}

	records, err := h.service.Preview(c.UserContext(), caller, req.source())
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "preview", records)
}

// Records handles GET /api/introspect/records requests.
func (h *IntrospectionHandler) Records(c *fiber.Ctx) error {
	caller, ok := middleware.Caller(c)
	if !ok {
		return response.Unauthorized(c)
	}

	records, err := h.service.Records(c.UserContext(), caller)
	if err != nil {
		return writeError(c, err)
	}
	return response.Success(c, "records", records)
}

func writeError(c *fiber.Ctx, err error) error {
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) {
		return response.ServerError(c, "internal error")
	}

	status := fiber.StatusBadRequest
	switch {
	case errors.Is(err, apperrors.ErrMisroutedInvocation):
		status = fiber.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrRecordNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, transfer.ErrInsufficientFunds):
		status = fiber.StatusPaymentRequired
	}
	return response.Domain(c, status, domainErr.Code, err.Error())
}

package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/payflow/payment-engine/internal/core"
	"github.com/payflow/payment-engine/internal/port/input"
	"github.com/shopspring/decimal"
)

// PaymentHandler is a primary adapter (HTTP handler)
type PaymentHandler struct {
	paymentService input.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService input.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// InitializePaymentRequest represents the HTTP request to create a payment
type InitializePaymentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Method   string          `json:"paymentMethod"`
	Merchant string          `json:"merchant"`
}

// VerificationResponse represents one verification on a payment
type VerificationResponse struct {
	ID     int64  `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// PaymentResponse represents the HTTP response for a payment
type PaymentResponse struct {
	ID            string                 `json:"id"`
	Amount        decimal.Decimal        `json:"amount"`
	Currency      string                 `json:"currency"`
	Method        string                 `json:"paymentMethod"`
	Merchant      string                 `json:"merchant"`
	Status        string                 `json:"status"`
	Verifications []VerificationResponse `json:"verifications"`
	CreatedAt     string                 `json:"created_at"`
}

// InitializePayment handles payment creation
func (h *PaymentHandler) InitializePayment(c echo.Context) error {
	var req InitializePaymentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	serviceReq := input.InitializePaymentRequest{
		Amount:   req.Amount,
		Currency: core.Currency(req.Currency),
		Method:   core.PaymentMethod(req.Method),
		Merchant: req.Merchant,
	}

	response, err := h.paymentService.InitializePayment(serviceReq)
	if err != nil {
		if isValidationError(err) {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": err.Error(),
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to create payment",
		})
	}

	return c.JSON(http.StatusCreated, toHTTPResponse(response))
}

// GetPayment handles payment retrieval by ID
func (h *PaymentHandler) GetPayment(c echo.Context) error {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid payment ID",
		})
	}

	response, err := h.paymentService.GetPayment(id)
	if err != nil {
		if errors.Is(err, core.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{
				"error": "Payment not found",
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to retrieve payment",
		})
	}

	return c.JSON(http.StatusOK, toHTTPResponse(response))
}

func toHTTPResponse(p *input.PaymentResponse) PaymentResponse {
	verifications := make([]VerificationResponse, 0, len(p.Verifications))
	for _, v := range p.Verifications {
		verifications = append(verifications, VerificationResponse{
			ID:     v.ID,
			Type:   string(v.Type),
			Status: string(v.Status),
		})
	}
	return PaymentResponse{
		ID:            p.ID.String(),
		Amount:        p.Amount,
		Currency:      string(p.Currency),
		Method:        string(p.Method),
		Merchant:      p.Merchant,
		Status:        string(p.Status),
		Verifications: verifications,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}

func isValidationError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "must be greater than zero") ||
		strings.Contains(msg, "currency must be") ||
		strings.Contains(msg, "unknown payment method") ||
		strings.Contains(msg, "merchant is required")
}

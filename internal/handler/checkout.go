package handler

import (
	"errors"
	"net/http"

	"posmorales/internal/apierror"
	"posmorales/internal/dto"
	"posmorales/internal/infra"
	"posmorales/internal/service"
	"posmorales/internal/upstream"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct{ svc service.CheckoutService }

func NewCheckoutHandler(svc service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// Checkout confirms the sale. A saga failure after server-side commits
// returns 409 with the completed steps so the UI can offer resume instead of
// a blind retry.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Checkout(c.Request.Context(), req)
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ResumePayment retries the payment step of a partially committed table sale.
func (h *CheckoutHandler) ResumePayment(c *gin.Context) {
	var req dto.ResumePaymentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ResumePayment(c.Request.Context(), req)
	if err != nil {
		writeCheckoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func writeCheckoutError(c *gin.Context, err error) {
	var saga *service.SagaError
	var upErr *upstream.Error
	switch {
	case errors.As(err, &saga):
		c.JSON(http.StatusConflict, dto.CheckoutFailure{
			Detail:         upstream.ServerMessage(saga.Err),
			CompletedSteps: saga.CompletedSteps,
			FailedStep:     saga.FailedStep,
			Table:          saga.Table,
			Retryable:      saga.Retryable,
		})
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInsufficientCash):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.As(err, &upErr), errors.Is(err, infra.ErrCircuitOpen):
		c.JSON(http.StatusBadGateway, apierror.New(upstream.ServerMessage(err)))
	default:
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	}
}

package v1

import (
	"net/http"

	"coachflow-backend/internal/delivery/http/response"
	"coachflow-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentUC domain.PaymentUsecase
}

func NewPaymentHandler(protected *gin.RouterGroup, paymentUC domain.PaymentUsecase) {
	handler := &PaymentHandler{paymentUC: paymentUC}
	protected.GET("/payments/verify/:orderId", handler.Verify)
}

// Verify godoc
// @Summary      Verify a payment
// @Description  Queries the gateway for the order and confirms or fails the matching booking
// @Tags         payments
// @Produce      json
// @Param        orderId  path      string  true  "Gateway order ID"
// @Success      200      {object}  response.Response{data=domain.PaymentVerification}
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /payments/verify/{orderId} [get]
// @Security     BearerAuth
func (h *PaymentHandler) Verify(c *gin.Context) {
	v, err := h.paymentUC.VerifyOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		c.Error(err)
		return
	}
	msg := "Payment failed"
	if v.Paid {
		msg = "Payment confirmed"
	}
	response.Success(c, http.StatusOK, msg, v)
}

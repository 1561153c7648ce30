package v1

import (
	"net/http"

	"coachflow-backend/internal/delivery/http/middleware"
	"coachflow-backend/internal/delivery/http/response"
	"coachflow-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingUC domain.BookingUsecase
}

func NewBookingHandler(protected *gin.RouterGroup, bookingUC domain.BookingUsecase, require guard) {
	handler := &BookingHandler{bookingUC: bookingUC}

	bookings := protected.Group("/bookings")
	{
		bookings.POST("", require(domain.CapBookSessions), handler.Create)
		bookings.GET("/client-sessions", require(domain.CapBookSessions), handler.ListMine)
		bookings.GET("/coach", require(domain.CapViewCoachBookings), handler.ListForCoach)
		// either party; ownership is checked per booking
		bookings.PATCH("/:id/status", handler.UpdateStatus)
	}
}

// Create godoc
// @Summary      Book a session
// @Description  Free sessions are confirmed immediately. Paid sessions return a gateway payment session to complete checkout.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        booking  body      domain.CreateBookingInput  true  "Booking"
// @Success      201      {object}  response.Response{data=domain.BookingCheckout}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /bookings [post]
// @Security     BearerAuth
func (h *BookingHandler) Create(c *gin.Context) {
	var req domain.CreateBookingInput
	if !bindJSON(c, &req) {
		return
	}

	checkout, err := h.bookingUC.Create(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Booking created", checkout)
}

// ListMine godoc
// @Summary      My bookings
// @Description  Bookings of the caller with nested session, coach and user
// @Tags         bookings
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.BookingView}
// @Router       /bookings/client-sessions [get]
// @Security     BearerAuth
func (h *BookingHandler) ListMine(c *gin.Context) {
	list, err := h.bookingUC.ListForClient(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Bookings", list)
}

// ListForCoach godoc
// @Summary      Bookings of my sessions
// @Tags         bookings
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.BookingView}
// @Router       /bookings/coach [get]
// @Security     BearerAuth
func (h *BookingHandler) ListForCoach(c *gin.Context) {
	list, err := h.bookingUC.ListForCoach(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Bookings", list)
}

// UpdateStatus godoc
// @Summary      Change booking status
// @Description  The coach confirms or completes; either party cancels. Completed bookings are final.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Param        id      path      int                              true  "Booking ID"
// @Param        status  body      domain.UpdateBookingStatusInput  true  "New status"
// @Success      200     {object}  response.Response{data=domain.Booking}
// @Failure      400     {object}  response.Response
// @Failure      403     {object}  response.Response
// @Router       /bookings/{id}/status [patch]
// @Security     BearerAuth
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req domain.UpdateBookingStatusInput
	if !bindJSON(c, &req) {
		return
	}
	identity, _ := middleware.CurrentIdentity(c)

	booking, err := h.bookingUC.UpdateStatus(c.Request.Context(), identity, id, req.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Booking updated", booking)
}

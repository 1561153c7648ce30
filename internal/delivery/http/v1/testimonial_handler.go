package v1

import (
	"net/http"

	"coachflow-backend/internal/delivery/http/response"
	"coachflow-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type TestimonialHandler struct {
	testimonialUC domain.TestimonialUsecase
}

func NewTestimonialHandler(public *gin.RouterGroup, protected *gin.RouterGroup, testimonialUC domain.TestimonialUsecase, require guard) {
	handler := &TestimonialHandler{testimonialUC: testimonialUC}

	public.GET("/testimonials/coach/:coachId", handler.ListForCoach)

	writer := protected.Group("/testimonials", require(domain.CapWriteTestimonials))
	{
		writer.GET("/eligibility/:coachId", handler.Eligibility)
		writer.GET("/check-booking/:bookingId", handler.CheckBooking)
		writer.POST("/coach/:coachId", handler.Create)
		writer.PUT("/:testimonialId", handler.Update)
		writer.DELETE("/:testimonialId", handler.Delete)
	}
}

// ListForCoach godoc
// @Summary      Testimonials of a coach
// @Tags         testimonials
// @Produce      json
// @Param        coachId  path      string  true  "Coach account ID"
// @Success      200      {object}  response.Response{data=[]domain.Testimonial}
// @Failure      404      {object}  response.Response
// @Router       /testimonials/coach/{coachId} [get]
func (h *TestimonialHandler) ListForCoach(c *gin.Context) {
	list, err := h.testimonialUC.ListForCoach(c.Request.Context(), c.Param("coachId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Testimonials", list)
}

// Eligibility godoc
// @Summary      Bookings I can still review
// @Description  Completed, not yet reviewed bookings of the caller with this coach
// @Tags         testimonials
// @Produce      json
// @Param        coachId  path      string  true  "Coach account ID"
// @Success      200      {object}  response.Response{data=[]domain.EligibleBooking}
// @Router       /testimonials/eligibility/{coachId} [get]
// @Security     BearerAuth
func (h *TestimonialHandler) Eligibility(c *gin.Context) {
	list, err := h.testimonialUC.Eligibility(c.Request.Context(), currentUserID(c), c.Param("coachId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Eligible bookings", list)
}

// CheckBooking godoc
// @Summary      Review status of one booking
// @Tags         testimonials
// @Produce      json
// @Param        bookingId  path      int  true  "Booking ID"
// @Success      200        {object}  response.Response{data=domain.BookingReviewStatus}
// @Failure      404        {object}  response.Response
// @Router       /testimonials/check-booking/{bookingId} [get]
// @Security     BearerAuth
func (h *TestimonialHandler) CheckBooking(c *gin.Context) {
	id, ok := paramID(c, "bookingId")
	if !ok {
		return
	}
	status, err := h.testimonialUC.CheckBooking(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Booking review status", status)
}

// Create godoc
// @Summary      Write a testimonial
// @Description  The booking must belong to the caller, be completed and not yet reviewed
// @Tags         testimonials
// @Accept       json
// @Produce      json
// @Param        coachId      path      string                         true  "Coach account ID"
// @Param        testimonial  body      domain.CreateTestimonialInput  true  "Testimonial"
// @Success      201          {object}  response.Response{data=domain.Testimonial}
// @Failure      400          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Router       /testimonials/coach/{coachId} [post]
// @Security     BearerAuth
func (h *TestimonialHandler) Create(c *gin.Context) {
	var req domain.CreateTestimonialInput
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.testimonialUC.Create(c.Request.Context(), currentUserID(c), c.Param("coachId"), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Testimonial submitted", t)
}

// Update godoc
// @Summary      Edit my testimonial
// @Tags         testimonials
// @Accept       json
// @Produce      json
// @Param        testimonialId  path      int                            true  "Testimonial ID"
// @Param        testimonial    body      domain.UpdateTestimonialInput  true  "Testimonial"
// @Success      200            {object}  response.Response{data=domain.Testimonial}
// @Failure      403            {object}  response.Response
// @Router       /testimonials/{testimonialId} [put]
// @Security     BearerAuth
func (h *TestimonialHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "testimonialId")
	if !ok {
		return
	}
	var req domain.UpdateTestimonialInput
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.testimonialUC.Update(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Testimonial updated", t)
}

// Delete godoc
// @Summary      Delete my testimonial
// @Tags         testimonials
// @Produce      json
// @Param        testimonialId  path      int  true  "Testimonial ID"
// @Success      200            {object}  response.Response
// @Failure      403            {object}  response.Response
// @Router       /testimonials/{testimonialId} [delete]
// @Security     BearerAuth
func (h *TestimonialHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "testimonialId")
	if !ok {
		return
	}
	if err := h.testimonialUC.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Testimonial deleted", nil)
}

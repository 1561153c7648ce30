package v1

import (
	"net/http"

	"coachflow-backend/internal/delivery/http/response"
	"coachflow-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type CoachHandler struct {
	coachUC domain.CoachProfileUsecase
}

func NewCoachHandler(public *gin.RouterGroup, protected *gin.RouterGroup, coachUC domain.CoachProfileUsecase, require guard) {
	handler := &CoachHandler{coachUC: coachUC}

	public.GET("/coach/public/:id", handler.GetPublic)
	public.GET("/coaches", handler.Search)

	own := protected.Group("/coach/profile", require(domain.CapManageCoachProfile))
	{
		own.GET("", handler.GetMine)
		own.PUT("", handler.UpdateMine)
	}
}

// GetMine godoc
// @Summary      Get my coach profile
// @Tags         coach
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.CoachProfile}
// @Failure      401  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /coach/profile [get]
// @Security     BearerAuth
func (h *CoachHandler) GetMine(c *gin.Context) {
	p, err := h.coachUC.GetMyProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Coach profile", p)
}

// UpdateMine godoc
// @Summary      Update my coach profile
// @Tags         coach
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.UpdateCoachProfileInput  true  "Profile"
// @Success      200      {object}  response.Response{data=domain.CoachProfile}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /coach/profile [put]
// @Security     BearerAuth
func (h *CoachHandler) UpdateMine(c *gin.Context) {
	var req domain.UpdateCoachProfileInput
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.coachUC.UpdateMyProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Coach profile updated", p)
}

// GetPublic godoc
// @Summary      Public coach profile
// @Tags         coach
// @Produce      json
// @Param        id   path      string  true  "Coach account ID"
// @Success      200  {object}  response.Response{data=domain.CoachProfile}
// @Failure      404  {object}  response.Response
// @Router       /coach/public/{id} [get]
func (h *CoachHandler) GetPublic(c *gin.Context) {
	p, err := h.coachUC.GetPublicProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Coach profile", p)
}

// Search godoc
// @Summary      Search coaches
// @Description  Case-insensitive substring match on first or last name, optionally narrowed by specialty
// @Tags         coach
// @Produce      json
// @Param        search     query     string  false  "Name fragment"
// @Param        specialty  query     string  false  "Specialty"
// @Success      200        {object}  response.Response{data=[]domain.CoachProfile}
// @Router       /coaches [get]
func (h *CoachHandler) Search(c *gin.Context) {
	coaches, err := h.coachUC.SearchCoaches(c.Request.Context(), domain.CoachFilter{
		Search:    c.Query("search"),
		Specialty: c.Query("specialty"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Coaches", coaches)
}

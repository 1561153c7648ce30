package v1

import (
	"net/http"

	"coachflow-backend/internal/delivery/http/response"
	"coachflow-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type ClientHandler struct {
	clientUC domain.ClientProfileUsecase
}

func NewClientHandler(protected *gin.RouterGroup, clientUC domain.ClientProfileUsecase, require guard) {
	handler := &ClientHandler{clientUC: clientUC}

	own := protected.Group("/client/profile", require(domain.CapManageClientProfile))
	{
		own.GET("", handler.GetMine)
		own.PUT("", handler.UpdateMine)
	}
}

// GetMine godoc
// @Summary      Get my client profile
// @Tags         client
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.ClientProfile}
// @Failure      403  {object}  response.Response
// @Router       /client/profile [get]
// @Security     BearerAuth
func (h *ClientHandler) GetMine(c *gin.Context) {
	p, err := h.clientUC.GetMyProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Client profile", p)
}

// UpdateMine godoc
// @Summary      Update my client profile
// @Tags         client
// @Accept       json
// @Produce      json
// @Param        profile  body      domain.UpdateClientProfileInput  true  "Profile"
// @Success      200      {object}  response.Response{data=domain.ClientProfile}
// @Failure      400      {object}  response.Response
// @Router       /client/profile [put]
// @Security     BearerAuth
func (h *ClientHandler) UpdateMine(c *gin.Context) {
	var req domain.UpdateClientProfileInput
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.clientUC.UpdateMyProfile(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Client profile updated", p)
}

package v1

import (
	"net/http"

	"coachflow-backend/internal/delivery/http/response"
	"coachflow-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followUC domain.FollowUsecase
}

func NewFollowHandler(public *gin.RouterGroup, protected *gin.RouterGroup, followUC domain.FollowUsecase, require guard) {
	handler := &FollowHandler{followUC: followUC}

	public.GET("/coaches/:id/followers/count", handler.FollowerCount)

	follows := protected.Group("/follows", require(domain.CapFollowCoaches))
	{
		follows.GET("", handler.ListFollowing)
		follows.POST("/:coachId", handler.Follow)
		follows.DELETE("/:coachId", handler.Unfollow)
	}
}

// Follow godoc
// @Summary      Follow a coach
// @Tags         follows
// @Produce      json
// @Param        coachId  path      string  true  "Coach account ID"
// @Success      201      {object}  response.Response{data=domain.Follow}
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /follows/{coachId} [post]
// @Security     BearerAuth
func (h *FollowHandler) Follow(c *gin.Context) {
	f, err := h.followUC.Follow(c.Request.Context(), currentUserID(c), c.Param("coachId"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusCreated, "Now following coach", f)
}

// Unfollow godoc
// @Summary      Unfollow a coach
// @Tags         follows
// @Produce      json
// @Param        coachId  path      string  true  "Coach account ID"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /follows/{coachId} [delete]
// @Security     BearerAuth
func (h *FollowHandler) Unfollow(c *gin.Context) {
	if err := h.followUC.Unfollow(c.Request.Context(), currentUserID(c), c.Param("coachId")); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Unfollowed coach", nil)
}

// ListFollowing godoc
// @Summary      Coaches I follow
// @Tags         follows
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.CoachProfile}
// @Router       /follows [get]
// @Security     BearerAuth
func (h *FollowHandler) ListFollowing(c *gin.Context) {
	list, err := h.followUC.ListFollowing(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Followed coaches", list)
}

// FollowerCount godoc
// @Summary      Follower count of a coach
// @Tags         follows
// @Produce      json
// @Param        id   path      string  true  "Coach account ID"
// @Success      200  {object}  response.Response
// @Router       /coaches/{id}/followers/count [get]
func (h *FollowHandler) FollowerCount(c *gin.Context) {
	n, err := h.followUC.FollowerCount(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Follower count", gin.H{"count": n})
}

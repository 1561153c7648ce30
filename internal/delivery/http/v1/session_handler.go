package v1

import (
	"net/http"

	"coachflow-backend/internal/delivery/http/response"
	"coachflow-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionUC domain.SessionUsecase
}

// NewSessionHandler mounts the coach-scoped CRUD twice, once per kind, plus the public catalogue.
func NewSessionHandler(public *gin.RouterGroup, protected *gin.RouterGroup, sessionUC domain.SessionUsecase, require guard) {
	handler := &SessionHandler{sessionUC: sessionUC}

	publicSessions := public.Group("/sessions")
	{
		publicSessions.GET("", handler.ListPublic)
		publicSessions.GET("/:id", handler.GetPublic)
	}
	protected.GET("/sessions/feed", require(domain.CapFollowCoaches), handler.Feed)

	for path, kind := range map[string]string{
		"/coach/sessions": domain.SessionKindSession,
		"/coach/events":   domain.SessionKindEvent,
	} {
		g := protected.Group(path, require(domain.CapManageSessions))
		g.GET("", handler.listMine(kind))
		g.POST("", handler.create(kind))
		g.PUT("/:id", handler.update(kind))
		g.DELETE("/:id", handler.delete(kind))
	}
}

// ListMine godoc
// @Summary      List my sessions
// @Description  The same routes exist under /coach/events for fixed-date events
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Session}
// @Failure      403  {object}  response.Response
// @Router       /coach/sessions [get]
// @Security     BearerAuth
func (h *SessionHandler) listMine(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := h.sessionUC.ListForCoach(c.Request.Context(), currentUserID(c), kind)
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusOK, "Sessions", list)
	}
}

// Create godoc
// @Summary      Create a session
// @Description  Events need starts_at in the future and may set capacity; sessions use availability windows
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        session  body      domain.SessionInput  true  "Session"
// @Success      201      {object}  response.Response{data=domain.Session}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /coach/sessions [post]
// @Security     BearerAuth
func (h *SessionHandler) create(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domain.SessionInput
		if !bindJSON(c, &req) {
			return
		}

		s, err := h.sessionUC.CreateForCoach(c.Request.Context(), currentUserID(c), kind, req)
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusCreated, "Session created", s)
	}
}

// Update godoc
// @Summary      Update a session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id       path      int                  true  "Session ID"
// @Param        session  body      domain.SessionInput  true  "Session"
// @Success      200      {object}  response.Response{data=domain.Session}
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /coach/sessions/{id} [put]
// @Security     BearerAuth
func (h *SessionHandler) update(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req domain.SessionInput
		if !bindJSON(c, &req) {
			return
		}

		s, err := h.sessionUC.UpdateForCoach(c.Request.Context(), currentUserID(c), kind, id, req)
		if err != nil {
			c.Error(err)
			return
		}
		response.Success(c, http.StatusOK, "Session updated", s)
	}
}

// Delete godoc
// @Summary      Delete a session
// @Description  A session that already has bookings is deactivated instead
// @Tags         sessions
// @Produce      json
// @Param        id   path      int  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.DeleteResult}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /coach/sessions/{id} [delete]
// @Security     BearerAuth
func (h *SessionHandler) delete(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		res, err := h.sessionUC.DeleteForCoach(c.Request.Context(), currentUserID(c), kind, id)
		if err != nil {
			c.Error(err)
			return
		}
		msg := "Session deleted"
		if res.Deactivated {
			msg = "Session has bookings and was deactivated"
		}
		response.Success(c, http.StatusOK, msg, res)
	}
}

// ListPublic godoc
// @Summary      Browse sessions
// @Tags         sessions
// @Produce      json
// @Param        coachId   query     string  false  "Coach account ID"
// @Param        kind      query     string  false  "session or event"
// @Param        type      query     string  false  "Session type"
// @Param        audience  query     string  false  "Audience"
// @Param        search    query     string  false  "Title or description fragment"
// @Success      200       {object}  response.Response{data=[]domain.Session}
// @Router       /sessions [get]
func (h *SessionHandler) ListPublic(c *gin.Context) {
	list, err := h.sessionUC.ListPublic(c.Request.Context(), domain.SessionFilter{
		CoachAccountID: c.Query("coachId"),
		Kind:           c.Query("kind"),
		SessionType:    c.Query("type"),
		Audience:       c.Query("audience"),
		Search:         c.Query("search"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Sessions", list)
}

// GetPublic godoc
// @Summary      Session details
// @Tags         sessions
// @Produce      json
// @Param        id   path      int  true  "Session ID"
// @Success      200  {object}  response.Response{data=domain.Session}
// @Failure      404  {object}  response.Response
// @Router       /sessions/{id} [get]
func (h *SessionHandler) GetPublic(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	s, err := h.sessionUC.GetPublic(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Session details", s)
}

// Feed godoc
// @Summary      Sessions from coaches I follow
// @Tags         sessions
// @Produce      json
// @Success      200  {object}  response.Response{data=[]domain.Session}
// @Failure      401  {object}  response.Response
// @Router       /sessions/feed [get]
// @Security     BearerAuth
func (h *SessionHandler) Feed(c *gin.Context) {
	list, err := h.sessionUC.Feed(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Feed", list)
}

package v1

import (
	"net/http"
	"strconv"
	"strings"

	"coachflow-backend/internal/delivery/http/response"
	"coachflow-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminUC domain.AdminUsecase
}

func NewAdminHandler(protected *gin.RouterGroup, adminUC domain.AdminUsecase, require guard) {
	handler := &AdminHandler{adminUC: adminUC}

	admin := protected.Group("/admin", require(domain.CapAdminAccounts))
	{
		admin.GET("/accounts", handler.ListAccounts)
		admin.PUT("/accounts/:id/roles", handler.AssignRoles)
		admin.GET("/security-events", handler.ListSecurityEvents)
	}
}

// ListAccounts godoc
// @Summary      List accounts
// @Tags         admin
// @Produce      json
// @Param        search  query     string  false  "Name or email fragment"
// @Param        role    query     string  false  "client, coach or admin"
// @Success      200     {object}  response.Response{data=[]domain.Account}
// @Failure      403     {object}  response.Response
// @Router       /admin/accounts [get]
// @Security     BearerAuth
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	list, err := h.adminUC.ListAccounts(c.Request.Context(), domain.AccountFilter{
		Search: c.Query("search"),
		Role:   c.Query("role"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Accounts", list)
}

// AssignRoles godoc
// @Summary      Replace an account's roles
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id     path      string                   true  "Account ID"
// @Param        roles  body      domain.AssignRolesInput  true  "Roles"
// @Success      200    {object}  response.Response{data=domain.Account}
// @Failure      400    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Router       /admin/accounts/{id}/roles [put]
// @Security     BearerAuth
func (h *AdminHandler) AssignRoles(c *gin.Context) {
	var req domain.AssignRolesInput
	if !bindJSON(c, &req) {
		return
	}

	account, err := h.adminUC.AssignRoles(c.Request.Context(), currentUserID(c), c.Param("id"), req.Roles)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Roles updated", account)
}

// ListSecurityEvents godoc
// @Summary      Audit trail
// @Description  Persisted security events, newest first
// @Tags         admin
// @Produce      json
// @Param        type       query     string  false  "Comma separated event types"
// @Param        severity   query     string  false  "Comma separated severities (INFO, MEDIUM, WARN, HIGH, CRITICAL)"
// @Param        ip         query     string  false  "IP prefix"
// @Param        subject    query     string  false  "Subject fragment"
// @Param        page       query     int     false  "Page number"
// @Param        page_size  query     int     false  "Items per page (max 200)"
// @Success      200        {object}  response.Response{data=domain.PaginatedResult[domain.SecurityEventView]}
// @Failure      400        {object}  response.Response
// @Failure      403        {object}  response.Response
// @Router       /admin/security-events [get]
// @Security     BearerAuth
func (h *AdminHandler) ListSecurityEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	filter := domain.SecurityEventFilter{
		EventTypes: splitCSV(c.Query("type")),
		Severities: splitCSV(c.Query("severity")),
		SearchIP:   c.Query("ip"),
		Subject:    c.Query("subject"),
	}

	result, err := h.adminUC.ListSecurityEvents(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Security events", result)
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

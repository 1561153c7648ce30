package v1

import (
	"net/http"
	"time"

	"coachflow-backend/config"
	"coachflow-backend/internal/delivery/http/response"
	"coachflow-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

const authCookieName = "auth_token"

type AuthHandler struct {
	authUC domain.AuthUsecase
	config *config.Config
}

// NewAuthHandler registers the identity lifecycle routes. limit guards the
// credential endpoints.
func NewAuthHandler(public *gin.RouterGroup, protected *gin.RouterGroup, authUC domain.AuthUsecase, cfg *config.Config, limit gin.HandlerFunc) {
	handler := &AuthHandler{
		authUC: authUC,
		config: cfg,
	}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/register", limit, handler.Register)
		publicAuth.POST("/login", limit, handler.Login)
		publicAuth.POST("/social-login", limit, handler.SocialLogin)
		publicAuth.POST("/forgot-password", limit, handler.ForgotPassword)
		publicAuth.POST("/reset-password", limit, handler.ResetPassword)
		publicAuth.POST("/verify-email", handler.VerifyEmail)
		publicAuth.POST("/logout", handler.Logout)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.POST("/roles", handler.ActivateRole)
	}
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, maxAge, "/", "", h.config.IsProduction(), true)
}

// Register godoc
// @Summary      Register
// @Description  Create a client or coach account with email and password. A verification link is emailed.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register  body      domain.RegisterInput  true  "Registration details"
// @Success      201       {object}  response.Response{data=domain.AuthResult}
// @Failure      400       {object}  response.Response
// @Failure      409       {object}  response.Response
// @Failure      429       {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterInput
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.authUC.Register(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusCreated, "Registration successful. Please verify your email.", res)
}

// Login godoc
// @Summary      Login
// @Description  Authenticate with email and password. Repeated failures block the email and IP for a while.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login  body      domain.LoginInput  true  "Credentials"
// @Success      200    {object}  response.Response{data=domain.AuthResult}
// @Failure      401    {object}  response.Response
// @Failure      429    {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")
	req.RequestID = c.GetString(string(domain.KeyRequestID))

	res, err := h.authUC.Login(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, "Login successful", res)
}

// SocialLogin godoc
// @Summary      Social login
// @Description  Exchange an identity-provider ID token for a session. Unknown emails get a new account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        social  body      domain.SocialLoginInput  true  "ID token"
// @Success      200     {object}  response.Response{data=domain.AuthResult}
// @Failure      401     {object}  response.Response
// @Router       /auth/social-login [post]
func (h *AuthHandler) SocialLogin(c *gin.Context) {
	var req domain.SocialLoginInput
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.authUC.SocialLogin(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, "Login successful", res)
}

// ForgotPassword godoc
// @Summary      Forgot password
// @Description  Email a reset link. The answer is the same whether or not the account exists.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ForgotPasswordInput  true  "Email"
// @Success      200   {object}  response.Response
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req domain.ForgotPasswordInput
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "If an account exists for this email, a reset link has been sent.", nil)
}

// ResetPassword godoc
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ResetPasswordInput  true  "Reset token and new password"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req domain.ResetPasswordInput
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.ResetPassword(c.Request.Context(), req); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Password has been reset. You can now log in.", nil)
}

// VerifyEmail godoc
// @Summary      Verify email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.VerifyEmailInput  true  "Verification token"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req domain.VerifyEmailInput
	if !bindJSON(c, &req) {
		return
	}

	if err := h.authUC.VerifyEmail(c.Request.Context(), req.Token); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Email verified", nil)
}

// Logout godoc
// @Summary      Logout
// @Description  Clear the auth cookie. Bearer tokens simply expire.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, "", -1, "/", "", h.config.IsProduction(), true)
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current account
// @Description  The caller's account with its coach and/or client profile
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Me}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	me, err := h.authUC.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Current user", me)
}

// ActivateRole godoc
// @Summary      Activate role
// @Description  Add the coach or client role to the caller and create the matching profile. Returns a fresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.ActivateRoleInput  true  "Role"
// @Success      200   {object}  response.Response{data=domain.AuthResult}
// @Failure      400   {object}  response.Response
// @Router       /auth/roles [post]
// @Security     BearerAuth
func (h *AuthHandler) ActivateRole(c *gin.Context) {
	var req domain.ActivateRoleInput
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.authUC.ActivateRole(c.Request.Context(), currentUserID(c), req.Role)
	if err != nil {
		c.Error(err)
		return
	}

	h.setAuthCookie(c, res.Token, res.ExpiresAt)
	response.Success(c, http.StatusOK, "Role activated", res)
}

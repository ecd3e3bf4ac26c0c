package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/auth-service/internal/metrics"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/service"
)

const requestTimeout = 5 * time.Second

const (
	eventRegister    = "register"
	eventVerifyEmail = "verify_email"
	eventResend      = "resend_verification"
	eventLogin       = "login"
	eventExchange    = "exchange"
	eventAuthorize   = "authorize"
	eventProfile     = "profile"
	eventLogout      = "logout"
	eventRecovery    = "recovery"
	eventReset       = "reset"
)

// AuthHandler exposes the credential services over HTTP.
type AuthHandler struct {
	svc     *service.Services
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewAuthHandler(svc *service.Services, m *metrics.Metrics, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{svc: svc, metrics: m, log: log.Named("http")}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Email    string `json:"email" form:"email"`
	Image    string `json:"image" form:"image"`
	Callback string `json:"callback" form:"callback"`
}

type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Callback string `json:"callback" form:"callback"`
}

type codeReq struct {
	Code string `json:"code" form:"code"`
}

type callbackReq struct {
	Callback string `json:"callback" form:"callback"`
}

type recoveryReq struct {
	Username string `json:"username" form:"username"`
	Callback string `json:"callback" form:"callback"`
}

type resendReq struct {
	Username string `json:"username" form:"username"`
	Callback string `json:"callback" form:"callback"`
}

type resetReq struct {
	Password string `json:"password" form:"password"`
	Callback string `json:"callback" form:"callback"`
}

type tokenResp struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresIn int64     `json:"expiresIn"` // milliseconds
}

// bind decodes the body; a malformed body is an input error.
func bind(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return service.InvalidInput("invalid body")
	}
	return nil
}

// callback prefers the body value and falls back to ?callback=.
func callback(c echo.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	return c.QueryParam("callback")
}

func timeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// Register: create an inactive user and mail the verification link.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bind(c, &req); err != nil {
		return h.fail(c, eventRegister, err)
	}

	ctx, cancel := timeout(c)
	defer cancel()

	in := service.RegisterInput{Username: req.Username, Password: req.Password, Email: req.Email, Image: req.Image}
	if err := h.svc.Register.Execute(ctx, in, callback(c, req.Callback)); err != nil {
		return h.fail(c, eventRegister, err)
	}
	h.metrics.Event(eventRegister, metrics.OutcomeSuccess)
	return c.NoContent(http.StatusCreated)
}

// VerifyEmail: activate the user and redirect to callback?code=.
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	ctx, cancel := timeout(c)
	defer cancel()

	redirect, err := h.svc.VerifyEmail.Execute(ctx, c.Param("validationToken"), c.QueryParam("callback"))
	if err != nil {
		return h.fail(c, eventVerifyEmail, err)
	}
	h.metrics.Event(eventVerifyEmail, metrics.OutcomeSuccess)
	return c.Redirect(http.StatusFound, redirect)
}

// Login: check the password and redirect to callback?code=.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bind(c, &req); err != nil {
		return h.fail(c, eventLogin, err)
	}

	ctx, cancel := timeout(c)
	defer cancel()

	redirect, err := h.svc.Login.Execute(ctx, service.LoginInput{
		Username: req.Username,
		Password: req.Password,
		Callback: callback(c, req.Callback),
	})
	if err != nil {
		return h.fail(c, eventLogin, err)
	}
	h.metrics.Event(eventLogin, metrics.OutcomeSuccess)
	return c.Redirect(http.StatusFound, redirect)
}

// Token: exchange a code for the bearer token.
func (h *AuthHandler) Token(c echo.Context) error {
	var req codeReq
	if err := bind(c, &req); err != nil {
		return h.fail(c, eventExchange, err)
	}

	ctx, cancel := timeout(c)
	defer cancel()

	grant, err := h.svc.Exchange.Execute(ctx, req.Code)
	if err != nil {
		return h.fail(c, eventExchange, err)
	}
	h.metrics.Event(eventExchange, metrics.OutcomeSuccess)
	return c.JSON(http.StatusOK, tokenResp{
		Token:     grant.Token,
		CreatedAt: grant.CreatedAt,
		ExpiresIn: grant.ExpiresIn.Milliseconds(),
	})
}

// Authorize: 204 when the bearer token is live.
func (h *AuthHandler) Authorize(c echo.Context) error {
	ctx, cancel := timeout(c)
	defer cancel()

	if err := h.svc.Authorize.Execute(ctx, middleware.BearerToken(c)); err != nil {
		return h.fail(c, eventAuthorize, err)
	}
	h.metrics.Event(eventAuthorize, metrics.OutcomeSuccess)
	return c.NoContent(http.StatusNoContent)
}

// Me: return the sanitized profile behind the bearer token.
func (h *AuthHandler) Me(c echo.Context) error {
	ctx, cancel := timeout(c)
	defer cancel()

	profile, err := h.svc.Profile.Execute(ctx, middleware.BearerToken(c))
	if err != nil {
		return h.fail(c, eventProfile, err)
	}
	h.metrics.Event(eventProfile, metrics.OutcomeSuccess)
	return c.JSON(http.StatusOK, profile)
}

// Logout: retire the session, then redirect to the callback if one was given.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req callbackReq
	if err := bind(c, &req); err != nil {
		return h.fail(c, eventLogout, err)
	}

	ctx, cancel := timeout(c)
	defer cancel()

	redirect, err := h.svc.Logout.Execute(ctx, middleware.BearerToken(c), callback(c, req.Callback))
	if err != nil {
		return h.fail(c, eventLogout, err)
	}
	h.metrics.Event(eventLogout, metrics.OutcomeSuccess)
	if redirect == "" {
		return c.NoContent(http.StatusNoContent)
	}
	return c.Redirect(http.StatusFound, redirect)
}

// ResendVerification: mail a new email-validation link to an inactive user.
func (h *AuthHandler) ResendVerification(c echo.Context) error {
	var req resendReq
	if err := bind(c, &req); err != nil {
		return h.fail(c, eventResend, err)
	}

	ctx, cancel := timeout(c)
	defer cancel()

	if err := h.svc.Resend.Execute(ctx, req.Username, callback(c, req.Callback)); err != nil {
		return h.fail(c, eventResend, err)
	}
	h.metrics.Event(eventResend, metrics.OutcomeSuccess)
	return c.NoContent(http.StatusAccepted)
}

// RequestRecovery: mail a password recovery link.
func (h *AuthHandler) RequestRecovery(c echo.Context) error {
	var req recoveryReq
	if err := bind(c, &req); err != nil {
		return h.fail(c, eventRecovery, err)
	}

	ctx, cancel := timeout(c)
	defer cancel()

	if err := h.svc.Recovery.Execute(ctx, req.Username, callback(c, req.Callback)); err != nil {
		return h.fail(c, eventRecovery, err)
	}
	h.metrics.Event(eventRecovery, metrics.OutcomeSuccess)
	return c.NoContent(http.StatusAccepted)
}

// ResetPassword: set a new password and redirect to callback?code=.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := bind(c, &req); err != nil {
		return h.fail(c, eventReset, err)
	}

	ctx, cancel := timeout(c)
	defer cancel()

	redirect, err := h.svc.Reset.Execute(ctx, c.Param("recoveryToken"), req.Password, callback(c, req.Callback))
	if err != nil {
		return h.fail(c, eventReset, err)
	}
	h.metrics.Event(eventReset, metrics.OutcomeSuccess)
	return c.Redirect(http.StatusFound, redirect)
}

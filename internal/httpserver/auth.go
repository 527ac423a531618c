package httpserver

import (
	"errors"
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"

	"github.com/mcreation/auth-service/internal/logging"
	"github.com/mcreation/auth-service/internal/middleware"
	"github.com/mcreation/auth-service/internal/service"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

type signUpRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (h *AuthHTTP) SignUp(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "error", err)
		return sendError(c, http.StatusBadRequest, "Invalid request body", "")
	}
	if msg := validateSignUp(&req); msg != "" {
		l.Warn("signup_error", "status", 400, "reason", msg)
		return sendError(c, http.StatusBadRequest, msg, "")
	}

	res, err := h.Svc.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return sendError(c, http.StatusBadRequest, "User already exists", "Email is already registered")
		case errors.Is(err, service.ErrUsernameTaken):
			return sendError(c, http.StatusBadRequest, "Username already taken", "Please choose a different username")
		default:
			return sendError(c, http.StatusInternalServerError, "Internal server error", "")
		}
	}

	return sendSuccess(c, http.StatusCreated, "User registered successfully", res)
}

func (h *AuthHTTP) SignIn(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signin")

	var req signInRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signin_error", "status", 400, "error", err)
		return sendError(c, http.StatusBadRequest, "Invalid request body", "")
	}
	if req.Email == "" || req.Password == "" {
		return sendError(c, http.StatusBadRequest, "Email and password are required", "")
	}

	res, err := h.Svc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return sendError(c, http.StatusUnauthorized, "Authentication failed", "Invalid email or password")
		case errors.Is(err, service.ErrAccountInactive):
			return sendError(c, http.StatusUnauthorized, "Account is inactive", "Please contact support")
		default:
			return sendError(c, http.StatusInternalServerError, "Internal server error", "")
		}
	}

	return sendSuccess(c, http.StatusOK, "Sign in successful", res)
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("refresh_error", "status", 400, "error", err)
		return sendError(c, http.StatusBadRequest, "Invalid request body", "")
	}

	accessToken, err := h.Svc.RotateAccessToken(ctx, req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingToken):
			return sendError(c, http.StatusBadRequest, "Refresh token is required", "")
		case errors.Is(err, service.ErrInvalidRefreshToken):
			return sendError(c, http.StatusUnauthorized, "Invalid or expired refresh token", "")
		case errors.Is(err, service.ErrRefreshTokenExpired):
			return sendError(c, http.StatusUnauthorized, "Refresh token expired", "")
		case errors.Is(err, service.ErrUserInactiveOrMissing):
			return sendError(c, http.StatusUnauthorized, "User not found or inactive", "")
		default:
			return sendError(c, http.StatusInternalServerError, "Internal server error", "")
		}
	}

	return sendSuccess(c, http.StatusOK, "Access token refreshed successfully", echo.Map{
		"accessToken": accessToken,
	})
}

func (h *AuthHTTP) SignOut(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signout")

	userID, ok := middleware.UserID(c)
	if !ok {
		return sendError(c, http.StatusUnauthorized, "Access denied. No token provided.", "")
	}

	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signout_error", "status", 400, "error", err)
		return sendError(c, http.StatusBadRequest, "Invalid request body", "")
	}

	if err := h.Svc.SignOut(ctx, req.RefreshToken, userID); err != nil {
		if errors.Is(err, service.ErrMissingToken) {
			return sendError(c, http.StatusBadRequest, "Refresh token is required", "")
		}
		return sendError(c, http.StatusInternalServerError, "Internal server error", "")
	}

	return sendSuccess(c, http.StatusOK, "Signed out successfully", nil)
}

func (h *AuthHTTP) SignOutAll(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.UserID(c)
	if !ok {
		return sendError(c, http.StatusUnauthorized, "Access denied. No token provided.", "")
	}

	if err := h.Svc.RevokeAll(ctx, userID); err != nil {
		return sendError(c, http.StatusInternalServerError, "Internal server error", "")
	}

	return sendSuccess(c, http.StatusOK, "Signed out of all sessions", nil)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := middleware.UserID(c)
	if !ok {
		return sendError(c, http.StatusUnauthorized, "Access denied. No token provided.", "")
	}

	user, err := h.Svc.CurrentUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return sendError(c, http.StatusNotFound, "User not found", "")
		}
		return sendError(c, http.StatusInternalServerError, "Internal server error", "")
	}

	return sendSuccess(c, http.StatusOK, "User retrieved successfully", echo.Map{
		"user": user,
	})
}

// Input-shape checks stay at the transport edge; the core never sees
// malformed input.
func validateSignUp(req *signUpRequest) string {
	if len(req.Username) < 3 || len(req.Username) > 50 {
		return "Username must be between 3 and 50 characters"
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return "Invalid email format"
	}
	if len(req.Password) < 6 {
		return "Password must be at least 6 characters"
	}
	return ""
}

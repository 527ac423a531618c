package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mcreation/auth-service/internal/middleware"
	"github.com/mcreation/auth-service/internal/tokens"
)

type Deps struct {
	AuthHandler *AuthHTTP
	Tokens      *tokens.Service
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api/auth")

	api.POST("/signup", d.AuthHandler.SignUp)
	api.POST("/signin", d.AuthHandler.SignIn)
	api.POST("/refresh-token", d.AuthHandler.Refresh)

	guard := middleware.NewRequireAuth(d.Tokens)
	private := api.Group("", guard.Middleware)

	private.POST("/signout", d.AuthHandler.SignOut)
	private.POST("/signout-all", d.AuthHandler.SignOutAll)
	private.GET("/me", d.AuthHandler.Me)
}

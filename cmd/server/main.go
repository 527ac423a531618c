package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mcreation/auth-service/internal/config"
	"github.com/mcreation/auth-service/internal/db"
	"github.com/mcreation/auth-service/internal/events"
	"github.com/mcreation/auth-service/internal/httpserver"
	"github.com/mcreation/auth-service/internal/logging"
	"github.com/mcreation/auth-service/internal/middleware"
	"github.com/mcreation/auth-service/internal/repo"
	"github.com/mcreation/auth-service/internal/service"
	"github.com/mcreation/auth-service/internal/tokens"
)

func main() {
	cfg := config.Load()
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_ACCESS_SECRET")
	config.MustNonEmptyBytes(cfg.JWTRefreshSecret, "JWT_REFRESH_SECRET")

	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Use(middleware.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DSN())
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	tokenSvc := tokens.New(tokens.Config{
		AccessSecret:  cfg.JWTAccessSecret,
		RefreshSecret: cfg.JWTRefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	})

	authSvc := &service.AuthService{
		Repo:   repo.New(gdb),
		Tokens: tokenSvc,
		Events: producer,
	}

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: authSvc},
		Tokens:      tokenSvc,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}
}

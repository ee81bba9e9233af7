package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"jobboard/internal/config"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/delivery/http/routes"
	"jobboard/internal/ws"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

type App struct {
	Fiber     *fiber.App
	WS        *http.Server
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		ErrorHandler: middleware.ErrorHandler,
	})

	registerGlobalMiddleware(f, c.Logger)
	routes.NewRegistry(c.Tokens, c.Sessions, c.HealthChecks()).Register(f)

	return &App{Fiber: f, WS: newWSServer(c), Container: c}
}

// Bootstrap wires the container and the HTTP app. The returned cleanup closes
// every backend connection.
func Bootstrap(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, logger logrus.FieldLogger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

// newWSServer returns nil when WS_PORT is unset.
func newWSServer(c *Container) *http.Server {
	addr, err := ListenAddr(c.Config.App.WSPort)
	if err != nil {
		return nil
	}
	auth := ws.SessionAuthenticator{Tokens: c.Tokens, Sessions: c.Sessions}
	mux := http.NewServeMux()
	mux.Handle("/ws", ws.NewHandler(c.Hub, auth, c.Logger))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}

package httpserver

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/termwise/glossary-saas/internal/core/ports"
	customMiddleware "github.com/termwise/glossary-saas/internal/infrastructure/httpserver/middleware"
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	TLSCertFile  string
	TLSKeyFile   string
	// UpgradeURL is where refused or previewed responses send the user.
	UpgradeURL string
	// PurchaseWebhookSecret authenticates the payment provider's callbacks.
	PurchaseWebhookSecret string
}

type ServerDeps struct {
	UserService     ports.UserService
	AuthService     ports.AuthService
	TermService     ports.TermService
	AccessService   ports.AccessService
	PurchaseService ports.PurchaseService
	HealthCheckers  []ports.HealthChecker
}

type Server struct {
	echo           *echo.Echo
	config         *ServerConfig
	logger         *logrus.Logger
	userService    ports.UserService
	authSvc        ports.AuthService
	termService    ports.TermService
	accessService  ports.AccessService
	purchaseSvc    ports.PurchaseService
	middleware     *customMiddleware.MiddlewareCollection
	healthCheckers []ports.HealthChecker
}

func NewServer(serverConfig *ServerConfig, logger *logrus.Logger, deps ServerDeps) *Server {
	e := echo.New()
	e.HideBanner = true

	server := &Server{
		echo:           e,
		config:         serverConfig,
		logger:         logger,
		userService:    deps.UserService,
		authSvc:        deps.AuthService,
		termService:    deps.TermService,
		accessService:  deps.AccessService,
		purchaseSvc:    deps.PurchaseService,
		healthCheckers: deps.HealthCheckers,
		middleware: customMiddleware.NewMiddlewareCollection(
			deps.AuthService,
			deps.AccessService,
			serverConfig.UpgradeURL,
			logger,
			GetRequestsTotal(),
			GetRequestDuration(),
			GetAccessDecisionsTotal(),
		),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/termwise/glossary-saas/internal/core/ports"
)

// MiddlewareCollection holds all middleware instances
type MiddlewareCollection struct {
	JWT        *JWTMiddleware
	Logging    *LoggingMiddleware
	AccessGate *AccessGateMiddleware
	Metrics    *MetricsMiddleware
}

// NewMiddlewareCollection creates a new collection of all middleware
func NewMiddlewareCollection(
	authService ports.AuthService,
	accessService ports.AccessService,
	upgradeURL string,
	logger *logrus.Logger,
	requestsTotal *prometheus.CounterVec,
	requestDuration *prometheus.HistogramVec,
	accessDecisions *prometheus.CounterVec,
) *MiddlewareCollection {
	return &MiddlewareCollection{
		JWT:        NewJWTMiddleware(authService, logger),
		Logging:    NewLoggingMiddleware(logger),
		AccessGate: NewAccessGateMiddleware(accessService, upgradeURL, logger, accessDecisions),
		Metrics:    NewMetricsMiddleware(requestsTotal, requestDuration),
	}
}

package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	auth := api.Group("/auth")
	auth.POST("/register", s.register)
	auth.POST("/login", s.login)
	auth.POST("/refresh", s.refreshToken)
	auth.POST("/logout", s.logout)

	// Content reads run with optional identity: anonymous callers fall into
	// the stricter anonymous tier inside the access gate.
	terms := api.Group("/terms", s.middleware.JWT.OptionalJWT())
	terms.GET("", s.listTerms)
	terms.GET("/:slug", s.getTerm, s.middleware.AccessGate.Gate(true))
	terms.GET("/:slug/sections", s.getTermSections, s.middleware.AccessGate.Gate(false))

	me := api.Group("/me", s.middleware.JWT.RequireJWT())
	me.GET("", s.getOwnProfile)
	me.GET("/quota", s.getOwnQuota)

	webhooks := api.Group("/webhooks")
	webhooks.POST("/purchase", s.purchaseWebhook)
}

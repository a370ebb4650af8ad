package http_api

// routes sets up the routes for the HTTP server.
func (s *HTTPServer) routes() {
	api := s.router.Group("/api/v1")

	limited := api.Group("")
	limited.Use(s.rateLimitMiddleware())
	limited.POST("/subscribe", s.subscribe)
	limited.POST("/unsubscribe", s.unsubscribe)
	limited.POST("/notify", s.notify)

	api.GET("/cron/check", s.cronCheck)
	api.GET("/prices", s.prices)

	s.router.GET("/health", s.health)
}

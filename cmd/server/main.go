package main

import (
	"log"

	_ "uniadmin/docs"
	"uniadmin/internal/config"
	"uniadmin/internal/server"
)

// @title           University Administration API
// @version         1.0
// @description     Administrative backend for units, staff, activities, announcements and task assignments.

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()

	s, err := server.Init(cfg)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}

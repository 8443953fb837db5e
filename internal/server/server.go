package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uniadmin/internal/auth"
	"uniadmin/internal/config"
	"uniadmin/internal/database"
	"uniadmin/internal/handler"
	"uniadmin/internal/middleware"
	"uniadmin/internal/repository"
	"uniadmin/internal/storage"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM. TranslateError maps driver unique-violation errors to
	// gorm.ErrDuplicatedKey, which the handlers rely on.
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("❌ failed to access DB handle: %w", err)
	}
	if err := database.Migrate(sqlDB); err != nil {
		return nil, fmt.Errorf("❌ failed to run migrations: %w", err)
	}
	log.Println("✅ Migrations applied")

	store, err := storage.NewFileStore(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to prepare upload directories: %w", err)
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default()
	r.MaxMultipartMemory = 16 << 20

	debug := !cfg.Production()

	// Initialize repositories
	actorRepo := repository.NewActorRepository(db)
	unitRepo := repository.NewUnitRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	resolver := auth.NewResolver(actorRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(actorRepo, resolver, cfg.JWTSecret, debug)
	systemHandler := handler.NewSystemHandler(db, actorRepo, unitRepo, announcementRepo, debug)
	unitHandler := handler.NewUnitHandler(unitRepo, debug)
	directorHandler := handler.NewDirectorHandler(actorRepo, debug)
	staffHandler := handler.NewStaffHandler(actorRepo, store, cfg.PublicURL, debug)
	activityHandler := handler.NewActivityHandler(activityRepo, actorRepo, store, cfg.PublicURL, debug)
	announcementHandler := handler.NewAnnouncementHandler(announcementRepo, debug)
	taskHandler := handler.NewTaskHandler(taskRepo, actorRepo, store, cfg.PublicURL, debug)
	fileHandler := handler.NewFileHandler(store)
	logoHandler := handler.NewLogoHandler(store, cfg.PublicURL, debug)

	// Public routes
	api := r.Group("/api")
	{
		api.POST("/login", authHandler.Login)
		api.POST("/superusers", authHandler.CreateSuperUser)
		api.GET("/health", systemHandler.Health)

		api.GET("/announcements", announcementHandler.ListPublished)
		api.GET("/announcements-recent", announcementHandler.Recent)

		api.GET("/files/activities/:filename", fileHandler.ActivityImage)
		api.GET("/files/tasks/:filename", fileHandler.TaskAttachment)
		api.GET("/files/staff/:filename", fileHandler.StaffPhoto)
		api.GET("/logo/file", fileHandler.Logo)
		api.GET("/logo", logoHandler.Check)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/api")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		authorized.GET("/superusers", authHandler.ListSuperUsers)
		authorized.GET("/stats", systemHandler.Stats)

		// Organisation routes
		authorized.GET("/units", unitHandler.List)
		authorized.POST("/units", unitHandler.Create)
		authorized.GET("/units/:id/activities", activityHandler.ListByUnit)

		authorized.GET("/directors", directorHandler.List)
		authorized.POST("/directors", directorHandler.Create)
		authorized.PUT("/directors/:id", directorHandler.Update)
		authorized.DELETE("/directors/:id", directorHandler.Delete)

		authorized.GET("/staff", staffHandler.List)
		authorized.GET("/staff/:id", staffHandler.GetByID)
		authorized.POST("/staff", staffHandler.Create)
		authorized.PUT("/staff/:id", staffHandler.Update)
		authorized.DELETE("/staff/:id", staffHandler.Delete)

		// Activity routes
		authorized.POST("/activities", activityHandler.Create)
		authorized.GET("/activities", activityHandler.ListAll)
		authorized.PUT("/activities/:id/status", activityHandler.UpdateStatus)
		authorized.DELETE("/activities/:id", activityHandler.Delete)

		// Announcement routes
		authorized.POST("/announcements", announcementHandler.Create)
		authorized.GET("/announcements-admin", announcementHandler.ListAll)
		authorized.GET("/announcements/:id", announcementHandler.GetByID)
		authorized.PUT("/announcements/:id", announcementHandler.Update)
		authorized.DELETE("/announcements/:id", announcementHandler.Delete)

		// Task routes
		authorized.GET("/assignable-users", taskHandler.AssignableUsers)
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks", taskHandler.ListAll)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.PUT("/assignments/:id", taskHandler.UpdateAssignment)
		authorized.POST("/assignments/:id/complete", taskHandler.Complete)
		authorized.GET("/assignees/:id/tasks", taskHandler.ListForAssignee)
		authorized.GET("/assignees/:id/pending-count", taskHandler.PendingCount)
		authorized.DELETE("/attachments/:id", taskHandler.DeleteAttachment)

		// Logo routes
		authorized.POST("/logo", logoHandler.Upload)
		authorized.DELETE("/logo", logoHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}

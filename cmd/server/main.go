package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"evreg/internal/api"
	"evreg/internal/app/service"
	"evreg/internal/app/worker"
	"evreg/internal/common"
	"evreg/internal/common/security"
	"evreg/internal/domain/model"
	"evreg/internal/domain/repository"
	"evreg/internal/platform/config"
	"evreg/internal/platform/database"
	"evreg/internal/platform/metrics"
	"evreg/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	config.Load()
	fmt.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()
	fmt.Println("JWT initialized.")

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	database.EnsureSchema()
	fmt.Println("Database connected.")

	// 4. Initialize Redis
	queue.ConnectRedis()
	defer queue.CloseRedis()
	fmt.Println("Redis connected.")

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	groupRepo := repository.NewPgGroupRepository(database.DB)
	profileRepo := repository.NewPgProfileRepository(database.DB)
	eventRepo := repository.NewPgEventRepository(database.DB)
	locationRepo := repository.NewPgLocationRepository(database.DB)
	auditRepo := repository.NewPgAuditRepository(database.DB)
	enrollmentRepo := repository.NewPgEnrollmentRepository(database.DB)
	txRunner := repository.NewTxRunner(database.DB)

	seedAdminGroup(groupRepo, userRepo)

	// 6. Initialize Metrics & Services
	appMetrics := metrics.New()
	mailQueue := queue.NewRedisMailQueue(queue.RDB)

	authService := service.NewAuthService(userRepo)
	registrationService := service.NewRegistrationService(
		profileRepo, userRepo, txRunner, mailQueue, appMetrics, config.AppConfig.ActivationWindow)
	profileService := service.NewProfileService(userRepo, eventRepo, enrollmentRepo)
	enrollmentService := service.NewEnrollmentService(auditRepo, enrollmentRepo, eventRepo, txRunner, appMetrics)
	eventService := service.NewEventService(eventRepo, auditRepo, locationRepo)
	auditService := service.NewAuditService(auditRepo, eventRepo, locationRepo)
	locationService := service.NewLocationService(locationRepo)

	// 7. Initialize Mail Worker (as a goroutine)
	sender := &worker.SMTPSender{Addr: config.AppConfig.SMTPAddr, From: config.AppConfig.MailFrom}
	mailWorker := worker.NewMailWorker(queue.RDB, sender, appMetrics)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go mailWorker.Start(workerCtx)
	fmt.Println("Mail worker started.")

	// 8. Initialize Router & HTTP Server
	router := api.NewRouter(
		authService, registrationService, profileService,
		enrollmentService, eventService, auditService, locationService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()
	log.Println("Server started successfully.")

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal worker to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and worker stopped gracefully.")
}

// seedAdminGroup makes sure the admin group exists and, when ADMIN_EMAIL
// points at an existing user, puts that user into it. Failures here are
// logged, a missing seed never blocks startup.
func seedAdminGroup(groupRepo repository.GroupRepository, userRepo repository.UserRepository) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminGroup, err := groupRepo.FindByName(ctx, model.AdminGroup)
	if errors.Is(err, common.ErrNotFound) {
		adminGroup = &model.Group{Name: model.AdminGroup}
		if err := groupRepo.Create(ctx, adminGroup); err != nil {
			log.Printf("WARN: Could not create admin group: %v", err)
			return
		}
	} else if err != nil {
		log.Printf("WARN: Could not look up admin group: %v", err)
		return
	}

	if config.AppConfig.AdminEmail == "" {
		return
	}
	admin, err := userRepo.FindByEmail(ctx, config.AppConfig.AdminEmail)
	if err != nil {
		log.Printf("WARN: Admin user %s not found, skipping admin seed.", config.AppConfig.AdminEmail)
		return
	}
	if err := groupRepo.AddMember(ctx, adminGroup.ID, admin.ID); err != nil {
		log.Printf("WARN: Could not add %s to admin group: %v", config.AppConfig.AdminEmail, err)
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Bastion/config"
	"github.com/lshigami/Bastion/database"
	_ "github.com/lshigami/Bastion/docs" // Swagger docs - generated by swag
	adminctrl "github.com/lshigami/Bastion/internal/controller/admin"
	userctrl "github.com/lshigami/Bastion/internal/controller/user"
	"github.com/lshigami/Bastion/internal/exercise"
	"github.com/lshigami/Bastion/internal/logger"
	"github.com/lshigami/Bastion/internal/middleware"
	"github.com/lshigami/Bastion/internal/model"
	"github.com/lshigami/Bastion/internal/repository"
	"github.com/lshigami/Bastion/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Bastion CTF Scoring API
// @version 1.0
// @description Flag derivation, submission ledger and scoreboard for security training exercises.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.NopLogger,

		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewModuleRepository,
			repository.NewSubmissionRepository,
			repository.NewModulePointRepository,
			repository.NewCorrectionRepository,
			repository.NewCsrfAttackRepository,
			repository.NewConfigurationRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewSystemClock,
			service.NewKeyService,
			service.NewFlagService,
			service.NewModuleService,
			service.NewSubmissionService,
			service.NewScoreService,
			service.NewCorrectionService,
			service.NewCsrfService,
		),

		// Exercises
		fx.Provide(
			func(modules service.ModuleService) exercise.Registrar { return modules },
			exercise.NewFlagTutorial,
			exercise.NewCsrfTutorial,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminController,
			adminctrl.NewAdminModuleController,
			userctrl.NewSubmissionController,
			userctrl.NewScoreboardController,
			func(flagTutorial *exercise.FlagTutorial, csrfTutorial *exercise.CsrfTutorial) *userctrl.ExerciseController {
				return userctrl.NewExerciseController(flagTutorial, csrfTutorial)
			},
		),

		// Invokers run in order: schema first, then the key, then the exercises.
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(CheckServerKey),
		fx.Invoke(InitExercises),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Failed to stop application cleanly")
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Module{},
		&model.Submission{},
		&model.ModulePoint{},
		&model.Correction{},
		&model.CsrfAttack{},
		&model.Configuration{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to auto-migrate database")
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	log.Info().Msg("Database migrations completed successfully.")
	return nil
}

// CheckServerKey loads the server key once so a malformed key stops startup
// instead of failing the first submission.
func CheckServerKey(keyService service.KeyService) error {
	if _, err := keyService.ServerKey(); err != nil {
		log.Error().Err(err).Msg("Server key unavailable")
		return fmt.Errorf("server key check failed: %w", err)
	}
	log.Info().Msg("Server key loaded")
	return nil
}

func InitExercises(flagTutorial *exercise.FlagTutorial, csrfTutorial *exercise.CsrfTutorial) error {
	return exercise.InitAll(flagTutorial, csrfTutorial)
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminCtrl *adminctrl.AdminController,
	adminModuleCtrl *adminctrl.AdminModuleController,
	submissionCtrl *userctrl.SubmissionController,
	scoreboardCtrl *userctrl.ScoreboardController,
	exerciseCtrl *userctrl.ExerciseController,
) {
	// Admin Routes (prefixed with /api/v1/admin)
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/modules", adminModuleCtrl.CreateModule)
		adminAPIGroup.PUT("/modules/:module_id/flag-mode", adminModuleCtrl.SetFlagMode)
		adminAPIGroup.POST("/modules/:module_id/points", adminCtrl.SetModulePoints)
		adminAPIGroup.POST("/corrections", adminCtrl.CreateCorrection)
		adminAPIGroup.GET("/corrections/:user_id", adminCtrl.GetCorrections)
		adminAPIGroup.POST("/server-key/refresh", adminModuleCtrl.RefreshServerKey)
	}

	// User Routes (prefixed with /api/v1)
	userAPIGroup := router.Group("/api/v1")
	{
		userAPIGroup.GET("/modules", submissionCtrl.GetModules)
		userAPIGroup.POST("/modules/:module_name/submissions", submissionCtrl.SubmitFlag)

		userAPIGroup.GET("/scoreboard", scoreboardCtrl.GetScoreboard)
		userAPIGroup.GET("/scoreboard/:user_id", scoreboardCtrl.GetUserScore)

		userAPIGroup.GET("/module/flag-tutorial", exerciseCtrl.FlagTutorial)
		userAPIGroup.GET("/module/csrf-tutorial", exerciseCtrl.CsrfTutorial)
		userAPIGroup.GET("/module/csrf-tutorial/activate/:pseudonym", exerciseCtrl.CsrfActivate)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Bastion server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

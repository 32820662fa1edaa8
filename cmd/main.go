package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hanbyul-kim/examhall/config"
	"github.com/hanbyul-kim/examhall/database"
	_ "github.com/hanbyul-kim/examhall/docs" // Swagger docs - auto-generated
	adminctrl "github.com/hanbyul-kim/examhall/internal/controller/admin"
	studentctrl "github.com/hanbyul-kim/examhall/internal/controller/student"
	"github.com/hanbyul-kim/examhall/internal/logger"
	"github.com/hanbyul-kim/examhall/internal/model"
	"github.com/hanbyul-kim/examhall/internal/repository"
	"github.com/hanbyul-kim/examhall/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title ExamHall API
// @version 1.0
// @description Timed school assessment service: exam lifecycle, live exam-taking sessions, and batch scoring.
// @contact.name API Support
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewExamRepository,
			repository.NewAnswerKeyRepository,
			repository.NewStudentAnswerRepository,
			repository.NewScoringResultRepository,
			repository.NewStudentRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewExamLifecycleService,
			service.NewStatusSweeper,
			service.NewScoringService,
			service.NewSessionService,
			service.NewAdminExamService,
			service.NewStudentExamService,
			service.NewStatsService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminExamController,
			studentctrl.NewStudentExamController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RunStatusSweeper),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.DebugMode)

	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminExamCtrl *adminctrl.AdminExamController,
	studentExamCtrl *studentctrl.StudentExamController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/exams", adminExamCtrl.CreateExam)
		adminAPIGroup.GET("/exams", adminExamCtrl.ListExams)
		adminAPIGroup.PATCH("/exams/:exam_id/active", adminExamCtrl.SetExamActive)
		adminAPIGroup.POST("/answer-keys", adminExamCtrl.CreateAnswerKeyEntry)
		adminAPIGroup.POST("/grading/run", adminExamCtrl.RunBatchGrading)
		adminAPIGroup.GET("/stats", adminExamCtrl.GetStats)
	}

	studentAPIGroup := router.Group("/api/v1")
	{
		studentAPIGroup.GET("/exams", studentExamCtrl.ListExams)
		studentAPIGroup.GET("/exams/:exam_id", studentExamCtrl.GetExamDetails)

		// Timed sessions
		studentAPIGroup.POST("/exams/:exam_id/sessions", studentExamCtrl.StartSession)
		studentAPIGroup.GET("/sessions/:session_id", studentExamCtrl.GetSession)
		studentAPIGroup.PUT("/sessions/:session_id/answers", studentExamCtrl.RecordAnswer)
		studentAPIGroup.PUT("/sessions/:session_id/position", studentExamCtrl.GoTo)
		studentAPIGroup.POST("/sessions/:session_id/submit-request", studentExamCtrl.RequestSubmit)
		studentAPIGroup.POST("/sessions/:session_id/finalize", studentExamCtrl.Finalize)

		// Legacy per-question intake and results
		studentAPIGroup.POST("/answers", studentExamCtrl.SubmitLegacyAnswer)
		studentAPIGroup.GET("/students/:student_id/results", studentExamCtrl.GetStudentResults)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("ExamHall API server starting on port %s", cfg.Server.Port)
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

// RunStatusSweeper ties the background status sweep to the application lifecycle.
func RunStatusSweeper(lc fx.Lifecycle, sweeper *service.StatusSweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return sweeper.Start()
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Exam{},
		&model.ExamQuestion{},
		&model.AnswerKeyEntry{},
		&model.StudentAnswer{},
		&model.ScoringResult{},
		&model.Student{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

// Package main — точка входа приложения.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"enoch-go/internal/config"
	"enoch-go/internal/handler"
	"enoch-go/internal/middleware"
	"enoch-go/internal/model"
	"enoch-go/internal/pipeline"
	"enoch-go/internal/repository"
	"enoch-go/internal/service"
	"enoch-go/pkg/ai"
	"enoch-go/pkg/database"
	"enoch-go/pkg/es"
	"enoch-go/pkg/kafka"
	"enoch-go/pkg/log"
	"enoch-go/pkg/storage"
	"enoch-go/pkg/tasks"
	"enoch-go/pkg/token"
)

func main() {
	// 1. Конфигурация
	config.Init("./configs/config.yaml")
	cfg := config.Conf

	// 2. Логгер
	log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
	defer log.Sync()
	log.Info("логгер инициализирован")

	// 3. Базы данных и внешние сервисы
	database.InitMySQL(cfg.Database.MySQL.DSN)
	database.InitRedis(cfg.Database.Redis.Addr, cfg.Database.Redis.Password, cfg.Database.Redis.DB)
	storage.InitMinIO(cfg.MinIO)
	if err := es.InitES(cfg.Elasticsearch); err != nil {
		log.Errorf("не удалось инициализировать Elasticsearch: %s", err)
		return
	}
	kafka.InitProducer(cfg.Kafka)

	// Миграция схемы MySQL
	if err := database.DB.AutoMigrate(&model.User{}, &model.ChatMode{}, &model.AppConfig{}); err != nil {
		log.Fatalf("миграция схемы не удалась: %v", err)
	}

	// 4. Repository
	userRepo := repository.NewUserRepository(database.DB)
	modeRepo := repository.NewModeRepository(database.DB)
	configRepo := repository.NewConfigRepository(database.DB)
	chatRepo := repository.NewChatRepository(database.RDB)
	fixtureVerseRepo := repository.NewFixtureVerseRepository()
	esVerseRepo := repository.NewESVerseRepository(es.ESClient, cfg.Elasticsearch.VerseIndex, cfg.Elasticsearch.CommentaryIndex)

	// 5. Service (внедрение зависимостей)
	jwtManager := token.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpireHours, cfg.JWT.RefreshTokenExpireDays)
	aiClient := ai.NewClient()
	audioStore := storage.NewAudioStore(storage.MinioClient, cfg.MinIO.BucketName)

	userService := service.NewUserService(userRepo, jwtManager)
	modeService := service.NewModeService(modeRepo)
	themeService := service.NewThemeService()
	adminService := service.NewAdminService(configRepo, themeService)
	retrievalService := service.NewRetrievalService(fixtureVerseRepo, esVerseRepo, configRepo)
	answerService := service.NewAnswerService(retrievalService, aiClient, configRepo)
	chatService := service.NewChatService(chatRepo, modeService, answerService)
	speechService := service.NewSpeechService(aiClient, configRepo, modeService, audioStore, cfg.AI.TTSModel, cfg.AI.DefaultVoice)

	// Стандартные режимы при первом запуске
	if err := modeService.EnsureDefaults(); err != nil {
		log.Fatalf("не удалось засеять стандартные режимы: %v", err)
	}

	// 6. Конвейер индексации корпуса
	indexer := pipeline.NewIndexer(cfg.Elasticsearch.VerseIndex, cfg.Elasticsearch.CommentaryIndex)
	go kafka.StartConsumer(cfg.Kafka, indexer)
	go publishCorpus()

	// 7. Маршрутизация
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	authHandler := handler.NewAuthHandler(userService)
	chatHandler := handler.NewChatHandler(chatService)
	wsHandler := handler.NewWSChatHandler(chatService, userService, jwtManager)
	modeHandler := handler.NewModeHandler(modeService)
	adminHandler := handler.NewAdminHandler(adminService, userService)
	speechHandler := handler.NewSpeechHandler(speechService)
	themeHandler := handler.NewThemeHandler(themeService, adminService)

	apiV1 := r.Group("/api/v1")
	{
		auth := apiV1.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refreshToken", authHandler.RefreshToken)
		}

		authed := apiV1.Group("/")
		authed.Use(middleware.AuthMiddleware(jwtManager, userService))
		{
			authed.GET("/users/me", authHandler.Profile)

			chats := authed.Group("/chats")
			{
				chats.GET("", chatHandler.List)
				chats.POST("", chatHandler.Create)
				chats.GET("/:id", chatHandler.Get)
				chats.DELETE("/:id", chatHandler.Delete)
				chats.POST("/:id/messages", chatHandler.SendMessage)
				chats.PUT("/:id/mode", chatHandler.SetMode)
				chats.POST("/:id/explain", chatHandler.Explain)
			}

			authed.GET("/modes", modeHandler.List)
			authed.GET("/themes", themeHandler.Catalog)
			authed.GET("/themes/current", themeHandler.Current)
			authed.POST("/speech", speechHandler.Synthesize)
		}

		admin := apiV1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(jwtManager, userService), middleware.AdminAuthMiddleware())
		{
			admin.GET("/config", adminHandler.GetConfig)
			admin.PUT("/config", adminHandler.UpdateConfig)
			admin.GET("/users/list", adminHandler.ListUsers)

			modes := admin.Group("/modes")
			{
				modes.POST("", modeHandler.Create)
				modes.PUT("/:id", modeHandler.Update)
				modes.DELETE("/:id", modeHandler.Delete)
			}
		}
	}
	// WebSocket-беседа: токен в пути, вне группы middleware
	r.GET("/chat/:token", wsHandler.Handle)

	// 8. HTTP-сервер с мягкой остановкой
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r,
	}

	go func() {
		log.Infof("сервис запущен на %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("не удалось запустить HTTP-сервер: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("получен сигнал остановки, завершение работы...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("не удалось остановить HTTP-сервер: %v", err)
	}
	log.Info("сервис остановлен")
}

// publishCorpus отправляет встроенный корпус стихов и толкований в Kafka.
// Индексация идемпотентна: документы пишутся по стабильным идентификаторам.
func publishCorpus() {
	for _, verse := range repository.FixtureVerses() {
		v := verse
		if err := kafka.ProduceIndexTask(tasks.IndexTask{Kind: tasks.KindVerse, Verse: &v}); err != nil {
			log.Warnf("не удалось отправить стих %d в очередь индексации: %v", v.ID, err)
		}
	}
	for _, commentary := range repository.FixtureCommentaries() {
		c := commentary
		if err := kafka.ProduceIndexTask(tasks.IndexTask{Kind: tasks.KindCommentary, Commentary: &c}); err != nil {
			log.Warnf("не удалось отправить толкование %d в очередь индексации: %v", c.ID, err)
		}
	}
}

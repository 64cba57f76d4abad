package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/taskwire/taskwire/internal/config"
	"github.com/taskwire/taskwire/internal/database"
	"github.com/taskwire/taskwire/internal/handlers"
	"github.com/taskwire/taskwire/internal/services"
	ws "github.com/taskwire/taskwire/internal/websocket"
	"github.com/taskwire/taskwire/pkg/auth"
)

type Server struct {
	Router *gin.Engine
	Config *config.Config
	DB     *database.Database
	Redis  *redis.Client
	Hub    *ws.Hub
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	dbConn := &database.Database{}
	if err := dbConn.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	hub := ws.NewHub()
	go hub.Run()

	taskSvc := services.NewTaskService(dbConn)

	authH := handlers.NewAuthHandler(dbConn, jwtMgr, rdb)
	userH := handlers.NewUserHandler(dbConn)
	taskH := handlers.NewTaskHandler(taskSvc)
	chatH := handlers.NewChatHandler(dbConn, hub)
	wsH := handlers.NewWebSocketHandler(hub, chatH)

	router := gin.Default()
	APIEndpoints(router, jwtMgr, rdb, authH, userH, taskH, chatH, wsH)

	return &Server{
		Router: router,
		Config: cfg,
		DB:     dbConn,
		Redis:  rdb,
		Hub:    hub,
	}
}

func (s *Server) Run() {
	log.Printf("Server starting on port %s", s.Config.Port)
	if err := s.Router.Run(":" + s.Config.Port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/taskwire/taskwire/internal/handlers"
	"github.com/taskwire/taskwire/internal/middleware"
	"github.com/taskwire/taskwire/pkg/auth"
)

func APIEndpoints(
	r *gin.Engine,
	jwtMgr *auth.JWTManager,
	rdb *redis.Client,
	authH *handlers.AuthHandler,
	userH *handlers.UserHandler,
	taskH *handlers.TaskHandler,
	chatH *handlers.ChatHandler,
	wsH *handlers.WebSocketHandler,
) {
	// Auth endpoints
	authGroup := r.Group("/api/auth")
	{
		authGroup.POST("/register", authH.Register)
		authGroup.POST("/login", authH.Login)
		authGroup.POST("/logout", authH.Logout)
	}

	// API endpoints, identity required
	api := r.Group("/api", middleware.AuthMiddleware(jwtMgr, rdb))
	{
		api.POST("/tasks", taskH.CreateTask)
		api.GET("/tasks", taskH.ListTasks)
		api.GET("/tasks/:id", taskH.GetTask)
		api.PUT("/tasks/:id", taskH.UpdateTask)
		api.DELETE("/tasks/:id", taskH.DeleteTask)

		api.GET("/users/me", userH.GetMe)
		api.GET("/rooms/:room/messages", chatH.RoomMessages)
	}

	// Chat channel, unauthenticated by design of the relay path
	r.GET("/ws", wsH.HandleWebSocket)
}

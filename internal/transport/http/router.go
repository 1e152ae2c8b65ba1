package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/travel-buddy/internal/transport/http/handler"
	"github.com/ErlanBelekov/travel-buddy/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(
	logger *slog.Logger,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	ticketHandler *handler.TicketHandler,
	jwtKey []byte,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	api := r.Group("/api")

	// Public auth routes
	auth := api.Group("/auth")
	auth.POST("/signup", authHandler.Signup)
	auth.POST("/verify-otp", authHandler.VerifyOTP)
	auth.POST("/resend-otp", authHandler.ResendOTP)
	auth.POST("/login", authHandler.Login)

	authMW := middleware.Auth(jwtKey)

	// Protected profile routes
	user := api.Group("/user", authMW)
	user.GET("/profile", profileHandler.Get)
	user.PATCH("/profile", profileHandler.Update)

	// Protected ticket routes
	tickets := api.Group("/tickets", authMW)
	tickets.POST("", ticketHandler.Upload)
	tickets.GET("", ticketHandler.List)

	return r
}

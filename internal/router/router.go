package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/bkoncius/Book-recommendation-app/internal/config"
	"github.com/bkoncius/Book-recommendation-app/internal/handler"
	"github.com/bkoncius/Book-recommendation-app/internal/middleware"
	"github.com/bkoncius/Book-recommendation-app/internal/models"
)

// SetupRouter configures the Gin engine, middleware and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(log),
		middleware.ErrorHandler(log),
	)

	if len(cfg.CORS.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	jwtSecret := cfg.JWT.Secret

	authHandler := handler.NewAuthHandler(db, cfg)
	bookHandler := handler.NewBookHandler(db)
	categoryHandler := handler.NewCategoryHandler(db)
	commentHandler := handler.NewCommentHandler(db)
	ratingHandler := handler.NewRatingHandler(db)
	favoriteHandler := handler.NewFavoriteHandler(db)
	exportHandler := handler.NewExportHandler(db)

	api := r.Group("/api")

	// authentication endpoints
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/me", middleware.OptionalAuth(jwtSecret, log), authHandler.Me)

	// public catalog; book detail personalizes when an identity is present
	api.GET("/categories", categoryHandler.List)
	api.GET("/books", bookHandler.List)
	api.GET("/books/:id", middleware.OptionalAuth(jwtSecret, log), bookHandler.Get)
	api.GET("/books/:id/comments", commentHandler.List)
	api.GET("/books/:id/ratings", ratingHandler.Stats)

	// endpoints that require a logged-in user
	authed := api.Group("", middleware.RequireAuth(jwtSecret, log), middleware.Audit(db))

	authed.POST("/books/:id/ratings", ratingHandler.Upsert)
	authed.GET("/books/:id/ratings/me", ratingHandler.GetMine)
	authed.DELETE("/books/:id/ratings", ratingHandler.Delete)

	authed.POST("/books/:id/comments", commentHandler.Create)
	authed.PUT("/comments/:id", commentHandler.Update)
	authed.DELETE("/comments/:id", commentHandler.Delete)

	authed.POST("/favorites", favoriteHandler.Add)
	authed.GET("/favorites", favoriteHandler.List)
	authed.DELETE("/favorites/:bookId", favoriteHandler.Remove)
	authed.GET("/favorites/check/:bookId", favoriteHandler.Check)

	// catalog management
	admin := authed.Group("", middleware.RequireRoles(models.RoleAdmin))

	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)

	admin.POST("/books", bookHandler.Create)
	admin.PUT("/books/:id", bookHandler.Update)
	admin.DELETE("/books/:id", bookHandler.Delete)

	admin.GET("/export/csv", exportHandler.CSV)
	admin.GET("/export/xlsx", exportHandler.XLSX)

	return r
}

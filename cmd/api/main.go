package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"conduit/internal/config"
	"conduit/internal/database"
	"conduit/internal/domain"
	"conduit/internal/middleware"
	"conduit/internal/modules/article"
	"conduit/internal/modules/profile"
	"conduit/internal/modules/tag"
	"conduit/internal/modules/user"
	jwtsvc "conduit/internal/pkg/jwt"
	"conduit/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadRuntimeConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.Article{},
		&domain.Tag{},
		&domain.ArticleTag{},
		&domain.Favorite{},
		&domain.Follow{},
	); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	tagRepo := repository.NewTagRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	followRepo := repository.NewFollowRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	userService := user.NewService(userRepo, j)
	userHandler := user.NewHandler(userService)

	profileService := profile.NewService(userRepo, followRepo)
	profileHandler := profile.NewHandler(profileService)

	articleService := article.NewService(articleRepo, tagRepo, favoriteRepo, userRepo)
	articleHandler := article.NewHandler(articleService)

	tagHandler := tag.NewHandler(tagRepo)

	r := gin.Default()
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorLogger())

	api := r.Group("/api")
	{
		// public, token optional
		public := api.Group("/")
		public.Use(middleware.OptionalAuth(j))
		{
			userHandler.RegisterPublicRoutes(public)
			profileHandler.RegisterPublicRoutes(public)
			articleHandler.RegisterPublicRoutes(public)
			tagHandler.RegisterRoutes(public)
		}

		// protected, token required
		protected := api.Group("/")
		protected.Use(middleware.Auth(j))
		{
			userHandler.RegisterProtectedRoutes(protected)
			profileHandler.RegisterProtectedRoutes(protected)
			articleHandler.RegisterProtectedRoutes(protected)
		}
	}

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

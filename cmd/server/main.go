package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"recipebox/docs"
	"recipebox/internal/auth"
	"recipebox/internal/cache"
	"recipebox/internal/config"
	"recipebox/internal/db"
	"recipebox/internal/handler"
	"recipebox/internal/logger"
	"recipebox/internal/repository"
	"recipebox/internal/router"
	"recipebox/internal/service"
	"recipebox/internal/storage"
)

// @title Recipe API
// @version 1.0
// @description Recipe API with per-user tags, ingredients, recipes and image uploads.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.Database, log, cfg.Log.Level)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}
	if err := db.Migrate(gormDB, cfg.Database.Reset, log); err != nil {
		log.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, "recipebox:")
	defer func() { _ = cacheClient.Close() }()

	images, err := storage.New(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("storage init", zap.Error(err))
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	tagRepo := repository.NewTagRepository(gormDB)
	ingredientRepo := repository.NewIngredientRepository(gormDB)
	recipeRepo := repository.NewRecipeRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	userService := service.NewUserService(userRepo, recipeRepo, images, cacheClient, log)
	authService := service.NewAuthService(userService, jwtService, tokenStore)
	tagService := service.NewTagService(tagRepo, cfg.Recipe.TaxonomyOrder)
	ingredientService := service.NewIngredientService(ingredientRepo, cfg.Recipe.TaxonomyOrder)
	recipeService := service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, images, cfg.Storage, cfg.Recipe, log)

	// Initialize handlers
	handlers := router.Handlers{
		User:        handler.NewUserHandler(userService, authService),
		Tags:        handler.NewTagHandler(tagService),
		Ingredients: handler.NewIngredientHandler(ingredientService),
		Recipes:     handler.NewRecipeHandler(recipeService, images.URL, cfg.Storage.MaxImageBytes),
	}

	deps := router.Deps{
		Config: cfg,
		Logger: log,
		Auth:   auth.Middleware(jwtService, tokenStore, service.ActiveAccount(userService)),
		Health: func(ctx context.Context) error {
			sqlDB, err := gormDB.DB()
			if err != nil {
				return err
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				return err
			}
			return cacheClient.Ping(ctx)
		},
	}
	if local, ok := images.(*storage.LocalStore); ok {
		deps.MediaRoot = local.Root()
	}

	if cfg.Server.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.Server.SwaggerHost, "http://"), "https://")
	}

	e := echo.New()
	e.HideBanner = true
	router.Register(e, deps, handlers)

	if cfg.Swagger.Enabled {
		log.Info("Swagger documentation available", zap.String("url", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html"))
	}

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port), zap.String("env", cfg.App.Env))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
}

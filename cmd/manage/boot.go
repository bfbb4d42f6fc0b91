package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recipebox/internal/config"
	"recipebox/internal/db"
	"recipebox/internal/logger"
	"recipebox/internal/model"
	"recipebox/internal/repository"
	"recipebox/internal/service"
	"recipebox/internal/storage"
)

type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

// boot loads config and opens the database connection.
func boot() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg.Log)

	gormDB, err := db.Open(cfg.Database, log, cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	return &env{cfg: cfg, log: log, db: gormDB}, nil
}

func (e *env) close() {
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = e.log.Sync()
}

type services struct {
	users       service.UserService
	tags        service.TaxonomyService[model.Tag]
	ingredients service.TaxonomyService[model.Ingredient]
	recipes     service.RecipeService
}

func (e *env) services(ctx context.Context) (*services, error) {
	images, err := storage.New(ctx, e.cfg.Storage, e.log)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(e.db)
	tagRepo := repository.NewTagRepository(e.db)
	ingredientRepo := repository.NewIngredientRepository(e.db)
	recipeRepo := repository.NewRecipeRepository(e.db)

	return &services{
		users:       service.NewUserService(userRepo, recipeRepo, images, nil, e.log),
		tags:        service.NewTagService(tagRepo, e.cfg.Recipe.TaxonomyOrder),
		ingredients: service.NewIngredientService(ingredientRepo, e.cfg.Recipe.TaxonomyOrder),
		recipes:     service.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, images, e.cfg.Storage, e.cfg.Recipe, e.log),
	}, nil
}

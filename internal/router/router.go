package router

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"recipebox/internal/config"
	"recipebox/internal/handler"
	"recipebox/internal/logger"
	"recipebox/internal/metrics"
	"recipebox/internal/model"
)

// Handlers groups the HTTP handlers mounted under /api.
type Handlers struct {
	User        *handler.UserHandler
	Tags        *handler.TaxonomyHandler[model.Tag, *model.Tag]
	Ingredients *handler.TaxonomyHandler[model.Ingredient, *model.Ingredient]
	Recipes     *handler.RecipeHandler
}

// Deps are the non-handler collaborators of the router.
type Deps struct {
	Config *config.Config
	Logger *zap.Logger
	// Auth authenticates protected routes.
	Auth []echo.MiddlewareFunc
	// MediaRoot, when set, is served at the path of Config.Storage.BaseURL.
	MediaRoot string
	// Health reports readiness of backing services.
	Health func(ctx context.Context) error
}

// Register wires routes and middleware.
func Register(e *echo.Echo, deps Deps, h Handlers) {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	mediaPath := mediaPrefix(cfg.Storage.BaseURL)
	unslashed := []string{"/swagger", "/metrics", mediaPath}

	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			for _, prefix := range unslashed {
				if prefix != "" && strings.HasPrefix(p, prefix) {
					return true
				}
			}
			return false
		},
	}))
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())
	if cfg.Server.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	}
	if cfg.Metrics.Enabled {
		e.Use(metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}

	e.Validator = handler.NewValidator()

	e.GET("/healthz/", func(c echo.Context) error {
		if deps.Health != nil {
			if err := deps.Health(c.Request().Context()); err != nil {
				return c.String(http.StatusServiceUnavailable, "unavailable")
			}
		}
		return c.String(http.StatusOK, "ok")
	})

	if cfg.Swagger.Enabled {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}
	if deps.MediaRoot != "" && mediaPath != "" {
		e.Static(mediaPath, deps.MediaRoot)
	}

	api := e.Group("/api")

	// Public routes
	api.POST("/user/create/", h.User.CreateUser)
	api.POST("/user/token/", h.User.CreateToken)

	// Secured routes (require a valid, unrevoked token)
	secured := api.Group("", deps.Auth...)

	secured.GET("/user/me/", h.User.Me)
	secured.PUT("/user/me/", h.User.UpdateMe)
	secured.PATCH("/user/me/", h.User.UpdateMe)
	secured.DELETE("/user/me/", h.User.DeleteMe)
	secured.POST("/user/logout/", h.User.Logout)

	// Tag routes
	secured.GET("/recipe/tags/", h.Tags.List)
	secured.POST("/recipe/tags/", h.Tags.Create)
	secured.GET("/recipe/tags/:id/", h.Tags.Get)
	secured.PATCH("/recipe/tags/:id/", h.Tags.Update)
	secured.DELETE("/recipe/tags/:id/", h.Tags.Delete)

	// Ingredient routes
	secured.GET("/recipe/ingredient/", h.Ingredients.List)
	secured.POST("/recipe/ingredient/", h.Ingredients.Create)
	secured.GET("/recipe/ingredient/:id/", h.Ingredients.Get)
	secured.PATCH("/recipe/ingredient/:id/", h.Ingredients.Update)
	secured.DELETE("/recipe/ingredient/:id/", h.Ingredients.Delete)

	// Recipe routes
	secured.GET("/recipe/recepie/", h.Recipes.List)
	secured.POST("/recipe/recepie/", h.Recipes.Create)
	secured.GET("/recipe/recepie/:id/", h.Recipes.Get)
	secured.PUT("/recipe/recepie/:id/", h.Recipes.Update)
	secured.PATCH("/recipe/recepie/:id/", h.Recipes.Update)
	secured.DELETE("/recipe/recepie/:id/", h.Recipes.Delete)
	secured.POST("/recipe/recepie/:id/image-upload/", h.Recipes.UploadImage)
	secured.DELETE("/recipe/recepie/:id/image-upload/", h.Recipes.RemoveImage)
}

// mediaPrefix returns the path component of the public media URL.
func mediaPrefix(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	return strings.TrimRight(u.Path, "/")
}

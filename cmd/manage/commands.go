package main

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipebox/internal/db"
	apperrors "recipebox/internal/errors"
	"recipebox/internal/repository"
	"recipebox/internal/service"
)

// manage migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := boot()
		if err != nil {
			return err
		}
		defer e.close()

		reset, _ := cmd.Flags().GetBool("reset")
		if err := db.Migrate(e.db, reset || e.cfg.Database.Reset, e.log); err != nil {
			return err
		}
		e.log.Info("Database migrations completed")
		return nil
	},
}

// manage createsuperuser
var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create a staff user with every permission",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		name, _ := cmd.Flags().GetString("name")
		if password == "" {
			return errors.New("--password is required")
		}

		e, err := boot()
		if err != nil {
			return err
		}
		defer e.close()

		svc, err := e.services(cmd.Context())
		if err != nil {
			return err
		}
		user, err := svc.users.CreateSuperuser(cmd.Context(), email, password, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Superuser %s created (id %d)\n", user.Email, user.ID)
		return nil
	},
}

// manage seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo user with sample tags, ingredients and a recipe",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := boot()
		if err != nil {
			return err
		}
		defer e.close()

		svc, err := e.services(cmd.Context())
		if err != nil {
			return err
		}
		return seed(cmd, svc, e.log)
	},
}

const (
	demoEmail    = "demo@example.com"
	demoPassword = "demopass"
)

func seed(cmd *cobra.Command, svc *services, log *zap.Logger) error {
	ctx := cmd.Context()

	user, err := svc.users.CreateUser(ctx, demoEmail, demoPassword, "Demo")
	if errors.Is(err, apperrors.ErrEmailTaken) {
		log.Info("Demo user already exists, skipping seed", zap.String("email", demoEmail))
		return nil
	}
	if err != nil {
		return err
	}
	owner := repository.Owner{UserID: user.ID}

	var tagIDs, ingredientIDs []uint
	for _, name := range []string{"Vegan", "Dessert", "Quick"} {
		tag, err := svc.tags.Create(ctx, owner, name)
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}
	for _, name := range []string{"Salt", "Capsicum", "Flour"} {
		ing, err := svc.ingredients.Create(ctx, owner, name)
		if err != nil {
			return err
		}
		ingredientIDs = append(ingredientIDs, ing.ID)
	}

	title, minutes, price := "Capsicum flatbread", 25, decimal.RequireFromString("8.50")
	linkedTags, linkedIngredients := tagIDs[:1], ingredientIDs
	recipe, err := svc.recipes.Create(ctx, owner, service.RecipeInput{
		Title:            &title,
		MinutesToDeliver: &minutes,
		Price:            &price,
		TagIDs:           &linkedTags,
		IngredientIDs:    &linkedIngredients,
	})
	if err != nil {
		return err
	}

	log.Info("Seed completed",
		zap.String("email", demoEmail),
		zap.Int("tags", len(tagIDs)),
		zap.Int("ingredients", len(ingredientIDs)),
		zap.Uint("recipe_id", recipe.ID),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Demo user %s / %s\n", demoEmail, demoPassword)
	return nil
}

func init() {
	migrateCmd.Flags().Bool("reset", false, "drop every table before migrating")

	createSuperuserCmd.Flags().String("email", "", "email address")
	createSuperuserCmd.Flags().String("password", "", "password")
	createSuperuserCmd.Flags().String("name", "", "display name")
	_ = createSuperuserCmd.MarkFlagRequired("email")
}

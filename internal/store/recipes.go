package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/candle.works/internal/costing"
)

var ErrInvalidRecipe = errors.New("invalid recipe")

// Recipe is a named fragrance blend. Ingredient order is preserved.
type Recipe struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Ingredients []costing.Ingredient `json:"ingredients"`
}

// CreateRecipe stores a blend. Percentages are stored as given.
func (s *Store) CreateRecipe(ctx context.Context, r Recipe) (Recipe, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return r, fmt.Errorf("%w: name is required", ErrInvalidRecipe)
	}
	if len(r.Ingredients) == 0 {
		return r, fmt.Errorf("%w: at least one ingredient is required", ErrInvalidRecipe)
	}
	for i, ing := range r.Ingredients {
		r.Ingredients[i].Name = strings.TrimSpace(ing.Name)
		if r.Ingredients[i].Name == "" {
			return r, fmt.Errorf("%w: ingredient %d has no name", ErrInvalidRecipe, i+1)
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `INSERT INTO recipes (id, name) VALUES (?, ?)`, r.ID, r.Name); err != nil {
			return fmt.Errorf("insert recipe: %w", err)
		}
		for i, ing := range r.Ingredients {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO recipe_ingredients (recipe_id, position, name, percent)
				VALUES (?, ?, ?, ?)
			`, r.ID, i, ing.Name, ing.Percent); err != nil {
				return fmt.Errorf("insert recipe ingredient: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return Recipe{}, err
	}
	return r, nil
}

func (s *Store) GetRecipe(ctx context.Context, id string) (Recipe, error) {
	r := Recipe{ID: id}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM recipes WHERE id = ?`, id).Scan(&r.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return r, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return r, fmt.Errorf("query recipe: %w", err)
	}

	r.Ingredients, err = s.recipeIngredients(ctx, id)
	if err != nil {
		return r, err
	}
	return r, nil
}

func (s *Store) ListRecipes(ctx context.Context) ([]Recipe, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM recipes ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}
	recipes := make([]Recipe, 0)
	for rows.Next() {
		var r Recipe
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan recipe: %w", err)
		}
		recipes = append(recipes, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate recipes: %w", err)
	}
	rows.Close()

	for i := range recipes {
		if recipes[i].Ingredients, err = s.recipeIngredients(ctx, recipes[i].ID); err != nil {
			return nil, err
		}
	}
	return recipes, nil
}

func (s *Store) recipeIngredients(ctx context.Context, recipeID string) ([]costing.Ingredient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, percent
		FROM recipe_ingredients
		WHERE recipe_id = ?
		ORDER BY position
	`, recipeID)
	if err != nil {
		return nil, fmt.Errorf("query recipe ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := make([]costing.Ingredient, 0)
	for rows.Next() {
		var ing costing.Ingredient
		if err := rows.Scan(&ing.Name, &ing.Percent); err != nil {
			return nil, fmt.Errorf("scan recipe ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recipe ingredients: %w", err)
	}
	return ingredients, nil
}

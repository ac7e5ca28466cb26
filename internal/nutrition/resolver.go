package nutrition

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrCircularRecipe is matched by errors returned when a recipe contains itself.
	ErrCircularRecipe = errors.New("circular recipe reference")
	// ErrMissingReference is matched by errors returned when a referenced id is absent.
	ErrMissingReference = errors.New("missing reference")
)

// CycleError reports a recipe that references itself, directly or through
// other recipes. Path starts and ends with the same recipe id.
type CycleError struct {
	Path []uuid.UUID
}

func (e *CycleError) Error() string {
	ids := make([]string, len(e.Path))
	for i, id := range e.Path {
		ids[i] = id.String()
	}
	return fmt.Sprintf("%s: %s", ErrCircularRecipe, strings.Join(ids, " -> "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCircularRecipe
}

// MissingReferenceError reports an ingredient pointing at an id the resolver
// was not given.
type MissingReferenceError struct {
	Kind IngredientKind
	ID   uuid.UUID
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrMissingReference, e.Kind, e.ID)
}

func (e *MissingReferenceError) Is(target error) bool {
	return target == ErrMissingReference
}

func (k IngredientKind) String() string {
	switch k {
	case KindProduct:
		return "product"
	case KindRecipe:
		return "recipe"
	default:
		return "invalid"
	}
}

// Recipe is the nutrition view of a recipe: its servings, the ingredients of
// all of its steps and its own manual override settings.
type Recipe struct {
	ID             uuid.UUID
	Servings       float64
	Ingredients    []Ingredient
	AutoCalculated bool
	Manual         Manual
	Stored         Totals
}

// Composite returns the reconciler view of the recipe.
func (r Recipe) Composite() Composite {
	return Composite{
		AutoCalculated: r.AutoCalculated,
		Ingredients:    r.Ingredients,
		Manual:         r.Manual,
		Stored:         r.Stored,
	}
}

// Resolver resolves nested recipe totals over a fixed set of products and
// recipes. Resolved recipes are memoised for the lifetime of the resolver,
// so a resolver should be built per request and not shared.
type Resolver struct {
	products map[uuid.UUID]Product
	recipes  map[uuid.UUID]Recipe
	resolved map[uuid.UUID]RecipeTotals
	visiting map[uuid.UUID]bool
	stack    []uuid.UUID
}

// NewResolver creates a resolver over the given lookups. The maps are not modified.
func NewResolver(products map[uuid.UUID]Product, recipes map[uuid.UUID]Recipe) *Resolver {
	return &Resolver{
		products: products,
		recipes:  recipes,
		resolved: make(map[uuid.UUID]RecipeTotals),
		visiting: make(map[uuid.UUID]bool),
	}
}

// RecipeTotals resolves the whole-recipe totals of the recipe with the given id.
func (r *Resolver) RecipeTotals(id uuid.UUID) (RecipeTotals, error) {
	if rt, ok := r.resolved[id]; ok {
		return rt, nil
	}
	recipe, ok := r.recipes[id]
	if !ok {
		return RecipeTotals{}, &MissingReferenceError{Kind: KindRecipe, ID: id}
	}
	if r.visiting[id] {
		return RecipeTotals{}, &CycleError{Path: r.cyclePath(id)}
	}

	r.visiting[id] = true
	r.stack = append(r.stack, id)
	defer func() {
		delete(r.visiting, id)
		r.stack = r.stack[:len(r.stack)-1]
	}()

	nested, err := r.nestedTotals(recipe.Ingredients)
	if err != nil {
		return RecipeTotals{}, err
	}
	totals := ResolveTotals(recipe.Composite(), func(items []Ingredient) Totals {
		return Calculate(items, r.products, nested)
	})

	rt := RecipeTotals{Servings: recipe.Servings, Totals: totals}
	r.resolved[id] = rt
	return rt, nil
}

// Validate checks that every id referenced by items, including those inside
// nested recipes, is known to the resolver and that no recipe contains itself.
func (r *Resolver) Validate(items []Ingredient) error {
	_, err := r.nestedTotals(items)
	return err
}

// Totals resolves nested recipes and returns the composition of items.
func (r *Resolver) Totals(items []Ingredient) (Totals, error) {
	nested, err := r.nestedTotals(items)
	if err != nil {
		return Totals{}, err
	}
	return Calculate(items, r.products, nested), nil
}

// Calculate is Totals for callers that have already validated items; any
// error degrades to the totals of the resolvable items.
func (r *Resolver) Calculate(items []Ingredient) Totals {
	nested := make(map[uuid.UUID]RecipeTotals)
	for _, item := range items {
		if item.Kind() != KindRecipe {
			continue
		}
		if rt, err := r.RecipeTotals(item.RecipeID); err == nil {
			nested[item.RecipeID] = rt
		}
	}
	return Calculate(items, r.products, nested)
}

// Resolve reconciles a composite (meal or recipe) using the resolver for its
// ingredients.
func (r *Resolver) Resolve(c Composite) (Totals, error) {
	if err := r.Validate(c.Ingredients); err != nil {
		return Totals{}, err
	}
	return ResolveTotals(c, r.Calculate), nil
}

func (r *Resolver) nestedTotals(items []Ingredient) (map[uuid.UUID]RecipeTotals, error) {
	nested := make(map[uuid.UUID]RecipeTotals)
	for _, item := range items {
		switch item.Kind() {
		case KindProduct:
			if _, ok := r.products[item.ProductID]; !ok {
				return nil, &MissingReferenceError{Kind: KindProduct, ID: item.ProductID}
			}
		case KindRecipe:
			rt, err := r.RecipeTotals(item.RecipeID)
			if err != nil {
				return nil, err
			}
			nested[item.RecipeID] = rt
		}
	}
	return nested, nil
}

func (r *Resolver) cyclePath(id uuid.UUID) []uuid.UUID {
	start := 0
	for i, s := range r.stack {
		if s == id {
			start = i
			break
		}
	}
	path := append([]uuid.UUID{}, r.stack[start:]...)
	return append(path, id)
}

package ktchn

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
)

// Ingredient is a food with a known carbohydrate density.
type Ingredient struct {
	id          ID
	name        string
	carbPerGram Number
}

// NewIngredient creates an ingredient. carbsPer100g is the grams of
// carbohydrates in 100 grams of the ingredient.
func NewIngredient(id ID, name string, carbsPer100g Number) Ingredient {
	return Ingredient{id: id, name: name, carbPerGram: carbsPer100g.Div(100)}
}

func (i Ingredient) ID() ID       { return i.id }
func (i Ingredient) Name() string { return i.name }

// CarbPerGram returns the grams of carbohydrates per gram of ingredient.
func (i Ingredient) CarbPerGram() Number { return i.carbPerGram }

// CarbsPer100g returns the density the way it is entered: grams of
// carbohydrates in 100 grams.
func (i Ingredient) CarbsPer100g() Number { return i.carbPerGram.Mul(100) }

// Apply returns the ingredient with the edit applied.
func (i Ingredient) Apply(e Edit) (Ingredient, error) {
	switch v := e.(type) {
	case SetName:
		i.name = v.Name
	case SetCarbsPer100g:
		if err := v.Carbs.Validate(); err != nil {
			return i, fmt.Errorf("invalid carbohydrates per 100g: %w", err)
		}
		i.carbPerGram = v.Carbs.Div(100)
	default:
		return i, fmt.Errorf("%w: %q on an ingredient", ErrUnsupportedEdit, e.What())
	}
	return i, nil
}

// MarshalJSON implements the json.Marshaler interface for Ingredient.
func (i Ingredient) MarshalJSON() ([]byte, error) {
	var w jsonObject
	w.Field("id", i.id)
	w.Optional("name", i.name)
	w.Optional("chPerGram", i.carbPerGram)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Ingredient.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID          ID     `json:"id"`
		Name        string `json:"name"`
		CarbPerGram Number `json:"chPerGram"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if temp.ID.IsZero() {
		return fmt.Errorf("ingredient id is missing")
	}
	if err := temp.CarbPerGram.Validate(); err != nil {
		return fmt.Errorf("ingredient %q: invalid carbohydrates per gram: %w", temp.ID, err)
	}
	*i = Ingredient{id: temp.ID, name: temp.Name, carbPerGram: temp.CarbPerGram}
	return nil
}

// IngredientCatalog is an immutable, ordered snapshot of ingredients.
//
// Operations never modify a catalog: they return the next snapshot. A nil
// *IngredientCatalog reads as an empty catalog.
type IngredientCatalog struct {
	ingredients []Ingredient
	mint        func() ID
}

// NewIngredientCatalog creates a catalog holding ingredients in that order.
// It fails if two ingredients share an id.
func NewIngredientCatalog(ingredients ...Ingredient) (*IngredientCatalog, error) {
	seen := make(map[ID]struct{}, len(ingredients))
	for _, ing := range ingredients {
		if _, exists := seen[ing.id]; exists {
			return nil, fmt.Errorf("%w: ingredient %q", ErrDuplicateID, ing.id)
		}
		seen[ing.id] = struct{}{}
	}
	return &IngredientCatalog{ingredients: slices.Clone(ingredients), mint: NewID}, nil
}

// WithIDs returns the same catalog minting new ids with mint.
func (c *IngredientCatalog) WithIDs(mint func() ID) *IngredientCatalog {
	return &IngredientCatalog{ingredients: c.list(), mint: mint}
}

func (c *IngredientCatalog) list() []Ingredient {
	if c == nil {
		return nil
	}
	return c.ingredients
}

func (c *IngredientCatalog) minter() func() ID {
	if c != nil && c.mint != nil {
		return c.mint
	}
	return NewID
}

func (c *IngredientCatalog) next(list []Ingredient) *IngredientCatalog {
	return &IngredientCatalog{ingredients: list, mint: c.minter()}
}

// Len returns the number of ingredients.
func (c *IngredientCatalog) Len() int { return len(c.list()) }

// All iterates over the ingredients in catalog order, newest first.
func (c *IngredientCatalog) All() iter.Seq[Ingredient] {
	return slices.Values(c.list())
}

// Ingredient looks up an ingredient by id.
func (c *IngredientCatalog) Ingredient(id ID) (Ingredient, bool) {
	list := c.list()
	if i := indexOf(list, id); i >= 0 {
		return list[i], true
	}
	return Ingredient{}, false
}

// Has reports whether an ingredient with that id exists.
func (c *IngredientCatalog) Has(id ID) bool { return indexOf(c.list(), id) >= 0 }

// Add inserts a new empty ingredient at the front of the catalog and returns
// the next snapshot with the id minted for it.
func (c *IngredientCatalog) Add() (*IngredientCatalog, ID) {
	id := mintUnique(c.minter(), c.Has)
	return c.next(prepend(c.list(), Ingredient{id: id})), id
}

// AddWithID is like Add with a caller supplied id.
func (c *IngredientCatalog) AddWithID(id ID) (*IngredientCatalog, error) {
	if id.IsZero() {
		return c, fmt.Errorf("ingredient id is missing")
	}
	if c.Has(id) {
		return c, fmt.Errorf("%w: ingredient %q", ErrDuplicateID, id)
	}
	return c.next(prepend(c.list(), Ingredient{id: id})), nil
}

// Update applies edits to the ingredient with that id. An unknown id leaves
// the catalog unchanged. If an edit fails, none is applied.
func (c *IngredientCatalog) Update(id ID, edits ...Edit) (*IngredientCatalog, error) {
	ing, found := c.Ingredient(id)
	if !found {
		return c, nil
	}
	for _, e := range edits {
		var err error
		if ing, err = ing.Apply(e); err != nil {
			return c, fmt.Errorf("cannot update ingredient %q: %w", id, err)
		}
	}
	return c.Replace(ing), nil
}

// Replace swaps the ingredient with the same id for ing. An unknown id leaves
// the catalog unchanged.
func (c *IngredientCatalog) Replace(ing Ingredient) *IngredientCatalog {
	list, found := replace(c.list(), ing)
	if !found {
		return c
	}
	return c.next(list)
}

// Remove deletes the ingredient with that id. Meals referring to it are left
// untouched. An unknown id leaves the catalog unchanged.
func (c *IngredientCatalog) Remove(id ID) *IngredientCatalog {
	list, found := remove(c.list(), id)
	if !found {
		return c
	}
	return c.next(list)
}

// Equal reports whether both catalogs hold the same ingredients in the same
// order.
func (c *IngredientCatalog) Equal(o *IngredientCatalog) bool {
	return slices.Equal(c.list(), o.list())
}

package ktchn

import (
	"encoding/json"
	"fmt"
	"iter"
	"slices"
)

// Link is a meal's use of an ingredient: which one, and how many grams.
//
// The ingredient is referred to by id only. It may be unselected (zero id)
// or dangling (the ingredient was removed); both contribute no
// carbohydrates.
type Link struct {
	id         ID
	ingredient ID
	grams      Number
}

// NewLink creates a link.
func NewLink(id, ingredient ID, grams Number) Link {
	return Link{id: id, ingredient: ingredient, grams: grams}
}

func (l Link) ID() ID             { return l.id }
func (l Link) Ingredient() ID     { return l.ingredient }
func (l Link) Grams() Number      { return l.grams }
func (l Link) IsUnselected() bool { return l.ingredient.IsZero() }

// MarshalJSON implements the json.Marshaler interface for Link.
func (l Link) MarshalJSON() ([]byte, error) {
	var w jsonObject
	w.Field("id", l.id)
	w.Optional("ingredientId", l.ingredient)
	w.Optional("grams", l.grams)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Link.
func (l *Link) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID         ID     `json:"id"`
		Ingredient ID     `json:"ingredientId"`
		Grams      Number `json:"grams"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if temp.ID.IsZero() {
		return fmt.Errorf("link id is missing")
	}
	if err := temp.Grams.Validate(); err != nil {
		return fmt.Errorf("link %q: invalid grams: %w", temp.ID, err)
	}
	*l = Link{id: temp.ID, ingredient: temp.Ingredient, grams: temp.Grams}
	return nil
}

// Meal is a prepared dish: a list of weighed ingredients, and the net weight
// of the result.
//
// Meal is a value: every method returns an updated copy and leaves the
// receiver, and any snapshot holding it, unchanged.
type Meal struct {
	id          ID
	name        string
	totalWeight Number
	links       []Link
}

// NewMeal creates a meal. Links are kept in the given order.
func NewMeal(id ID, name string, totalWeight Number, links ...Link) Meal {
	return Meal{id: id, name: name, totalWeight: totalWeight, links: slices.Clone(links)}
}

func (m Meal) ID() ID       { return m.id }
func (m Meal) Name() string { return m.name }

// TotalWeight returns the net weight of the prepared meal, in grams.
func (m Meal) TotalWeight() Number { return m.totalWeight }

// Links iterates over the meal's links, newest first.
func (m Meal) Links() iter.Seq[Link] { return slices.Values(m.links) }

// LinkCount returns the number of links.
func (m Meal) LinkCount() int { return len(m.links) }

// Link looks up a link by id.
func (m Meal) Link(id ID) (Link, bool) {
	if i := indexOf(m.links, id); i >= 0 {
		return m.links[i], true
	}
	return Link{}, false
}

// Apply returns the meal with the edit applied. Edits on an unknown link are
// no-ops.
func (m Meal) Apply(e Edit) (Meal, error) {
	switch v := e.(type) {
	case SetName:
		m.name = v.Name
	case SetTotalWeight:
		if err := v.Grams.Validate(); err != nil {
			return m, fmt.Errorf("invalid total weight: %w", err)
		}
		m.totalWeight = v.Grams
	case AddLink:
		if v.ID.IsZero() {
			return m, fmt.Errorf("link id is missing")
		}
		if _, exists := m.Link(v.ID); exists {
			return m, fmt.Errorf("%w: link %q in meal %q", ErrDuplicateID, v.ID, m.id)
		}
		m.links = prepend(m.links, Link{id: v.ID})
	case RemoveLink:
		m.links, _ = remove(m.links, v.Link)
	case SetLinkIngredient:
		if l, found := m.Link(v.Link); found {
			l.ingredient = v.Ingredient
			m.links, _ = replace(m.links, l)
		}
	case SetLinkGrams:
		if err := v.Grams.Validate(); err != nil {
			return m, fmt.Errorf("invalid grams for link %q: %w", v.Link, err)
		}
		if l, found := m.Link(v.Link); found {
			l.grams = v.Grams
			m.links, _ = replace(m.links, l)
		}
	default:
		return m, fmt.Errorf("%w: %q on a meal", ErrUnsupportedEdit, e.What())
	}
	return m, nil
}

// AddLink returns the meal with a new empty link in front of the others. The
// caller picks the id; MealCatalog.AddLink mints one.
func (m Meal) AddLink(id ID) (Meal, error) { return m.Apply(AddLink{ID: id}) }

// RemoveLink returns the meal without the link with that id.
func (m Meal) RemoveLink(id ID) Meal {
	m.links, _ = remove(m.links, id)
	return m
}

// SetLinkField returns the meal with one field of a link replaced by a form
// input. For LinkGrams a blank input is absent.
func (m Meal) SetLinkField(id ID, field LinkField, raw string) (Meal, error) {
	e, err := linkEdit(id, field, raw)
	if err != nil {
		return m, err
	}
	return m.Apply(e)
}

// SetName returns the renamed meal.
func (m Meal) SetName(name string) Meal {
	m.name = name
	return m
}

// SetTotalWeight returns the meal with its total weight replaced by a form
// input. A blank input is absent.
func (m Meal) SetTotalWeight(raw string) (Meal, error) {
	e, err := ParseSetTotalWeight(raw)
	if err != nil {
		return m, err
	}
	return m.Apply(e)
}

// Equal reports whether both meals have the same fields and links, in the
// same order.
func (m Meal) Equal(o Meal) bool {
	return m.id == o.id && m.name == o.name && m.totalWeight == o.totalWeight && slices.Equal(m.links, o.links)
}

// MarshalJSON implements the json.Marshaler interface for Meal.
func (m Meal) MarshalJSON() ([]byte, error) {
	var w jsonObject
	w.Field("id", m.id)
	w.Optional("name", m.name)
	w.Optional("grams", m.totalWeight)
	if len(m.links) > 0 {
		w.Field("ingredients", m.links)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Meal.
func (m *Meal) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID          ID     `json:"id"`
		Name        string `json:"name"`
		TotalWeight Number `json:"grams"`
		Links       []Link `json:"ingredients"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if temp.ID.IsZero() {
		return fmt.Errorf("meal id is missing")
	}
	if err := temp.TotalWeight.Validate(); err != nil {
		return fmt.Errorf("meal %q: invalid total weight: %w", temp.ID, err)
	}
	seen := make(map[ID]struct{}, len(temp.Links))
	for _, l := range temp.Links {
		if _, exists := seen[l.id]; exists {
			return fmt.Errorf("%w: link %q in meal %q", ErrDuplicateID, l.id, temp.ID)
		}
		seen[l.id] = struct{}{}
	}
	*m = Meal{id: temp.ID, name: temp.Name, totalWeight: temp.TotalWeight, links: temp.Links}
	return nil
}

// MealCatalog is an immutable, ordered snapshot of meals.
//
// Operations never modify a catalog: they return the next snapshot. A nil
// *MealCatalog reads as an empty catalog.
type MealCatalog struct {
	meals []Meal
	mint  func() ID
}

// NewMealCatalog creates a catalog holding meals in that order. It fails if
// two meals share an id.
func NewMealCatalog(meals ...Meal) (*MealCatalog, error) {
	seen := make(map[ID]struct{}, len(meals))
	for _, m := range meals {
		if _, exists := seen[m.id]; exists {
			return nil, fmt.Errorf("%w: meal %q", ErrDuplicateID, m.id)
		}
		seen[m.id] = struct{}{}
	}
	return &MealCatalog{meals: slices.Clone(meals), mint: NewID}, nil
}

// WithIDs returns the same catalog minting new meal and link ids with mint.
func (c *MealCatalog) WithIDs(mint func() ID) *MealCatalog {
	return &MealCatalog{meals: c.list(), mint: mint}
}

func (c *MealCatalog) list() []Meal {
	if c == nil {
		return nil
	}
	return c.meals
}

func (c *MealCatalog) minter() func() ID {
	if c != nil && c.mint != nil {
		return c.mint
	}
	return NewID
}

func (c *MealCatalog) next(list []Meal) *MealCatalog {
	return &MealCatalog{meals: list, mint: c.minter()}
}

// Len returns the number of meals.
func (c *MealCatalog) Len() int { return len(c.list()) }

// All iterates over the meals in catalog order, newest first.
func (c *MealCatalog) All() iter.Seq[Meal] { return slices.Values(c.list()) }

// Meal looks up a meal by id.
func (c *MealCatalog) Meal(id ID) (Meal, bool) {
	list := c.list()
	if i := indexOf(list, id); i >= 0 {
		return list[i], true
	}
	return Meal{}, false
}

// Has reports whether a meal with that id exists.
func (c *MealCatalog) Has(id ID) bool { return indexOf(c.list(), id) >= 0 }

// Add inserts a new empty meal at the front of the catalog and returns the
// next snapshot with the id minted for it.
func (c *MealCatalog) Add() (*MealCatalog, ID) {
	id := mintUnique(c.minter(), c.Has)
	return c.next(prepend(c.list(), Meal{id: id})), id
}

// AddWithID is like Add with a caller supplied id.
func (c *MealCatalog) AddWithID(id ID) (*MealCatalog, error) {
	if id.IsZero() {
		return c, fmt.Errorf("meal id is missing")
	}
	if c.Has(id) {
		return c, fmt.Errorf("%w: meal %q", ErrDuplicateID, id)
	}
	return c.next(prepend(c.list(), Meal{id: id})), nil
}

// Update applies edits to the meal with that id. AddLink edits without an id
// get one minted, unique within the meal. An unknown meal id leaves the
// catalog unchanged. If an edit fails, none is applied.
func (c *MealCatalog) Update(id ID, edits ...Edit) (*MealCatalog, error) {
	m, found := c.Meal(id)
	if !found {
		return c, nil
	}
	for _, e := range edits {
		if add, ok := e.(AddLink); ok && add.ID.IsZero() {
			add.ID = c.mintLink(m)
			e = add
		}
		var err error
		if m, err = m.Apply(e); err != nil {
			return c, fmt.Errorf("cannot update meal %q: %w", id, err)
		}
	}
	return c.Replace(m), nil
}

// AddLink inserts a new empty link at the front of the meal with that id and
// returns the next snapshot with the link id minted for it, unique within
// the meal. An unknown meal id leaves the catalog unchanged and returns the
// zero ID.
func (c *MealCatalog) AddLink(meal ID) (*MealCatalog, ID) {
	m, found := c.Meal(meal)
	if !found {
		return c, ""
	}
	id := c.mintLink(m)
	m.links = prepend(m.links, Link{id: id})
	return c.Replace(m), id
}

func (c *MealCatalog) mintLink(m Meal) ID {
	return mintUnique(c.minter(), func(id ID) bool { _, exists := m.Link(id); return exists })
}

// Replace swaps the meal with the same id for m. An unknown id leaves the
// catalog unchanged.
func (c *MealCatalog) Replace(m Meal) *MealCatalog {
	list, found := replace(c.list(), m)
	if !found {
		return c
	}
	return c.next(list)
}

// Remove deletes the meal with that id. An unknown id leaves the catalog
// unchanged.
func (c *MealCatalog) Remove(id ID) *MealCatalog {
	list, found := remove(c.list(), id)
	if !found {
		return c
	}
	return c.next(list)
}

// Equal reports whether both catalogs hold the same meals in the same order.
func (c *MealCatalog) Equal(o *MealCatalog) bool {
	return slices.EqualFunc(c.list(), o.list(), Meal.Equal)
}

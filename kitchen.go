package ktchn

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// Collection names one of the two catalogs of a Kitchen.
type Collection string

const (
	IngredientCollection Collection = "ingredients"
	MealCollection       Collection = "meals"
)

// ParseCollection parses a string into a Collection.
func ParseCollection(s string) (Collection, error) {
	switch c := Collection(strings.ToLower(s)); c {
	case IngredientCollection, MealCollection:
		return c, nil
	default:
		return "", fmt.Errorf("unknown collection: %q", s)
	}
}

// Kitchen holds the current snapshots of both catalogs, latched to their
// storage keys.
//
// Every mutation swaps in a new snapshot and queues a checkpoint of it into
// the Store; the mutation returns without waiting for the write. Checkpoint
// failures are logged and reported by Flush and Close, never fed back into
// the catalogs.
//
// A Kitchen is not safe for concurrent use.
type Kitchen struct {
	ingredients    *IngredientCatalog
	meals          *MealCatalog
	ingredientsKey string
	mealsKey       string

	log        logrus.FieldLogger
	checkpoint *checkpointer
}

// Option configures a Kitchen.
type Option func(*Kitchen)

// WithIngredientsKey sets the key the ingredient catalog is stored under.
func WithIngredientsKey(key string) Option {
	return func(k *Kitchen) { k.ingredientsKey = key }
}

// WithMealsKey sets the key the meal catalog is stored under.
func WithMealsKey(key string) Option {
	return func(k *Kitchen) { k.mealsKey = key }
}

// WithLogger sets the logger. It defaults to logrus' standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(k *Kitchen) { k.log = log }
}

// WithIDs sets the id generator of both catalogs. It defaults to NewID.
// Ids that are empty or already taken are skipped; after a few of them in a
// row, random ids are used instead.
func WithIDs(mint func() ID) Option {
	return func(k *Kitchen) {
		k.ingredients = k.ingredients.WithIDs(mint)
		k.meals = k.meals.WithIDs(mint)
	}
}

// Open loads both catalogs from store. A missing key gives an empty catalog.
func Open(store Store, opts ...Option) (*Kitchen, error) {
	k := &Kitchen{
		ingredientsKey: IngredientsKey,
		mealsKey:       MealsKey,
		log:            logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(k)
	}

	ingredients, err := load(store, k.ingredientsKey, DecodeIngredients)
	if err != nil {
		return nil, err
	}
	meals, err := load(store, k.mealsKey, DecodeMeals)
	if err != nil {
		return nil, err
	}
	// Keep the id generator set by the options.
	k.ingredients = ingredients.WithIDs(k.ingredients.minter())
	k.meals = meals.WithIDs(k.meals.minter())

	k.log.WithFields(logrus.Fields{
		"ingredients": k.ingredients.Len(),
		"meals":       k.meals.Len(),
	}).Debug("open-kitchen")
	k.checkpoint = newCheckpointer(store, k.log)
	return k, nil
}

func load[T any](store Store, key string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	data, found, err := store.Load(key)
	if err != nil {
		return zero, fmt.Errorf("cannot load %q: %w", key, err)
	}
	if !found {
		data = nil
	}
	v, err := decode(bytes.NewReader(data))
	if err != nil {
		return zero, fmt.Errorf("cannot load %q: %w", key, err)
	}
	return v, nil
}

// Ingredients returns the current ingredient snapshot.
func (k *Kitchen) Ingredients() *IngredientCatalog { return k.ingredients }

// Meals returns the current meal snapshot.
func (k *Kitchen) Meals() *MealCatalog { return k.meals }

// Key returns the storage key of a collection.
func (k *Kitchen) Key(c Collection) string {
	if c == MealCollection {
		return k.mealsKey
	}
	return k.ingredientsKey
}

func (k *Kitchen) setIngredients(c *IngredientCatalog) {
	if c == k.ingredients {
		return
	}
	k.ingredients = c
	k.checkpoint.save(k.ingredientsKey, func(w io.Writer) error { return EncodeIngredients(w, c) })
}

func (k *Kitchen) setMeals(c *MealCatalog) {
	if c == k.meals {
		return
	}
	k.meals = c
	k.checkpoint.save(k.mealsKey, func(w io.Writer) error { return EncodeMeals(w, c) })
}

// AddIngredient adds an empty ingredient and returns its id.
func (k *Kitchen) AddIngredient() ID {
	c, id := k.ingredients.Add()
	k.setIngredients(c)
	return id
}

// UpdateIngredient applies edits to an ingredient. An unknown id is a no-op.
func (k *Kitchen) UpdateIngredient(id ID, edits ...Edit) error {
	c, err := k.ingredients.Update(id, edits...)
	if err != nil {
		return err
	}
	k.setIngredients(c)
	return nil
}

// RemoveIngredient removes an ingredient. Meals keep their links to it.
func (k *Kitchen) RemoveIngredient(id ID) {
	k.setIngredients(k.ingredients.Remove(id))
}

// AddMeal adds an empty meal and returns its id.
func (k *Kitchen) AddMeal() ID {
	c, id := k.meals.Add()
	k.setMeals(c)
	return id
}

// UpdateMeal applies edits to a meal. An unknown id is a no-op.
func (k *Kitchen) UpdateMeal(id ID, edits ...Edit) error {
	c, err := k.meals.Update(id, edits...)
	if err != nil {
		return err
	}
	k.setMeals(c)
	return nil
}

// AddLink adds an empty link to a meal and returns its id. An unknown meal
// is a no-op returning the zero ID.
func (k *Kitchen) AddLink(meal ID) ID {
	c, id := k.meals.AddLink(meal)
	k.setMeals(c)
	return id
}

// ReplaceMeal stores an updated meal, as returned by the Meal methods. An
// unknown id is a no-op.
func (k *Kitchen) ReplaceMeal(m Meal) {
	k.setMeals(k.meals.Replace(m))
}

// RemoveMeal removes a meal.
func (k *Kitchen) RemoveMeal(id ID) {
	k.setMeals(k.meals.Remove(id))
}

// Report returns the carbohydrate breakdown of a meal against the current
// ingredients.
func (k *Kitchen) Report(id ID) (MealReport, bool) {
	m, found := k.meals.Meal(id)
	if !found {
		return MealReport{}, false
	}
	return Analyze(m, k.ingredients), true
}

// Rekey moves a collection to a new storage key. The snapshot is written
// under the new key and, once written, the old key is cleared so that data
// left there is not found again.
//
// Rekey waits for the write. If it fails, the collection stays on its old
// key and the error is returned. A key used by the other collection is
// rejected.
func (k *Kitchen) Rekey(c Collection, key string) error {
	if key == "" {
		return fmt.Errorf("storage key is missing")
	}
	var other Collection
	var encode func(io.Writer) error
	switch c {
	case IngredientCollection:
		other = MealCollection
		snapshot := k.ingredients
		encode = func(w io.Writer) error { return EncodeIngredients(w, snapshot) }
	case MealCollection:
		other = IngredientCollection
		snapshot := k.meals
		encode = func(w io.Writer) error { return EncodeMeals(w, snapshot) }
	default:
		return fmt.Errorf("unknown collection: %q", c)
	}
	old := k.Key(c)
	if old == key {
		return nil
	}
	if key == k.Key(other) {
		return fmt.Errorf("storage key %q is already used by %s", key, other)
	}

	if err := k.checkpoint.move(old, key, encode); err != nil {
		return fmt.Errorf("cannot move %s to %q: %w", c, key, err)
	}
	if c == IngredientCollection {
		k.ingredientsKey = key
	} else {
		k.mealsKey = key
	}
	k.log.WithFields(logrus.Fields{"collection": c, "from": old, "to": key}).Info("rekey-collection")
	return nil
}

// Flush waits for queued checkpoints and returns the first one that failed
// since the previous Flush.
func (k *Kitchen) Flush() error { return k.checkpoint.flush() }

// Close flushes pending checkpoints and stops the background writer.
func (k *Kitchen) Close() error { return k.checkpoint.close() }

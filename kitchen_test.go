package ktchn

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/etnz/ktchn/kv"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

// flakyStore is a Store whose writes fail while broken is set.
type flakyStore struct {
	*kv.Memory
	mu     sync.Mutex
	broken bool
}

var errBroken = errors.New("disk on fire")

func (s *flakyStore) setBroken(b bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broken = b
}

func (s *flakyStore) Save(key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.broken {
		return errBroken
	}
	return s.Memory.Save(key, data)
}

func openKitchen(t *testing.T, store Store, opts ...Option) *Kitchen {
	t.Helper()
	log, _ := test.NewNullLogger()
	opts = append([]Option{WithLogger(log), WithIDs(sequence("id"))}, opts...)
	k, err := Open(store, opts...)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { k.Close() })
	return k
}

func TestKitchen_Checkpoints(t *testing.T) {
	store := kv.NewMemory()
	k := openKitchen(t, store)

	sugar := k.AddIngredient()
	if err := k.UpdateIngredient(sugar, SetName{Name: "sugar"}, SetCarbsPer100g{Carbs: N(100)}); err != nil {
		t.Fatal(err)
	}
	meal := k.AddMeal()
	if err := k.UpdateMeal(meal, SetName{Name: "syrup"}, SetTotalWeight{Grams: N(200)}, AddLink{}); err != nil {
		t.Fatal(err)
	}
	m, _ := k.Meals().Meal(meal)
	link := linkIDs(m)[0]
	m, err := m.SetLinkField(link, LinkIngredient, string(sugar))
	if err != nil {
		t.Fatal(err)
	}
	m, err = m.SetLinkField(link, LinkGrams, "20")
	if err != nil {
		t.Fatal(err)
	}
	k.ReplaceMeal(m)

	if err := k.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got := store.Keys(); !slices.Equal(got, []string{IngredientsKey, MealsKey}) {
		t.Errorf("stored keys = %v", got)
	}

	// A second kitchen on the same store sees the same catalogs.
	reopened := openKitchen(t, store)
	if !reopened.Ingredients().Equal(k.Ingredients()) {
		t.Errorf("reopened ingredients differ")
	}
	if !reopened.Meals().Equal(k.Meals()) {
		t.Errorf("reopened meals differ")
	}
	report, found := reopened.Report(meal)
	if !found {
		t.Fatalf("Report(%q) not found", meal)
	}
	if !almostEqual(report.TotalCarbs, 20) || !almostEqual(report.CarbsPerGram, 0.1) {
		t.Errorf("report = %v total, %v per gram; want 20 and 0.1", report.TotalCarbs, report.CarbsPerGram)
	}
}

func TestKitchen_NoOpsDoNotCheckpoint(t *testing.T) {
	store := kv.NewMemory()
	k := openKitchen(t, store)

	k.RemoveIngredient("nope")
	k.RemoveMeal("nope")
	if err := k.UpdateIngredient("nope", SetName{Name: "x"}); err != nil {
		t.Fatal(err)
	}
	k.ReplaceMeal(NewMeal("nope", "", Number{}))

	if err := k.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := store.Keys(); len(got) != 0 {
		t.Errorf("no-op mutations stored %v", got)
	}
}

func TestKitchen_RemoveIngredientKeepsLinks(t *testing.T) {
	k := openKitchen(t, kv.NewMemory())
	apple := k.AddIngredient()
	k.UpdateIngredient(apple, SetCarbsPer100g{Carbs: N(20)})
	meal := k.AddMeal()
	k.UpdateMeal(meal, SetTotalWeight{Grams: N(200)}, AddLink{ID: "l"}, SetLinkIngredient{Link: "l", Ingredient: apple}, SetLinkGrams{Link: "l", Grams: N(100)})

	if r, _ := k.Report(meal); !almostEqual(r.TotalCarbs, 20) {
		t.Fatalf("TotalCarbs = %v, want 20", r.TotalCarbs)
	}
	k.RemoveIngredient(apple)

	r, _ := k.Report(meal)
	if r.TotalCarbs != 0 {
		t.Errorf("TotalCarbs after removal = %v, want 0", r.TotalCarbs)
	}
	if l, found := r.Meal.Link("l"); !found || l.Ingredient() != apple {
		t.Errorf("link after removal = %#v, %v; want it untouched", l, found)
	}
}

func TestKitchen_FailuresSurfaceInFlush(t *testing.T) {
	store := &flakyStore{Memory: kv.NewMemory()}
	log, hook := test.NewNullLogger()
	k := openKitchen(t, store, WithLogger(log))

	store.setBroken(true)
	id := k.AddIngredient()
	err := k.Flush()
	if !errors.Is(err, errBroken) {
		t.Fatalf("Flush() error = %v, want %v", err, errBroken)
	}
	// The catalog is not rolled back.
	if !k.Ingredients().Has(id) {
		t.Errorf("ingredient %q was rolled back after a failed checkpoint", id)
	}
	if e := hook.LastEntry(); e == nil || e.Level != logrus.ErrorLevel || e.Message != "checkpoint-failed" {
		t.Errorf("last log entry = %v, want checkpoint-failed", e)
	}

	// Failures are reported once.
	if err := k.Flush(); err != nil {
		t.Errorf("second Flush() error = %v, want nil", err)
	}

	store.setBroken(false)
	k.UpdateIngredient(id, SetName{Name: "rice"})
	if err := k.Flush(); err != nil {
		t.Fatal(err)
	}
	data, found, _ := store.Load(IngredientsKey)
	if !found || !strings.Contains(string(data), `"rice"`) {
		t.Errorf("stored ingredients = %s, want the latest snapshot", data)
	}
}

func TestKitchen_Rekey(t *testing.T) {
	store := kv.NewMemory()
	k := openKitchen(t, store)
	k.AddMeal()
	k.AddIngredient()
	if err := k.Flush(); err != nil {
		t.Fatal(err)
	}

	if err := k.Rekey(MealCollection, "dinners"); err != nil {
		t.Fatal(err)
	}
	if err := k.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := store.Keys(); !slices.Equal(got, []string{"dinners", IngredientsKey}) {
		t.Errorf("stored keys after Rekey = %v", got)
	}
	if k.Key(MealCollection) != "dinners" {
		t.Errorf("Key(meals) = %q, want dinners", k.Key(MealCollection))
	}

	// Later mutations go to the new key.
	k.AddMeal()
	k.Flush()
	reopened := openKitchen(t, store, WithMealsKey("dinners"))
	if reopened.Meals().Len() != 2 {
		t.Errorf("meals under the new key = %d, want 2", reopened.Meals().Len())
	}
	// The old key reads as empty.
	if old := openKitchen(t, store); old.Meals().Len() != 0 {
		t.Errorf("meals under the old key = %d, want 0", old.Meals().Len())
	}

	if err := k.Rekey(IngredientCollection, ""); err == nil {
		t.Errorf("Rekey with an empty key succeeded")
	}
}

func TestKitchen_AddLink(t *testing.T) {
	store := kv.NewMemory()
	k := openKitchen(t, store)
	meal := k.AddMeal()
	first := k.AddLink(meal)
	second := k.AddLink(meal)
	if first == second || first.IsZero() {
		t.Errorf("AddLink() minted %q then %q, want two fresh ids", first, second)
	}
	if got := k.AddLink("nope"); !got.IsZero() {
		t.Errorf("AddLink(unknown meal) = %q, want the zero ID", got)
	}
	if err := k.Flush(); err != nil {
		t.Fatal(err)
	}
	m, _ := openKitchen(t, store).Meals().Meal(meal)
	if got := linkIDs(m); !slices.Equal(got, []ID{second, first}) {
		t.Errorf("stored links = %v, want [%s %s]", got, second, first)
	}
}

func TestKitchen_RekeyFailedSaveKeepsOldKey(t *testing.T) {
	dir, err := kv.OpenDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k := openKitchen(t, dir)
	k.AddIngredient()
	if err := k.Flush(); err != nil {
		t.Fatal(err)
	}

	if err := k.Rekey(IngredientCollection, "bad/key"); err == nil {
		t.Fatalf("Rekey to an invalid key succeeded")
	}
	if got := k.Key(IngredientCollection); got != IngredientsKey {
		t.Errorf("Key(ingredients) = %q after a failed Rekey, want %q", got, IngredientsKey)
	}
	if _, found, _ := dir.Load(IngredientsKey); !found {
		t.Errorf("snapshot under %q removed by a failed Rekey", IngredientsKey)
	}

	// Mutations keep going to the old key.
	k.AddIngredient()
	if err := k.Flush(); err != nil {
		t.Fatal(err)
	}
	if reopened := openKitchen(t, dir); reopened.Ingredients().Len() != 2 {
		t.Errorf("ingredients under the old key = %d, want 2", reopened.Ingredients().Len())
	}
}

func TestKitchen_RekeyBrokenStore(t *testing.T) {
	store := &flakyStore{Memory: kv.NewMemory()}
	k := openKitchen(t, store)
	k.AddMeal()
	if err := k.Flush(); err != nil {
		t.Fatal(err)
	}

	store.setBroken(true)
	if err := k.Rekey(MealCollection, "dinners"); !errors.Is(err, errBroken) {
		t.Errorf("Rekey() error = %v, want %v", err, errBroken)
	}
	store.setBroken(false)
	if got := store.Keys(); !slices.Equal(got, []string{MealsKey}) {
		t.Errorf("stored keys after a failed Rekey = %v, want [%s]", got, MealsKey)
	}
	if err := k.Flush(); err != nil {
		t.Errorf("Flush() error = %v, the failed Rekey was already reported", err)
	}
}

func TestKitchen_RekeyToTheOtherCollectionKey(t *testing.T) {
	store := kv.NewMemory()
	k := openKitchen(t, store)
	k.AddIngredient()
	k.AddMeal()
	if err := k.Flush(); err != nil {
		t.Fatal(err)
	}
	meals, _, _ := store.Load(MealsKey)

	if err := k.Rekey(IngredientCollection, MealsKey); err == nil {
		t.Errorf("Rekey(ingredients, %q) succeeded", MealsKey)
	}
	if err := k.Rekey(MealCollection, IngredientsKey); err == nil {
		t.Errorf("Rekey(meals, %q) succeeded", IngredientsKey)
	}
	if err := k.Flush(); err != nil {
		t.Fatal(err)
	}
	if got, _, _ := store.Load(MealsKey); string(got) != string(meals) {
		t.Errorf("meals snapshot = %s, want %s", got, meals)
	}
	if k.Key(IngredientCollection) != IngredientsKey || k.Key(MealCollection) != MealsKey {
		t.Errorf("keys changed by rejected Rekeys: %q, %q", k.Key(IngredientCollection), k.Key(MealCollection))
	}
}

func TestKitchen_RekeyAfterClose(t *testing.T) {
	log, _ := test.NewNullLogger()
	k, err := Open(kv.NewMemory(), WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	k.Close()
	if err := k.Rekey(MealCollection, "dinners"); err == nil {
		t.Errorf("Rekey after Close succeeded")
	}
	if k.Key(MealCollection) != MealsKey {
		t.Errorf("Key(meals) = %q, want %q", k.Key(MealCollection), MealsKey)
	}
}

func TestKitchen_OpenCorrupted(t *testing.T) {
	store := kv.NewMemory()
	store.Save(MealsKey, []byte("not json"))
	log, _ := test.NewNullLogger()
	if _, err := Open(store, WithLogger(log)); err == nil {
		t.Errorf("Open() on a corrupted snapshot succeeded")
	}
}

func TestKitchen_Close(t *testing.T) {
	store := kv.NewMemory()
	log, hook := test.NewNullLogger()
	k, err := Open(store, WithLogger(log))
	if err != nil {
		t.Fatal(err)
	}
	k.AddMeal()
	if err := k.Close(); err != nil {
		t.Fatal(err)
	}
	if _, found, _ := store.Load(MealsKey); !found {
		t.Errorf("Close() did not write the pending checkpoint")
	}

	// Mutations after Close are kept in memory only.
	k.AddMeal()
	if k.Meals().Len() != 2 {
		t.Errorf("Meals().Len() = %d, want 2", k.Meals().Len())
	}
	if e := hook.LastEntry(); e == nil || e.Message != "checkpoint-dropped" {
		t.Errorf("last log entry = %v, want checkpoint-dropped", e)
	}
	if err := k.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestParseCollection(t *testing.T) {
	for _, s := range []string{"ingredients", "Meals"} {
		if _, err := ParseCollection(s); err != nil {
			t.Errorf("ParseCollection(%q) error = %v", s, err)
		}
	}
	if _, err := ParseCollection("plates"); err == nil {
		t.Errorf("ParseCollection(plates) succeeded")
	}
}

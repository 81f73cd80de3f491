package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/spf13/viper"
)

// setGlobals points the CLI globals to a test store and captures the
// outputs in out. Everything is restored at the end of the test.
func setGlobals(t *testing.T, out *bytes.Buffer, store, path string) {
	t.Helper()
	oldStore, oldPath, oldRaw, oldStdout, oldConfig := *storeFlag, *pathFlag, *rawFlag, stdout, configFile
	t.Cleanup(func() {
		*storeFlag, *pathFlag, *rawFlag, stdout, configFile = oldStore, oldPath, oldRaw, oldStdout, oldConfig
		viper.Reset()
	})
	viper.Reset()
	*storeFlag, *pathFlag, *rawFlag, stdout = store, path, true, out
	configFile = filepath.Join(t.TempDir(), "ktchn.yaml")
}

// run parses args for c and executes it.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("cannot parse %v: %v", args, err)
	}
	return c.Execute(context.Background(), f)
}

// mustRun runs c, expects it to succeed, and returns what it printed.
func mustRun(t *testing.T, out *bytes.Buffer, c subcommands.Command, args ...string) string {
	t.Helper()
	out.Reset()
	if status := run(t, c, args...); status != subcommands.ExitSuccess {
		t.Fatalf("%s %v = %v, want success", c.Name(), args, status)
	}
	return out.String()
}

// lastField returns the last word printed, where commands print new ids.
func lastField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

func TestKitchenScenario(t *testing.T) {
	var out bytes.Buffer
	dir := filepath.Join(t.TempDir(), "kitchen")
	setGlobals(t, &out, "dir", dir)

	sugar := lastField(mustRun(t, &out, &ingredientAddCmd{}, "-name", "Sugar", "-carbs", "100"))
	meal := lastField(mustRun(t, &out, &mealAddCmd{}, "-name", "Syrup", "-weight", "200"))
	// A prefix is enough to designate an ingredient.
	mustRun(t, &out, &linkAddCmd{}, "-ingredient", sugar[:8], "-grams", "20", meal)
	mustRun(t, &out, &linkAddCmd{}, meal)

	got := mustRun(t, &out, &mealCmd{}, meal)
	for _, want := range []string{"# Syrup", "**20**", "Sugar", "*none*"} {
		if !strings.Contains(got, want) {
			t.Errorf("meal output does not contain %q:\n%s", want, got)
		}
	}

	got = mustRun(t, &out, &portionCmd{}, "-weight", "50", meal)
	if !strings.Contains(got, "# Portion of Syrup") || !strings.Contains(got, "**50**") {
		t.Errorf("portion -weight 50 output:\n%s", got)
	}
	got = mustRun(t, &out, &portionCmd{}, "-carbs", "5", meal)
	if !strings.Contains(got, "**50**") {
		t.Errorf("portion -carbs 5 output:\n%s", got)
	}

	got = mustRun(t, &out, &ingredientsCmd{})
	if !strings.Contains(got, "Sugar") {
		t.Errorf("ingredients output:\n%s", got)
	}
	got = mustRun(t, &out, &mealsCmd{})
	if !strings.Contains(got, "Syrup") {
		t.Errorf("meals output:\n%s", got)
	}

	// Removing the ingredient leaves a dangling line in the meal.
	mustRun(t, &out, &ingredientRmCmd{}, sugar)
	got = mustRun(t, &out, &mealCmd{}, meal)
	if !strings.Contains(got, "*removed ("+sugar+")*") {
		t.Errorf("meal output after ingredient-rm:\n%s", got)
	}

	// Snapshots are files of the dir store.
	for _, name := range []string{"ktCHn-ingredients.json", "ktCHn-meals.json"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("snapshot %s: %v", name, err)
		}
	}
}

func TestLinkSetAndRemove(t *testing.T) {
	var out bytes.Buffer
	setGlobals(t, &out, "sqlite", filepath.Join(t.TempDir(), "ktchn.db"))

	rice := lastField(mustRun(t, &out, &ingredientAddCmd{}, "-name", "Rice", "-carbs", "78"))
	meal := lastField(mustRun(t, &out, &mealAddCmd{}, "-weight", "300"))
	link := strings.Fields(mustRun(t, &out, &linkAddCmd{}, meal))[2]

	mustRun(t, &out, &linkSetCmd{}, meal, link, "ingredient", rice)
	mustRun(t, &out, &linkSetCmd{}, meal, link, "grams", "100")
	got := mustRun(t, &out, &mealCmd{}, meal)
	if !strings.Contains(got, "**78**") {
		t.Errorf("meal output after link-set:\n%s", got)
	}

	if status := run(t, &linkSetCmd{}, meal, link, "grams", "-1"); status != subcommands.ExitFailure {
		t.Errorf("link-set with negative grams = %v, want failure", status)
	}
	if status := run(t, &linkSetCmd{}, meal, link, "colour", "red"); status != subcommands.ExitUsageError {
		t.Errorf("link-set with an unknown field = %v, want usage error", status)
	}

	mustRun(t, &out, &linkRmCmd{}, meal, link)
	got = mustRun(t, &out, &mealCmd{}, meal)
	if strings.Contains(got, "## Ingredients") {
		t.Errorf("meal output after link-rm:\n%s", got)
	}
}

func TestLinkAdd(t *testing.T) {
	var out bytes.Buffer
	setGlobals(t, &out, "dir", t.TempDir())

	rice := lastField(mustRun(t, &out, &ingredientAddCmd{}, "-name", "Rice", "-carbs", "78"))
	meal := lastField(mustRun(t, &out, &mealAddCmd{}, "-weight", "100"))

	testCases := []struct {
		name string
		args []string
		want subcommands.ExitStatus
	}{
		{name: "negative grams", args: []string{"-grams", "-5", meal}, want: subcommands.ExitUsageError},
		{name: "invalid grams", args: []string{"-grams", "lots", meal}, want: subcommands.ExitUsageError},
		{name: "unknown ingredient", args: []string{"-ingredient", "zz", meal}, want: subcommands.ExitFailure},
		{name: "unknown meal", args: []string{"zz"}, want: subcommands.ExitFailure},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(t, &linkAddCmd{}, tc.args...); got != tc.want {
				t.Errorf("link-add %v = %v, want %v", tc.args, got, tc.want)
			}
		})
	}
	// Failed link-adds left the meal without lines.
	if got := mustRun(t, &out, &mealCmd{}, meal); strings.Contains(got, "## Ingredients") {
		t.Errorf("meal output after failed link-adds:\n%s", got)
	}

	mustRun(t, &out, &linkAddCmd{}, "-ingredient", rice, "-grams", "50", meal)
	if got := mustRun(t, &out, &mealCmd{}, meal); !strings.Contains(got, "**39**") {
		t.Errorf("meal output after link-add:\n%s", got)
	}
}

func TestIngredientSet(t *testing.T) {
	var out bytes.Buffer
	setGlobals(t, &out, "dir", t.TempDir())

	id := lastField(mustRun(t, &out, &ingredientAddCmd{}, "-name", "Flour", "-carbs", "70"))
	mustRun(t, &out, &ingredientSetCmd{}, "-carbs", "76.3", id)

	got := mustRun(t, &out, &ingredientsCmd{})
	if !strings.Contains(got, "Flour") || !strings.Contains(got, "76.3") {
		t.Errorf("ingredients output:\n%s", got)
	}

	if status := run(t, &ingredientSetCmd{}, "-carbs", "-5", id); status != subcommands.ExitUsageError {
		t.Errorf("ingredient-set -carbs -5 = %v, want usage error", status)
	}
	if status := run(t, &ingredientSetCmd{}, "-name", "x", "nope"); status != subcommands.ExitFailure {
		t.Errorf("ingredient-set on an unknown id = %v, want failure", status)
	}
	if status := run(t, &ingredientAddCmd{}, "-carbs", "lots"); status != subcommands.ExitUsageError {
		t.Errorf("ingredient-add -carbs lots = %v, want usage error", status)
	}
}

func TestIngredientImport(t *testing.T) {
	var out bytes.Buffer
	tmp := t.TempDir()
	setGlobals(t, &out, "dir", filepath.Join(tmp, "store"))

	product := filepath.Join(tmp, "product.json")
	doc := `{"product":{"product_name":"Nutella","nutriments":{"carbohydrates_100g":57.5}}}`
	if err := os.WriteFile(product, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	got := mustRun(t, &out, &ingredientImportCmd{}, product)
	if !strings.Contains(got, "Nutella (57.5 g carbs / 100g)") {
		t.Errorf("ingredient-import output: %s", got)
	}
	if status := run(t, &ingredientImportCmd{}, filepath.Join(tmp, "missing.json")); status != subcommands.ExitFailure {
		t.Errorf("ingredient-import of a missing file = %v, want failure", status)
	}
}

func TestPortionUsage(t *testing.T) {
	var out bytes.Buffer
	setGlobals(t, &out, "memory", "")

	testCases := []struct {
		name string
		args []string
		want subcommands.ExitStatus
	}{
		{name: "no meal", args: []string{"-weight", "10"}, want: subcommands.ExitUsageError},
		{name: "both", args: []string{"-weight", "10", "-carbs", "5", "m"}, want: subcommands.ExitUsageError},
		{name: "none", args: []string{"m"}, want: subcommands.ExitUsageError},
		{name: "invalid", args: []string{"-weight", "abc", "m"}, want: subcommands.ExitUsageError},
		{name: "negative weight", args: []string{"-weight", "-50", "m"}, want: subcommands.ExitUsageError},
		{name: "negative carbs", args: []string{"-carbs", "-5", "m"}, want: subcommands.ExitUsageError},
		{name: "unknown meal", args: []string{"-weight", "10", "m"}, want: subcommands.ExitFailure},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(t, &portionCmd{}, tc.args...); got != tc.want {
				t.Errorf("portion %v = %v, want %v", tc.args, got, tc.want)
			}
		})
	}
}

func TestMealSetAndRemove(t *testing.T) {
	var out bytes.Buffer
	setGlobals(t, &out, "dir", t.TempDir())

	first := lastField(mustRun(t, &out, &mealAddCmd{}, "-name", "Soup"))
	second := lastField(mustRun(t, &out, &mealAddCmd{}, "-name", "Salad"))
	mustRun(t, &out, &mealSetCmd{}, "-name", "Green salad", "-weight", "250", second)

	got := mustRun(t, &out, &mealsCmd{})
	if i, j := strings.Index(got, "Green salad"), strings.Index(got, "Soup"); i < 0 || j < 0 || i > j {
		t.Errorf("meals are not listed newest first:\n%s", got)
	}

	mustRun(t, &out, &mealRmCmd{}, first, second)
	got = mustRun(t, &out, &mealsCmd{})
	if !strings.Contains(got, "No meals yet") {
		t.Errorf("meals output after meal-rm:\n%s", got)
	}
}

func TestRekey(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()
	setGlobals(t, &out, "dir", dir)

	mustRun(t, &out, &mealAddCmd{}, "-name", "Soup")
	mustRun(t, &out, &rekeyCmd{}, "meals", "dinners")

	if _, err := os.Stat(filepath.Join(dir, "dinners.json")); err != nil {
		t.Errorf("new key: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "ktCHn-meals.json")); !os.IsNotExist(err) {
		t.Errorf("old key still exists: %v", err)
	}
	config, err := os.ReadFile(configFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(config), "meals_key: dinners") {
		t.Errorf("configuration:\n%s", config)
	}

	// Next commands use the new key.
	got := mustRun(t, &out, &mealsCmd{})
	if !strings.Contains(got, "Soup") {
		t.Errorf("meals output after rekey:\n%s", got)
	}

	if status := run(t, &rekeyCmd{}, "plates", "x"); status != subcommands.ExitUsageError {
		t.Errorf("rekey plates = %v, want usage error", status)
	}
}

func TestRekeyFailure(t *testing.T) {
	var out bytes.Buffer
	dir := t.TempDir()
	setGlobals(t, &out, "dir", dir)

	mustRun(t, &out, &ingredientAddCmd{}, "-name", "Rice")
	mustRun(t, &out, &mealAddCmd{}, "-name", "Soup")

	for _, args := range [][]string{
		{"ingredients", "bad/key"},
		{"ingredients", "ktCHn-meals"},
	} {
		if status := run(t, &rekeyCmd{}, args...); status != subcommands.ExitFailure {
			t.Errorf("rekey %v = %v, want failure", args, status)
		}
	}
	if _, err := os.Stat(configFile); !os.IsNotExist(err) {
		t.Errorf("configuration written by a failed rekey: %v", err)
	}
	if got := mustRun(t, &out, &ingredientsCmd{}); !strings.Contains(got, "Rice") {
		t.Errorf("ingredients output after a failed rekey:\n%s", got)
	}
	if got := mustRun(t, &out, &mealsCmd{}); !strings.Contains(got, "Soup") {
		t.Errorf("meals output after a failed rekey:\n%s", got)
	}
}

func TestCurrentSettings(t *testing.T) {
	var out bytes.Buffer
	setGlobals(t, &out, "", "")

	s, err := currentSettings()
	if err != nil {
		t.Fatal(err)
	}
	if s.store != "dir" || s.path != ".ktchn" || s.mealsKey != "ktCHn-meals" {
		t.Errorf("default settings = %+v", s)
	}

	viper.Set(keyStore, "sqlite")
	viper.Set(keyIngredientsKey, "pantry")
	if s, _ = currentSettings(); s.store != "sqlite" || s.path != "ktchn.db" || s.ingredientsKey != "pantry" {
		t.Errorf("configured settings = %+v", s)
	}

	// Flags win over the configuration.
	*storeFlag = "memory"
	if s, _ = currentSettings(); s.store != "memory" {
		t.Errorf("store = %q, want memory", s.store)
	}

	viper.Set(keyStore, "")
	*storeFlag = "tape"
	if _, err := currentSettings(); err == nil {
		t.Errorf("currentSettings() with an unknown store succeeded")
	}
}

func TestTopic(t *testing.T) {
	var out bytes.Buffer
	setGlobals(t, &out, "memory", "")

	got := mustRun(t, &out, &topicCmd{})
	if !strings.Contains(got, "portions") {
		t.Errorf("topic index:\n%s", got)
	}
	if status := run(t, &topicCmd{}, "no-such-topic"); status != subcommands.ExitFailure {
		t.Errorf("topic no-such-topic = %v, want failure", status)
	}
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/ktchn"
	"github.com/etnz/ktchn/renderer"
	"github.com/google/subcommands"
)

type ingredientsCmd struct{}

func (*ingredientsCmd) Name() string     { return "ingredients" }
func (*ingredientsCmd) Synopsis() string { return "list the ingredients" }
func (*ingredientsCmd) Usage() string {
	return `ktchn ingredients

  Lists the ingredients, newest first, with their carbohydrates per 100g.
`
}

func (*ingredientsCmd) SetFlags(f *flag.FlagSet) {}

func (*ingredientsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		printMarkdown(renderer.Ingredients(k.Ingredients()))
		return subcommands.ExitSuccess
	})
}

// ingredientEdits collects the edits of the ingredient flags that were set
// on the command line.
func ingredientEdits(f *flag.FlagSet, name, carbs string) ([]ktchn.Edit, error) {
	var edits []ktchn.Edit
	var err error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			edits = append(edits, ktchn.SetName{Name: name})
		case "carbs":
			var e ktchn.SetCarbsPer100g
			if e, err = ktchn.ParseSetCarbsPer100g(carbs); err == nil {
				edits = append(edits, e)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	// Check the edits on a blank ingredient, so that no command fails
	// half way.
	var ing ktchn.Ingredient
	for _, e := range edits {
		if ing, err = ing.Apply(e); err != nil {
			return nil, err
		}
	}
	return edits, nil
}

type ingredientAddCmd struct {
	name  string
	carbs string
}

func (*ingredientAddCmd) Name() string     { return "ingredient-add" }
func (*ingredientAddCmd) Synopsis() string { return "add an ingredient" }
func (*ingredientAddCmd) Usage() string {
	return `ktchn ingredient-add [-name <name>] [-carbs <grams>]

  Adds an ingredient at the top of the list and prints its id.
  -carbs is the grams of carbohydrates in 100g of the ingredient, as printed
  on the nutrition label.
`
}

func (c *ingredientAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the ingredient")
	f.StringVar(&c.carbs, "carbs", "", "Grams of carbohydrates per 100g")
}

func (c *ingredientAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	edits, err := ingredientEdits(f, c.name, c.carbs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		id := k.AddIngredient()
		if err := k.UpdateIngredient(id, edits...); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Added ingredient %s\n", id)
		return subcommands.ExitSuccess
	})
}

type ingredientSetCmd struct {
	name  string
	carbs string
}

func (*ingredientSetCmd) Name() string     { return "ingredient-set" }
func (*ingredientSetCmd) Synopsis() string { return "change the fields of an ingredient" }
func (*ingredientSetCmd) Usage() string {
	return `ktchn ingredient-set [-name <name>] [-carbs <grams>] <ingredient>

  Changes the fields given as flags. An empty -carbs clears the value.
  <ingredient> is an id, or a prefix of a single id.
`
}

func (c *ingredientSetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New name of the ingredient")
	f.StringVar(&c.carbs, "carbs", "", "New grams of carbohydrates per 100g")
}

func (c *ingredientSetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one ingredient id is required.")
		return subcommands.ExitUsageError
	}
	edits, err := ingredientEdits(f, c.name, c.carbs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		id, err := matchID("ingredient", f.Arg(0), ingredientIDs(k.Ingredients()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := k.UpdateIngredient(id, edits...); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Updated ingredient %s\n", id)
		return subcommands.ExitSuccess
	})
}

type ingredientRmCmd struct{}

func (*ingredientRmCmd) Name() string     { return "ingredient-rm" }
func (*ingredientRmCmd) Synopsis() string { return "remove ingredients" }
func (*ingredientRmCmd) Usage() string {
	return `ktchn ingredient-rm <ingredient>...

  Removes ingredients. Meals using them keep their lines, which then count
  for no carbohydrates until another ingredient is selected.
`
}

func (*ingredientRmCmd) SetFlags(f *flag.FlagSet) {}

func (*ingredientRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one ingredient id is required.")
		return subcommands.ExitUsageError
	}
	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		for _, arg := range f.Args() {
			id, err := matchID("ingredient", arg, ingredientIDs(k.Ingredients()))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
			k.RemoveIngredient(id)
			fmt.Fprintf(stdout, "Removed ingredient %s\n", id)
		}
		return subcommands.ExitSuccess
	})
}

type ingredientImportCmd struct {
	namePath  string
	carbsPath string
}

func (*ingredientImportCmd) Name() string { return "ingredient-import" }
func (*ingredientImportCmd) Synopsis() string {
	return "add an ingredient from a product JSON document"
}
func (*ingredientImportCmd) Usage() string {
	return `ktchn ingredient-import [-name-path <jsonpath>] [-carbs-path <jsonpath>] [<file>]

  Adds an ingredient read from a product JSON document, from <file> or from
  the standard input. The default paths read an Open Food Facts product, as
  returned by https://world.openfoodfacts.org/api/v2/product/<barcode>.json

Usage Examples:
$ curl -s https://world.openfoodfacts.org/api/v2/product/3017620422003.json | ktchn ingredient-import
`
}

func (c *ingredientImportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.namePath, "name-path", ktchn.OpenFoodFacts.NamePath, "JSONPath of the ingredient name")
	f.StringVar(&c.carbsPath, "carbs-path", ktchn.OpenFoodFacts.CarbsPath, "JSONPath of the grams of carbohydrates per 100g")
}

func (c *ingredientImportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var r io.Reader = os.Stdin
	switch f.NArg() {
	case 0:
	case 1:
		file, err := os.Open(f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening product document: %v\n", err)
			return subcommands.ExitFailure
		}
		defer file.Close()
		r = file
	default:
		fmt.Fprintln(os.Stderr, "Error: at most one file is accepted.")
		return subcommands.ExitUsageError
	}

	spec := ktchn.ImportSpec{NamePath: c.namePath, CarbsPath: c.carbsPath}
	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		id, err := k.ImportIngredient(r, spec)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		ing, _ := k.Ingredients().Ingredient(id)
		fmt.Fprintf(stdout, "Imported ingredient %s: %s (%s g carbs / 100g)\n", id, ing.Name(), ing.CarbsPer100g())
		return subcommands.ExitSuccess
	})
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ktchn"
	"github.com/etnz/ktchn/renderer"
	"github.com/google/subcommands"
)

type mealsCmd struct{}

func (*mealsCmd) Name() string     { return "meals" }
func (*mealsCmd) Synopsis() string { return "list the meals" }
func (*mealsCmd) Usage() string {
	return `ktchn meals

  Lists the meals, newest first, with their weight and carbohydrates.
`
}

func (*mealsCmd) SetFlags(f *flag.FlagSet) {}

func (*mealsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		printMarkdown(renderer.Meals(k.Meals(), k.Ingredients()))
		return subcommands.ExitSuccess
	})
}

type mealCmd struct{}

func (*mealCmd) Name() string     { return "meal" }
func (*mealCmd) Synopsis() string { return "show the carbohydrate breakdown of a meal" }
func (*mealCmd) Usage() string {
	return `ktchn meal <meal>

  Shows the ingredients of a meal, the carbohydrates each brings, and the
  carbohydrates per 100g of the prepared meal.
`
}

func (*mealCmd) SetFlags(f *flag.FlagSet) {}

func (*mealCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one meal id is required.")
		return subcommands.ExitUsageError
	}
	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		m, err := findMeal(k, f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		report, _ := k.Report(m.ID())
		printMarkdown(renderer.Meal(report))
		return subcommands.ExitSuccess
	})
}

// mealEdits collects the edits of the meal flags that were set on the
// command line.
func mealEdits(f *flag.FlagSet, name, weight string) ([]ktchn.Edit, error) {
	var edits []ktchn.Edit
	var err error
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "name":
			edits = append(edits, ktchn.SetName{Name: name})
		case "weight":
			var e ktchn.SetTotalWeight
			if e, err = ktchn.ParseSetTotalWeight(weight); err == nil {
				edits = append(edits, e)
			}
		}
	})
	if err != nil {
		return nil, err
	}
	var m ktchn.Meal
	for _, e := range edits {
		if m, err = m.Apply(e); err != nil {
			return nil, err
		}
	}
	return edits, nil
}

type mealAddCmd struct {
	name   string
	weight string
}

func (*mealAddCmd) Name() string     { return "meal-add" }
func (*mealAddCmd) Synopsis() string { return "add a meal" }
func (*mealAddCmd) Usage() string {
	return `ktchn meal-add [-name <name>] [-weight <grams>]

  Adds a meal at the top of the list and prints its id. -weight is the net
  weight of the prepared meal, without its container.
`
}

func (c *mealAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Name of the meal")
	f.StringVar(&c.weight, "weight", "", "Net weight of the prepared meal, in grams")
}

func (c *mealAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	edits, err := mealEdits(f, c.name, c.weight)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		id := k.AddMeal()
		if err := k.UpdateMeal(id, edits...); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Added meal %s\n", id)
		return subcommands.ExitSuccess
	})
}

type mealSetCmd struct {
	name   string
	weight string
}

func (*mealSetCmd) Name() string     { return "meal-set" }
func (*mealSetCmd) Synopsis() string { return "change the name or weight of a meal" }
func (*mealSetCmd) Usage() string {
	return `ktchn meal-set [-name <name>] [-weight <grams>] <meal>

  Changes the fields given as flags. An empty -weight clears the value.
  <meal> is an id, or a prefix of a single id.
`
}

func (c *mealSetCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "New name of the meal")
	f.StringVar(&c.weight, "weight", "", "New net weight of the prepared meal, in grams")
}

func (c *mealSetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one meal id is required.")
		return subcommands.ExitUsageError
	}
	edits, err := mealEdits(f, c.name, c.weight)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		m, err := findMeal(k, f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if err := k.UpdateMeal(m.ID(), edits...); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Updated meal %s\n", m.ID())
		return subcommands.ExitSuccess
	})
}

type mealRmCmd struct{}

func (*mealRmCmd) Name() string     { return "meal-rm" }
func (*mealRmCmd) Synopsis() string { return "remove meals" }
func (*mealRmCmd) Usage() string {
	return `ktchn meal-rm <meal>...

  Removes meals, with their ingredient lines.
`
}

func (*mealRmCmd) SetFlags(f *flag.FlagSet) {}

func (*mealRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one meal id is required.")
		return subcommands.ExitUsageError
	}
	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		for _, arg := range f.Args() {
			m, err := findMeal(k, arg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
			k.RemoveMeal(m.ID())
			fmt.Fprintf(stdout, "Removed meal %s\n", m.ID())
		}
		return subcommands.ExitSuccess
	})
}

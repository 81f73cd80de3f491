package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ktchn"
	"github.com/google/subcommands"
)

type linkAddCmd struct {
	ingredient string
	grams      string
}

func (*linkAddCmd) Name() string     { return "link-add" }
func (*linkAddCmd) Synopsis() string { return "add an ingredient line to a meal" }
func (*linkAddCmd) Usage() string {
	return `ktchn link-add [-ingredient <ingredient>] [-grams <grams>] <meal>

  Adds a line at the top of the meal's ingredients and prints its id. The
  line may be left without an ingredient or a weight, and completed later
  with link-set.
`
}

func (c *linkAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ingredient, "ingredient", "", "Ingredient used by the line")
	f.StringVar(&c.grams, "grams", "", "Grams of the ingredient in the meal")
}

func (c *linkAddCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one meal id is required.")
		return subcommands.ExitUsageError
	}
	grams, err := ktchn.ParseSetLinkGrams("", c.grams)
	if err == nil {
		err = grams.Grams.Validate()
	}
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
		var ingredient ktchn.ID
		if c.ingredient != "" {
			if ingredient, err = matchID("ingredient", c.ingredient, ingredientIDs(k.Ingredients())); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
		}
		link := k.AddLink(m.ID())
		grams.Link = link
		if err := k.UpdateMeal(m.ID(), ktchn.SetLinkIngredient{Link: link, Ingredient: ingredient}, grams); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Added line %s to meal %s\n", link, m.ID())
		return subcommands.ExitSuccess
	})
}

type linkSetCmd struct{}

func (*linkSetCmd) Name() string     { return "link-set" }
func (*linkSetCmd) Synopsis() string { return "change the ingredient or the weight of a meal line" }
func (*linkSetCmd) Usage() string {
	return `ktchn link-set <meal> <line> <field> <value>

  Changes one field of a meal's ingredient line. <field> is either
  "ingredient" or "grams". An empty value clears the field.

Usage Examples:
$ ktchn link-set 8c3e 41d0 grams 250
$ ktchn link-set 8c3e 41d0 ingredient 77fa
`
}

func (*linkSetCmd) SetFlags(f *flag.FlagSet) {}

func (*linkSetCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 4 {
		fmt.Fprintln(os.Stderr, "Error: a meal, a line, a field and a value are required.")
		return subcommands.ExitUsageError
	}
	field, err := ktchn.ParseLinkField(f.Arg(2))
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
		link, err := matchID("line", f.Arg(1), linkIDs(m))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		value := f.Arg(3)
		if field == ktchn.LinkIngredient && value != "" {
			ing, err := matchID("ingredient", value, ingredientIDs(k.Ingredients()))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
			value = string(ing)
		}
		if m, err = m.SetLinkField(link, field, value); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		k.ReplaceMeal(m)
		fmt.Fprintf(stdout, "Updated line %s of meal %s\n", link, m.ID())
		return subcommands.ExitSuccess
	})
}

type linkRmCmd struct{}

func (*linkRmCmd) Name() string     { return "link-rm" }
func (*linkRmCmd) Synopsis() string { return "remove ingredient lines from a meal" }
func (*linkRmCmd) Usage() string {
	return `ktchn link-rm <meal> <line>...

  Removes ingredient lines from a meal.
`
}

func (*linkRmCmd) SetFlags(f *flag.FlagSet) {}

func (*linkRmCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Error: a meal and at least one line are required.")
		return subcommands.ExitUsageError
	}
	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		m, err := findMeal(k, f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, arg := range f.Args()[1:] {
			link, err := matchID("line", arg, linkIDs(m))
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				return subcommands.ExitFailure
			}
			m = m.RemoveLink(link)
			fmt.Fprintf(stdout, "Removed line %s from meal %s\n", link, m.ID())
		}
		k.ReplaceMeal(m)
		return subcommands.ExitSuccess
	})
}

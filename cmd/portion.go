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

type portionCmd struct {
	weight string
	carbs  string
}

func (*portionCmd) Name() string     { return "portion" }
func (*portionCmd) Synopsis() string { return "compute a portion of a meal" }
func (*portionCmd) Usage() string {
	return `ktchn portion (-weight <grams> | -carbs <grams>) <meal>

  Computes the carbohydrates in a portion of the given weight, or the weight
  of the portion holding the given carbohydrates.

Usage Examples:
# How much carbohydrates in 180g of the meal?
$ ktchn portion -weight 180 8c3e

# How much of the meal to serve for 45g of carbohydrates?
$ ktchn portion -carbs 45 8c3e
`
}

func (c *portionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.weight, "weight", "", "Weight of the portion, in grams")
	f.StringVar(&c.carbs, "carbs", "", "Carbohydrates of the portion, in grams")
}

func (c *portionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one meal id is required.")
		return subcommands.ExitUsageError
	}
	if (c.weight == "") == (c.carbs == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -weight or -carbs is required.")
		return subcommands.ExitUsageError
	}
	weight, err := ktchn.ParseNumber(c.weight)
	if err == nil {
		err = weight.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -weight: %v\n", err)
		return subcommands.ExitUsageError
	}
	carbs, err := ktchn.ParseNumber(c.carbs)
	if err == nil {
		err = carbs.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid -carbs: %v\n", err)
		return subcommands.ExitUsageError
	}

	return withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		m, err := findMeal(k, f.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		report, _ := k.Report(m.ID())
		portion := report.Portion(weight)
		if c.carbs != "" {
			portion = report.PortionForCarbs(carbs)
		}
		printMarkdown(renderer.Portion(report, portion))
		return subcommands.ExitSuccess
	})
}

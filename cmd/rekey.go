package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/ktchn"
	"github.com/google/subcommands"
)

type rekeyCmd struct{}

func (*rekeyCmd) Name() string     { return "rekey" }
func (*rekeyCmd) Synopsis() string { return "move a catalog to another storage key" }
func (*rekeyCmd) Usage() string {
	return `ktchn rekey <ingredients|meals> <key>

  Saves the catalog under a new key of the store and clears the old one.
  The new key is recorded in the configuration file, ktchn.yaml by default.
`
}

func (*rekeyCmd) SetFlags(f *flag.FlagSet) {}

func (*rekeyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: a catalog and a key are required.")
		return subcommands.ExitUsageError
	}
	collection, err := ktchn.ParseCollection(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	key := f.Arg(1)

	status := withKitchen(func(k *ktchn.Kitchen) subcommands.ExitStatus {
		old := k.Key(collection)
		if err := k.Rekey(collection, key); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Moved %s from %q to %q\n", collection, old, key)
		return subcommands.ExitSuccess
	})
	if status != subcommands.ExitSuccess {
		return status
	}

	setting := keyIngredientsKey
	if collection == ktchn.MealCollection {
		setting = keyMealsKey
	}
	if err := saveSetting(setting, key); err != nil {
		fmt.Fprintf(os.Stderr, "Error recording the new key in the configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

package cmd

import (
	"fmt"
	"iter"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/ktchn"
	"github.com/spf13/viper"
)

// printMarkdown renders md for the terminal, unless raw output is asked for
// or the rendering fails.
func printMarkdown(md string) {
	if !*rawFlag && !viper.GetBool(keyRaw) {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
		if err == nil {
			if out, err := r.Render(md); err == nil {
				fmt.Fprint(stdout, out)
				return
			}
		}
	}
	fmt.Fprint(stdout, md)
}

// matchID finds the id that arg designates among ids: either the full id or
// a prefix of a single one.
func matchID(kind, arg string, ids iter.Seq[ktchn.ID]) (ktchn.ID, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("%s id is missing", kind)
	}
	var matches []ktchn.ID
	for id := range ids {
		if string(id) == arg {
			return id, nil
		}
		if strings.HasPrefix(string(id), arg) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s %q not found", kind, arg)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s %q is ambiguous, it matches %d ids", kind, arg, len(matches))
	}
}

func ingredientIDs(c *ktchn.IngredientCatalog) iter.Seq[ktchn.ID] {
	return func(yield func(ktchn.ID) bool) {
		for ing := range c.All() {
			if !yield(ing.ID()) {
				return
			}
		}
	}
}

func mealIDs(c *ktchn.MealCatalog) iter.Seq[ktchn.ID] {
	return func(yield func(ktchn.ID) bool) {
		for m := range c.All() {
			if !yield(m.ID()) {
				return
			}
		}
	}
}

func linkIDs(m ktchn.Meal) iter.Seq[ktchn.ID] {
	return func(yield func(ktchn.ID) bool) {
		for l := range m.Links() {
			if !yield(l.ID()) {
				return
			}
		}
	}
}

// findMeal returns the meal arg designates.
func findMeal(k *ktchn.Kitchen, arg string) (ktchn.Meal, error) {
	id, err := matchID("meal", arg, mealIDs(k.Meals()))
	if err != nil {
		return ktchn.Meal{}, err
	}
	m, _ := k.Meals().Meal(id)
	return m, nil
}

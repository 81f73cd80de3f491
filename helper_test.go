package ktchn

import (
	"fmt"
	"slices"
)

// sequence returns a deterministic id generator: prefix1, prefix2, ...
func sequence(prefix string) func() ID {
	n := 0
	return func() ID {
		n++
		return ID(fmt.Sprintf("%s%d", prefix, n))
	}
}

// ids lists the ids of records in order.
func ids[T record](records []T) []ID {
	out := make([]ID, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID())
	}
	return out
}

func ingredientIDs(c *IngredientCatalog) []ID { return ids(slices.Collect(c.All())) }
func mealIDs(c *MealCatalog) []ID             { return ids(slices.Collect(c.All())) }
func linkIDs(m Meal) []ID                     { return ids(slices.Collect(m.Links())) }

package ktchn

// Resolver resolves an ingredient reference. *IngredientCatalog is the
// usual one.
type Resolver interface {
	Ingredient(id ID) (Ingredient, bool)
}

// resolve looks up the ingredient of a link. Unselected and dangling links
// resolve to nothing.
func resolve(r Resolver, l Link) (Ingredient, bool) {
	if r == nil || l.IsUnselected() {
		return Ingredient{}, false
	}
	return r.Ingredient(l.ingredient)
}

// LinkCarbs returns the grams of carbohydrates a link brings to its meal.
// Missing grams, and missing or unresolved ingredients, contribute 0.
func LinkCarbs(l Link, r Resolver) float64 {
	ing, _ := resolve(r, l)
	return l.grams.Or(0) * ing.carbPerGram.Or(0)
}

// TotalCarbs returns the grams of carbohydrates in the whole meal. It is 0 for
// a meal without links.
func TotalCarbs(m Meal, r Resolver) float64 {
	total := 0.0
	for _, l := range m.links {
		total += LinkCarbs(l, r)
	}
	return total
}

// CarbsPerGram returns the carbohydrate density of the prepared meal. It is
// 0 when the total weight is absent or zero, or when there are no
// carbohydrates.
func CarbsPerGram(m Meal, r Resolver) float64 {
	weight := m.totalWeight.Or(0)
	total := TotalCarbs(m, r)
	if weight == 0 || total == 0 {
		return 0
	}
	return total / weight
}

// PortionCarbsFromWeight returns the carbohydrates in a portion of the given
// weight. An absent portion gives absent carbohydrates, not 0.
func PortionCarbsFromWeight(portion Number, carbsPerGram float64) Number {
	return portion.Mul(carbsPerGram)
}

// PortionWeightFromCarbs returns the portion weight holding the target
// carbohydrates. An absent target gives an absent weight. A zero density
// gives an undefined weight: no portion of a carbohydrate free meal reaches a
// target.
func PortionWeightFromCarbs(target Number, carbsPerGram float64) Number {
	return target.Div(carbsPerGram)
}

// Portion is a part of a prepared meal, described by both its weight and its
// carbohydrates. The two are linked through the meal's carbohydrate density.
type Portion struct {
	Weight Number
	Carbs  Number
}

// PortionFromWeight derives the portion from its weight.
func PortionFromWeight(weight Number, carbsPerGram float64) Portion {
	return Portion{Weight: weight, Carbs: PortionCarbsFromWeight(weight, carbsPerGram)}
}

// PortionFromCarbs derives the portion from the carbohydrates it must hold.
// Carbs is recomputed from the derived weight, so an undefined weight gives
// undefined carbohydrates.
func PortionFromCarbs(carbs Number, carbsPerGram float64) Portion {
	weight := PortionWeightFromCarbs(carbs, carbsPerGram)
	return Portion{Weight: weight, Carbs: PortionCarbsFromWeight(weight, carbsPerGram)}
}

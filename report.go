package ktchn

// LineReport is the breakdown of one link of a meal.
type LineReport struct {
	Link       Link
	Ingredient Ingredient // zero when the link does not resolve.
	Resolved   bool
	Carbs      float64
}

// Unselected reports whether the link has no ingredient selected.
func (l LineReport) Unselected() bool { return l.Link.IsUnselected() }

// Dangling reports whether the link refers to an ingredient that does not
// exist (any more).
func (l LineReport) Dangling() bool { return !l.Link.IsUnselected() && !l.Resolved }

// MealReport is the carbohydrate breakdown of a meal against an ingredient
// catalog.
type MealReport struct {
	Meal         Meal
	Lines        []LineReport
	TotalCarbs   float64
	CarbsPerGram float64
}

// Analyze computes the carbohydrate breakdown of a meal. Values are kept at
// full precision; rounding is left to the display.
func Analyze(m Meal, r Resolver) MealReport {
	report := MealReport{
		Meal:         m,
		Lines:        make([]LineReport, 0, len(m.links)),
		TotalCarbs:   TotalCarbs(m, r),
		CarbsPerGram: CarbsPerGram(m, r),
	}
	for _, l := range m.links {
		ing, ok := resolve(r, l)
		report.Lines = append(report.Lines, LineReport{
			Link:       l,
			Ingredient: ing,
			Resolved:   ok,
			Carbs:      LinkCarbs(l, r),
		})
	}
	return report
}

// Portion derives a portion of the meal from its weight.
func (r MealReport) Portion(weight Number) Portion {
	return PortionFromWeight(weight, r.CarbsPerGram)
}

// PortionForCarbs derives the portion of the meal holding carbs.
func (r MealReport) PortionForCarbs(carbs Number) Portion {
	return PortionFromCarbs(carbs, r.CarbsPerGram)
}

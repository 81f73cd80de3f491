package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/ktchn"
	md "github.com/nao1215/markdown"
)

// Meal renders the carbohydrate breakdown of a meal.
func Meal(r ktchn.MealReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(mealTitle(r.Meal))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Total Carbs"), md.Bold(ktchn.FormatAmount(r.TotalCarbs))},
		Rows: [][]string{
			{"Total Weight", r.Meal.TotalWeight().String()},
			{"Carbs / 100g", ktchn.FormatAmount(r.CarbsPerGram * 100)},
		},
	})

	if len(r.Lines) > 0 {
		doc.H2("Ingredients")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight},
			Header:    []string{"Link", "Ingredient", "Grams", "Carbs"},
		}
		for _, line := range r.Lines {
			table.Rows = append(table.Rows, []string{
				string(line.Link.ID()),
				ingredientLabel(line),
				line.Link.Grams().String(),
				ktchn.FormatAmount(line.Carbs),
			})
		}
		doc.Table(table)
	}

	if r.Meal.TotalWeight().Or(0) == 0 {
		doc.PlainText(md.Italic("Weigh the prepared meal and set its total weight to compute portions."))
	}

	return doc.String()
}

// Portion renders a portion of a meal.
func Portion(r ktchn.MealReport, p ktchn.Portion) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Portion of %s", mealTitle(r.Meal)))
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Weight"), md.Bold(p.Weight.String())},
		Rows: [][]string{
			{"Carbs", p.Carbs.String()},
			{"Carbs / 100g", ktchn.FormatAmount(r.CarbsPerGram * 100)},
		},
	})
	if p.Weight.IsUndefined() {
		doc.PlainText("This meal has no carbohydrates: no portion can reach that amount.")
	}

	return doc.String()
}

func mealTitle(m ktchn.Meal) string {
	if m.Name() == "" {
		return fmt.Sprintf("Meal %s", m.ID())
	}
	return m.Name()
}

func ingredientLabel(line ktchn.LineReport) string {
	switch {
	case line.Unselected():
		return md.Italic("none")
	case line.Dangling():
		return md.Italic(fmt.Sprintf("removed (%s)", line.Link.Ingredient()))
	case line.Ingredient.Name() == "":
		return string(line.Ingredient.ID())
	default:
		return line.Ingredient.Name()
	}
}

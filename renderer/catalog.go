package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/ktchn"
	md "github.com/nao1215/markdown"
)

// Ingredients renders the ingredient catalog as a table, newest first.
func Ingredients(c *ktchn.IngredientCatalog) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Ingredients")
	if c.Len() == 0 {
		doc.PlainText("No ingredients yet. Add one with `ktchn ingredient-add`.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight},
		Header:    []string{"ID", "Name", "Carbs / 100g"},
	}
	for ing := range c.All() {
		table.Rows = append(table.Rows, []string{
			string(ing.ID()),
			ing.Name(),
			ing.CarbsPer100g().String(),
		})
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("%d ingredient(s).", c.Len()))

	return doc.String()
}

// Meals renders the meal catalog as a table, newest first. Carbohydrates are
// computed against r.
func Meals(c *ktchn.MealCatalog, r ktchn.Resolver) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Meals")
	if c.Len() == 0 {
		doc.PlainText("No meals yet. Add one with `ktchn meal-add`.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"ID", "Name", "Weight", "Carbs", "Carbs / 100g"},
	}
	for m := range c.All() {
		report := ktchn.Analyze(m, r)
		table.Rows = append(table.Rows, []string{
			string(m.ID()),
			m.Name(),
			m.TotalWeight().String(),
			ktchn.FormatAmount(report.TotalCarbs),
			ktchn.FormatAmount(report.CarbsPerGram * 100),
		})
	}
	doc.Table(table)

	return doc.String()
}

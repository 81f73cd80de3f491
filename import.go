package ktchn

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// ImportSpec locates an ingredient's fields in a product JSON document, using
// JSONPath expressions.
type ImportSpec struct {
	NamePath  string
	CarbsPath string // grams of carbohydrates per 100 grams.
}

// OpenFoodFacts is the layout of an Open Food Facts product document.
var OpenFoodFacts = ImportSpec{
	NamePath:  "$.product.product_name",
	CarbsPath: "$.product.nutriments.carbohydrates_100g",
}

// ImportedIngredient is what ParseImport found in a document.
type ImportedIngredient struct {
	Name         string
	CarbsPer100g Number
}

// Edits returns the edits that fill a new ingredient with what was found.
func (i ImportedIngredient) Edits() []Edit {
	return []Edit{SetName{Name: i.Name}, SetCarbsPer100g{Carbs: i.CarbsPer100g}}
}

// ParseImport extracts an ingredient from a JSON document. The name is
// required. A missing carbohydrate value is absent; it may be a JSON number
// or a numeric string.
func ParseImport(r io.Reader, spec ImportSpec) (ImportedIngredient, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return ImportedIngredient{}, fmt.Errorf("import error: not a correct json: %w", err)
	}

	jname, err := lookupPath(spec.NamePath, jobj)
	if err != nil {
		return ImportedIngredient{}, err
	}
	name, ok := jname.(string)
	if !ok || strings.TrimSpace(name) == "" {
		return ImportedIngredient{}, fmt.Errorf("import error: %q must be a non empty string, got %v", spec.NamePath, jname)
	}

	var carbs Number
	if jcarbs, err := lookupPath(spec.CarbsPath, jobj); err == nil {
		switch v := jcarbs.(type) {
		case float64:
			carbs = N(v)
		case string:
			if carbs, err = ParseNumber(v); err != nil {
				return ImportedIngredient{}, fmt.Errorf("import error: %q: %w", spec.CarbsPath, err)
			}
		case nil:
		default:
			return ImportedIngredient{}, fmt.Errorf("import error: %q must be a number, got %v", spec.CarbsPath, jcarbs)
		}
	}
	if err := carbs.Validate(); err != nil {
		return ImportedIngredient{}, fmt.Errorf("import error: %q: %w", spec.CarbsPath, err)
	}
	return ImportedIngredient{Name: strings.TrimSpace(name), CarbsPer100g: carbs}, nil
}

func lookupPath(path string, jobj any) (any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("import error: cannot evaluate %q: %w", path, err)
	}
	// jsonpath returns either a single answer or a list of answers depending
	// on the expression: keep the first one.
	if jlist, ok := jval.([]any); ok {
		if len(jlist) == 0 {
			return nil, fmt.Errorf("import error: %q matches nothing", path)
		}
		jval = jlist[0]
	}
	return jval, nil
}

// ImportIngredient adds a new ingredient filled from a product document and
// returns its id.
func (k *Kitchen) ImportIngredient(r io.Reader, spec ImportSpec) (ID, error) {
	imported, err := ParseImport(r, spec)
	if err != nil {
		return "", err
	}
	c, id := k.ingredients.Add()
	if c, err = c.Update(id, imported.Edits()...); err != nil {
		return "", err
	}
	k.setIngredients(c)
	return id, nil
}

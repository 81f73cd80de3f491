package ktchn

import (
	"fmt"
	"strings"
)

// EditType is a typed string identifying an edit.
type EditType string

// Edit types.
const (
	EditSetName           EditType = "set-name"
	EditSetCarbsPer100g   EditType = "set-carbs-per-100g"
	EditSetTotalWeight    EditType = "set-total-weight"
	EditAddLink           EditType = "add-link"
	EditRemoveLink        EditType = "remove-link"
	EditSetLinkIngredient EditType = "set-link-ingredient"
	EditSetLinkGrams      EditType = "set-link-grams"
)

// Edit is a single field-level change to an ingredient or a meal.
//
// The set of edits is closed: records apply them with an exhaustive type
// switch and reject the ones that do not concern them with
// ErrUnsupportedEdit.
type Edit interface {
	What() EditType
}

// SetName renames an ingredient or a meal. Any string is accepted, including
// the empty one.
type SetName struct {
	Name string
}

// SetCarbsPer100g sets an ingredient's carbohydrate density from the grams
// of carbohydrates found in 100 grams of it.
type SetCarbsPer100g struct {
	Carbs Number
}

// SetTotalWeight sets the net weight of a prepared meal, container excluded.
type SetTotalWeight struct {
	Grams Number
}

// AddLink inserts a new empty link at the front of a meal. A zero ID asks
// the meal catalog to mint one.
type AddLink struct {
	ID ID
}

// RemoveLink removes a link from a meal.
type RemoveLink struct {
	Link ID
}

// SetLinkIngredient selects the ingredient of a link. The zero ID unselects
// it.
type SetLinkIngredient struct {
	Link       ID
	Ingredient ID
}

// SetLinkGrams sets how many grams of the link's ingredient the meal uses.
type SetLinkGrams struct {
	Link  ID
	Grams Number
}

func (SetName) What() EditType           { return EditSetName }
func (SetCarbsPer100g) What() EditType   { return EditSetCarbsPer100g }
func (SetTotalWeight) What() EditType    { return EditSetTotalWeight }
func (AddLink) What() EditType           { return EditAddLink }
func (RemoveLink) What() EditType        { return EditRemoveLink }
func (SetLinkIngredient) What() EditType { return EditSetLinkIngredient }
func (SetLinkGrams) What() EditType      { return EditSetLinkGrams }

// ParseSetCarbsPer100g builds a SetCarbsPer100g from a form input.
func ParseSetCarbsPer100g(raw string) (SetCarbsPer100g, error) {
	n, err := ParseNumber(raw)
	return SetCarbsPer100g{Carbs: n}, err
}

// ParseSetTotalWeight builds a SetTotalWeight from a form input.
func ParseSetTotalWeight(raw string) (SetTotalWeight, error) {
	n, err := ParseNumber(raw)
	return SetTotalWeight{Grams: n}, err
}

// ParseSetLinkGrams builds a SetLinkGrams from a form input.
func ParseSetLinkGrams(link ID, raw string) (SetLinkGrams, error) {
	n, err := ParseNumber(raw)
	return SetLinkGrams{Link: link, Grams: n}, err
}

// LinkField names the editable fields of a link, as the form shows them.
type LinkField int

const (
	// LinkIngredient is the ingredient selector.
	LinkIngredient LinkField = iota
	// LinkGrams is the weight input.
	LinkGrams
)

func (f LinkField) String() string {
	switch f {
	case LinkIngredient:
		return "ingredient"
	case LinkGrams:
		return "grams"
	default:
		return "unknown"
	}
}

// ParseLinkField parses a string into a LinkField.
func ParseLinkField(s string) (LinkField, error) {
	switch strings.ToLower(s) {
	case "ingredient":
		return LinkIngredient, nil
	case "grams":
		return LinkGrams, nil
	default:
		return 0, fmt.Errorf("unknown link field: %q", s)
	}
}

// linkEdit turns a form input for one link field into the matching edit.
func linkEdit(link ID, field LinkField, raw string) (Edit, error) {
	switch field {
	case LinkIngredient:
		return SetLinkIngredient{Link: link, Ingredient: ID(strings.TrimSpace(raw))}, nil
	case LinkGrams:
		return ParseSetLinkGrams(link, raw)
	default:
		return nil, fmt.Errorf("%w: link field %v", ErrUnsupportedEdit, field)
	}
}

package ktchn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// This file persists catalog snapshots. A snapshot is a JSON array of
// records, in catalog order. Absent fields are left out. The field names are
// the ones the browser version of the app kept in its local storage, so its
// data can be loaded as is.

// EncodeIngredients writes the ingredient catalog as a JSON array.
func EncodeIngredients(w io.Writer, c *IngredientCatalog) error {
	list := c.list()
	if list == nil {
		list = []Ingredient{}
	}
	return encodeSnapshot(w, list)
}

// DecodeIngredients reads an ingredient catalog written by EncodeIngredients.
func DecodeIngredients(r io.Reader) (*IngredientCatalog, error) {
	var list []Ingredient
	if err := decodeSnapshot(r, &list); err != nil {
		return nil, fmt.Errorf("cannot decode ingredients snapshot: %w", err)
	}
	c, err := NewIngredientCatalog(list...)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ingredients snapshot: %w", err)
	}
	return c, nil
}

// EncodeMeals writes the meal catalog as a JSON array.
func EncodeMeals(w io.Writer, c *MealCatalog) error {
	list := c.list()
	if list == nil {
		list = []Meal{}
	}
	return encodeSnapshot(w, list)
}

// DecodeMeals reads a meal catalog written by EncodeMeals.
func DecodeMeals(r io.Reader) (*MealCatalog, error) {
	var list []Meal
	if err := decodeSnapshot(r, &list); err != nil {
		return nil, fmt.Errorf("cannot decode meals snapshot: %w", err)
	}
	c, err := NewMealCatalog(list...)
	if err != nil {
		return nil, fmt.Errorf("cannot decode meals snapshot: %w", err)
	}
	return c, nil
}

func encodeSnapshot(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cannot marshal snapshot: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write snapshot: %w", err)
	}
	return nil
}

func decodeSnapshot(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	// An empty value is an empty catalog, as a null is.
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}

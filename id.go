package ktchn

import "github.com/google/uuid"

// ID identifies an ingredient, a meal, or a link within a meal.
//
// The zero ID is "no reference": a link with a zero ingredient ID has no
// ingredient selected.
type ID string

// NewID mints a random (version 4) UUID.
func NewID() ID { return ID(uuid.NewString()) }

func (id ID) IsZero() bool   { return id == "" }
func (id ID) String() string { return string(id) }

// maxMintAttempts bounds the retries of a generator whose ids collide with
// existing ones.
const maxMintAttempts = 16

// mintUnique calls mint until it returns an id for which taken is false.
// When mint keeps returning empty or taken ids, it falls back to NewID.
func mintUnique(mint func() ID, taken func(ID) bool) ID {
	for range maxMintAttempts {
		if id := mint(); !id.IsZero() && !taken(id) {
			return id
		}
	}
	for {
		if id := NewID(); !taken(id) {
			return id
		}
	}
}

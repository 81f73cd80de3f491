// Package ktchn keeps a kitchen's carbohydrate bookkeeping: a catalog of
// ingredients with their carbohydrate density, and a catalog of meals made of
// weighed ingredients.
//
// The core functionalities include:
//   - Catalog Management: ingredients and meals are held in immutable
//     snapshots. Every add, edit or remove produces a new snapshot; records
//     keep the identifier they were created with.
//   - Nutrition Calculation: a stateless calculator derives the total
//     carbohydrates of a meal, its carbohydrate density, and converts a
//     portion weight into portion carbohydrates and back.
//   - Data Persistence: snapshots are encoded as JSON arrays and checkpointed
//     into a key/value Store after every mutation.
//
// Meals refer to ingredients by identifier only. Removing an ingredient never
// touches the meals using it: such a dangling reference simply contributes no
// carbohydrates.
//
// This package serves as the foundational logic for the `ktchn` command-line
// tool.
package ktchn

package ktchn

// Default storage keys of the two catalogs.
const (
	IngredientsKey = "ktCHn-ingredients"
	MealsKey       = "ktCHn-meals"
)

// Store is a durable key/value store snapshots are checkpointed into.
//
// Implementations live in the kv package.
type Store interface {
	// Load returns the data saved under key. found is false if there is none.
	Load(key string) (data []byte, found bool, err error)
	// Save replaces the data under key.
	Save(key string, data []byte) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(key string) error
}

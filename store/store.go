// Package store defines the API for looking up the equipment and datasheets
// that units are built from.
package store

// Store is implemented by every catalog source.
type Store interface {
	// Open the store.
	Open() error

	// Close the store.
	Close() error

	// Import validates book and persists its contents, replacing any
	// entries that share a name with an imported one. Either the whole
	// book is imported or nothing is.
	Import(book Book) error

	EquipmentAccessor
	DatasheetAccessor
}

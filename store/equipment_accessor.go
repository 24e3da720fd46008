package store

import (
	"github.com/achilleasa/warband/model"
)

// EquipmentAccessor defines an API for looking up Equipment items.
type EquipmentAccessor interface {
	// Find an Equipment item by its name.
	FindEquipmentByName(name string) (model.Equipment, error)

	// Find Equipment items with the specified category.
	FindEquipmentByCategory(category model.Category) EquipmentIterator

	// Count the number of Equipment items.
	CountEquipment() (int, error)

	// Iterate all Equipment items.
	AllEquipment() EquipmentIterator
}

// EquipmentIterator defines an API for iterating lists of Equipment items
// in name order.
type EquipmentIterator interface {
	// Next advances the iterator and returns false if no further data is
	// available or an error occurred. The caller must call Error() to
	// check whether the iteration was aborted due to an error.
	Next() bool

	// Equipment returns a copy of the current item.
	// It should only be invoked if a prior call to Next() returned true.
	Equipment() model.Equipment

	// Error returns the last error (if any) encountered by the iterator.
	Error() error

	// Close the iterator and release any resources associated with it.
	Close() error
}

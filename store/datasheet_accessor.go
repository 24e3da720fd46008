package store

import (
	"github.com/achilleasa/warband/roster"
)

// DatasheetAccessor defines an API for looking up Datasheets.
type DatasheetAccessor interface {
	// Find a Datasheet by its name.
	FindDatasheetByName(name string) (roster.Datasheet, error)

	// Find Datasheets belonging to the specified faction.
	FindDatasheetsByFaction(faction string) DatasheetIterator

	// Count the number of Datasheets.
	CountDatasheets() (int, error)

	// Iterate all Datasheets.
	AllDatasheets() DatasheetIterator
}

// DatasheetIterator defines an API for iterating lists of Datasheets in
// name order.
type DatasheetIterator interface {
	// Next advances the iterator and returns false if no further data is
	// available or an error occurred. The caller must call Error() to
	// check whether the iteration was aborted due to an error.
	Next() bool

	// Datasheet returns a copy of the current item.
	// It should only be invoked if a prior call to Next() returned true.
	Datasheet() roster.Datasheet

	// Error returns the last error (if any) encountered by the iterator.
	Error() error

	// Close the iterator and release any resources associated with it.
	Close() error
}

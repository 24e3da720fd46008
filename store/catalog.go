package store

import (
	"github.com/juju/errors"
	"github.com/rs/zerolog/log"

	"github.com/achilleasa/warband/catalog"
	"github.com/achilleasa/warband/model"
)

// LoadCatalog reads every equipment item exposed by acc into an immutable
// Catalog.
func LoadCatalog(acc EquipmentAccessor) (*catalog.Catalog, error) {
	var items []model.Equipment

	it := acc.AllEquipment()
	for it.Next() {
		items = append(items, it.Equipment())
	}
	if err := it.Error(); err != nil {
		_ = it.Close()
		return nil, errors.Annotate(err, "iterating equipment")
	}
	if err := it.Close(); err != nil {
		return nil, errors.Annotate(err, "closing equipment iterator")
	}

	cat, err := catalog.New(items...)
	if err != nil {
		return nil, errors.Annotate(err, "building catalog")
	}
	log.Debug().Int("items", cat.Len()).Msg("loaded equipment catalog")
	return cat, nil
}

// Package document converts units to and from their versioned JSON
// document.
package document

import (
	"encoding/json"
	"io"

	"github.com/juju/errors"

	"github.com/achilleasa/warband/model"
	"github.com/achilleasa/warband/schema"
)

// Marshal returns the document for u. Only validated units may be
// serialized.
func Marshal(u *model.Unit) ([]byte, error) {
	if u == nil {
		return nil, errors.NotValidf("nil unit")
	}
	if u.State() != model.StateValidated {
		return nil, errors.NotValidf("unit %q in state %q", u.GetName(), u.State())
	}

	data, err := json.MarshalIndent(FromUnit(u), "", "  ")
	if err != nil {
		return nil, errors.Annotatef(err, "marshaling unit %q", u.GetName())
	}
	return data, nil
}

// Unmarshal parses data into a validated unit. It fails with a schema
// error for non-conforming documents, and with an invariant violation or
// out of range error for documents describing an illegal unit.
func Unmarshal(data []byte) (*model.Unit, error) {
	var doc schema.Unit
	if err := schema.Decode(data, &doc); err != nil {
		return nil, errors.Trace(err)
	}
	u, err := ToUnit(doc)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return u, nil
}

// Encode writes the document for u to w followed by a newline.
func Encode(w io.Writer, u *model.Unit) error {
	data, err := Marshal(u)
	if err != nil {
		return errors.Trace(err)
	}
	if _, err = w.Write(append(data, '\n')); err != nil {
		return errors.Annotate(err, "writing unit document")
	}
	return nil
}

// Decode reads a single document from r.
func Decode(r io.Reader) (*model.Unit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Annotate(err, "reading unit document")
	}
	return Unmarshal(data)
}

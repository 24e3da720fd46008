package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"sort"
	"sync"

	"github.com/fatih/structtag"
	"github.com/juju/errors"
)

// RootPath is the path reported for errors affecting the whole document.
const RootPath = "$"

// Decode parses data into the schema struct pointed to by v. Unknown or
// repeated keys, missing required keys, unexpected nulls and type mismatches
// are reported as an *Error; v is only written to once the whole document
// conforms.
func Decode(data []byte, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return errors.Errorf("schema.Decode requires a non-nil struct pointer; got %T", v)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	raw, err := readValue(dec, RootPath)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return NewError(RootPath, "unexpected trailing data after document")
	}
	if err := checkValue(RootPath, raw, rv.Elem().Type()); err != nil {
		return err
	}

	strict := json.NewDecoder(bytes.NewReader(data))
	strict.DisallowUnknownFields()
	if err := strict.Decode(v); err != nil {
		return NewError(RootPath, "%v", err)
	}
	return nil
}

// readValue reads the next JSON value off dec. Objects are returned as
// map[string]interface{}, arrays as []interface{} and numbers as
// json.Number. Repeated keys within an object are rejected.
func readValue(dec *json.Decoder, path string) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, malformed(err)
	}

	switch tok {
	case json.Delim('{'):
		obj := make(map[string]interface{})
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, malformed(err)
			}
			key := keyTok.(string)
			keyPath := path + "." + key
			if _, dup := obj[key]; dup {
				return nil, NewError(keyPath, "duplicate field")
			}
			if obj[key], err = readValue(dec, keyPath); err != nil {
				return nil, err
			}
		}
		if _, err = dec.Token(); err != nil {
			return nil, malformed(err)
		}
		return obj, nil
	case json.Delim('['):
		arr := []interface{}{}
		for dec.More() {
			elem, err := readValue(dec, fmt.Sprintf("%s[%d]", path, len(arr)))
			if err != nil {
				return nil, err
			}
			arr = append(arr, elem)
		}
		if _, err = dec.Token(); err != nil {
			return nil, malformed(err)
		}
		return arr, nil
	}
	return tok, nil
}

func malformed(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return NewError(RootPath, "malformed document: %v", err)
}

func checkValue(path string, raw interface{}, t reflect.Type) error {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := raw.(map[string]interface{})
		if !ok {
			return typeMismatch(path, "object", raw)
		}
		return checkObject(path, obj, t)
	case reflect.Slice:
		arr, ok := raw.([]interface{})
		if !ok {
			return typeMismatch(path, "array", raw)
		}
		for i, elem := range arr {
			elemPath := fmt.Sprintf("%s[%d]", path, i)
			if elem == nil {
				return NewError(elemPath, "array elements must not be null")
			}
			if err := checkValue(elemPath, elem, t.Elem()); err != nil {
				return err
			}
		}
	case reflect.String:
		if _, ok := raw.(string); !ok {
			return typeMismatch(path, "string", raw)
		}
	case reflect.Bool:
		if _, ok := raw.(bool); !ok {
			return typeMismatch(path, "boolean", raw)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		num, ok := raw.(json.Number)
		if !ok {
			return typeMismatch(path, "integer", raw)
		}
		if _, err := num.Int64(); err != nil {
			return NewError(path, "expected integer; got %s", num)
		}
	case reflect.Float32, reflect.Float64:
		num, ok := raw.(json.Number)
		if !ok {
			return typeMismatch(path, "number", raw)
		}
		if _, err := num.Float64(); err != nil {
			return NewError(path, "expected number; got %s", num)
		}
	default:
		return errors.Errorf("unsupported schema field type %s at %s", t, path)
	}
	return nil
}

func checkObject(path string, obj map[string]interface{}, t reflect.Type) error {
	fields, err := fieldsOf(t)
	if err != nil {
		return errors.Trace(err)
	}

	keys := make([]string, 0, len(obj))
	for key := range obj {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, known := fields.byKey[key]; !known {
			return NewError(path+"."+key, "unknown field")
		}
	}

	for _, f := range fields.list {
		fieldPath := path + "." + f.key
		val, present := obj[f.key]
		switch {
		case !present:
			if !f.optional {
				return NewError(fieldPath, "missing required field")
			}
		case val == nil:
			if !f.nullable {
				return NewError(fieldPath, "field must not be null")
			}
		default:
			if err := checkValue(fieldPath, val, f.typ); err != nil {
				return err
			}
		}
	}
	return nil
}

func typeMismatch(path, want string, got interface{}) error {
	return NewError(path, "expected %s; got %s", want, jsonKind(got))
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

type field struct {
	key      string
	typ      reflect.Type
	optional bool
	nullable bool
}

type fieldSet struct {
	list  []field
	byKey map[string]field
}

// fieldSets caches the parsed tags of each schema struct type.
var fieldSets sync.Map

func fieldsOf(t reflect.Type) (*fieldSet, error) {
	if cached, ok := fieldSets.Load(t); ok {
		return cached.(*fieldSet), nil
	}

	set := &fieldSet{byKey: make(map[string]field)}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}

		tags, err := structtag.Parse(string(sf.Tag))
		if err != nil {
			return nil, errors.Annotatef(err, "parsing tags of %s.%s", t.Name(), sf.Name)
		}
		jsonTag, err := tags.Get("json")
		if err != nil {
			return nil, errors.Errorf("field %s.%s has no json tag", t.Name(), sf.Name)
		}
		if jsonTag.Name == "-" {
			continue
		}

		f := field{key: jsonTag.Name, typ: sf.Type}
		if schemaTag, err := tags.Get("schema"); err == nil {
			for _, flag := range append([]string{schemaTag.Name}, schemaTag.Options...) {
				switch flag {
				case "optional":
					f.optional = true
				case "nullable":
					f.nullable = true
				default:
					return nil, errors.NotValidf("schema flag %q on %s.%s", flag, t.Name(), sf.Name)
				}
			}
		}

		if _, dup := set.byKey[f.key]; dup {
			return nil, errors.Errorf("duplicate document key %q in %s", f.key, t.Name())
		}
		set.list = append(set.list, f)
		set.byKey[f.key] = f
	}

	fieldSets.Store(t, set)
	return set, nil
}

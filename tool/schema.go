package tool

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	ai "github.com/spindleworks/spindle"
)

// SchemaFor generates a JSON Schema for T's fields, honoring struct tags:
//
//	Query string `json:"query" desc:"Search query" required:"true"`
//	Units string `json:"units" enum:"metric,imperial"`
//
// A non-struct T is an error. An empty struct yields an object schema with
// empty properties, which every provider accepts.
func SchemaFor[T any]() (json.RawMessage, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tool: schema generation requires a struct type, got %v", t)
	}

	b := ai.SchemaOf[T]()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		if desc := f.Tag.Get("desc"); desc != "" {
			b.Describe(name, desc)
		}
		if f.Tag.Get("required") == "true" {
			b.Require(name)
		}
		if enum := f.Tag.Get("enum"); enum != "" {
			b.Enum(name, strings.Split(enum, ",")...)
		}
	}
	return b.Build(), nil
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	schema, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return schema
}

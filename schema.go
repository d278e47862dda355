package spindle

import (
	"encoding/json"
	"reflect"
	"slices"
	"strings"
)

// SchemaBuilder constructs a JSON Schema for tool parameters by reflecting
// over a Go struct. Field names come from json tags; Go kinds map onto JSON
// Schema types. Descriptions, required markers, and enums are layered on
// with the fluent methods.
type SchemaBuilder struct {
	order    []string
	fields   map[string]*fieldSchema
	required []string
}

type fieldSchema struct {
	Type        string
	Description string
	Enum        []any
	Items       *fieldSchema
	Properties  map[string]any
	PropOrder   []string
	Required    []string
}

// SchemaOf creates a SchemaBuilder from a struct type. Non-struct types
// yield an empty object schema.
func SchemaOf[T any]() *SchemaBuilder {
	var zero T
	t := reflect.TypeOf(zero)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	b := &SchemaBuilder{fields: map[string]*fieldSchema{}}
	if t == nil || t.Kind() != reflect.Struct {
		return b
	}
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
		b.order = append(b.order, name)
		b.fields[name] = schemaForType(f.Type)
	}
	return b
}

func schemaForType(t reflect.Type) *fieldSchema {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return &fieldSchema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &fieldSchema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &fieldSchema{Type: "number"}
	case reflect.Bool:
		return &fieldSchema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &fieldSchema{Type: "array", Items: schemaForType(t.Elem())}
	case reflect.Struct:
		fs := &fieldSchema{Type: "object", Properties: map[string]any{}}
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
			fs.PropOrder = append(fs.PropOrder, name)
			fs.Properties[name] = schemaForType(f.Type).toMap()
		}
		return fs
	case reflect.Map:
		return &fieldSchema{Type: "object"}
	default:
		return &fieldSchema{Type: "string"}
	}
}

// Describe attaches a description to a field. Unknown fields are ignored.
func (b *SchemaBuilder) Describe(field, description string) *SchemaBuilder {
	if f, ok := b.fields[field]; ok {
		f.Description = description
	}
	return b
}

// Require marks fields as required.
func (b *SchemaBuilder) Require(fields ...string) *SchemaBuilder {
	for _, field := range fields {
		if _, ok := b.fields[field]; !ok {
			continue
		}
		if !slices.Contains(b.required, field) {
			b.required = append(b.required, field)
		}
	}
	return b
}

// Enum restricts a string field to a fixed set of values.
func (b *SchemaBuilder) Enum(field string, values ...string) *SchemaBuilder {
	if f, ok := b.fields[field]; ok {
		f.Enum = make([]any, len(values))
		for i, v := range values {
			f.Enum[i] = v
		}
	}
	return b
}

// Build renders the schema. A builder with no fields still produces an
// object schema with empty properties.
func (b *SchemaBuilder) Build() json.RawMessage {
	props := map[string]any{}
	for _, name := range b.order {
		props[name] = b.fields[name].toMap()
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(b.required) > 0 {
		schema["required"] = b.required
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return EmptyParameters
	}
	return data
}

func (f *fieldSchema) toMap() map[string]any {
	m := map[string]any{"type": f.Type}
	if f.Description != "" {
		m["description"] = f.Description
	}
	if len(f.Enum) > 0 {
		m["enum"] = f.Enum
	}
	if f.Items != nil {
		m["items"] = f.Items.toMap()
	}
	if f.Properties != nil {
		m["properties"] = f.Properties
	}
	if len(f.Required) > 0 {
		m["required"] = f.Required
	}
	return m
}

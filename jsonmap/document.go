package jsonmap

import (
	"fmt"
	"reflect"
)

// Document is implemented by types that serialise themselves into a JSON
// compatible map. Types that additionally provide a FieldMapping can use the
// ApplyMapping/ExtractMapping helpers to move values between their fields and
// differently named JSON attributes.
type Document interface {
	ToJSON() map[string]any
}

// Mapped is an optional extension of Document declaring a mapping from
// struct field names to JSON attribute names.
type Mapped interface {
	Document
	FieldMapping() map[string]string
}

// ExtractMapping copies values from a JSON map into the struct fields of doc
// according to the document's field mapping. Fields absent from the JSON map
// keep their current values. doc must be a pointer to a struct.
func ExtractMapping(doc Mapped, data map[string]any) error {
	value := reflect.ValueOf(doc)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("document must be a pointer to a struct, got %T", doc)
	}
	elem := value.Elem()

	for field, attribute := range doc.FieldMapping() {
		raw, ok := data[attribute]
		if !ok {
			continue
		}
		target := elem.FieldByName(field)
		if !target.IsValid() || !target.CanSet() {
			continue
		}
		source := reflect.ValueOf(raw)
		if !source.IsValid() {
			continue
		}
		if source.Type().AssignableTo(target.Type()) {
			target.Set(source)
		} else if source.Type().ConvertibleTo(target.Type()) {
			target.Set(source.Convert(target.Type()))
		}
	}
	return nil
}

// ApplyMapping serialises the mapped fields of doc into a JSON map, skipping
// zero-valued fields. doc may be a struct or a pointer to one.
func ApplyMapping(doc Mapped) map[string]any {
	value := reflect.ValueOf(doc)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}

	result := make(map[string]any)
	if value.Kind() != reflect.Struct {
		return result
	}

	for field, attribute := range doc.FieldMapping() {
		source := value.FieldByName(field)
		if !source.IsValid() || source.IsZero() {
			continue
		}
		result[attribute] = source.Interface()
	}
	return result
}

// ApplyUpdates copies the listed struct fields from update onto target. Both
// must be pointers to the same concrete type. Unknown field names are
// skipped.
func ApplyUpdates(target, update any, fields []string) error {
	targetValue := reflect.ValueOf(target)
	updateValue := reflect.ValueOf(update)

	if targetValue.Type() != updateValue.Type() {
		return fmt.Errorf("update type %T does not match target type %T", update, target)
	}
	if targetValue.Kind() != reflect.Ptr || targetValue.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to a struct, got %T", target)
	}

	targetElem := targetValue.Elem()
	updateElem := updateValue.Elem()

	for _, field := range fields {
		dst := targetElem.FieldByName(field)
		src := updateElem.FieldByName(field)
		if !dst.IsValid() || !src.IsValid() || !dst.CanSet() {
			continue
		}
		dst.Set(src)
	}
	return nil
}

// ListToJSON serialises a list of documents into a list of maps.
func ListToJSON[T Document](items []T) []map[string]any {
	result := make([]map[string]any, len(items))
	for i, item := range items {
		result[i] = item.ToJSON()
	}
	return result
}

// ListFromJSON deserialises a list of maps through the provided decode
// function.
func ListFromJSON[T any](items []map[string]any, decode func(map[string]any) (T, error)) ([]T, error) {
	result := make([]T, 0, len(items))
	for i, item := range items {
		doc, err := decode(item)
		if err != nil {
			return nil, fmt.Errorf("failed to decode item %d: %w", i, err)
		}
		result = append(result, doc)
	}
	return result, nil
}

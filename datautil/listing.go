package datautil

import "reflect"

// ListConstants returns the exported field names of a constant-listing
// struct, the enumeration pattern used for string constant groups. Accepts a
// struct or a pointer to one; anything else yields nil.
func ListConstants(listing any) []string {
	value := reflect.ValueOf(listing)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	structType := value.Type()
	var names []string
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		names = append(names, field.Name)
	}
	return names
}

// ListConstantValues returns the exported field values of a constant-listing
// struct, in declaration order.
func ListConstantValues(listing any) []any {
	value := reflect.ValueOf(listing)
	if value.Kind() == reflect.Ptr {
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return nil
	}

	structType := value.Type()
	var values []any
	for i := 0; i < structType.NumField(); i++ {
		if !structType.Field(i).IsExported() {
			continue
		}
		values = append(values, value.Field(i).Interface())
	}
	return values
}

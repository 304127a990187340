package util

import (
	"fmt"
	"reflect"
)

// IsStructInitialized returns an error naming the first zero valued field of
// the struct s points to. Fields tagged `wire:"-"` are skipped.
func IsStructInitialized(s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return fmt.Errorf("struct is nil")
		}
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct, got %s", v.Kind())
	}

	t := v.Type()
	for i := range v.NumField() {
		field := t.Field(i)
		if field.Tag.Get("wire") == "-" {
			continue
		}

		if v.Field(i).IsZero() {
			return fmt.Errorf("field %s is not initialized", field.Name)
		}
	}

	return nil
}

package postgres

import (
	"reflect"
	"sync"
)

// column is one db-tagged field, addressed by its index path so fields of
// embedded structs (entity.BaseCatalog) resolve with FieldByIndex.
type column struct {
	name  string
	index []int
}

// columnCache maps reflect.Type to []column.
var columnCache sync.Map

func columnsOf(t reflect.Type) []column {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}

	var cols []column
	if t.Kind() == reflect.Struct {
		cols = walkColumns(t, nil)
	}
	columnCache.Store(t, cols)
	return cols
}

func walkColumns(t reflect.Type, prefix []int) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			cols = append(cols, walkColumns(field.Type, path)...)
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		cols = append(cols, column{name: tag, index: path})
	}
	return cols
}

// ExtractDBColumns lists the "db" tags of T in declaration order, embedded
// structs flattened in place.
//
//	columns := ExtractDBColumns[supplier.Supplier]()
//	// ["id", "name", "phone", "email"]
func ExtractDBColumns[T any]() []string {
	cols := columnsOf(reflect.TypeOf((*T)(nil)).Elem())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap converts a struct (or pointer to one) into column → value,
// ready for squirrel SetMap. Non-structs yield nil.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	cols := columnsOf(rv.Type())
	res := make(map[string]any, len(cols))
	for _, c := range cols {
		res[c.name] = rv.FieldByIndex(c.index).Interface()
	}
	return res
}

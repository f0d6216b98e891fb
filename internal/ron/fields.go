package ron

import (
	"reflect"
	"strings"
	"sync"
)

type field struct {
	name      string
	index     []int
	omitEmpty bool
}

var fieldCache sync.Map // map[reflect.Type][]field

// cachedFields returns the encodable fields of struct type t named by their json tags.
// Fields of embedded structs are promoted unless an outer field already uses the name.
func cachedFields(t reflect.Type) []field {
	if f, ok := fieldCache.Load(t); ok {
		return f.([]field)
	}
	f, _ := fieldCache.LoadOrStore(t, typeFields(t, nil, map[reflect.Type]bool{}))
	return f.([]field)
}

func typeFields(t reflect.Type, prefix []int, visiting map[reflect.Type]bool) []field {
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var direct, promoted []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts, _ := strings.Cut(tag, ",")
		index := append(append([]int(nil), prefix...), i)

		if sf.Anonymous && name == "" {
			ft := sf.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				promoted = append(promoted, typeFields(ft, index, visiting)...)
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}
		if name == "" {
			name = sf.Name
		}
		direct = append(direct, field{
			name:      name,
			index:     index,
			omitEmpty: hasOption(opts, "omitempty"),
		})
	}

	seen := make(map[string]bool, len(direct))
	for _, f := range direct {
		seen[f.name] = true
	}
	out := direct
	for _, f := range promoted {
		if seen[f.name] {
			continue
		}
		seen[f.name] = true
		out = append(out, f)
	}
	return out
}

func hasOption(opts, want string) bool {
	for opts != "" {
		var o string
		o, opts, _ = strings.Cut(opts, ",")
		if o == want {
			return true
		}
	}
	return false
}

package ron

import (
	"fmt"
	"math"
	"reflect"
	"strings"
)

// JSON has no spelling for inf and NaN. Unmarshal sends them through encoding/json
// as null and then stores them into the decoded value with storeNonFinite.

func isNonFinite(f float64) bool { return math.IsInf(f, 0) || math.IsNaN(f) }

func hasNonFinite(node any) bool {
	switch n := node.(type) {
	case float64:
		return isNonFinite(n)
	case map[string]any:
		for _, v := range n {
			if hasNonFinite(v) {
				return true
			}
		}
	case []any:
		for _, v := range n {
			if hasNonFinite(v) {
				return true
			}
		}
	}
	return false
}

// withoutNonFinite returns node with every inf and NaN replaced by nil. Subtrees
// without them are shared, not copied.
func withoutNonFinite(node any) any {
	if !hasNonFinite(node) {
		return node
	}
	switch n := node.(type) {
	case float64:
		return nil
	case map[string]any:
		out := make(map[string]any, len(n))
		for k, v := range n {
			out[k] = withoutNonFinite(v)
		}
		return out
	case []any:
		out := make([]any, len(n))
		for i, v := range n {
			out[i] = withoutNonFinite(v)
		}
		return out
	}
	return node
}

// storeNonFinite walks dst alongside the parsed tree and assigns the inf and NaN
// values that encoding/json left out.
func storeNonFinite(dst reflect.Value, node any) error {
	if !hasNonFinite(node) {
		return nil
	}
	dst = indirect(dst)
	if dst.Kind() == reflect.Interface && !dst.IsNil() {
		if _, ok := node.(float64); !ok {
			return storeNonFinite(dst.Elem(), node)
		}
	}

	switch n := node.(type) {
	case float64:
		switch {
		case dst.Kind() == reflect.Float32 || dst.Kind() == reflect.Float64:
			dst.SetFloat(n)
		case dst.Kind() == reflect.Interface && dst.NumMethod() == 0:
			dst.Set(reflect.ValueOf(n))
		default:
			return fmt.Errorf("ron: cannot store %v into Go value of type %s", n, dst.Type())
		}
	case map[string]any:
		for k, v := range n {
			if err := storeMapEntry(dst, k, v); err != nil {
				return err
			}
		}
	case []any:
		if dst.Kind() != reflect.Slice && dst.Kind() != reflect.Array {
			return nil
		}
		for i, v := range n {
			if i >= dst.Len() {
				break
			}
			if err := storeNonFinite(dst.Index(i), v); err != nil {
				return err
			}
		}
	}
	return nil
}

func storeMapEntry(dst reflect.Value, key string, v any) error {
	if !hasNonFinite(v) {
		return nil
	}
	switch dst.Kind() {
	case reflect.Struct:
		f, ok := lookupField(dst.Type(), key)
		if !ok {
			return nil
		}
		fv, ok := fieldByIndexAlloc(dst, f.index)
		if !ok {
			return nil
		}
		return storeNonFinite(fv, v)
	case reflect.Map:
		if dst.Type().Key().Kind() != reflect.String {
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.MakeMap(dst.Type()))
		}
		mk := reflect.ValueOf(key).Convert(dst.Type().Key())
		elem := reflect.New(dst.Type().Elem()).Elem()
		if cur := dst.MapIndex(mk); cur.IsValid() {
			elem.Set(cur)
		}
		if err := storeNonFinite(elem, v); err != nil {
			return err
		}
		dst.SetMapIndex(mk, elem)
	}
	return nil
}

// lookupField matches key against the json field names of t, preferring an exact
// match over a case-insensitive one as encoding/json does.
func lookupField(t reflect.Type, key string) (field, bool) {
	fields := cachedFields(t)
	for _, f := range fields {
		if f.name == key {
			return f, true
		}
	}
	for _, f := range fields {
		if strings.EqualFold(f.name, key) {
			return f, true
		}
	}
	return field{}, false
}

// fieldByIndexAlloc is reflect.Value.FieldByIndex that allocates nil embedded pointers.
func fieldByIndexAlloc(v reflect.Value, index []int) (reflect.Value, bool) {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, false
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v, true
}

// indirect follows pointers, allocating nil ones.
func indirect(v reflect.Value) reflect.Value {
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			if !v.CanSet() {
				return v
			}
			v.Set(reflect.New(v.Type().Elem()))
		}
		v = v.Elem()
	}
	return v
}

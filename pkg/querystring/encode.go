// Package querystring flattens nested parameter sets into URL query strings
// using bracket notation for nested keys (parent[child]=value).
package querystring

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

type pair struct {
	key   string
	value string
}

// Encode serializes params in insertion order. Undefined values are omitted,
// nested sets recurse with the parent key as prefix. A nil value is written
// as an empty value ("key="), the same as "".
func Encode(params *Params) string {
	return EncodePrefix(params, "")
}

// EncodePrefix is Encode with every top-level key nested under prefix.
func EncodePrefix(params *Params, prefix string) string {
	if params == nil {
		return ""
	}

	var pairs []pair
	flattenParams(params, prefix, map[uintptr]struct{}{}, &pairs)

	return join(pairs)
}

// Values returns the flattened pairs as url.Values. Ordering across keys is
// lost; use Encode when order matters.
func Values(params *Params) url.Values {
	out := url.Values{}
	if params == nil {
		return out
	}

	var pairs []pair
	flattenParams(params, "", map[uintptr]struct{}{}, &pairs)
	for _, p := range pairs {
		out.Add(p.key, p.value)
	}
	return out
}

func join(pairs []pair) string {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.value))
	}
	return b.String()
}

func fullKey(prefix string, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "[" + key + "]"
}

// seen holds the identities of containers on the current recursion path.
// A container met again on that path is a cycle and is skipped.
// Copies of a Params share its values map, so the map is its identity.
func flattenParams(p *Params, prefix string, seen map[uintptr]struct{}, out *[]pair) {
	if p.values == nil {
		return
	}
	id := reflect.ValueOf(p.values).Pointer()
	if _, cyclic := seen[id]; cyclic {
		return
	}
	seen[id] = struct{}{}
	defer delete(seen, id)

	for _, key := range p.keys {
		flattenValue(p.values[key], fullKey(prefix, key), seen, out)
	}
}

func flattenValue(value any, key string, seen map[uintptr]struct{}, out *[]pair) {
	switch v := value.(type) {
	case undefinedValue:
		return
	case nil:
		*out = append(*out, pair{key: key})
		return
	case *Params:
		if v == nil {
			*out = append(*out, pair{key: key})
			return
		}
		flattenParams(v, key, seen, out)
		return
	case Params:
		flattenParams(&v, key, seen, out)
		return
	case string:
		*out = append(*out, pair{key: key, value: v})
		return
	case bool:
		*out = append(*out, pair{key: key, value: strconv.FormatBool(v)})
		return
	case fmt.Stringer:
		*out = append(*out, pair{key: key, value: v.String()})
		return
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			*out = append(*out, pair{key: key})
			return
		}
		flattenValue(rv.Elem().Interface(), key, seen, out)
	case reflect.Map:
		if rv.IsNil() {
			*out = append(*out, pair{key: key})
			return
		}
		flattenMap(rv, key, seen, out)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			*out = append(*out, pair{key: key})
			return
		}
		flattenSlice(rv, key, seen, out)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		*out = append(*out, pair{key: key, value: strconv.FormatInt(rv.Int(), 10)})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		*out = append(*out, pair{key: key, value: strconv.FormatUint(rv.Uint(), 10)})
	case reflect.Float32, reflect.Float64:
		*out = append(*out, pair{key: key, value: strconv.FormatFloat(rv.Float(), 'f', -1, 64)})
	case reflect.String:
		*out = append(*out, pair{key: key, value: rv.String()})
	case reflect.Bool:
		*out = append(*out, pair{key: key, value: strconv.FormatBool(rv.Bool())})
	default:
		*out = append(*out, pair{key: key, value: fmt.Sprint(value)})
	}
}

// Plain maps carry no order, so their keys are sorted to keep Encode pure.
func flattenMap(rv reflect.Value, prefix string, seen map[uintptr]struct{}, out *[]pair) {
	id := rv.Pointer()
	if _, cyclic := seen[id]; cyclic {
		return
	}
	seen[id] = struct{}{}
	defer delete(seen, id)

	keys := make([]string, 0, rv.Len())
	byName := make(map[string]reflect.Value, rv.Len())
	for _, k := range rv.MapKeys() {
		name := fmt.Sprint(k.Interface())
		keys = append(keys, name)
		byName[name] = k
	}
	sort.Strings(keys)

	for _, name := range keys {
		flattenValue(rv.MapIndex(byName[name]).Interface(), fullKey(prefix, name), seen, out)
	}
}

func flattenSlice(rv reflect.Value, prefix string, seen map[uintptr]struct{}, out *[]pair) {
	if rv.Kind() == reflect.Slice && rv.Len() > 0 {
		id := rv.Pointer()
		if _, cyclic := seen[id]; cyclic {
			return
		}
		seen[id] = struct{}{}
		defer delete(seen, id)
	}

	for i := 0; i < rv.Len(); i++ {
		flattenValue(rv.Index(i).Interface(), fullKey(prefix, strconv.Itoa(i)), seen, out)
	}
}

package metadata

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// GeometryOptions is the option bag handed to a geometry builder.
type GeometryOptions map[string]any

// Float returns the named option as a float32, or def when absent. A
// present value that is not a finite number is an error.
func (o GeometryOptions) Float(name string, def float32) (float32, error) {
	v, ok := o[name]
	if !ok || v == nil {
		return def, nil
	}
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint32:
		f = float64(n)
	case uint64:
		f = float64(n)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("option %q: %q is not a number", name, n)
		}
		f = parsed
	default:
		return 0, fmt.Errorf("option %q: unsupported type %T", name, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("option %q: not a finite number", name)
	}
	return float32(f), nil
}

// Positive is Float with an additional > 0 check.
func (o GeometryOptions) Positive(name string, def float32) (float32, error) {
	f, err := o.Float(name, def)
	if err != nil {
		return 0, err
	}
	if f <= 0 {
		return 0, fmt.Errorf("option %q: must be > 0, got %v", name, f)
	}
	return f, nil
}

// Int returns the named option rounded down to an int within [lo, hi].
func (o GeometryOptions) Int(name string, def, lo, hi int) (int, error) {
	f, err := o.Float(name, float32(def))
	if err != nil {
		return 0, err
	}
	i := int(f)
	if i < lo || i > hi {
		return 0, fmt.Errorf("option %q: %d outside [%d, %d]", name, i, lo, hi)
	}
	return i, nil
}

// StableKey serializes the options so that equal bags produce equal keys
// regardless of map iteration order.
func (o GeometryOptions) StableKey() string {
	var b strings.Builder
	writeStableKey(&b, map[string]any(o))
	return b.String()
}

func writeStableKey(b *strings.Builder, v any) {
	if v == nil {
		b.WriteString("<nil>")
		return
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Func:
		b.WriteString("<func>")
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
		}
		keys := lo.Keys(m)
		slices.Sort(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.Quote(k))
			b.WriteByte(':')
			writeStableKey(b, m[k])
		}
		b.WriteByte('}')
	case reflect.Slice, reflect.Array:
		b.WriteByte('[')
		for i := 0; i < rv.Len(); i++ {
			if i > 0 {
				b.WriteByte(',')
			}
			writeStableKey(b, rv.Index(i).Interface())
		}
		b.WriteByte(']')
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			b.WriteString("<nil>")
			return
		}
		writeStableKey(b, rv.Elem().Interface())
	case reflect.Float32, reflect.Float64:
		b.WriteString(strconv.FormatFloat(rv.Float(), 'g', -1, 64))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.String:
		b.WriteString(strconv.Quote(rv.String()))
	default:
		fmt.Fprintf(b, "%v", v)
	}
}

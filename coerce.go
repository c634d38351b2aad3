package logvision

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// encodeOptions are shared by every JSON encoding in the package: map keys
// are sorted so output is deterministic, and bad UTF-8 never fails a line.
var encodeOptions = json.JoinOptions(
	json.Deterministic(true),
	jsontext.AllowInvalidUTF8(true),
)

// Coerce renders one call argument as text. Strings, errors, Stringers and
// scalars use their plain text form; maps, slices, arrays, structs and
// pointers to them are encoded as compact JSON. A type with a String method
// renders through it even when it is a map or struct. Coerce never fails: a
// composite that cannot be encoded (a cycle, a func field) or an argument
// that panics while being rendered becomes "[unserializable <type>]".
func Coerce(arg any) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = fmt.Sprintf("[unserializable %T]", arg)
		}
	}()

	switch v := arg.(type) {
	case nil:
		return "null"
	case string:
		return v
	case []byte:
		return string(v)
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	}

	if !isComposite(reflect.ValueOf(arg)) {
		return fmt.Sprint(arg)
	}
	b, err := json.Marshal(arg, encodeOptions)
	if err != nil {
		return fallbackText(arg)
	}
	return string(b)
}

// fallbackText is the bounded stand-in for a value JSON rejected. Composites
// are never walked again, since %+v on a self-referencing map never returns.
func fallbackText(v any) string {
	if isComposite(reflect.ValueOf(v)) {
		return fmt.Sprintf("[unserializable %T]", v)
	}
	return fmt.Sprintf("%+v", v)
}

func isComposite(v reflect.Value) bool {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return true
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return true
	default:
		return false
	}
}

// JoinArgs coerces every argument and joins them with single spaces.
func JoinArgs(args []any) string {
	switch len(args) {
	case 0:
		return ""
	case 1:
		return Coerce(args[0])
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = Coerce(arg)
	}
	return strings.Join(parts, " ")
}

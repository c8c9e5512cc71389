package jsondoc

import "reflect"

// Object is a JSON object that remembers key order.
// Setting an existing key replaces its value in place; a new key is appended.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Len returns the number of members.
func (o *Object) Len() int {
	return len(o.keys)
}

// Keys returns the member names in document order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Set stores v under key.
func (o *Object) Set(key string, v any) {
	if o.values == nil {
		o.values = make(map[string]any)
	}
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// With is Set for building literals; it returns o.
func (o *Object) With(key string, v any) *Object {
	o.Set(key, v)
	return o
}

// Object returns the member under key when it is an object.
func (o *Object) Object(key string) (*Object, bool) {
	v, ok := o.values[key].(*Object)
	return v, ok
}

// Array returns the member under key when it is an array.
func (o *Object) Array(key string) ([]any, bool) {
	v, ok := o.values[key].([]any)
	return v, ok
}

// String returns the member under key when it is a string.
func (o *Object) String(key string) (string, bool) {
	v, ok := o.values[key].(string)
	return v, ok
}

// Plain converts a document value to the shapes encoding/json produces:
// *Object becomes map[string]any, recursively. Key order is lost.
func Plain(v any) any {
	switch x := v.(type) {
	case *Object:
		m := make(map[string]any, len(x.keys))
		for _, k := range x.keys {
			m[k] = Plain(x.values[k])
		}
		return m
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Plain(e)
		}
		return out
	default:
		return v
	}
}

// Equal reports whether a and b hold the same JSON value.
// Object member order is ignored; array order is not.
func Equal(a, b any) bool {
	return reflect.DeepEqual(Plain(a), Plain(b))
}

// Strings builds a []any of strings, the array shape documents use.
func Strings(s ...string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

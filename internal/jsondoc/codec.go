package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/pretty"
)

// filePermissions is the mode for written documents.
const filePermissions = 0644

// api is the json-iterator configuration shared by the codec.
// Numbers stay json.Number and strings are written without HTML escaping,
// so "->" in link keys survives a round trip.
var api = jsoniter.Config{
	EscapeHTML: false,
	UseNumber:  true,
}.Froze()

// layout is the on-disk indentation: two spaces, one member per line.
var layout = &pretty.Options{
	Width:  0,
	Prefix: "",
	Indent: "  ",
}

// Parse decodes a JSON document whose root is an object.
//
// Returns:
//   - *Object: The document with key order preserved
//   - error: ErrSyntax for invalid JSON or invalid UTF-8, ErrNotObject for a non-object root
func Parse(data []byte) (*Object, error) {
	if !json.Valid(data) {
		return nil, ErrSyntax
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: invalid UTF-8", ErrSyntax)
	}

	iter := jsoniter.ParseBytes(api, data)
	if iter.WhatIsNext() != jsoniter.ObjectValue {
		return nil, ErrNotObject
	}

	v := readValue(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, iter.Error)
	}

	obj, ok := v.(*Object)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// readValue reads the next value from iter into the document model.
func readValue(iter *jsoniter.Iterator) any {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		obj := NewObject()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			obj.Set(key, readValue(it))
			return it.Error == nil
		})
		return obj
	case jsoniter.ArrayValue:
		arr := []any{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			arr = append(arr, readValue(it))
			return it.Error == nil
		})
		return arr
	case jsoniter.StringValue:
		return iter.ReadString()
	case jsoniter.NumberValue:
		return iter.ReadNumber()
	case jsoniter.BoolValue:
		return iter.ReadBool()
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil
	default:
		iter.ReportError("readValue", "unexpected token")
		return nil
	}
}

// MarshalJSON writes the object compactly in key order.
func (o *Object) MarshalJSON() ([]byte, error) {
	stream := api.BorrowStream(nil)
	defer api.ReturnStream(stream)

	writeValue(stream, o)
	if stream.Error != nil {
		return nil, fmt.Errorf("encoding document: %w", stream.Error)
	}

	out := make([]byte, len(stream.Buffer()))
	copy(out, stream.Buffer())
	return out, nil
}

// writeValue appends v to stream.
func writeValue(stream *jsoniter.Stream, v any) {
	switch x := v.(type) {
	case *Object:
		stream.WriteObjectStart()
		for i, k := range x.keys {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(k)
			writeValue(stream, x.values[k])
		}
		stream.WriteObjectEnd()
	case []any:
		stream.WriteArrayStart()
		for i, e := range x {
			if i > 0 {
				stream.WriteMore()
			}
			writeValue(stream, e)
		}
		stream.WriteArrayEnd()
	case string:
		stream.WriteString(x)
	case json.Number:
		stream.WriteRaw(string(x))
	case bool:
		stream.WriteBool(x)
	case nil:
		stream.WriteNil()
	default:
		stream.WriteVal(x)
	}
}

// Encode renders the document in its on-disk form: two-space indentation
// and a trailing newline.
func Encode(o *Object) ([]byte, error) {
	compact, err := o.MarshalJSON()
	if err != nil {
		return nil, err
	}

	out := pretty.PrettyOptions(compact, layout)
	if !bytes.HasSuffix(out, []byte("\n")) {
		out = append(out, '\n')
	}
	return out, nil
}

// LoadFile reads and parses the document at path.
// It also returns the raw bytes so callers can compare against them.
func LoadFile(path string) (*Object, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}

	obj, err := Parse(data)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return obj, data, nil
}

// SaveFile encodes o and writes it to path, replacing any existing file.
func SaveFile(path string, o *Object) error {
	data, err := Encode(o)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

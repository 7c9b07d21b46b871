// Copyright [2019] LinkedIn Corp. Licensed under the Apache License, Version
// 2.0 (the "License"); you may not use this file except in compliance with the
// License.  You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.

package goavro

import (
	"encoding/json"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
)

// jsonAPI is jsoniter configured to preserve number precision (json.Number,
// same as encoding/json's Decoder.UseNumber) rather than collapsing every
// number to float64. union.go's own JSON-lenient union guesser
// (nativeAvroFromTextualJson) already streams with encoding/json's Decoder
// for the same reason; this package's value-JSON ingestion is the same
// algorithm lifted onto jsoniter as a drop-in encoding/json replacement for
// exactly this call shape.
var jsonAPI = jsoniter.Config{UseNumber: true}.Froze()

// FromString parses jsonText as Avro's JSON encoding of a value of this
// type and returns the decoded native Go value. It is a debugging
// convenience, not a streaming textual codec: it decodes the entire string
// as one JSON document, and non-whitespace data after that document is an
// error.
func (c *Codec) FromString(jsonText string) (interface{}, error) {
	value, rest, err := c.nativeFromTextual([]byte(jsonText))
	if err != nil {
		return nil, err
	}
	if len(trimSpace(rest)) != 0 {
		return nil, newArgumentError("cannot parse: trailing data after value")
	}
	return value, nil
}

// ToString renders datum as Avro's JSON encoding of a value of this type.
func (c *Codec) ToString(datum interface{}) (string, error) {
	buf, err := c.textualFromNative(nil, datum)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func trimSpace(buf []byte) []byte {
	i := 0
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\t', '\n', '\r':
			i++
			continue
		}
		break
	}
	return buf[i:]
}

// decodeJSONValue decodes the entirety of buf as one JSON document,
// preserving number precision via json.Number. This package does not
// attempt to report how many bytes of buf a nested value "actually" used;
// every nativeFromTextual entry point consumes the whole buffer.
func decodeJSONValue(buf []byte) (interface{}, error) {
	var v interface{}
	if err := jsonAPI.Unmarshal(buf, &v); err != nil {
		return nil, newDecodeError("cannot decode textual value: %s", err)
	}
	return v, nil
}

func jsonNumberToFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func nullNativeFromTextual(buf []byte) (interface{}, []byte, error) {
	v, err := decodeJSONValue(buf)
	if err != nil {
		return nil, buf, err
	}
	if v != nil {
		return nil, buf, newDecodeError("cannot decode textual null: expected JSON null")
	}
	return nil, nil, nil
}

func nullTextualFromNative(buf []byte, datum interface{}) ([]byte, error) {
	if datum != nil {
		return nil, newValidationError("cannot encode textual null: expected Go nil; received: %T", datum)
	}
	return append(buf, "null"...), nil
}

func booleanNativeFromTextual(buf []byte) (interface{}, []byte, error) {
	v, err := decodeJSONValue(buf)
	if err != nil {
		return nil, buf, err
	}
	b, ok := v.(bool)
	if !ok {
		return nil, buf, newDecodeError("cannot decode textual boolean: expected JSON true/false")
	}
	return b, nil, nil
}

func booleanTextualFromNative(buf []byte, datum interface{}) ([]byte, error) {
	b, ok := datum.(bool)
	if !ok {
		return nil, newValidationError("cannot encode textual boolean: expected Go bool; received: %T", datum)
	}
	if b {
		return append(buf, "true"...), nil
	}
	return append(buf, "false"...), nil
}

func intNativeFromTextual(buf []byte) (interface{}, []byte, error) {
	v, err := decodeJSONValue(buf)
	if err != nil {
		return nil, buf, err
	}
	f, ok := jsonNumberToFloat(v)
	if !ok || !isValidInt(f) {
		return nil, buf, newDecodeError("cannot decode textual int: expected JSON number in int range")
	}
	return int32(f), nil, nil
}

func longNativeFromTextual(buf []byte) (interface{}, []byte, error) {
	v, err := decodeJSONValue(buf)
	if err != nil {
		return nil, buf, err
	}
	f, ok := jsonNumberToFloat(v)
	if !ok || !isValidLong(f) {
		return nil, buf, newDecodeError("cannot decode textual long: expected JSON number in long range")
	}
	return int64(f), nil, nil
}

func floatNativeFromTextual(buf []byte) (interface{}, []byte, error) {
	v, err := decodeJSONValue(buf)
	if err != nil {
		return nil, buf, err
	}
	f, ok := jsonNumberToFloat(v)
	if !ok {
		return nil, buf, newDecodeError("cannot decode textual float: expected JSON number")
	}
	return float32(f), nil, nil
}

func doubleNativeFromTextual(buf []byte) (interface{}, []byte, error) {
	v, err := decodeJSONValue(buf)
	if err != nil {
		return nil, buf, err
	}
	f, ok := jsonNumberToFloat(v)
	if !ok {
		return nil, buf, newDecodeError("cannot decode textual double: expected JSON number")
	}
	return f, nil, nil
}

func numberTextualFromNative(buf []byte, datum interface{}) ([]byte, error) {
	f, ok := asFloat(datum)
	if !ok {
		return nil, newValidationError("cannot encode textual number: expected Go numeric; received: %T", datum)
	}
	return append(buf, strconv.FormatFloat(f, 'g', -1, 64)...), nil
}

// bytesNativeFromTextual decodes a JSON string whose code points (0-255)
// are the byte values.
func bytesNativeFromTextual(buf []byte) (interface{}, []byte, error) {
	v, err := decodeJSONValue(buf)
	if err != nil {
		return nil, buf, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, buf, newDecodeError("cannot decode textual bytes: expected JSON string")
	}
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 255 {
			return nil, buf, newDecodeError("cannot decode textual bytes: code point out of byte range: %d", r)
		}
		out = append(out, byte(r))
	}
	return out, nil, nil
}

func bytesTextualFromNative(buf []byte, datum interface{}) ([]byte, error) {
	var b []byte
	switch v := datum.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return nil, newValidationError("cannot encode textual bytes: expected Go []byte; received: %T", datum)
	}
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return stringTextualFromNative(buf, string(runes))
}

func stringNativeFromTextualValue(buf []byte) (interface{}, []byte, error) {
	v, err := decodeJSONValue(buf)
	if err != nil {
		return nil, buf, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, buf, newDecodeError("cannot decode textual string: expected JSON string")
	}
	return s, nil, nil
}

func stringTextualFromNativeValue(buf []byte, datum interface{}) ([]byte, error) {
	s, ok := datum.(string)
	if !ok {
		return nil, newValidationError("cannot encode textual string: expected Go string; received: %T", datum)
	}
	return stringTextualFromNative(buf, s)
}

// stringTextualFromNative JSON-quotes and escapes s, appending it to buf.
func stringTextualFromNative(buf []byte, s string) ([]byte, error) {
	quoted, err := json.Marshal(s)
	if err != nil {
		return nil, newValidationError("cannot encode textual string: %s", err)
	}
	return append(buf, quoted...), nil
}

// genericMapTextDecoder decodes a JSON object of exactly one key (the
// {branchTag: value} union-value wrapping convention) and dispatches the
// value to the matching branch codec named in codecFromName.
func genericMapTextDecoder(buf []byte, fields []*Field, codecFromName map[string]*Codec) (interface{}, []byte, error) {
	v, err := decodeJSONValue(buf)
	if err != nil {
		return nil, buf, err
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, buf, newDecodeError("cannot decode textual union: expected JSON object")
	}
	if len(m) != 1 {
		return nil, buf, newDecodeError("cannot decode textual union: expected exactly one key; got %d", len(m))
	}
	for key, raw := range m {
		c, ok := codecFromName[key]
		if !ok {
			return nil, buf, newDecodeError("cannot decode textual union: unknown branch: %q", key)
		}
		native, err := nativeFromJSONValue(c, raw)
		if err != nil {
			return nil, buf, fmt.Errorf("cannot decode textual union: %s", err)
		}
		return native, nil, nil
	}
	panic("unreachable")
}

// nativeFromJSONValue converts a value already decoded from JSON (strings,
// json.Number, bool, nil, []interface{}, map[string]interface{}) into c's
// native representation, recursing for the composite kinds. It exists so
// array/map/record/union decoding can work over one generic tree instead of
// re-slicing byte ranges for every nested element.
func nativeFromJSONValue(c *Codec, raw interface{}) (interface{}, error) {
	switch c.kind {
	case Null:
		if raw != nil {
			return nil, newDecodeError("cannot decode textual null: expected JSON null")
		}
		return nil, nil
	case Boolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, newDecodeError("cannot decode textual boolean: expected JSON true/false")
		}
		return b, nil
	case Int:
		f, ok := jsonNumberToFloat(raw)
		if !ok || !isValidInt(f) {
			return nil, newDecodeError("cannot decode textual int: expected JSON number in int range")
		}
		return int32(f), nil
	case Long:
		f, ok := jsonNumberToFloat(raw)
		if !ok || !isValidLong(f) {
			return nil, newDecodeError("cannot decode textual long: expected JSON number in long range")
		}
		return int64(f), nil
	case Float:
		f, ok := jsonNumberToFloat(raw)
		if !ok {
			return nil, newDecodeError("cannot decode textual float: expected JSON number")
		}
		return float32(f), nil
	case Double:
		f, ok := jsonNumberToFloat(raw)
		if !ok {
			return nil, newDecodeError("cannot decode textual double: expected JSON number")
		}
		return f, nil
	case Bytes, Fixed:
		s, ok := raw.(string)
		if !ok {
			return nil, newDecodeError("cannot decode textual bytes: expected JSON string")
		}
		out := make([]byte, 0, len(s))
		for _, r := range s {
			if r > 255 {
				return nil, newDecodeError("cannot decode textual bytes: code point out of byte range: %d", r)
			}
			out = append(out, byte(r))
		}
		if c.kind == Fixed && len(out) != c.size {
			return nil, newDecodeError("cannot decode textual fixed %q: expected %d bytes; got %d", c.FullName(), c.size, len(out))
		}
		return out, nil
	case String:
		s, ok := raw.(string)
		if !ok {
			return nil, newDecodeError("cannot decode textual string: expected JSON string")
		}
		return s, nil
	case Enum:
		s, ok := raw.(string)
		if !ok {
			return nil, newDecodeError("cannot decode textual enum %q: expected JSON string", c.FullName())
		}
		if _, ok := c.symbolIndex[s]; !ok {
			return nil, newDecodeError("cannot decode textual enum %q: unknown symbol: %q", c.FullName(), s)
		}
		return s, nil
	case Array:
		list, ok := raw.([]interface{})
		if !ok {
			return nil, newDecodeError("cannot decode textual array: expected JSON array")
		}
		out := make([]interface{}, len(list))
		for i, item := range list {
			v, err := nativeFromJSONValue(c.itemCodec, item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case Map:
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, newDecodeError("cannot decode textual map: expected JSON object")
		}
		out := make(map[string]interface{}, len(m))
		for k, item := range m {
			v, err := nativeFromJSONValue(c.valueCodec, item)
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case Record:
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, newDecodeError("cannot decode textual record %q: expected JSON object", c.FullName())
		}
		out := make(map[string]interface{}, len(c.fields))
		for _, f := range c.fields {
			item, present := m[f.Name]
			if !present {
				if !f.HasDefault {
					return nil, newDecodeError("cannot decode textual record %q: missing field: %q", c.FullName(), f.Name)
				}
				out[f.Name] = cloneDefault(f.Default)
				continue
			}
			v, err := nativeFromJSONValue(f.Type, item)
			if err != nil {
				return nil, fmt.Errorf("cannot decode textual record %q field %q: %s", c.FullName(), f.Name, err)
			}
			out[f.Name] = v
		}
		return out, nil
	case Union:
		if raw == nil {
			if _, ok := c.union.indexFromName["null"]; ok {
				return nil, nil
			}
			return nil, newDecodeError("cannot decode textual union: no null branch")
		}
		m, ok := raw.(map[string]interface{})
		if !ok || len(m) != 1 {
			return nil, newDecodeError("cannot decode textual union: expected single-key JSON object")
		}
		for key, item := range m {
			branch, ok := c.union.codecFromName[key]
			if !ok {
				return nil, newDecodeError("cannot decode textual union: unknown branch: %q", key)
			}
			v, err := nativeFromJSONValue(branch, item)
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{key: v}, nil
		}
		panic("unreachable")
	default:
		return nil, newDecodeError("cannot decode textual value: unsupported kind: %s", c.kind)
	}
}

// writeJSONValue appends the Avro JSON encoding of datum (assumed valid for
// c) to buf, recursing for composite kinds. Used by array/map/record/union
// TextualFromNative so nested values don't need their own buffer slicing.
func writeJSONValue(buf []byte, c *Codec, datum interface{}) ([]byte, error) {
	return c.textualFromNative(buf, datum)
}

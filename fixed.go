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
)

func buildCodecForFixed(st map[string]*Codec, enclosingNamespace string, schema map[string]interface{}) (*Codec, error) {
	nameStr, ok := schema["name"].(string)
	if !ok {
		return nil, newSchemaError(`fixed ought to have "name" key`)
	}
	n, err := newName(nameStr, namespaceOf(schema), enclosingNamespace)
	if err != nil {
		return nil, fmt.Errorf("cannot parse fixed name: %s", err)
	}
	if err := registerName(st, n); err != nil {
		return nil, err
	}

	rawSize, ok := schema["size"]
	if !ok {
		return nil, newSchemaError("fixed %q ought to have \"size\" key", n.fullName)
	}
	size, err := jsonNumberToInt(rawSize)
	if err != nil || size < 0 {
		return nil, newSchemaError("fixed %q ought to have non-negative integer size", n.fullName)
	}

	aliases, err := parseAliases(schema, enclosingNamespace)
	if err != nil {
		return nil, err
	}

	c := &Codec{
		kind:           Fixed,
		typeName:       n,
		aliases:        aliases,
		schemaOriginal: n.fullName,
		size:           size,
	}
	c.nativeFromBinary = func(buf []byte) (interface{}, []byte, error) {
		if len(buf) < size {
			return nil, buf, newDecodeError("cannot decode binary fixed %q: short buffer", n.fullName)
		}
		value := make([]byte, size)
		copy(value, buf[:size])
		return value, buf[size:], nil
	}
	c.binaryFromNative = func(buf []byte, datum interface{}) ([]byte, error) {
		b, ok := fixedBytesOf(datum)
		if !ok {
			return nil, newValidationError("cannot encode binary fixed %q: expected Go []byte; received: %T", n.fullName, datum)
		}
		if len(b) != size {
			return nil, newValidationError("cannot encode binary fixed %q: expected %d bytes; received %d", n.fullName, size, len(b))
		}
		return append(buf, b...), nil
	}
	c.nativeFromTextual = func(buf []byte) (interface{}, []byte, error) {
		v, err := decodeJSONValue(buf)
		if err != nil {
			return nil, buf, err
		}
		native, err := nativeFromJSONValue(c, v)
		return native, nil, err
	}
	c.textualFromNative = func(buf []byte, datum interface{}) ([]byte, error) {
		b, ok := fixedBytesOf(datum)
		if !ok || len(b) != size {
			return nil, newValidationError("cannot encode textual fixed %q: expected %d raw bytes; received: %T", n.fullName, size, datum)
		}
		runes := make([]rune, len(b))
		for i, by := range b {
			runes[i] = rune(by)
		}
		return stringTextualFromNative(buf, string(runes))
	}
	c.checkValid = func(datum interface{}) bool {
		b, ok := fixedBytesOf(datum)
		return ok && len(b) == size
	}
	c.skipBinary = func(buf []byte) ([]byte, error) {
		if len(buf) < size {
			return buf, newDecodeError("cannot skip binary fixed %q: short buffer", n.fullName)
		}
		return buf[size:], nil
	}

	st[n.fullName] = c
	return c, nil
}

func fixedBytesOf(datum interface{}) ([]byte, bool) {
	switch v := datum.(type) {
	case []byte:
		return v, true
	case string:
		return []byte(v), true
	default:
		return nil, false
	}
}

// jsonNumberToInt coerces a json.Number (or, defensively, a plain float64)
// decoded from schema JSON into an int, used for "size" and similar
// integer-valued schema keys.
func jsonNumberToInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, err
		}
		return int(i), nil
	case float64:
		return int(n), nil
	case int:
		return n, nil
	default:
		return 0, fmt.Errorf("expected integer; received: %T", v)
	}
}

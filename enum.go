// Copyright [2019] LinkedIn Corp. Licensed under the Apache License, Version
// 2.0 (the "License"); you may not use this file except in compliance with the
// License.  You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.

package goavro

import "fmt"

func buildCodecForEnum(st map[string]*Codec, enclosingNamespace string, schema map[string]interface{}) (*Codec, error) {
	nameStr, ok := schema["name"].(string)
	if !ok {
		return nil, newSchemaError(`enum ought to have "name" key`)
	}
	n, err := newName(nameStr, namespaceOf(schema), enclosingNamespace)
	if err != nil {
		return nil, fmt.Errorf("cannot parse enum name: %s", err)
	}
	if err := registerName(st, n); err != nil {
		return nil, err
	}

	rawSymbols, ok := schema["symbols"].([]interface{})
	if !ok || len(rawSymbols) == 0 {
		return nil, newSchemaError("enum %q ought to have non-empty \"symbols\" array", n.fullName)
	}
	symbols := make([]string, len(rawSymbols))
	symbolIndex := make(map[string]int, len(rawSymbols))
	for i, rs := range rawSymbols {
		s, ok := rs.(string)
		if !ok || !isValidSymbol(s) {
			return nil, newSchemaError("enum %q symbol %d ought to be valid Avro name: %v", n.fullName, i+1, rs)
		}
		if _, ok := symbolIndex[s]; ok {
			return nil, newSchemaError("enum %q ought to have unique symbols; duplicate: %q", n.fullName, s)
		}
		symbols[i] = s
		symbolIndex[s] = i
	}

	aliases, err := parseAliases(schema, enclosingNamespace)
	if err != nil {
		return nil, err
	}
	doc, _ := schema["doc"].(string)

	c := &Codec{
		kind:           Enum,
		typeName:       n,
		aliases:        aliases,
		doc:            doc,
		schemaOriginal: n.fullName,
		symbols:        symbols,
		symbolIndex:    symbolIndex,
	}
	c.nativeFromBinary = func(buf []byte) (interface{}, []byte, error) {
		datum, rest, err := longNativeFromBinary(buf)
		if err != nil {
			return nil, buf, fmt.Errorf("cannot decode binary enum %q: %s", n.fullName, err)
		}
		idx := datum.(int64)
		if idx < 0 || int(idx) >= len(symbols) {
			return nil, buf, newDecodeError("cannot decode binary enum %q: ordinal out of range: %d", n.fullName, idx)
		}
		return symbols[idx], rest, nil
	}
	c.binaryFromNative = func(buf []byte, datum interface{}) ([]byte, error) {
		s, ok := enumSymbolOf(datum)
		if !ok {
			return nil, newValidationError("cannot encode binary enum %q: expected Go string; received: %T", n.fullName, datum)
		}
		idx, ok := symbolIndex[s]
		if !ok {
			return nil, newValidationError("cannot encode binary enum %q: value ought to be member of symbols: %v; %q", n.fullName, symbols, s)
		}
		return longBinaryFromNative(buf, int64(idx))
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
		s, ok := enumSymbolOf(datum)
		if !ok {
			return nil, newValidationError("cannot encode textual enum %q: expected Go string; received: %T", n.fullName, datum)
		}
		if _, ok := symbolIndex[s]; !ok {
			return nil, newValidationError("cannot encode textual enum %q: value ought to be member of symbols: %v; %q", n.fullName, symbols, s)
		}
		return stringTextualFromNative(buf, s)
	}
	c.checkValid = func(datum interface{}) bool {
		s, ok := enumSymbolOf(datum)
		if !ok {
			return false
		}
		_, ok = symbolIndex[s]
		return ok
	}
	c.skipBinary = func(buf []byte) ([]byte, error) { return skipBinaryLong(buf) }

	st[n.fullName] = c
	return c, nil
}

// avroEnum lets a caller pass a richer Go type in place of a bare string for
// an enum-typed value, as long as it can name its own symbol.
type avroEnum interface {
	Str() string
}

func enumSymbolOf(datum interface{}) (string, bool) {
	switch v := datum.(type) {
	case string:
		return v, true
	case avroEnum:
		return v.Str(), true
	default:
		return "", false
	}
}

func registerName(st map[string]*Codec, n *name) error {
	if _, ok := primitiveNames[n.fullName]; ok {
		return newSchemaError("ought not redefine primitive type name: %q", n.fullName)
	}
	if _, ok := primitiveNames[n.short()]; ok && n.namespace == nullNamespace {
		return newSchemaError("ought not redefine primitive type name: %q", n.fullName)
	}
	if _, ok := st[n.fullName]; ok {
		return newSchemaError("ought not redefine name: %q", n.fullName)
	}
	return nil
}

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
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slices"
)

// codecInfo is a set of quick lookups; it holds all the lookup info needed
// to dispatch a union's branches by index or by branch tag (the branch tag
// is the primitive name, or the fully qualified name of a named type).
type codecInfo struct {
	allowedTypes   []string
	codecFromIndex []*Codec
	codecFromName  map[string]*Codec
	indexFromName  map[string]int
}

// makeCodecInfo takes the schema array and builds the lookup indices,
// rejecting a branch that is itself a union or that shares a branch tag
// with an earlier branch.
func makeCodecInfo(st map[string]*Codec, enclosingNamespace string, schemaArray []interface{}, cb *codecBuilder) (codecInfo, error) {
	allowedTypes := make([]string, len(schemaArray)) // used for error reporting when encoder receives invalid datum type
	codecFromIndex := make([]*Codec, len(schemaArray))
	codecFromName := make(map[string]*Codec, len(schemaArray))
	indexFromName := make(map[string]int, len(schemaArray))

	for i, unionMemberSchema := range schemaArray {
		unionMemberCodec, err := buildCodec(st, enclosingNamespace, unionMemberSchema, cb)
		if err != nil {
			return codecInfo{}, fmt.Errorf("union item %d ought to be valid Avro type: %s", i+1, err)
		}
		if unionMemberCodec.kind == Union {
			return codecInfo{}, newSchemaError("union item %d ought not itself be a union", i+1)
		}
		tag := unionMemberCodec.branchTag()
		if _, ok := indexFromName[tag]; ok {
			if tag == "null" {
				return codecInfo{}, newSchemaError(`union ought to have at most one "null" member`)
			}
			return codecInfo{}, newSchemaError("union item %d ought to be unique type: %s", i+1, tag)
		}
		allowedTypes[i] = tag
		codecFromIndex[i] = unionMemberCodec
		codecFromName[tag] = unionMemberCodec
		indexFromName[tag] = i
	}

	return codecInfo{
		allowedTypes:   allowedTypes,
		codecFromIndex: codecFromIndex,
		codecFromName:  codecFromName,
		indexFromName:  indexFromName,
	}, nil
}

func nativeFromBinary(cr *codecInfo) func(buf []byte) (interface{}, []byte, error) {
	return func(buf []byte) (interface{}, []byte, error) {
		decoded, rest, err := longNativeFromBinary(buf)
		if err != nil {
			return nil, buf, fmt.Errorf("cannot decode binary union: %s", err)
		}
		index := decoded.(int64) // longDecoder always returns int64, so elide error checking
		if index < 0 || index >= int64(len(cr.codecFromIndex)) {
			return nil, buf, newDecodeError("cannot decode binary union: index ought to be between 0 and %d; read index: %d", len(cr.codecFromIndex)-1, index)
		}
		c := cr.codecFromIndex[index]
		value, rest, err := c.nativeFromBinary(rest)
		if err != nil {
			return nil, buf, fmt.Errorf("cannot decode binary union item %d: %s", index+1, err)
		}
		if c.kind == Null {
			return nil, rest, nil
		}
		// Non-null union values are wrapped {branchTag: value}.
		return map[string]interface{}{c.branchTag(): value}, rest, nil
	}
}

func binaryFromNative(cr *codecInfo) func(buf []byte, datum interface{}) ([]byte, error) {
	return func(buf []byte, datum interface{}) ([]byte, error) {
		if datum == nil {
			index, ok := cr.indexFromName["null"]
			if !ok {
				return nil, newValidationError("cannot encode binary union: no member schema types support datum: allowed types: %v; received: nil", cr.allowedTypes)
			}
			return longBinaryFromNative(buf, index)
		}
		v, ok := datum.(map[string]interface{})
		if !ok || len(v) != 1 {
			return nil, newValidationError("cannot encode binary union: non-nil union values ought to be specified with Go map[string]interface{}, with single key equal to branch tag, and value equal to datum value: %v; received: %T", cr.allowedTypes, datum)
		}
		// will execute exactly once
		for key, value := range v {
			index, ok := cr.indexFromName[key]
			if !ok {
				return nil, newValidationError("cannot encode binary union: no member schema types support datum: allowed types: %v; received: %q", cr.allowedTypes, key)
			}
			c := cr.codecFromIndex[index]
			var err error
			buf, err = longBinaryFromNative(buf, index)
			if err != nil {
				return nil, err
			}
			return c.binaryFromNative(buf, value)
		}
		panic("unreachable: non-empty map always has a key")
	}
}

func skipBinaryUnion(cr *codecInfo) func(buf []byte) ([]byte, error) {
	return func(buf []byte) ([]byte, error) {
		decoded, rest, err := longNativeFromBinary(buf)
		if err != nil {
			return buf, err
		}
		index := decoded.(int64)
		if index < 0 || index >= int64(len(cr.codecFromIndex)) {
			return buf, newDecodeError("cannot skip binary union: index out of range: %d", index)
		}
		return cr.codecFromIndex[index].SkipBinary(rest)
	}
}

func checkValidUnion(cr *codecInfo) func(datum interface{}) bool {
	return func(datum interface{}) bool {
		if datum == nil {
			_, ok := cr.indexFromName["null"]
			return ok
		}
		v, ok := datum.(map[string]interface{})
		if !ok || len(v) != 1 {
			return false
		}
		for key, value := range v {
			c, ok := cr.codecFromName[key]
			if !ok {
				return false
			}
			return c.Valid(value)
		}
		return false
	}
}

func nativeFromTextual(c *Codec) func(buf []byte) (interface{}, []byte, error) {
	return func(buf []byte) (interface{}, []byte, error) {
		v, err := decodeJSONValue(buf)
		if err != nil {
			return nil, buf, err
		}
		native, err := nativeFromJSONValue(c, v)
		return native, nil, err
	}
}

func textualFromNative(cr *codecInfo) func(buf []byte, datum interface{}) ([]byte, error) {
	return func(buf []byte, datum interface{}) ([]byte, error) {
		if datum == nil {
			_, ok := cr.indexFromName["null"]
			if !ok {
				return nil, newValidationError("cannot encode textual union: no member schema types support datum: allowed types: %v; received: nil", cr.allowedTypes)
			}
			return append(buf, "null"...), nil
		}
		v, ok := datum.(map[string]interface{})
		if !ok || len(v) != 1 {
			return nil, newValidationError("cannot encode textual union: non-nil union values ought to be specified with Go map[string]interface{}, with single key equal to branch tag, and value equal to datum value: %v; received: %T", cr.allowedTypes, datum)
		}
		// will execute exactly once
		for key, value := range v {
			index, ok := cr.indexFromName[key]
			if !ok {
				return nil, newValidationError("cannot encode textual union: no member schema types support datum: allowed types: %v; received: %q", cr.allowedTypes, key)
			}
			buf = append(buf, '{')
			var err error
			buf, err = stringTextualFromNative(buf, key)
			if err != nil {
				return nil, fmt.Errorf("cannot encode textual union: %s", err)
			}
			buf = append(buf, ':')
			c := cr.codecFromIndex[index]
			buf, err = c.textualFromNative(buf, value)
			if err != nil {
				return nil, fmt.Errorf("cannot encode textual union: %s", err)
			}
			return append(buf, '}'), nil
		}
		panic("unreachable: non-empty map always has a key")
	}
}

func buildCodecForTypeDescribedBySlice(st map[string]*Codec, enclosingNamespace string, schemaArray []interface{}, cb *codecBuilder) (*Codec, error) {
	if len(schemaArray) == 0 {
		return nil, newSchemaError("union ought to have at least one member")
	}

	cr, err := makeCodecInfo(st, enclosingNamespace, schemaArray, cb)
	if err != nil {
		return nil, err
	}
	if n, _ := countOccurrences(cr.allowedTypes, "null"); n > 1 {
		return nil, newSchemaError(`union ought to have at most one "null" member`)
	}

	rv := &Codec{
		// NOTE: the union's own schemaOriginal is set to the first member's
		// type name, the branch a union field's default value must match
		// (record.go checks the default against codecFromIndex[0] itself).
		schemaOriginal: cr.codecFromIndex[0].schemaOriginal,

		typeName: &name{"union", nullNamespace},
		union:    &cr,
		kind:     Union,
	}
	rv.nativeFromBinary = nativeFromBinary(&cr)
	rv.binaryFromNative = binaryFromNative(&cr)
	rv.nativeFromTextual = nativeFromTextual(rv)
	rv.textualFromNative = textualFromNative(&cr)
	rv.skipBinary = skipBinaryUnion(&cr)
	rv.checkValid = checkValidUnion(&cr)
	return rv, nil
}

// Standard JSON
//
// The default Avro JSON encoding indicates union branches explicitly (a
// single-key object, or bare null). JSON in the wild differs in one
// critical way - unions: the avro spec requires unions to have their
// branch indicated, which means every value of a union type is actually
// sent as a small map {"string": "some string"} instead of simply as the
// value itself, which is how wild JSON looks.
// https://avro.apache.org/docs/current/spec.html#json_encoding
//
// To decode standard JSON into an Avro union, the incoming value has to be
// guessed into place: read the next JSON value, try to figure out which of
// the union's branch types it fits, and if so, wrap it into the map the
// rest of this package expects. The JSON is morphed on the way in; once
// native it stays wrapped like any other union value.
func buildCodecForTypeDescribedBySliceJSON(st map[string]*Codec, enclosingNamespace string, schemaArray []interface{}, cb *codecBuilder) (*Codec, error) {
	if len(schemaArray) == 0 {
		return nil, newSchemaError("union ought to have one or more members")
	}

	cr, err := makeCodecInfo(st, enclosingNamespace, schemaArray, cb)
	if err != nil {
		return nil, err
	}

	rv := &Codec{
		schemaOriginal: cr.codecFromIndex[0].schemaOriginal,
		typeName:       &name{"union", nullNamespace},
		union:          &cr,
		kind:           Union,
	}
	rv.nativeFromBinary = nativeFromBinary(&cr)
	rv.binaryFromNative = binaryFromNative(&cr)
	rv.nativeFromTextual = nativeAvroFromTextualJson(&cr)
	rv.textualFromNative = textualFromNative(&cr)
	rv.skipBinary = skipBinaryUnion(&cr)
	rv.checkValid = checkValidUnion(&cr)
	return rv, nil
}

func countOccurrences(haystack []string, needle string) (int, bool) {
	n := 0
	for _, h := range haystack {
		if h == needle {
			n++
		}
	}
	return n, n > 0
}

func checkAll(allowedTypes []string, cr *codecInfo, buf []byte) (interface{}, []byte, error) {
	for _, name := range cr.allowedTypes {
		if name == "null" {
			// skip null since we know we already got type float64
			continue
		}
		theCodec, ok := cr.codecFromName[name]
		if !ok {
			continue
		}
		rv, rb, err := theCodec.NativeFromTextual(buf)
		if err != nil {
			continue
		}
		return map[string]interface{}{name: rv}, rb, nil
	}
	return nil, buf, newDecodeError("could not decode any json data in input %v", string(buf))
}

// nativeAvroFromTextualJson peeks at the raw JSON shape to pick a branch: a
// JSON object is tried against map/record branches, a JSON number against
// the numeric branches sorted double, float, int, long so widening wins
// over narrowing when several are plausible.
func nativeAvroFromTextualJson(cr *codecInfo) func(buf []byte) (interface{}, []byte, error) {
	return func(buf []byte) (interface{}, []byte, error) {
		reader := bytes.NewReader(buf)
		dec := json.NewDecoder(reader)
		var m interface{}

		err := dec.Decode(&m)
		if err != nil {
			return nil, buf, err
		}

		allowedTypes := cr.allowedTypes

		switch m.(type) {
		case nil:
			if len(buf) >= 4 && bytes.Equal(buf[:4], []byte("null")) {
				if _, ok := cr.codecFromName["null"]; ok {
					return nil, buf[4:], nil
				}
			}
		case float64:
			// dec.Decode turns every number into float64. Avro knows about
			// int, long (variable length zig-zag) and float, double (32,
			// 64 bits). Sorted, that's double, float, int, long - which
			// makes the priorities (prefer widening) come out right.
			slices.Sort(cr.allowedTypes)
		case map[string]interface{}:
			// try to decode it as a map, since a map should fail faster
			// than a record if that fails assume record and return it
			slices.Sort(cr.allowedTypes)
		}

		return checkAll(allowedTypes, cr, buf)
	}
}

// Union wraps datum as name's branch of a union value, the shape every
// non-null union value takes.
func Union(name string, datum interface{}) map[string]interface{} {
	return map[string]interface{}{name: datum}
}

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
	"strings"
)

// Kind tags which of the fourteen Avro variants a Codec implements.
type Kind int

const (
	Null Kind = iota
	Boolean
	Int
	Long
	Float
	Double
	Bytes
	String
	Array
	Map
	Union
	Enum
	Fixed
	Record
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Boolean:
		return "boolean"
	case Int:
		return "int"
	case Long:
		return "long"
	case Float:
		return "float"
	case Double:
		return "double"
	case Bytes:
		return "bytes"
	case String:
		return "string"
	case Array:
		return "array"
	case Map:
		return "map"
	case Union:
		return "union"
	case Enum:
		return "enum"
	case Fixed:
		return "fixed"
	case Record:
		return "record"
	default:
		return "unknown"
	}
}

// Codec is one immutable node of the type graph: a single Avro type,
// together with its encode/decode/skip/validate functions. Every kind
// shares this one struct (a tagged variant), rather than an interface per
// kind, so the union/array/map/record builders can all hand back a plain
// *Codec and the rest of the package never has to type-switch on anything
// but the Kind field.
type Codec struct {
	kind Kind

	typeName *name
	aliases  []*name
	doc      string

	// schemaOriginal is the type's own name; a union carries its first
	// branch's. Nothing in this package reads it back: record field defaults
	// pick a union's first branch directly, and canonicalization works from
	// kind and typeName.
	schemaOriginal string

	// fixed
	size int

	// enum
	symbols     []string
	symbolIndex map[string]int

	// array
	itemCodec *Codec

	// map
	valueCodec *Codec

	// record
	fields []*Field

	// union
	union *codecInfo

	nativeFromBinary  func([]byte) (interface{}, []byte, error)
	binaryFromNative  func([]byte, interface{}) ([]byte, error)
	nativeFromTextual func([]byte) (interface{}, []byte, error)
	textualFromNative func([]byte, interface{}) ([]byte, error)
	skipBinary        func([]byte) ([]byte, error)
	checkValid        func(interface{}) bool

	resolvers map[*Codec]*resolver
}

// Field is one ordered, named member of a record.
type Field struct {
	Name       string
	Type       *Codec
	HasDefault bool
	Default    interface{}
	Aliases    []string
	index      int
}

// Kind reports which of the fourteen Avro variants c implements.
func (c *Codec) Kind() Kind { return c.kind }

// FullName is the fully qualified name of a named type (enum, fixed,
// record); it is the bare kind string for everything else.
func (c *Codec) FullName() string {
	if c.typeName == nil {
		return c.kind.String()
	}
	return c.typeName.fullName
}

// NativeFromBinary decodes one value of this type from the front of buf,
// returning the value and whatever of buf was not consumed.
func (c *Codec) NativeFromBinary(buf []byte) (interface{}, []byte, error) {
	return c.nativeFromBinary(buf)
}

// BinaryFromNative appends the binary encoding of datum to buf.
func (c *Codec) BinaryFromNative(buf []byte, datum interface{}) ([]byte, error) {
	return c.binaryFromNative(buf, datum)
}

// NativeFromTextual decodes one value of this type from the Avro JSON
// encoding at the front of buf.
func (c *Codec) NativeFromTextual(buf []byte) (interface{}, []byte, error) {
	return c.nativeFromTextual(buf)
}

// TextualFromNative appends the Avro JSON encoding of datum to buf.
func (c *Codec) TextualFromNative(buf []byte, datum interface{}) ([]byte, error) {
	return c.textualFromNative(buf, datum)
}

// SkipBinary advances past one binary-encoded value of this type without
// materializing it, returning whatever of buf remains.
func (c *Codec) SkipBinary(buf []byte) ([]byte, error) {
	if c.skipBinary != nil {
		return c.skipBinary(buf)
	}
	_, rest, err := c.nativeFromBinary(buf)
	return rest, err
}

// Valid reports whether datum could be encoded by this type without error.
// It never mutates buf; it is a dry run of BinaryFromNative.
func (c *Codec) Valid(datum interface{}) bool {
	if c.checkValid != nil {
		return c.checkValid(datum)
	}
	_, err := c.binaryFromNative(nil, datum)
	return err == nil
}

// ToBuffer allocates a fresh buffer, encodes datum into it, and returns the
// written slice. The internal reserve this starts from is not a shared
// mutable singleton: it is a plain local slice, freshly made on every call,
// so concurrent callers never share or race on it.
func (c *Codec) ToBuffer(datum interface{}) ([]byte, error) {
	buf := make([]byte, 0, 1024)
	return c.binaryFromNative(buf, datum)
}

// FromBuffer decodes one value of this type from buf. If res is non-nil it
// must have been produced by c.CreateResolver(writerType); buf is then
// assumed to hold a value encoded by that writer type instead of by c. If
// allowTrailing is false, any bytes left over after the value is decoded
// are treated as a DecodeError.
func (c *Codec) FromBuffer(buf []byte, res *resolver, allowTrailing bool) (interface{}, error) {
	var value interface{}
	var rest []byte
	var err error
	if res == nil {
		value, rest, err = c.nativeFromBinary(buf)
	} else {
		if res.reader != c {
			return nil, newArgumentError("cannot decode: resolver was not created by this type's CreateResolver")
		}
		value, rest, err = res.decode(buf)
	}
	if err != nil {
		return nil, err
	}
	if !allowTrailing && len(rest) != 0 {
		return nil, newDecodeError("cannot decode: %d trailing byte(s)", len(rest))
	}
	return value, nil
}

// codecBuilder lets a caller override how each raw-schema shape (bare
// string, JSON object, JSON array) is turned into a *Codec, the way the
// teacher's ExampleCustomCodec/ExampleJSONStringToTextual tests do to swap
// in the lenient-JSON union builder. typeHook, if set, is consulted before
// any shape-specific builder runs; see SchemaConfig.TypeHook.
type codecBuilder struct {
	forMap    func(st map[string]*Codec, enclosingNamespace string, schema map[string]interface{}, cb *codecBuilder) (*Codec, error)
	forString func(st map[string]*Codec, enclosingNamespace string, schema string, cb *codecBuilder) (*Codec, error)
	forSlice  func(st map[string]*Codec, enclosingNamespace string, schema []interface{}, cb *codecBuilder) (*Codec, error)
	typeHook  TypeHook
}

// TypeHook is invoked with the raw (already JSON-decoded) schema node
// before ordinary parsing builds a Codec for it. Returning ok==true short
// circuits normal parsing and uses the returned Codec instead.
type TypeHook func(rawSchema interface{}, enclosingNamespace string) (codec *Codec, ok bool)

// SchemaConfig customizes schema parsing: TypeHook lets a caller intercept
// arbitrary schema nodes (e.g. to attach application-specific logical
// types), Namespace seeds the enclosing namespace for top-level names that
// don't otherwise specify one.
type SchemaConfig struct {
	TypeHook  TypeHook
	Namespace string
}

var stdBuilders = &codecBuilder{
	forMap:    buildCodecForTypeDescribedByMap,
	forString: buildCodecForTypeDescribedByString,
	forSlice:  buildCodecForTypeDescribedBySlice,
}

var jsonBuilders = &codecBuilder{
	forMap:    buildCodecForTypeDescribedByMap,
	forString: buildCodecForTypeDescribedByString,
	forSlice:  buildCodecForTypeDescribedBySliceJSON,
}

// NewCodec parses schema (Avro schema JSON text) and returns its type
// graph's root Codec.
func NewCodec(schema string) (*Codec, error) {
	return NewCodecFrom(schema, stdBuilders)
}

// NewCodecForStandardJSON is like NewCodec, except the returned Codec's
// NativeFromTextual accepts ordinary (non-Avro) JSON for union-typed data,
// guessing which branch a bare value belongs to instead of requiring the
// {"branchName": value} wrapping. See union.go's nativeAvroFromTextualJson.
func NewCodecForStandardJSON(schema string) (*Codec, error) {
	return NewCodecFrom(schema, jsonBuilders)
}

// NewCodecFrom parses schema using cb's builder functions in place of the
// default ones; this is the hook NewCodecForStandardJSON uses to plug in
// the lenient-JSON union builder, generalized here to any shape override.
func NewCodecFrom(schema string, cb *codecBuilder) (*Codec, error) {
	return NewCodecWithConfig(schema, SchemaConfig{}, cb)
}

// NewCodecWithConfig is the full entry point: SchemaConfig carries an
// optional per-node typeHook and a seed namespace for top-level anonymous
// schemas.
func NewCodecWithConfig(schema string, cfg SchemaConfig, cb *codecBuilder) (*Codec, error) {
	if cb == nil {
		cb = stdBuilders
	}
	if cfg.TypeHook != nil {
		cb = &codecBuilder{forMap: cb.forMap, forString: cb.forString, forSlice: cb.forSlice, typeHook: cfg.TypeHook}
	}
	var raw interface{}
	dec := json.NewDecoder(strings.NewReader(schema))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, newSchemaError("cannot parse schema JSON: %s", err)
	}
	st := make(map[string]*Codec)
	return buildCodec(st, cfg.Namespace, raw, cb)
}

// buildCodec is the single dispatch point every recursive descent into a
// schema document passes through: it looks at the dynamic shape of the raw,
// already-JSON-decoded schema node and hands off to the builder in cb that
// knows how to turn that shape into a *Codec.
func buildCodec(st map[string]*Codec, enclosingNamespace string, schema interface{}, cb *codecBuilder) (*Codec, error) {
	if cb.typeHook != nil {
		if c, ok := cb.typeHook(schema, enclosingNamespace); ok {
			return c, nil
		}
	}
	switch v := schema.(type) {
	case string:
		return cb.forString(st, enclosingNamespace, v, cb)
	case map[string]interface{}:
		return cb.forMap(st, enclosingNamespace, v, cb)
	case []interface{}:
		return cb.forSlice(st, enclosingNamespace, v, cb)
	case *Codec:
		return v, nil
	case nil:
		return nil, newSchemaError("cannot build codec: schema ought not be nil")
	default:
		return nil, newSchemaError("cannot build codec: unexpected schema type: %T", schema)
	}
}

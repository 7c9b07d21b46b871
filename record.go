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

func buildCodecForRecord(st map[string]*Codec, enclosingNamespace string, schema map[string]interface{}, cb *codecBuilder) (*Codec, error) {
	nameStr, ok := schema["name"].(string)
	if !ok {
		return nil, newSchemaError(`record ought to have "name" key`)
	}
	n, err := newName(nameStr, namespaceOf(schema), enclosingNamespace)
	if err != nil {
		return nil, fmt.Errorf("cannot parse record name: %s", err)
	}
	if err := registerName(st, n); err != nil {
		return nil, err
	}

	aliases, err := parseAliases(schema, enclosingNamespace)
	if err != nil {
		return nil, err
	}
	doc, _ := schema["doc"].(string)

	// Register the (as yet fieldless) record before parsing its fields: a
	// field whose type is this record's own name, or an ancestor record's
	// name, must resolve to this same *Codec so the type graph can be
	// cyclic.
	c := &Codec{
		kind:           Record,
		typeName:       n,
		aliases:        aliases,
		doc:            doc,
		schemaOriginal: n.fullName,
	}
	st[n.fullName] = c

	rawFields, ok := schema["fields"].([]interface{})
	if !ok {
		return nil, newSchemaError("record %q ought to have \"fields\" array", n.fullName)
	}
	fields := make([]*Field, 0, len(rawFields))
	seen := make(map[string]bool, len(rawFields))
	for i, rf := range rawFields {
		fm, ok := rf.(map[string]interface{})
		if !ok {
			return nil, newSchemaError("record %q field %d ought to be a JSON object", n.fullName, i+1)
		}
		fname, ok := fm["name"].(string)
		if !ok || !isValidSymbol(fname) {
			return nil, newSchemaError("record %q field %d ought to have valid \"name\"", n.fullName, i+1)
		}
		if seen[fname] {
			return nil, newSchemaError("record %q ought to have unique field names; duplicate: %q", n.fullName, fname)
		}
		seen[fname] = true

		rawType, ok := fm["type"]
		if !ok {
			return nil, newSchemaError("record %q field %q ought to have \"type\"", n.fullName, fname)
		}
		fieldType, err := buildCodec(st, n.namespace, rawType, cb)
		if err != nil {
			return nil, fmt.Errorf("record %q field %q: %s", n.fullName, fname, err)
		}

		field := &Field{Name: fname, Type: fieldType, index: i}

		if rawDefault, hasDefault := fm["default"]; hasDefault {
			defaultType := fieldType
			branchName := ""
			if fieldType.kind == Union {
				if len(fieldType.union.codecFromIndex) == 0 {
					return nil, newSchemaError("record %q field %q: empty union cannot have a default", n.fullName, fname)
				}
				defaultType = fieldType.union.codecFromIndex[0]
				branchName = defaultType.branchTag()
			}
			native, err := nativeFromJSONValue(defaultType, rawDefault)
			if err != nil {
				return nil, fmt.Errorf("record %q field %q: invalid default: %s", n.fullName, fname, err)
			}
			if fieldType.kind == Union && branchName != "null" {
				native = map[string]interface{}{branchName: native}
			}
			field.HasDefault = true
			field.Default = native
		}

		if rawAliases, ok := fm["aliases"].([]interface{}); ok {
			for _, a := range rawAliases {
				if s, ok := a.(string); ok {
					field.Aliases = append(field.Aliases, s)
				}
			}
		}

		fields = append(fields, field)
	}
	c.fields = fields

	c.nativeFromBinary = func(buf []byte) (interface{}, []byte, error) {
		out := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			var value interface{}
			var err error
			value, buf, err = f.Type.nativeFromBinary(buf)
			if err != nil {
				return nil, buf, fmt.Errorf("cannot decode binary record %q field %q: %s", n.fullName, f.Name, err)
			}
			out[f.Name] = value
		}
		return out, buf, nil
	}

	c.binaryFromNative = func(buf []byte, datum interface{}) ([]byte, error) {
		m, err := recordValuesOf(datum)
		if err != nil {
			return nil, fmt.Errorf("cannot encode binary record %q: %s", n.fullName, err)
		}
		for _, f := range fields {
			value, present := m[f.Name]
			if !present {
				if !f.HasDefault {
					return nil, newValidationError("cannot encode binary record %q: missing field: %q", n.fullName, f.Name)
				}
				value = f.Default
			}
			buf, err = f.Type.binaryFromNative(buf, value)
			if err != nil {
				return nil, fmt.Errorf("cannot encode binary record %q field %q: %s", n.fullName, f.Name, err)
			}
		}
		return buf, nil
	}

	c.skipBinary = func(buf []byte) ([]byte, error) {
		var err error
		for _, f := range fields {
			buf, err = f.Type.SkipBinary(buf)
			if err != nil {
				return buf, err
			}
		}
		return buf, nil
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
		m, err := recordValuesOf(datum)
		if err != nil {
			return nil, fmt.Errorf("cannot encode textual record %q: %s", n.fullName, err)
		}
		buf = append(buf, '{')
		for i, f := range fields {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf, err = stringTextualFromNative(buf, f.Name)
			if err != nil {
				return nil, err
			}
			buf = append(buf, ':')
			value, present := m[f.Name]
			if !present {
				value = f.Default
			}
			buf, err = writeJSONValue(buf, f.Type, value)
			if err != nil {
				return nil, fmt.Errorf("cannot encode textual record %q field %q: %s", n.fullName, f.Name, err)
			}
		}
		return append(buf, '}'), nil
	}

	c.checkValid = func(datum interface{}) bool {
		m, err := recordValuesOf(datum)
		if err != nil {
			return false
		}
		for _, f := range fields {
			value, present := m[f.Name]
			if !present {
				if !f.HasDefault {
					return false
				}
				continue
			}
			if !f.Type.Valid(value) {
				return false
			}
		}
		return true
	}

	return c, nil
}

// branchTag is the key a union value is wrapped under when this codec is
// the active branch: the primitive name, or the fully qualified name of a
// named type.
func (c *Codec) branchTag() string {
	if c.typeName != nil {
		return c.typeName.fullName
	}
	return c.kind.String()
}

// recordValuesOf accepts a plain map[string]interface{}, or (reflectively)
// any map with string keys, as a record value.
func recordValuesOf(datum interface{}) (map[string]interface{}, error) {
	if m, ok := datum.(map[string]interface{}); ok {
		return m, nil
	}
	m, err := reflectToStringMap(datum)
	if err != nil {
		return nil, fmt.Errorf("expected Go map[string]interface{}; received: %T", datum)
	}
	return m, nil
}

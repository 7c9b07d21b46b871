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
	"fmt"

	"golang.org/x/exp/slices"
)

// buildCodecForTypeDescribedByString handles a bare-string schema node: it
// is either one of the eight primitive names, or a (possibly qualified)
// reference to a named type defined elsewhere in this same parse.
func buildCodecForTypeDescribedByString(st map[string]*Codec, enclosingNamespace string, s string, cb *codecBuilder) (*Codec, error) {
	if kind, ok := primitiveNames[s]; ok {
		return newPrimitiveCodec(kind), nil
	}
	n, err := newName(s, "", enclosingNamespace)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve reference: %s", err)
	}
	if c, ok := st[n.fullName]; ok {
		return c, nil
	}
	// an unqualified reference might still resolve against the null
	// namespace (top-level names), so try that before giving up.
	if c, ok := st[s]; ok {
		return c, nil
	}
	return nil, newSchemaError("unknown type name: %q", s)
}

// buildCodecForTypeDescribedByMap handles a JSON-object schema node:
// records, enums, fixed, arrays, maps, the {"type": <primitive>} spelling
// of a primitive, and a nested {"type": {...}} schema.
func buildCodecForTypeDescribedByMap(st map[string]*Codec, enclosingNamespace string, schema map[string]interface{}, cb *codecBuilder) (*Codec, error) {
	rawType, ok := schema["type"]
	if !ok {
		return nil, newSchemaError(`map schema ought to have "type" key: %v`, schema)
	}

	switch t := rawType.(type) {
	case map[string]interface{}:
		return buildCodec(st, enclosingNamespace, t, cb)
	case []interface{}:
		return buildCodec(st, enclosingNamespace, t, cb)
	case string:
		switch t {
		case "record", "error":
			return buildCodecForRecord(st, enclosingNamespace, schema, cb)
		case "enum":
			return buildCodecForEnum(st, enclosingNamespace, schema)
		case "fixed":
			return buildCodecForFixed(st, enclosingNamespace, schema)
		case "array":
			return buildCodecForArray(st, enclosingNamespace, schema, cb)
		case "map":
			return buildCodecForMap(st, enclosingNamespace, schema, cb)
		default:
			if kind, ok := primitiveNames[t]; ok {
				return newPrimitiveCodec(kind), nil
			}
			return buildCodecForTypeDescribedByString(st, enclosingNamespace, t, cb)
		}
	default:
		return nil, newSchemaError(`"type" key ought to be string, array, or object; received: %T`, rawType)
	}
}

// namespaceOf extracts the namespace a named-type schema map specifies, or
// "" when it specifies none (newName then falls back to the enclosing
// namespace).
func namespaceOf(schema map[string]interface{}) string {
	if v, ok := schema["namespace"].(string); ok {
		return v
	}
	return ""
}

// parseAliases reads the optional "aliases" key of a named-type schema,
// qualifying each one the same way its "name" is qualified.
func parseAliases(schema map[string]interface{}, enclosingNamespace string) ([]*name, error) {
	raw, ok := schema["aliases"]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, newSchemaError(`"aliases" ought to be an array of strings`)
	}
	ns := enclosingNamespace
	if nameStr, ok := schema["name"].(string); ok {
		if own, err := newName(nameStr, namespaceOf(schema), enclosingNamespace); err == nil {
			ns = own.namespace
		}
	}
	aliases := make([]*name, 0, len(list))
	for _, a := range list {
		s, ok := a.(string)
		if !ok {
			return nil, newSchemaError(`"aliases" ought to be an array of strings`)
		}
		n, err := newName(s, "", ns)
		if err != nil {
			return nil, err
		}
		aliases = append(aliases, n)
	}
	return aliases, nil
}

// hasAnyName reports whether full matches n itself or any of n's aliases;
// used by the resolver for writer/reader name compatibility.
func hasAnyName(n *name, aliases []*name, full string) bool {
	if n != nil && n.fullName == full {
		return true
	}
	return slices.ContainsFunc(aliases, func(a *name) bool { return a.fullName == full })
}

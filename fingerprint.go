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
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"strings"
)

// FingerprintType names a hashing algorithm Fingerprint can use.
type FingerprintType string

// Fingerprint algorithm constants. MD5 is the Avro spec's default; SHA256 is
// offered as the stronger alternative the spec also names.
const (
	MD5Fingerprint    FingerprintType = "MD5"
	SHA256Fingerprint FingerprintType = "SHA256"
)

// CanonicalSchema returns c's Avro Parsing Canonical Form: the type graph
// rendered back to single-line JSON with doc/aliases/defaults stripped,
// field order normalized to name/type/fields/symbols/items/values/size, and
// each name fully qualified only where its namespace differs from the
// enclosing one (see writeCanonical). Two schemas with the same canonical form are
// considered identical for fingerprinting purposes even if their original
// JSON differed in whitespace, key order, or documentation.
func (c *Codec) CanonicalSchema() string {
	var buf strings.Builder
	writeCanonical(&buf, c, make(map[string]bool), nullNamespace)
	return buf.String()
}

// Fingerprint hashes c's canonical schema with typ, returning the raw digest
// bytes.
func (c *Codec) Fingerprint(typ FingerprintType) ([]byte, error) {
	canon := []byte(c.CanonicalSchema())
	switch typ {
	case MD5Fingerprint:
		sum := md5.Sum(canon)
		return sum[:], nil
	case SHA256Fingerprint:
		sum := sha256.Sum256(canon)
		return sum[:], nil
	default:
		return nil, newArgumentError("cannot fingerprint schema: unknown algorithm: %q", typ)
	}
}

// writeCanonical appends c's canonical form to buf. defined tracks which
// named types have already been fully rendered in this document: the Avro
// spec requires a later reference to an already-defined name (self- or
// mutually-recursive records, or a type reused in more than one field) be
// written as just that name, or the canonical form of a cyclic schema would
// never terminate. enclosingNamespace is the namespace c.typeName inherits
// from its surrounding definition; a named type's canonical name is written
// qualified only when its own namespace differs from enclosingNamespace, and
// bare otherwise, per the parsing canonical form's name-qualification rule.
func writeCanonical(buf *strings.Builder, c *Codec, defined map[string]bool, enclosingNamespace string) {
	switch c.kind {
	case Null, Boolean, Int, Long, Float, Double, Bytes, String:
		buf.WriteByte('"')
		buf.WriteString(c.kind.String())
		buf.WriteByte('"')
	case Array:
		buf.WriteString(`{"type":"array","items":`)
		writeCanonical(buf, c.itemCodec, defined, enclosingNamespace)
		buf.WriteByte('}')
	case Map:
		buf.WriteString(`{"type":"map","values":`)
		writeCanonical(buf, c.valueCodec, defined, enclosingNamespace)
		buf.WriteByte('}')
	case Union:
		buf.WriteByte('[')
		for i, branch := range c.union.codecFromIndex {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeCanonical(buf, branch, defined, enclosingNamespace)
		}
		buf.WriteByte(']')
	case Fixed:
		name := canonicalName(c.typeName, enclosingNamespace)
		if defined[c.typeName.fullName] {
			fmt.Fprintf(buf, "%q", name)
			return
		}
		defined[c.typeName.fullName] = true
		fmt.Fprintf(buf, `{"name":%q,"type":"fixed","size":%d}`, name, c.size)
	case Enum:
		name := canonicalName(c.typeName, enclosingNamespace)
		if defined[c.typeName.fullName] {
			fmt.Fprintf(buf, "%q", name)
			return
		}
		defined[c.typeName.fullName] = true
		fmt.Fprintf(buf, `{"name":%q,"type":"enum","symbols":[`, name)
		for i, s := range c.symbols {
			if i > 0 {
				buf.WriteByte(',')
			}
			fmt.Fprintf(buf, "%q", s)
		}
		buf.WriteString("]}")
	case Record:
		name := canonicalName(c.typeName, enclosingNamespace)
		if defined[c.typeName.fullName] {
			fmt.Fprintf(buf, "%q", name)
			return
		}
		defined[c.typeName.fullName] = true
		fmt.Fprintf(buf, `{"name":%q,"type":"record","fields":[`, name)
		for i, f := range c.fields {
			if i > 0 {
				buf.WriteByte(',')
			}
			fmt.Fprintf(buf, `{"name":%q,"type":`, f.Name)
			writeCanonical(buf, f.Type, defined, c.typeName.namespace)
			buf.WriteByte('}')
		}
		buf.WriteString("]}")
	default:
		buf.WriteString(`"unknown"`)
	}
}

// canonicalName returns n's name as it should appear in canonical form:
// fully qualified when n's namespace differs from enclosingNamespace, and
// the short, unqualified name when they match.
func canonicalName(n *name, enclosingNamespace string) string {
	if n.namespace == enclosingNamespace {
		return n.short()
	}
	return n.fullName
}


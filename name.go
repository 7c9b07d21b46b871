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
	"regexp"
	"strings"
)

// nullNamespace is used for types that have no enclosing namespace, and for
// the handful of synthetic type names (e.g. "union") that never get looked
// up in the name table.
const nullNamespace = ""

// name is a fully qualified Avro name: the dot-joined namespace.shortName,
// split back out into its two parts so error messages and schema dumps can
// print either form.
type name struct {
	fullName  string
	namespace string
}

var identifierRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
var dottedNameRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// newName qualifies nameString against enclosingNamespace per the Avro
// naming rules: a dotted name is already fully qualified; an explicit
// namespace argument (from a schema's "namespace" key) wins over the
// enclosing one; otherwise the name inherits enclosingNamespace.
func newName(nameString, namespace, enclosingNamespace string) (*name, error) {
	if nameString == "" {
		return nil, newSchemaError("name ought to be non-empty string")
	}
	if !dottedNameRE.MatchString(nameString) {
		return nil, newSchemaError("name ought to be valid Avro identifier (possibly dotted): %q", nameString)
	}
	if idx := strings.LastIndexByte(nameString, '.'); idx >= 0 {
		// already qualified: the portion before the last dot is the namespace,
		// regardless of anything the caller passed in.
		return &name{fullName: nameString, namespace: nameString[:idx]}, nil
	}
	ns := namespace
	if ns == "" {
		ns = enclosingNamespace
	}
	if ns == "" {
		return &name{fullName: nameString, namespace: nullNamespace}, nil
	}
	return &name{fullName: ns + "." + nameString, namespace: ns}, nil
}

// short returns the unqualified portion of the name.
func (n *name) short() string {
	if idx := strings.LastIndexByte(n.fullName, '.'); idx >= 0 {
		return n.fullName[idx+1:]
	}
	return n.fullName
}

// isValidSymbol reports whether s matches the grammar required of enum
// symbols and record field names: [A-Za-z_][A-Za-z0-9_]*.
func isValidSymbol(s string) bool {
	return identifierRE.MatchString(s)
}

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

// category tags the error so callers can bucket it with the SchemaError,
// ValidationError, DecodeError, ResolveError and ArgumentError predicates
// without this package growing one struct type per failure mode.
type category int

const (
	categorySchema category = iota
	categoryValidation
	categoryDecode
	categoryResolve
	categoryArgument
)

func (c category) String() string {
	switch c {
	case categorySchema:
		return "schema"
	case categoryValidation:
		return "validation"
	case categoryDecode:
		return "decode"
	case categoryResolve:
		return "resolve"
	case categoryArgument:
		return "argument"
	default:
		return "unknown"
	}
}

// codecError is the one error kind this package raises. The message carries
// the detail; category exists only so a caller can distinguish buckets with
// the predicates below. An error that this package wraps with added context
// (fmt.Errorf, e.g. around a nested record field's error) is no longer a
// *codecError, and every predicate reports false for it.
type codecError struct {
	cat category
	msg string
}

func (e *codecError) Error() string { return e.msg }

func newSchemaError(format string, args ...interface{}) error {
	return &codecError{cat: categorySchema, msg: fmt.Sprintf(format, args...)}
}

func newValidationError(format string, args ...interface{}) error {
	return &codecError{cat: categoryValidation, msg: fmt.Sprintf(format, args...)}
}

func newDecodeError(format string, args ...interface{}) error {
	return &codecError{cat: categoryDecode, msg: fmt.Sprintf(format, args...)}
}

func newResolveError(format string, args ...interface{}) error {
	return &codecError{cat: categoryResolve, msg: fmt.Sprintf(format, args...)}
}

func newArgumentError(format string, args ...interface{}) error {
	return &codecError{cat: categoryArgument, msg: fmt.Sprintf(format, args...)}
}

// SchemaError reports that err was raised while parsing a schema (unknown
// type, duplicate name, invalid union, invalid default, duplicate field,
// primitive redefinition).
func SchemaError(err error) bool { return hasCategory(err, categorySchema) }

// ValidationError reports that err was raised because a value failed
// isValid during strict encode or clone.
func ValidationError(err error) bool { return hasCategory(err, categoryValidation) }

// DecodeError reports that err was raised while decoding binary or textual
// data (truncated input, bad boolean, overlong varint, unknown union
// branch, unknown enum ordinal, unexpected trailing bytes).
func DecodeError(err error) bool { return hasCategory(err, categoryDecode) }

// ResolveError reports that err was raised while compiling a resolver
// (incompatible schemas, ambiguous alias, missing reader field with no
// default).
func ResolveError(err error) bool { return hasCategory(err, categoryResolve) }

// ArgumentError reports that err was raised because of a caller mistake
// (wrong resolver passed to FromBuffer, unrecognized FromString input).
func ArgumentError(err error) bool { return hasCategory(err, categoryArgument) }

func hasCategory(err error, cat category) bool {
	ce, ok := err.(*codecError)
	return ok && ce.cat == cat
}

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

	"github.com/mohae/deepcopy"
)

// CloneOption adjusts Clone's behavior.
type CloneOption func(*cloneConfig)

type cloneConfig struct {
	coerceBuffers bool
	wrapUnions    bool
	fieldHook     func(recordName, fieldName string, value interface{}) interface{}
}

// CoerceBuffers, when passed to Clone, accepts a Go string wherever this
// type's schema expects bytes or fixed, converting it to a fresh []byte.
// Without this option, a string value where bytes/fixed is expected is a
// ValidationError.
func CoerceBuffers() CloneOption {
	return func(c *cloneConfig) { c.coerceBuffers = true }
}

// WrapUnions, when passed to Clone, accepts a bare (non-map) value wherever
// this type's schema expects a union, as long as exactly one branch's
// validator accepts it; the value is wrapped {branchTag: value} in the
// clone. A bare value matching zero or more than one branch is a
// ValidationError. Without this option, union values must already be
// wrapped.
func WrapUnions() CloneOption {
	return func(c *cloneConfig) { c.wrapUnions = true }
}

// FieldHook is invoked once per record field during Clone, and may return a
// replacement value (e.g. to redact a field, or to normalize a logical
// type); returning the value passed in leaves it unchanged.
func FieldHook(fn func(recordName, fieldName string, value interface{}) interface{}) CloneOption {
	return func(c *cloneConfig) { c.fieldHook = fn }
}

// Clone validates and deep-copies datum against c's schema, recursing into
// array items, map values, record fields, and union branches the way
// BinaryFromNative does. Unlike a plain structural copier, Clone knows
// Avro's shapes well enough to apply CoerceBuffers/WrapUnions and to invoke
// FieldHook per record field. The returned value is never the same
// reference as datum, but is equal to it by deep value once any requested
// coercion/wrapping has been applied.
func (c *Codec) Clone(datum interface{}, options ...CloneOption) (interface{}, error) {
	cfg := &cloneConfig{}
	for _, opt := range options {
		opt(cfg)
	}
	cloned, err := c.cloneValue(cfg, datum)
	if err != nil {
		return nil, err
	}
	if !c.Valid(cloned) {
		return nil, newValidationError("cannot clone %s: value is not valid for this type: %v", c.kind, cloned)
	}
	return cloned, nil
}

func (c *Codec) cloneValue(cfg *cloneConfig, datum interface{}) (interface{}, error) {
	switch c.kind {
	case Null, Boolean, Int, Long, Float, Double, String, Enum:
		return datum, nil
	case Bytes, Fixed:
		return c.cloneBuffer(cfg, datum)
	case Array:
		return c.cloneArray(cfg, datum)
	case Map:
		return c.cloneMap(cfg, datum)
	case Record:
		return c.cloneRecord(cfg, datum)
	case Union:
		return c.cloneUnion(cfg, datum)
	default:
		return datum, nil
	}
}

func (c *Codec) cloneBuffer(cfg *cloneConfig, datum interface{}) (interface{}, error) {
	switch v := datum.(type) {
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	case string:
		if !cfg.coerceBuffers {
			return nil, newValidationError("cannot clone %s: expected []byte; received string (pass CoerceBuffers to accept strings)", c.kind)
		}
		return []byte(v), nil
	default:
		return nil, newValidationError("cannot clone %s: expected []byte; received: %T", c.kind, datum)
	}
}

func (c *Codec) cloneArray(cfg *cloneConfig, datum interface{}) (interface{}, error) {
	items, err := toInterfaceSlice(datum)
	if err != nil {
		return nil, newValidationError("cannot clone array: %s", err)
	}
	if items == nil {
		return []interface{}(nil), nil
	}
	out := make([]interface{}, len(items))
	for i, item := range items {
		cv, err := c.itemCodec.cloneValue(cfg, item)
		if err != nil {
			return nil, fmt.Errorf("cannot clone array item %d: %s", i, err)
		}
		out[i] = cv
	}
	return out, nil
}

func (c *Codec) cloneMap(cfg *cloneConfig, datum interface{}) (interface{}, error) {
	m, err := toStringMap(datum)
	if err != nil {
		return nil, newValidationError("cannot clone map: %s", err)
	}
	if m == nil {
		return map[string]interface{}(nil), nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		cv, err := c.valueCodec.cloneValue(cfg, v)
		if err != nil {
			return nil, fmt.Errorf("cannot clone map key %q: %s", k, err)
		}
		out[k] = cv
	}
	return out, nil
}

func (c *Codec) cloneRecord(cfg *cloneConfig, datum interface{}) (interface{}, error) {
	m, err := toStringMap(datum)
	if err != nil {
		return nil, newValidationError("cannot clone record %q: %s", c.FullName(), err)
	}
	out := make(map[string]interface{}, len(c.fields))
	for _, f := range c.fields {
		fv, ok := m[f.Name]
		if !ok {
			if !f.HasDefault {
				return nil, newValidationError("cannot clone record %q: missing field: %q", c.FullName(), f.Name)
			}
			fv = cloneDefault(f.Default)
		}
		cv, err := f.Type.cloneValue(cfg, fv)
		if err != nil {
			return nil, fmt.Errorf("cannot clone record %q field %q: %s", c.FullName(), f.Name, err)
		}
		if cfg.fieldHook != nil {
			cv = cfg.fieldHook(c.FullName(), f.Name, cv)
		}
		out[f.Name] = cv
	}
	return out, nil
}

func (c *Codec) cloneUnion(cfg *cloneConfig, datum interface{}) (interface{}, error) {
	if datum == nil {
		if _, ok := c.union.codecFromName["null"]; ok {
			return nil, nil
		}
		return nil, newValidationError("cannot clone union: no member schema types support datum: allowed types: %v; received: nil", c.union.allowedTypes)
	}
	if m, ok := datum.(map[string]interface{}); ok {
		if len(m) != 1 {
			return nil, newValidationError("cannot clone union: value ought to be a single-key map naming the branch; received %d keys", len(m))
		}
		for k, v := range m {
			branch, ok := c.union.codecFromName[k]
			if !ok {
				return nil, newValidationError("cannot clone union: unknown branch: %q; allowed types: %v", k, c.union.allowedTypes)
			}
			cv, err := branch.cloneValue(cfg, v)
			if err != nil {
				return nil, fmt.Errorf("cannot clone union branch %q: %s", k, err)
			}
			return map[string]interface{}{k: cv}, nil
		}
	}
	if !cfg.wrapUnions {
		return nil, newValidationError("cannot clone union: non-nil union values ought to be specified with Go map[string]interface{}, with single key equal to branch tag, and value equal to datum value: %v; received: %T (pass WrapUnions to accept bare branch values)", c.union.allowedTypes, datum)
	}
	var matchName string
	var matchCodec *Codec
	matches := 0
	for _, name := range c.union.allowedTypes {
		if name == "null" {
			continue
		}
		branch := c.union.codecFromName[name]
		if branch.Valid(datum) {
			matches++
			matchName = name
			matchCodec = branch
		}
	}
	switch matches {
	case 0:
		return nil, newValidationError("cannot clone union: no branch matches bare value: %v (%T); allowed types: %v", datum, datum, c.union.allowedTypes)
	case 1:
		cv, err := matchCodec.cloneValue(cfg, datum)
		if err != nil {
			return nil, fmt.Errorf("cannot clone union branch %q: %s", matchName, err)
		}
		return map[string]interface{}{matchName: cv}, nil
	default:
		return nil, newValidationError("cannot clone union: bare value %v (%T) matches more than one branch ambiguously: %v", datum, datum, c.union.allowedTypes)
	}
}

// cloneDefault returns a copy of a record field's parsed default value safe
// to hand to a caller: defaults live once on the *Codec built at parse time,
// and every decode that fills a missing field with one must not let callers
// mutate that shared value out from under later decodes.
func cloneDefault(datum interface{}) interface{} {
	if datum == nil {
		return nil
	}
	return deepcopy.Copy(datum)
}

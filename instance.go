// Copyright [2019] LinkedIn Corp. Licensed under the Apache License, Version
// 2.0 (the "License"); you may not use this file except in compliance with the
// License.  You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.

package goavro

// Instance binds a record value to the *Codec that describes its shape, the
// way avroEnum lets a caller's own type stand in for a bare string wherever
// an enum value is expected. Where avroEnum generalizes one method (Str),
// Instance generalizes the whole encode/decode/validate/clone surface onto
// a single record value, so callers working with one record type at a time
// don't have to keep re-threading its *Codec through every call.
type Instance struct {
	codec  *Codec
	Values map[string]interface{}
}

// NewInstance binds values to c. c must be a record codec; values is not
// copied, so later mutation of the map is visible through the Instance.
func (c *Codec) NewInstance(values map[string]interface{}) (*Instance, error) {
	if c.kind != Record {
		return nil, newArgumentError("cannot create instance: expected record codec; received: %s", c.kind)
	}
	return &Instance{codec: c, Values: values}, nil
}

// IsValid reports whether every field of i.Values satisfies its codec.
func (i *Instance) IsValid() bool {
	return i.codec.Valid(i.Values)
}

// ToBuffer encodes i.Values as a fresh binary buffer.
func (i *Instance) ToBuffer() ([]byte, error) {
	return i.codec.ToBuffer(i.Values)
}

// ToString renders i.Values as Avro JSON.
func (i *Instance) ToString() (string, error) {
	return i.codec.ToString(i.Values)
}

// Clone returns a new Instance holding a deep copy of i.Values.
func (i *Instance) Clone(options ...CloneOption) (*Instance, error) {
	cloned, err := i.codec.Clone(i.Values, options...)
	if err != nil {
		return nil, err
	}
	return &Instance{codec: i.codec, Values: cloned.(map[string]interface{})}, nil
}

// FullName is i's record type's fully qualified name.
func (i *Instance) FullName() string {
	return i.codec.FullName()
}

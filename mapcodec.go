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

func buildCodecForMap(st map[string]*Codec, enclosingNamespace string, schema map[string]interface{}, cb *codecBuilder) (*Codec, error) {
	rawValues, ok := schema["values"]
	if !ok {
		return nil, newSchemaError(`map ought to have "values" key`)
	}
	valueCodec, err := buildCodec(st, enclosingNamespace, rawValues, cb)
	if err != nil {
		return nil, fmt.Errorf("map values ought to be valid Avro type: %s", err)
	}

	c := &Codec{kind: Map, schemaOriginal: "map", valueCodec: valueCodec}

	c.nativeFromBinary = func(buf []byte) (interface{}, []byte, error) {
		out := make(map[string]interface{})
		for {
			count, rest, err := longNativeFromBinary(buf)
			if err != nil {
				return nil, buf, fmt.Errorf("cannot decode binary map block count: %s", err)
			}
			buf = rest
			n := count.(int64)
			if n == 0 {
				break
			}
			if n < 0 {
				_, rest, err := longNativeFromBinary(buf)
				if err != nil {
					return nil, buf, fmt.Errorf("cannot decode binary map block size: %s", err)
				}
				buf = rest
				n = -n
			}
			if n > MaxBlockCount {
				return nil, buf, newDecodeError("cannot decode binary map: block count exceeds maximum: %d", n)
			}
			for i := int64(0); i < n; i++ {
				var key interface{}
				key, buf, err = stringNativeFromBinary(buf)
				if err != nil {
					return nil, buf, fmt.Errorf("cannot decode binary map key: %s", err)
				}
				var value interface{}
				value, buf, err = valueCodec.nativeFromBinary(buf)
				if err != nil {
					return nil, buf, fmt.Errorf("cannot decode binary map value for key %q: %s", key, err)
				}
				out[key.(string)] = value
			}
		}
		return out, buf, nil
	}

	c.binaryFromNative = func(buf []byte, datum interface{}) ([]byte, error) {
		m, err := toStringMap(datum)
		if err != nil {
			return nil, fmt.Errorf("cannot encode binary map: %s", err)
		}
		if len(m) > 0 {
			buf, err = longBinaryFromNative(buf, int64(len(m)))
			if err != nil {
				return nil, err
			}
			for _, k := range sortedKeys(m) {
				buf, err = stringBinaryFromNative(buf, k)
				if err != nil {
					return nil, err
				}
				buf, err = valueCodec.binaryFromNative(buf, m[k])
				if err != nil {
					return nil, fmt.Errorf("cannot encode binary map value for key %q: %s", k, err)
				}
			}
		}
		return longBinaryFromNative(buf, int64(0))
	}

	c.skipBinary = func(buf []byte) ([]byte, error) {
		for {
			count, rest, err := longNativeFromBinary(buf)
			if err != nil {
				return buf, err
			}
			buf = rest
			n := count.(int64)
			if n == 0 {
				break
			}
			if n < 0 {
				size, rest, err := longNativeFromBinary(buf)
				if err != nil {
					return buf, err
				}
				buf = rest
				blockBytes := size.(int64)
				if int64(len(buf)) < blockBytes {
					return buf, newDecodeError("cannot skip binary map: short buffer")
				}
				buf = buf[blockBytes:]
				continue
			}
			for i := int64(0); i < n; i++ {
				_, buf, err = stringNativeFromBinary(buf)
				if err != nil {
					return buf, err
				}
				buf, err = valueCodec.SkipBinary(buf)
				if err != nil {
					return buf, err
				}
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
		m, err := toStringMap(datum)
		if err != nil {
			return nil, fmt.Errorf("cannot encode textual map: %s", err)
		}
		buf = append(buf, '{')
		for i, k := range sortedKeys(m) {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf, err = stringTextualFromNative(buf, k)
			if err != nil {
				return nil, err
			}
			buf = append(buf, ':')
			buf, err = writeJSONValue(buf, valueCodec, m[k])
			if err != nil {
				return nil, fmt.Errorf("cannot encode textual map value for key %q: %s", k, err)
			}
		}
		return append(buf, '}'), nil
	}

	c.checkValid = func(datum interface{}) bool {
		m, err := toStringMap(datum)
		if err != nil {
			return false
		}
		for _, v := range m {
			if !valueCodec.Valid(v) {
				return false
			}
		}
		return true
	}

	return c, nil
}

func toStringMap(datum interface{}) (map[string]interface{}, error) {
	if datum == nil {
		return nil, nil
	}
	if m, ok := datum.(map[string]interface{}); ok {
		return m, nil
	}
	return reflectToStringMap(datum)
}

// sortedKeys gives map encoding a deterministic order: neither the binary
// nor the JSON Avro encoding cares about key order, but deterministic
// output makes round-trip tests reproducible.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

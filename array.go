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

func buildCodecForArray(st map[string]*Codec, enclosingNamespace string, schema map[string]interface{}, cb *codecBuilder) (*Codec, error) {
	rawItems, ok := schema["items"]
	if !ok {
		return nil, newSchemaError(`array ought to have "items" key`)
	}
	itemCodec, err := buildCodec(st, enclosingNamespace, rawItems, cb)
	if err != nil {
		return nil, fmt.Errorf("array items ought to be valid Avro type: %s", err)
	}

	c := &Codec{kind: Array, schemaOriginal: "array", itemCodec: itemCodec}

	c.nativeFromBinary = func(buf []byte) (interface{}, []byte, error) {
		var out []interface{}
		for {
			count, rest, err := longNativeFromBinary(buf)
			if err != nil {
				return nil, buf, fmt.Errorf("cannot decode binary array block count: %s", err)
			}
			buf = rest
			n := count.(int64)
			if n == 0 {
				break
			}
			if n < 0 {
				// negative count: a byte-length prefix follows, usable by a
				// reader to skip the block without decoding every item.
				_, rest, err := longNativeFromBinary(buf)
				if err != nil {
					return nil, buf, fmt.Errorf("cannot decode binary array block size: %s", err)
				}
				buf = rest
				n = -n
			}
			if n > MaxBlockCount {
				return nil, buf, newDecodeError("cannot decode binary array: block count exceeds maximum: %d", n)
			}
			for i := int64(0); i < n; i++ {
				var item interface{}
				item, buf, err = itemCodec.nativeFromBinary(buf)
				if err != nil {
					return nil, buf, fmt.Errorf("cannot decode binary array item %d: %s", len(out)+1, err)
				}
				out = append(out, item)
			}
		}
		return out, buf, nil
	}

	c.binaryFromNative = func(buf []byte, datum interface{}) ([]byte, error) {
		items, err := toInterfaceSlice(datum)
		if err != nil {
			return nil, fmt.Errorf("cannot encode binary array: %s", err)
		}
		if len(items) > 0 {
			var errEnc error
			buf, errEnc = longBinaryFromNative(buf, int64(len(items)))
			if errEnc != nil {
				return nil, errEnc
			}
			for i, item := range items {
				buf, err = itemCodec.binaryFromNative(buf, item)
				if err != nil {
					return nil, fmt.Errorf("cannot encode binary array item %d: %s", i+1, err)
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
					return buf, newDecodeError("cannot skip binary array: short buffer")
				}
				buf = buf[blockBytes:]
				continue
			}
			for i := int64(0); i < n; i++ {
				buf, err = itemCodec.SkipBinary(buf)
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
		items, err := toInterfaceSlice(datum)
		if err != nil {
			return nil, fmt.Errorf("cannot encode textual array: %s", err)
		}
		buf = append(buf, '[')
		for i, item := range items {
			if i > 0 {
				buf = append(buf, ',')
			}
			buf, err = writeJSONValue(buf, itemCodec, item)
			if err != nil {
				return nil, fmt.Errorf("cannot encode textual array item %d: %s", i+1, err)
			}
		}
		return append(buf, ']'), nil
	}

	c.checkValid = func(datum interface{}) bool {
		items, err := toInterfaceSlice(datum)
		if err != nil {
			return false
		}
		for _, item := range items {
			if !itemCodec.Valid(item) {
				return false
			}
		}
		return true
	}

	return c, nil
}

// toInterfaceSlice accepts []interface{} directly, and reflectively widens
// any other Go slice type, so callers aren't forced to pre-box every array
// value as []interface{}.
func toInterfaceSlice(datum interface{}) ([]interface{}, error) {
	if datum == nil {
		return nil, nil
	}
	if s, ok := datum.([]interface{}); ok {
		return s, nil
	}
	return reflectToInterfaceSlice(datum)
}

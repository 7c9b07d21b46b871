// Copyright [2019] LinkedIn Corp. Licensed under the Apache License, Version
// 2.0 (the "License"); you may not use this file except in compliance with the
// License.  You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.

package goavro

import "math"

var primitiveNames = map[string]Kind{
	"null":    Null,
	"boolean": Boolean,
	"int":     Int,
	"long":    Long,
	"float":   Float,
	"double":  Double,
	"bytes":   Bytes,
	"string":  String,
}

// newPrimitiveCodec builds a fresh Codec for one of the eight primitive
// kinds. Primitives are cheap enough, and few enough, that this package
// does not bother interning them across a parse; each reference gets its
// own immutable Codec value: buildCodecForTypeDescribedByString calls
// straight through to a dedicated constructor with no memoization beyond
// the name table's handling of named types.
func newPrimitiveCodec(kind Kind) *Codec {
	c := &Codec{kind: kind, schemaOriginal: kind.String()}
	switch kind {
	case Null:
		c.nativeFromBinary = nullNativeFromBinary
		c.binaryFromNative = nullBinaryFromNative
		c.nativeFromTextual = nullNativeFromTextual
		c.textualFromNative = nullTextualFromNative
		c.checkValid = func(v interface{}) bool { return v == nil }
	case Boolean:
		c.nativeFromBinary = booleanNativeFromBinary
		c.binaryFromNative = booleanBinaryFromNative
		c.nativeFromTextual = booleanNativeFromTextual
		c.textualFromNative = booleanTextualFromNative
		c.checkValid = func(v interface{}) bool { _, ok := v.(bool); return ok }
	case Int:
		c.nativeFromBinary = intNativeFromBinary
		c.binaryFromNative = intBinaryFromNative
		c.nativeFromTextual = intNativeFromTextual
		c.textualFromNative = numberTextualFromNative
		c.checkValid = isValidInt
	case Long:
		c.nativeFromBinary = longNativeFromBinary
		c.binaryFromNative = longBinaryFromNative
		c.nativeFromTextual = longNativeFromTextual
		c.textualFromNative = numberTextualFromNative
		c.checkValid = isValidLong
	case Float:
		c.nativeFromBinary = floatNativeFromBinary
		c.binaryFromNative = floatBinaryFromNative
		c.nativeFromTextual = floatNativeFromTextual
		c.textualFromNative = numberTextualFromNative
		c.checkValid = isValidFloat
	case Double:
		c.nativeFromBinary = doubleNativeFromBinary
		c.binaryFromNative = doubleBinaryFromNative
		c.nativeFromTextual = doubleNativeFromTextual
		c.textualFromNative = numberTextualFromNative
		c.checkValid = isValidFloat
	case Bytes:
		c.nativeFromBinary = bytesNativeFromBinary
		c.binaryFromNative = bytesBinaryFromNative
		c.nativeFromTextual = bytesNativeFromTextual
		c.textualFromNative = bytesTextualFromNative
		c.checkValid = isValidBytes
	case String:
		c.nativeFromBinary = stringNativeFromBinary
		c.binaryFromNative = stringBinaryFromNative
		c.nativeFromTextual = stringNativeFromTextualValue
		c.textualFromNative = stringTextualFromNativeValue
		c.checkValid = func(v interface{}) bool {
			_, ok := v.(string)
			if ok {
				return true
			}
			_, ok = v.([]byte)
			return ok
		}
	}
	c.skipBinary = func(buf []byte) ([]byte, error) {
		_, rest, err := c.nativeFromBinary(buf)
		return rest, err
	}
	return c
}

func isValidInt(v interface{}) bool {
	n, ok := asFloat(v)
	if !ok {
		return false
	}
	return n == math.Trunc(n) && n >= math.MinInt32 && n <= math.MaxInt32
}

func isValidLong(v interface{}) bool {
	n, ok := asFloat(v)
	if !ok {
		return false
	}
	const maxSafe = 1<<53 - 1
	return n == math.Trunc(n) && n >= -maxSafe && n <= maxSafe
}

func isValidFloat(v interface{}) bool {
	_, ok := asFloat(v)
	return ok
}

func isValidBytes(v interface{}) bool {
	_, ok := v.([]byte)
	return ok
}

// asFloat extracts a float64 view of any Go numeric kind this package
// accepts as datum input, used by the validators above; the binary/textual
// encoders each do their own type switch for precision-loss error messages,
// so this helper only needs to answer "is it numeric".
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

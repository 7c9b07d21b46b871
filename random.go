// Copyright [2019] LinkedIn Corp. Licensed under the Apache License, Version
// 2.0 (the "License"); you may not use this file except in compliance with the
// License.  You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.

package goavro

import "math/rand"

// Random returns an arbitrary native value that c.Valid would accept,
// useful for building round-trip tests (encode, decode, compare) without
// hand-writing a fixture for every schema shape. It is not part of the
// binary or textual codec contract; it makes no attempt to produce varied
// or representative data, only valid data, and recursion depth for
// self-referential records is bounded so it always terminates.
func (c *Codec) Random() interface{} {
	return randomOf(c, 0)
}

const randomMaxDepth = 5

func randomOf(c *Codec, depth int) interface{} {
	switch c.kind {
	case Null:
		return nil
	case Boolean:
		return rand.Intn(2) == 0
	case Int:
		return rand.Int31()
	case Long:
		return rand.Int63n(1 << 53)
	case Float:
		return rand.Float32()
	case Double:
		return rand.Float64()
	case Bytes:
		return randomBytes(1 + rand.Intn(8))
	case String:
		return randomString(1 + rand.Intn(8))
	case Fixed:
		return randomBytes(c.size)
	case Enum:
		return c.symbols[rand.Intn(len(c.symbols))]
	case Array:
		if depth >= randomMaxDepth {
			return []interface{}{}
		}
		n := rand.Intn(3)
		out := make([]interface{}, n)
		for i := range out {
			out[i] = randomOf(c.itemCodec, depth+1)
		}
		return out
	case Map:
		if depth >= randomMaxDepth {
			return map[string]interface{}{}
		}
		n := rand.Intn(3)
		out := make(map[string]interface{}, n)
		for i := 0; i < n; i++ {
			out[randomString(1+rand.Intn(6))] = randomOf(c.valueCodec, depth+1)
		}
		return out
	case Union:
		branch := c.union.codecFromIndex[rand.Intn(len(c.union.codecFromIndex))]
		if branch.kind == Null {
			return nil
		}
		return map[string]interface{}{branch.branchTag(): randomOf(branch, depth+1)}
	case Record:
		out := make(map[string]interface{}, len(c.fields))
		for _, f := range c.fields {
			if depth >= randomMaxDepth && f.HasDefault {
				out[f.Name] = cloneDefault(f.Default)
				continue
			}
			out[f.Name] = randomOf(f.Type, depth+1)
		}
		return out
	default:
		return nil
	}
}

func randomBytes(n int) []byte {
	b := make([]byte, n)
	rand.Read(b)
	return b
}

var randomAlphabet = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

func randomString(n int) string {
	r := make([]rune, n)
	for i := range r {
		r[i] = randomAlphabet[rand.Intn(len(randomAlphabet))]
	}
	return string(r)
}

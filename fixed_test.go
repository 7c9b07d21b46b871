// Copyright [2019] LinkedIn Corp. Licensed under the Apache License, Version
// 2.0 (the "License"); you may not use this file except in compliance with the
// License.  You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.

package goavro

import "testing"

func TestSchemaFixedInvalid(t *testing.T) {
	testSchemaInvalid(t, `{"type":"fixed","name":"f1"}`, `"size"`)
	testSchemaInvalid(t, `{"type":"fixed","name":"f1","size":-1}`, "non-negative")
}

func TestFixed(t *testing.T) {
	schema := `{"type":"fixed","name":"f1","size":4}`
	testBinaryCodecPass(t, schema, []byte("abcd"), []byte("abcd"))
	testBinaryEncodeFail(t, schema, []byte("abc"), "expected 4 bytes")
	testBinaryDecodeFailShortBuffer(t, schema, []byte("abc"))
	testTextCodecPass(t, schema, []byte("abcd"), []byte(`"abcd"`))
}

func TestFixedSkip(t *testing.T) {
	schema := `{"type":"record","name":"r1","fields":[
		{"name":"f1","type":{"type":"fixed","name":"fx","size":2}},
		{"name":"f2","type":"int"}
	]}`
	c, err := NewCodec(schema)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := c.BinaryFromNative(nil, map[string]interface{}{"f1": []byte("ab"), "f2": int32(3)})
	if err != nil {
		t.Fatal(err)
	}
	rest, err := c.SkipBinary(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 0 {
		t.Errorf("GOT: %d bytes remaining; WANT: 0", len(rest))
	}
}

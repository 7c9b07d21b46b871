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

func TestSchemaMapInvalid(t *testing.T) {
	testSchemaInvalid(t, `{"type":"map"}`, `"values"`)
}

func TestMap(t *testing.T) {
	schema := `{"type":"map","values":"string"}`
	testBinaryCodecPass(t, schema, map[string]interface{}{}, []byte{0})
	testBinaryCodecPass(t, schema, map[string]interface{}{"He": "Helium"}, []byte("\x02\x04He\x0cHelium\x00"))
	testTextCodecPass(t, schema, map[string]interface{}{"He": "Helium"}, []byte(`{"He":"Helium"}`))
}

func TestMapSortedKeysDeterministic(t *testing.T) {
	schema := `{"type":"map","values":"int"}`
	c, err := NewCodec(schema)
	if err != nil {
		t.Fatal(err)
	}
	datum := map[string]interface{}{"b": int32(2), "a": int32(1), "c": int32(3)}
	buf1, err := c.BinaryFromNative(nil, datum)
	if err != nil {
		t.Fatal(err)
	}
	buf2, err := c.BinaryFromNative(nil, datum)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf1) != string(buf2) {
		t.Errorf("expected deterministic map encoding; GOT: %v; WANT: %v", buf1, buf2)
	}
}

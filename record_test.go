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

func TestSchemaRecordInvalid(t *testing.T) {
	testSchemaInvalid(t, `{"type":"record","name":"r1"}`, `"fields"`)
	testSchemaInvalid(t, `{"type":"record","name":"r1","fields":[{"name":"f1","type":"string"},{"name":"f1","type":"int"}]}`, "unique field names")
}

func TestRecord(t *testing.T) {
	schema := `{"type":"record","name":"r1","fields":[
		{"name":"f1","type":"string"},
		{"name":"f2","type":"int"}
	]}`
	datum := map[string]interface{}{"f1": "foo", "f2": int32(3)}
	testBinaryCodecPass(t, schema, datum, []byte("\x06foo\x06"))
	testTextCodecPass(t, schema, datum, []byte(`{"f1":"foo","f2":3}`))
}

func TestRecordMissingFieldUsesDefault(t *testing.T) {
	schema := `{"type":"record","name":"r1","fields":[
		{"name":"f1","type":"string","default":"zz"},
		{"name":"f2","type":"int"}
	]}`
	c, err := NewCodec(schema)
	if err != nil {
		t.Fatal(err)
	}
	buf, err := c.BinaryFromNative(nil, map[string]interface{}{"f2": int32(7)})
	if err != nil {
		t.Fatal(err)
	}
	value, _, err := c.NativeFromBinary(buf)
	if err != nil {
		t.Fatal(err)
	}
	m := value.(map[string]interface{})
	if m["f1"] != "zz" {
		t.Errorf("GOT: %v; WANT: %v", m["f1"], "zz")
	}
}

func TestRecordMissingFieldNoDefaultFails(t *testing.T) {
	schema := `{"type":"record","name":"r1","fields":[{"name":"f1","type":"string"}]}`
	c, err := NewCodec(schema)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.BinaryFromNative(nil, map[string]interface{}{})
	ensureError(t, err, "missing field")
}

func TestRecordSelfReferential(t *testing.T) {
	schema := `{"type":"record","name":"LongList","fields":[
		{"name":"value","type":"long"},
		{"name":"next","type":["null","LongList"],"default":null}
	]}`
	c, err := NewCodec(schema)
	if err != nil {
		t.Fatal(err)
	}
	datum := map[string]interface{}{
		"value": int64(1),
		"next": Union("LongList", map[string]interface{}{
			"value": int64(2),
			"next":  nil,
		}),
	}
	buf, err := c.BinaryFromNative(nil, datum)
	if err != nil {
		t.Fatal(err)
	}
	value, rest, err := c.NativeFromBinary(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(rest) != 0 {
		t.Errorf("GOT: %d trailing bytes; WANT: 0", len(rest))
	}
	m := value.(map[string]interface{})
	if m["value"] != int64(1) {
		t.Errorf("GOT: %v; WANT: %v", m["value"], int64(1))
	}
}

func TestRecordDefaultUnionFirstBranch(t *testing.T) {
	schema := `{"type":"record","name":"r1","fields":[
		{"name":"f1","type":["string","null"],"default":"abc"}
	]}`
	c, err := NewCodec(schema)
	if err != nil {
		t.Fatal(err)
	}
	if !c.fields[0].HasDefault {
		t.Fatal("expected field to have default")
	}
	want := Union("string", "abc")
	got, ok := c.fields[0].Default.(map[string]interface{})
	if !ok {
		t.Fatalf("GOT: %T; WANT: map[string]interface{}", c.fields[0].Default)
	}
	if got["string"] != want["string"] {
		t.Errorf("GOT: %v; WANT: %v", got, want)
	}
}

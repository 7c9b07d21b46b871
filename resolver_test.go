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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolverIntToLongPromotion(t *testing.T) {
	writer, err := NewCodec(`"int"`)
	require.NoError(t, err)
	reader, err := NewCodec(`"long"`)
	require.NoError(t, err)

	res, err := reader.CreateResolver(writer)
	require.NoError(t, err)

	buf, err := writer.BinaryFromNative(nil, int32(42))
	require.NoError(t, err)

	value, err := reader.FromBuffer(buf, res, false)
	require.NoError(t, err)
	require.Equal(t, int64(42), value)
}

func TestResolverLongToIntRejected(t *testing.T) {
	writer, err := NewCodec(`"long"`)
	require.NoError(t, err)
	reader, err := NewCodec(`"int"`)
	require.NoError(t, err)

	_, err = reader.CreateResolver(writer)
	require.Error(t, err)
	require.True(t, ResolveError(err))
}

func TestResolverStringBytesPromotion(t *testing.T) {
	writer, err := NewCodec(`"string"`)
	require.NoError(t, err)
	reader, err := NewCodec(`"bytes"`)
	require.NoError(t, err)

	res, err := reader.CreateResolver(writer)
	require.NoError(t, err)

	buf, err := writer.BinaryFromNative(nil, "hello")
	require.NoError(t, err)

	value, err := reader.FromBuffer(buf, res, false)
	require.NoError(t, err)
	require.Equal(t, []byte("hello"), value)
}

func TestResolverRecordFieldAddedWithDefault(t *testing.T) {
	writer, err := NewCodec(`{"type":"record","name":"r1","fields":[{"name":"f1","type":"string"}]}`)
	require.NoError(t, err)
	reader, err := NewCodec(`{"type":"record","name":"r1","fields":[
		{"name":"f1","type":"string"},
		{"name":"f2","type":"int","default":7}
	]}`)
	require.NoError(t, err)

	res, err := reader.CreateResolver(writer)
	require.NoError(t, err)

	buf, err := writer.BinaryFromNative(nil, map[string]interface{}{"f1": "hi"})
	require.NoError(t, err)

	value, err := reader.FromBuffer(buf, res, false)
	require.NoError(t, err)
	m := value.(map[string]interface{})
	require.Equal(t, "hi", m["f1"])
	require.Equal(t, int32(7), m["f2"])
}

func TestResolverRecordFieldRemovedIsSkipped(t *testing.T) {
	writer, err := NewCodec(`{"type":"record","name":"r1","fields":[
		{"name":"f1","type":"string"},
		{"name":"f2","type":"int"}
	]}`)
	require.NoError(t, err)
	reader, err := NewCodec(`{"type":"record","name":"r1","fields":[{"name":"f1","type":"string"}]}`)
	require.NoError(t, err)

	res, err := reader.CreateResolver(writer)
	require.NoError(t, err)

	buf, err := writer.BinaryFromNative(nil, map[string]interface{}{"f1": "hi", "f2": int32(99)})
	require.NoError(t, err)

	value, err := reader.FromBuffer(buf, res, false)
	require.NoError(t, err)
	m := value.(map[string]interface{})
	require.Equal(t, "hi", m["f1"])
	require.Len(t, m, 1)
}

func TestResolverRecordFieldNoDefaultFails(t *testing.T) {
	writer, err := NewCodec(`{"type":"record","name":"r1","fields":[{"name":"f1","type":"string"}]}`)
	require.NoError(t, err)
	reader, err := NewCodec(`{"type":"record","name":"r1","fields":[
		{"name":"f1","type":"string"},
		{"name":"f2","type":"int"}
	]}`)
	require.NoError(t, err)

	_, err = reader.CreateResolver(writer)
	require.Error(t, err)
	require.True(t, ResolveError(err))
}

func TestResolverEnumUnknownSymbolDeferredToDecode(t *testing.T) {
	writer, err := NewCodec(`{"type":"enum","name":"e1","symbols":["a","b","c"]}`)
	require.NoError(t, err)
	reader, err := NewCodec(`{"type":"enum","name":"e1","symbols":["a","b"]}`)
	require.NoError(t, err)

	res, err := reader.CreateResolver(writer)
	require.NoError(t, err)

	buf, err := writer.BinaryFromNative(nil, "c")
	require.NoError(t, err)

	_, err = reader.FromBuffer(buf, res, false)
	require.Error(t, err)
	require.True(t, DecodeError(err))
}

func TestResolverUnionWriterToNonUnionReader(t *testing.T) {
	writer, err := NewCodec(`["int","long"]`)
	require.NoError(t, err)
	reader, err := NewCodec(`"long"`)
	require.NoError(t, err)

	res, err := reader.CreateResolver(writer)
	require.NoError(t, err)

	buf, err := writer.BinaryFromNative(nil, Union("int", int32(5)))
	require.NoError(t, err)

	value, err := reader.FromBuffer(buf, res, false)
	require.NoError(t, err)
	require.Equal(t, int64(5), value)
}

func TestResolverNonUnionWriterToUnionReader(t *testing.T) {
	writer, err := NewCodec(`"int"`)
	require.NoError(t, err)
	reader, err := NewCodec(`["null","int"]`)
	require.NoError(t, err)

	res, err := reader.CreateResolver(writer)
	require.NoError(t, err)

	buf, err := writer.BinaryFromNative(nil, int32(5))
	require.NoError(t, err)

	value, err := reader.FromBuffer(buf, res, false)
	require.NoError(t, err)
	require.Equal(t, Union("int", int32(5)), value)
}

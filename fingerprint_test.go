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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonicalSchemaPrimitive(t *testing.T) {
	c, err := NewCodec(`"long"`)
	require.NoError(t, err)
	require.Equal(t, `"long"`, c.CanonicalSchema())
}

func TestCanonicalSchemaStripsDocAliasesAndDefaults(t *testing.T) {
	c, err := NewCodec(`{
		"type":"record","name":"r1","doc":"some doc",
		"fields":[
			{"name":"f1","type":"string","doc":"field doc","default":"zz","aliases":["old"]}
		]
	}`)
	require.NoError(t, err)
	got := c.CanonicalSchema()
	require.Equal(t, `{"name":"r1","type":"record","fields":[{"name":"f1","type":"string"}]}`, got)
}

func TestCanonicalSchemaFullyQualifiesNames(t *testing.T) {
	c, err := NewCodec(`{"type":"enum","name":"Suit","namespace":"cards","symbols":["HEARTS","SPADES"]}`)
	require.NoError(t, err)
	got := c.CanonicalSchema()
	require.Contains(t, got, `"cards.Suit"`)
}

func TestCanonicalSchemaSelfReferentialCollapsesToName(t *testing.T) {
	c, err := NewCodec(`{"type":"record","name":"LongList","fields":[
		{"name":"value","type":"long"},
		{"name":"next","type":["null","LongList"],"default":null}
	]}`)
	require.NoError(t, err)
	got := c.CanonicalSchema()
	// the self-reference inside the union must collapse to a bare name,
	// not recurse into the record definition a second time.
	require.Contains(t, got, `["null","LongList"]`)
}

func TestCanonicalSchemaOmitsNamespaceQualificationWhenMatchingEnclosing(t *testing.T) {
	c, err := NewCodec(`{
		"type":"record","name":"Outer","namespace":"cards",
		"fields":[
			{"name":"s","type":{"type":"enum","name":"Suit","namespace":"cards","symbols":["HEARTS","SPADES"]}}
		]
	}`)
	require.NoError(t, err)
	got := c.CanonicalSchema()
	// Suit's namespace matches its enclosing record's namespace, so it's
	// written bare rather than fully qualified.
	require.Contains(t, got, `"name":"Suit"`)
	require.NotContains(t, got, `"cards.Suit"`)
}

func TestFingerprintMD5(t *testing.T) {
	c, err := NewCodec(`"string"`)
	require.NoError(t, err)
	sum, err := c.Fingerprint(MD5Fingerprint)
	require.NoError(t, err)
	require.Len(t, sum, 16)
}

func TestFingerprintMD5KnownValue(t *testing.T) {
	c, err := NewCodec(`"int"`)
	require.NoError(t, err)
	sum, err := c.Fingerprint(MD5Fingerprint)
	require.NoError(t, err)
	require.Equal(t, "ef524ea1b91e73173d938ade36c1db32", fmt.Sprintf("%x", sum))
}

func TestFingerprintSHA256(t *testing.T) {
	c, err := NewCodec(`"string"`)
	require.NoError(t, err)
	sum, err := c.Fingerprint(SHA256Fingerprint)
	require.NoError(t, err)
	require.Len(t, sum, 32)
}

func TestFingerprintUnknownAlgorithm(t *testing.T) {
	c, err := NewCodec(`"string"`)
	require.NoError(t, err)
	_, err = c.Fingerprint(FingerprintType("BOGUS"))
	require.Error(t, err)
	require.True(t, ArgumentError(err))
}

func TestFingerprintStableAcrossEquivalentSchemas(t *testing.T) {
	c1, err := NewCodec(`{"type":"record","name":"r1","doc":"a",
		"fields":[{"name":"f1","type":"string","default":"zz"}]}`)
	require.NoError(t, err)
	c2, err := NewCodec(`{
		"fields":[{"type":"string","name":"f1"}],
		"type":"record","name":"r1"
	}`)
	require.NoError(t, err)

	fp1, err := c1.Fingerprint(MD5Fingerprint)
	require.NoError(t, err)
	fp2, err := c2.Fingerprint(MD5Fingerprint)
	require.NoError(t, err)
	require.Equal(t, fp1, fp2)
}

func TestFingerprintDiffersOnFieldNameChange(t *testing.T) {
	c1, err := NewCodec(`{"type":"record","name":"r1","fields":[{"name":"f1","type":"string"}]}`)
	require.NoError(t, err)
	c2, err := NewCodec(`{"type":"record","name":"r1","fields":[{"name":"f2","type":"string"}]}`)
	require.NoError(t, err)

	fp1, err := c1.Fingerprint(MD5Fingerprint)
	require.NoError(t, err)
	fp2, err := c2.Fingerprint(MD5Fingerprint)
	require.NoError(t, err)
	require.NotEqual(t, fp1, fp2)
}

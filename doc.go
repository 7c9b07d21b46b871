// Copyright [2019] LinkedIn Corp. Licensed under the Apache License, Version
// 2.0 (the "License"); you may not use this file except in compliance with the
// License.  You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.

// Package goavro parses Avro schemas into a type graph, validates Go values
// against that graph, and transcodes values to and from Avro's binary and
// JSON encodings. It also compiles writer/reader schema pairs into reusable
// resolvers so a decoder built from one schema version can read data written
// with a compatible earlier or later one.
//
// This package intentionally stops at the codec boundary: object container
// files, RPC framing, and CLI tooling are someone else's problem.
package goavro

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

// resolver decodes bytes written by one schema (writer) into the native
// representation of another, compatible, schema (reader), per the Avro
// schema resolution rules. It is compiled once by CreateResolver and then
// reused across every FromBuffer call against that (writer, reader) pair.
type resolver struct {
	writer *Codec
	reader *Codec
	decode func(buf []byte) (interface{}, []byte, error)
}

// CreateResolver compiles a resolver that decodes data written with writer's
// schema into values shaped by c's (the reader's) schema. Compilation walks
// the full type graph eagerly, so an incompatibility (other than an unknown
// enum symbol, which can only be detected from the bytes on the wire) is
// reported here rather than during a later FromBuffer call.
func (c *Codec) CreateResolver(writer *Codec) (*resolver, error) {
	if writer == nil {
		return nil, newArgumentError("cannot create resolver: writer schema is nil")
	}
	seen := make(map[resolverKey]*resolver)
	decode, err := compileResolver(seen, writer, c)
	if err != nil {
		return nil, err
	}
	return &resolver{writer: writer, reader: c, decode: decode}, nil
}

// resolverKey memoizes compileResolver over a (writer, reader) pair so
// cyclic or mutually-recursive record schemas terminate instead of
// recursing forever while being compiled.
type resolverKey struct {
	writer *Codec
	reader *Codec
}

// numericRank orders the promotable numeric kinds from narrowest to widest:
// int -> long -> float -> double (bytes/string are handled separately since
// they promote to each other, not along this ladder).
var numericRank = map[Kind]int{Int: 0, Long: 1, Float: 2, Double: 3}

func compileResolver(seen map[resolverKey]*resolver, writer, reader *Codec) (func(buf []byte) (interface{}, []byte, error), error) {
	key := resolverKey{writer, reader}
	if r, ok := seen[key]; ok {
		return r.decode, nil
	}
	placeholder := &resolver{writer: writer, reader: reader}
	seen[key] = placeholder
	decode, err := buildResolverDecode(seen, writer, reader)
	if err != nil {
		delete(seen, key)
		return nil, err
	}
	placeholder.decode = decode
	return decode, nil
}

func buildResolverDecode(seen map[resolverKey]*resolver, writer, reader *Codec) (func(buf []byte) (interface{}, []byte, error), error) {
	// Union on the writer side: decode whichever branch was actually
	// written, then resolve that branch's value against the reader.
	if writer.kind == Union && reader.kind != Union {
		branchDecoders := make(map[string]func(buf []byte) (interface{}, []byte, error), len(writer.union.codecFromIndex))
		for _, wb := range writer.union.codecFromIndex {
			d, err := compileResolver(seen, wb, reader)
			if err != nil {
				return nil, fmt.Errorf("cannot resolve union branch %q against %q: %s", wb.branchTag(), reader.FullName(), err)
			}
			branchDecoders[wb.branchTag()] = d
		}
		return func(buf []byte) (interface{}, []byte, error) {
			idx, rest, err := longNativeFromBinary(buf)
			if err != nil {
				return nil, buf, err
			}
			i := idx.(int64)
			if i < 0 || int(i) >= len(writer.union.codecFromIndex) {
				return nil, buf, newDecodeError("cannot resolve union: index out of range: %d", i)
			}
			wb := writer.union.codecFromIndex[i]
			return branchDecoders[wb.branchTag()](rest)
		}, nil
	}

	// Union on the reader side (writer is not a union): the written value
	// resolves against the first reader branch the writer's type is
	// compatible with; later compatible branches are not considered.
	if reader.kind == Union && writer.kind != Union {
		var lastErr error
		for _, rb := range reader.union.codecFromIndex {
			d, err := compileResolver(seen, writer, rb)
			if err != nil {
				lastErr = err
				continue
			}
			tag := rb.branchTag()
			return func(buf []byte) (interface{}, []byte, error) {
				v, rest, err := d(buf)
				if err != nil {
					return nil, buf, err
				}
				if rb.kind == Null {
					return nil, rest, nil
				}
				return map[string]interface{}{tag: v}, rest, nil
			}, nil
		}
		return nil, fmt.Errorf("cannot resolve %q against any reader union branch: %s", writer.FullName(), lastErr)
	}

	// Both sides are unions: writer picks a branch, then that branch must
	// resolve against the reader union as a whole.
	if writer.kind == Union && reader.kind == Union {
		branchDecoders := make(map[string]func(buf []byte) (interface{}, []byte, error), len(writer.union.codecFromIndex))
		for _, wb := range writer.union.codecFromIndex {
			d, err := compileResolver(seen, wb, reader)
			if err != nil {
				return nil, fmt.Errorf("cannot resolve union branch %q: %s", wb.branchTag(), err)
			}
			branchDecoders[wb.branchTag()] = d
		}
		return func(buf []byte) (interface{}, []byte, error) {
			idx, rest, err := longNativeFromBinary(buf)
			if err != nil {
				return nil, buf, err
			}
			i := idx.(int64)
			if i < 0 || int(i) >= len(writer.union.codecFromIndex) {
				return nil, buf, newDecodeError("cannot resolve union: index out of range: %d", i)
			}
			wb := writer.union.codecFromIndex[i]
			return branchDecoders[wb.branchTag()](rest)
		}, nil
	}

	if writer.kind == reader.kind {
		switch writer.kind {
		case Null, Boolean, Bytes, String:
			return reader.nativeFromBinary, nil
		case Int, Long, Float, Double:
			if writer.kind == reader.kind {
				return reader.nativeFromBinary, nil
			}
		case Array:
			itemDecode, err := compileResolver(seen, writer.itemCodec, reader.itemCodec)
			if err != nil {
				return nil, fmt.Errorf("cannot resolve array items: %s", err)
			}
			return arrayResolverDecode(itemDecode), nil
		case Map:
			valueDecode, err := compileResolver(seen, writer.valueCodec, reader.valueCodec)
			if err != nil {
				return nil, fmt.Errorf("cannot resolve map values: %s", err)
			}
			return mapResolverDecode(valueDecode), nil
		case Enum:
			if !hasAnyName(reader.typeName, reader.aliases, writer.FullName()) {
				return nil, newResolveError("cannot resolve enum: writer %q and reader %q share no name or alias", writer.FullName(), reader.FullName())
			}
			return enumResolverDecode(writer, reader), nil
		case Fixed:
			if !hasAnyName(reader.typeName, reader.aliases, writer.FullName()) {
				return nil, newResolveError("cannot resolve fixed: writer %q and reader %q share no name or alias", writer.FullName(), reader.FullName())
			}
			if writer.size != reader.size {
				return nil, newResolveError("cannot resolve fixed %q: writer size %d does not match reader size %d", writer.FullName(), writer.size, reader.size)
			}
			return reader.nativeFromBinary, nil
		case Record:
			if !hasAnyName(reader.typeName, reader.aliases, writer.FullName()) {
				return nil, newResolveError("cannot resolve record: writer %q and reader %q share no name or alias", writer.FullName(), reader.FullName())
			}
			return recordResolverDecode(seen, writer, reader)
		}
	}

	// bytes <-> string promote to each other.
	if (writer.kind == Bytes && reader.kind == String) || (writer.kind == String && reader.kind == Bytes) {
		return func(buf []byte) (interface{}, []byte, error) {
			v, rest, err := writer.nativeFromBinary(buf)
			if err != nil {
				return nil, buf, err
			}
			switch reader.kind {
			case String:
				return string(v.([]byte)), rest, nil
			default:
				return []byte(v.(string)), rest, nil
			}
		}, nil
	}

	if wr, wok := numericRank[writer.kind]; wok {
		if rr, rok := numericRank[reader.kind]; rok && rr >= wr {
			return numericPromotionDecode(writer, reader), nil
		}
	}

	return nil, newResolveError("cannot resolve writer type %q against reader type %q", writer.FullName(), reader.FullName())
}

func arrayResolverDecode(itemDecode func(buf []byte) (interface{}, []byte, error)) func(buf []byte) (interface{}, []byte, error) {
	return func(buf []byte) (interface{}, []byte, error) {
		var out []interface{}
		for {
			count, rest, err := longNativeFromBinary(buf)
			if err != nil {
				return nil, buf, err
			}
			buf = rest
			n := count.(int64)
			if n == 0 {
				break
			}
			if n < 0 {
				_, rest, err := longNativeFromBinary(buf)
				if err != nil {
					return nil, buf, err
				}
				buf = rest
				n = -n
			}
			for i := int64(0); i < n; i++ {
				var item interface{}
				item, buf, err = itemDecode(buf)
				if err != nil {
					return nil, buf, err
				}
				out = append(out, item)
			}
		}
		return out, buf, nil
	}
}

func mapResolverDecode(valueDecode func(buf []byte) (interface{}, []byte, error)) func(buf []byte) (interface{}, []byte, error) {
	return func(buf []byte) (interface{}, []byte, error) {
		out := make(map[string]interface{})
		for {
			count, rest, err := longNativeFromBinary(buf)
			if err != nil {
				return nil, buf, err
			}
			buf = rest
			n := count.(int64)
			if n == 0 {
				break
			}
			if n < 0 {
				_, rest, err := longNativeFromBinary(buf)
				if err != nil {
					return nil, buf, err
				}
				buf = rest
				n = -n
			}
			for i := int64(0); i < n; i++ {
				var key interface{}
				key, buf, err = stringNativeFromBinary(buf)
				if err != nil {
					return nil, buf, err
				}
				var value interface{}
				value, buf, err = valueDecode(buf)
				if err != nil {
					return nil, buf, err
				}
				out[key.(string)] = value
			}
		}
		return out, buf, nil
	}
}

// enumResolverDecode decodes the writer's ordinal and looks the symbol it
// names up by string against the reader's symbol set; an ordinal naming a
// symbol the reader doesn't know about can only be detected at decode time,
// the one schema-resolution failure that has to surface there instead of
// at CreateResolver time.
func enumResolverDecode(writer, reader *Codec) func(buf []byte) (interface{}, []byte, error) {
	return func(buf []byte) (interface{}, []byte, error) {
		v, rest, err := writer.nativeFromBinary(buf)
		if err != nil {
			return nil, buf, err
		}
		symbol := v.(string)
		if _, ok := reader.symbolIndex[symbol]; !ok {
			return nil, buf, newDecodeError("cannot resolve enum %q: reader has no symbol: %q", reader.FullName(), symbol)
		}
		return symbol, rest, nil
	}
}

func numericPromotionDecode(writer, reader *Codec) func(buf []byte) (interface{}, []byte, error) {
	return func(buf []byte) (interface{}, []byte, error) {
		v, rest, err := writer.nativeFromBinary(buf)
		if err != nil {
			return nil, buf, err
		}
		var f float64
		switch n := v.(type) {
		case int32:
			f = float64(n)
		case int64:
			f = float64(n)
		case float32:
			f = float64(n)
		case float64:
			f = n
		}
		switch reader.kind {
		case Long:
			return int64(f), rest, nil
		case Float:
			return float32(f), rest, nil
		case Double:
			return f, rest, nil
		default:
			return v, rest, nil
		}
	}
}

// recordResolverDecode aligns writer fields (by name, falling back to
// reader field aliases) to reader fields: a writer field absent from the
// reader is decoded and discarded (skipped on the wire, in writer order); a
// reader field absent from the writer is filled from its default, or the
// resolver fails to compile if it has none.
func recordResolverDecode(seen map[resolverKey]*resolver, writer, reader *Codec) (func(buf []byte) (interface{}, []byte, error), error) {
	readerFieldByName := make(map[string]*Field, len(reader.fields))
	for _, rf := range reader.fields {
		readerFieldByName[rf.Name] = rf
		for _, a := range rf.Aliases {
			readerFieldByName[a] = rf
		}
	}

	type step struct {
		writerField *Field
		readerName  string
		decode      func(buf []byte) (interface{}, []byte, error)
	}

	matched := make(map[string]bool, len(reader.fields))
	matchedBy := make(map[string]string, len(reader.fields))
	steps := make([]step, 0, len(writer.fields))
	for _, wf := range writer.fields {
		rf, ok := readerFieldByName[wf.Name]
		if !ok {
			skipDecode, err := compileResolver(seen, wf.Type, wf.Type)
			if err != nil {
				return nil, err
			}
			steps = append(steps, step{writerField: wf, decode: func(buf []byte) (interface{}, []byte, error) {
				_, rest, err := skipDecode(buf)
				return nil, rest, err
			}})
			continue
		}
		if other, ok := matchedBy[rf.Name]; ok {
			return nil, newResolveError("cannot resolve record %q: reader field %q matches more than one writer field (by name or alias): %q and %q", reader.FullName(), rf.Name, other, wf.Name)
		}
		matchedBy[rf.Name] = wf.Name
		fieldDecode, err := compileResolver(seen, wf.Type, rf.Type)
		if err != nil {
			return nil, fmt.Errorf("cannot resolve record %q field %q: %s", reader.FullName(), wf.Name, err)
		}
		steps = append(steps, step{writerField: wf, readerName: rf.Name, decode: fieldDecode})
		matched[rf.Name] = true
	}

	var defaultsNeeded []*Field
	for _, rf := range reader.fields {
		if matched[rf.Name] {
			continue
		}
		if !rf.HasDefault {
			return nil, newResolveError("cannot resolve record %q: field %q has no writer counterpart and no default", reader.FullName(), rf.Name)
		}
		defaultsNeeded = append(defaultsNeeded, rf)
	}

	return func(buf []byte) (interface{}, []byte, error) {
		out := make(map[string]interface{}, len(reader.fields))
		for _, st := range steps {
			var value interface{}
			var err error
			value, buf, err = st.decode(buf)
			if err != nil {
				return nil, buf, fmt.Errorf("cannot decode record %q field %q: %s", reader.FullName(), st.writerField.Name, err)
			}
			if st.readerName != "" {
				out[st.readerName] = value
			}
		}
		for _, rf := range defaultsNeeded {
			out[rf.Name] = cloneDefault(rf.Default)
		}
		return out, buf, nil
	}, nil
}

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
	"reflect"
)

// reflectToInterfaceSlice widens a concrete Go slice (e.g. []string,
// []int32) into []interface{} so array codecs don't require every caller
// to pre-box their data, mirroring the coercions record.go already performs
// on field values of concrete slice/map types.
func reflectToInterfaceSlice(datum interface{}) ([]interface{}, error) {
	rv := reflect.ValueOf(datum)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected Go slice; received: %T", datum)
	}
	out := make([]interface{}, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// reflectToStringMap widens a concrete Go map with string keys (e.g.
// map[string]int) into map[string]interface{}.
func reflectToStringMap(datum interface{}) (map[string]interface{}, error) {
	rv := reflect.ValueOf(datum)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, fmt.Errorf("expected Go map[string]...; received: %T", datum)
	}
	out := make(map[string]interface{}, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, nil
}

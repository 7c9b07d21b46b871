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

func TestNewNameAlreadyDotted(t *testing.T) {
	n, err := newName("com.example.Foo", "", "ignored")
	if err != nil {
		t.Fatal(err)
	}
	if n.fullName != "com.example.Foo" {
		t.Errorf("GOT: %q; WANT: %q", n.fullName, "com.example.Foo")
	}
	if n.namespace != "com.example" {
		t.Errorf("GOT: %q; WANT: %q", n.namespace, "com.example")
	}
}

func TestNewNameExplicitNamespaceWinsOverEnclosing(t *testing.T) {
	n, err := newName("Foo", "com.explicit", "com.enclosing")
	if err != nil {
		t.Fatal(err)
	}
	if n.fullName != "com.explicit.Foo" {
		t.Errorf("GOT: %q; WANT: %q", n.fullName, "com.explicit.Foo")
	}
}

func TestNewNameInheritsEnclosingNamespace(t *testing.T) {
	n, err := newName("Foo", "", "com.enclosing")
	if err != nil {
		t.Fatal(err)
	}
	if n.fullName != "com.enclosing.Foo" {
		t.Errorf("GOT: %q; WANT: %q", n.fullName, "com.enclosing.Foo")
	}
}

func TestNewNameNoNamespaceAtAll(t *testing.T) {
	n, err := newName("Foo", "", "")
	if err != nil {
		t.Fatal(err)
	}
	if n.fullName != "Foo" {
		t.Errorf("GOT: %q; WANT: %q", n.fullName, "Foo")
	}
	if n.namespace != nullNamespace {
		t.Errorf("GOT: %q; WANT: %q", n.namespace, nullNamespace)
	}
}

func TestNewNameRejectsEmpty(t *testing.T) {
	_, err := newName("", "", "")
	ensureError(t, err, "non-empty")
}

func TestNewNameRejectsInvalidIdentifier(t *testing.T) {
	_, err := newName("1abc", "", "")
	ensureError(t, err, "valid Avro identifier")
}

func TestNameShort(t *testing.T) {
	n := &name{fullName: "com.example.Foo", namespace: "com.example"}
	if n.short() != "Foo" {
		t.Errorf("GOT: %q; WANT: %q", n.short(), "Foo")
	}
	n2 := &name{fullName: "Foo", namespace: nullNamespace}
	if n2.short() != "Foo" {
		t.Errorf("GOT: %q; WANT: %q", n2.short(), "Foo")
	}
}

func TestIsValidSymbol(t *testing.T) {
	cases := []struct {
		symbol string
		want   bool
	}{
		{"A", true},
		{"_underscore", true},
		{"Camel_Case_123", true},
		{"1startsWithDigit", false},
		{"has-dash", false},
		{"", false},
	}
	for _, c := range cases {
		if got := isValidSymbol(c.symbol); got != c.want {
			t.Errorf("isValidSymbol(%q): GOT: %v; WANT: %v", c.symbol, got, c.want)
		}
	}
}

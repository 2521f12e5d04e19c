// Copyright 2023-2024 daviszhen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package common

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"
)

type Field struct {
	Name string
	Type LType
}

func (f Field) Equal(o Field) bool {
	return f.Name == o.Name && f.Type.Equal(o.Type)
}

func (f Field) String() string {
	return fmt.Sprintf("%s:%s", f.Name, f.Type)
}

// Schema is an ordered list of uniquely named fields.
type Schema struct {
	fields []Field
	index  map[string]int
}

// TryNewSchema validates names and types.
func TryNewSchema(fields []Field) (*Schema, error) {
	ret := &Schema{
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	copy(ret.fields, fields)
	for i, field := range fields {
		if !field.Type.IsValid() {
			return nil, fmt.Errorf("field %q has invalid type %+v", field.Name, field.Type)
		}
		if _, has := ret.index[field.Name]; has {
			return nil, fmt.Errorf("duplicate field name %q", field.Name)
		}
		ret.index[field.Name] = i
	}
	return ret, nil
}

// NewSchema is TryNewSchema for fields known to be valid.
func NewSchema(fields ...Field) *Schema {
	ret, err := TryNewSchema(fields)
	if err != nil {
		panic(err)
	}
	return ret
}

func (s *Schema) NumFields() int {
	return len(s.fields)
}

func (s *Schema) Field(i int) Field {
	return s.fields[i]
}

func (s *Schema) Fields() []Field {
	return s.fields
}

// FieldIndex returns -1 for unknown names.
func (s *Schema) FieldIndex(name string) int {
	if idx, has := s.index[name]; has {
		return idx
	}
	return -1
}

func (s *Schema) FieldByName(name string) (Field, bool) {
	idx := s.FieldIndex(name)
	if idx < 0 {
		return Field{}, false
	}
	return s.fields[idx], true
}

func (s *Schema) Names() []string {
	ret := make([]string, len(s.fields))
	for i, field := range s.fields {
		ret[i] = field.Name
	}
	return ret
}

func (s *Schema) Types() []LType {
	ret := make([]LType, len(s.fields))
	for i, field := range s.fields {
		ret[i] = field.Type
	}
	return ret
}

// Select builds the sub-schema of the named fields, in the given order.
func (s *Schema) Select(names ...string) (*Schema, error) {
	fields := make([]Field, 0, len(names))
	for _, name := range names {
		field, has := s.FieldByName(name)
		if !has {
			return nil, fmt.Errorf("no field %q in schema %s", name, s)
		}
		fields = append(fields, field)
	}
	return TryNewSchema(fields)
}

func (s *Schema) Equal(o *Schema) bool {
	if s == o {
		return true
	}
	if s == nil || o == nil || len(s.fields) != len(o.fields) {
		return false
	}
	for i := range s.fields {
		if !s.fields[i].Equal(o.fields[i]) {
			return false
		}
	}
	return true
}

func (s *Schema) String() string {
	if s == nil {
		return "<nil>"
	}
	parts := make([]string, len(s.fields))
	for i, field := range s.fields {
		parts[i] = field.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (s *Schema) Print(tree treeprint.Tree) {
	for i, field := range s.fields {
		tree.AddNode(fmt.Sprintf("%d %s", i, field))
	}
}

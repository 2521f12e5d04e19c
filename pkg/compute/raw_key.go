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

package compute

import (
	"fmt"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

// RawKeyView borrows row position of a set of key columns. It must not
// outlive the batch the columns came from.
type RawKeyView struct {
	columns  []chunk.Column
	position int
}

func NewRawKeyView(columns []chunk.Column, position int) RawKeyView {
	return RawKeyView{
		columns:  columns,
		position: position,
	}
}

func (k RawKeyView) Position() int {
	return k.position
}

func (k RawKeyView) Columns() []chunk.Column {
	return k.columns
}

// Compare orders two keys column by column. Nulls come first.
func (k RawKeyView) Compare(o RawKeyView) int {
	util.AssertF(len(k.columns) == len(o.columns), "key of %d columns vs %d", len(k.columns), len(o.columns))
	for i, col := range k.columns {
		if c := col.CompareAt(k.position, o.columns[i], o.position); c != 0 {
			return c
		}
	}
	return 0
}

// CompareNotNull is Compare for keys known to hold no nulls.
func (k RawKeyView) CompareNotNull(o RawKeyView) int {
	util.AssertF(len(k.columns) == len(o.columns), "key of %d columns vs %d", len(k.columns), len(o.columns))
	for i, col := range k.columns {
		if c := col.CompareNotNullAt(k.position, o.columns[i], o.position); c != 0 {
			return c
		}
	}
	return 0
}

func (k RawKeyView) Less(o RawKeyView) bool {
	return k.Compare(o) < 0
}

func (k RawKeyView) LessNotNull(o RawKeyView) bool {
	return k.CompareNotNull(o) < 0
}

func (k RawKeyView) Equal(o RawKeyView) bool {
	return k.Compare(o) == 0
}

func (k RawKeyView) String() string {
	vals := make([]string, len(k.columns))
	for i, col := range k.columns {
		vals[i] = col.String(k.position)
	}
	return fmt.Sprint(vals)
}

// KeyColumns projects the key fields of batch in key order. A missing field
// or a type mismatch panics.
func KeyColumns(batch *chunk.Batch, key *common.Schema) []chunk.Column {
	util.AssertF(key != nil && key.NumFields() > 0, "empty sort key")
	columns := make([]chunk.Column, key.NumFields())
	for i, field := range key.Fields() {
		idx := batch.Schema().FieldIndex(field.Name)
		if idx < 0 {
			panic(fmt.Sprintf("key field %q not found in %s", field.Name, batch.Schema()))
		}
		col := batch.Column(idx)
		if !col.Typ().Equal(field.Type) {
			panic(fmt.Sprintf("key field %q has type %s, key wants %s", field.Name, col.Typ(), field.Type))
		}
		columns[i] = col
	}
	return columns
}

func keysHaveNulls(columns []chunk.Column) bool {
	for _, col := range columns {
		if chunk.HasNulls(col) {
			return true
		}
	}
	return false
}

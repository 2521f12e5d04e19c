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

type CompareType int8

const (
	CT_LESS CompareType = iota
	CT_LESS_OR_EQUAL
	CT_GREATER
	CT_GREATER_OR_EQUAL
)

func (ct CompareType) String() string {
	switch ct {
	case CT_LESS:
		return "<"
	case CT_LESS_OR_EQUAL:
		return "<="
	case CT_GREATER:
		return ">"
	case CT_GREATER_OR_EQUAL:
		return ">="
	default:
		panic(fmt.Sprintf("usp compare type %d", ct))
	}
}

// NewCompareResults returns n undecided results.
func NewCompareResults(n int) []common.CompareResult {
	return make([]common.CompareResult, n)
}

// SwitchCompare narrows results against row 0 of border. chunks together
// hold len(results) rows. It returns true when no row is left at BORDER,
// so the caller can skip the remaining key columns.
func SwitchCompare(chunks []chunk.Column, border chunk.Column, results []common.CompareResult) bool {
	util.AssertF(border.Len() == 1, "border has %d rows", border.Len())
	decided := true
	offset := 0
	for _, c := range chunks {
		n := c.Len()
		util.AssertF(offset+n <= len(results), "chunks exceed %d results", len(results))
		if !c.UpdateCompare(border, 0, results[offset:offset+n]) {
			decided = false
		}
		offset += n
	}
	util.AssertF(offset == len(results), "chunks hold %d rows, results %d", offset, len(results))
	return decided
}

// CompositeCompare compares every row of source against the single row of
// border, field by field in border's schema order. Fields already decided for
// every row stop the loop. It returns how many key fields were compared.
func CompositeCompare(source chunk.Datum, border *chunk.Batch, results []common.CompareResult) int {
	key := border.Schema()
	util.AssertF(key.NumFields() > 0, "empty compare key")
	util.AssertF(border.NumRows() == 1, "border has %d rows", border.NumRows())
	util.AssertF(len(results) == source.NumRows(), "results %d rows %d", len(results), source.NumRows())

	for i, field := range key.Fields() {
		idx := source.Schema().FieldIndex(field.Name)
		if idx < 0 {
			panic(fmt.Sprintf("key field %q not found", field.Name))
		}
		if typ := source.Schema().Field(idx).Type; !typ.Equal(field.Type) {
			panic(fmt.Sprintf("key field %q has type %s, border %s", field.Name, typ, field.Type))
		}
		if SwitchCompare(source.ColumnChunks(idx), border.Column(i), results) {
			return i + 1
		}
	}
	return key.NumFields()
}

// MakePredicateFilter marks the rows of source standing in relation ct to
// the border row. BORDER counts as equal.
func MakePredicateFilter(source chunk.Datum, border *chunk.Batch, ct CompareType) []bool {
	results := NewCompareResults(source.NumRows())
	CompositeCompare(source, border, results)
	return resultsToFilter(results, ct)
}

// MakeColumnPredicateFilter is MakePredicateFilter for one column given as
// chunks and a one-row border column.
func MakeColumnPredicateFilter(chunks []chunk.Column, border chunk.Column, ct CompareType) []bool {
	rows := 0
	for _, c := range chunks {
		rows += c.Len()
	}
	results := NewCompareResults(rows)
	SwitchCompare(chunks, border, results)
	return resultsToFilter(results, ct)
}

func resultsToFilter(results []common.CompareResult, ct CompareType) []bool {
	bits := make([]bool, len(results))
	switch ct {
	case CT_LESS:
		for i, res := range results {
			bits[i] = res < common.BORDER
		}
	case CT_LESS_OR_EQUAL:
		for i, res := range results {
			bits[i] = res <= common.BORDER
		}
	case CT_GREATER:
		for i, res := range results {
			bits[i] = res > common.BORDER
		}
	case CT_GREATER_OR_EQUAL:
		for i, res := range results {
			bits[i] = res >= common.BORDER
		}
	default:
		panic(fmt.Sprintf("usp compare type %d", ct))
	}
	return bits
}

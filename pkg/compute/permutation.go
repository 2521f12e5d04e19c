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
	"slices"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

// Permutation lists source rows in output order.
type Permutation []uint64

// IsNoOp reports whether perm keeps every row in place.
func IsNoOp(perm Permutation) bool {
	for i, p := range perm {
		if p != uint64(i) {
			return false
		}
	}
	return true
}

// MakePermutation returns the identity, or the reversed order. It returns
// nil for size < 1.
func MakePermutation(size int, reverse bool) Permutation {
	if size < 1 {
		return nil
	}
	perm := make(Permutation, size)
	for i := range perm {
		if reverse {
			perm[i] = uint64(size - 1 - i)
		} else {
			perm[i] = uint64(i)
		}
	}
	return perm
}

// MakeSortPermutation stably orders the rows of batch by key. Keys holding
// nulls use the null-aware order, others skip the validity checks.
func MakeSortPermutation(batch *chunk.Batch, key *common.Schema, reverse bool) Permutation {
	columns := KeyColumns(batch, key)
	points := make([]RawKeyView, batch.NumRows())
	for i := range points {
		points[i] = NewRawKeyView(columns, i)
	}

	cmp := RawKeyView.CompareNotNull
	if keysHaveNulls(columns) {
		cmp = RawKeyView.Compare
	}
	if reverse {
		slices.SortStableFunc(points, func(a, b RawKeyView) int {
			return cmp(b, a)
		})
	} else {
		slices.SortStableFunc(points, cmp)
	}

	perm := make(Permutation, len(points))
	for i, point := range points {
		perm[i] = uint64(point.Position())
	}
	return perm
}

// Reorder applies perm to batch. The identity returns batch itself.
func Reorder(batch *chunk.Batch, perm Permutation) *chunk.Batch {
	util.AssertF(len(perm) == batch.NumRows(), "permutation of %d rows for %d rows", len(perm), batch.NumRows())
	if IsNoOp(perm) {
		return batch
	}
	return batch.Take(perm)
}

func SortBatch(batch *chunk.Batch, key *common.Schema, reverse bool) *chunk.Batch {
	return Reorder(batch, MakeSortPermutation(batch, key, reverse))
}

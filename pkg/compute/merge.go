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
	"math"

	"github.com/tidwall/btree"
	"github.com/xlab/treeprint"
	"go.uber.org/zap"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

// InputStream yields batches sorted by one key.
type InputStream interface {
	// Read returns the next batch, nil once the stream is exhausted.
	Read() *chunk.Batch
}

type OneBatchInputStream struct {
	batch *chunk.Batch
}

func NewOneBatchInputStream(batch *chunk.Batch) *OneBatchInputStream {
	return &OneBatchInputStream{batch: batch}
}

func (s *OneBatchInputStream) Read() *chunk.Batch {
	ret := s.batch
	s.batch = nil
	return ret
}

// BatchesInputStream hands out batches in order. Together they must be
// sorted by the merge key.
type BatchesInputStream struct {
	batches []*chunk.Batch
}

func NewBatchesInputStream(batches []*chunk.Batch) *BatchesInputStream {
	return &BatchesInputStream{batches: batches}
}

func (s *BatchesInputStream) Read() *chunk.Batch {
	if len(s.batches) == 0 {
		return nil
	}
	ret := s.batches[0]
	s.batches[0] = nil
	s.batches = s.batches[1:]
	return ret
}

type MergeState int

const (
	MS_ACTIVE MergeState = iota
	MS_DRAINING
	MS_EXHAUSTED
)

func (state MergeState) String() string {
	switch state {
	case MS_ACTIVE:
		return "active"
	case MS_DRAINING:
		return "draining"
	case MS_EXHAUSTED:
		return "exhausted"
	default:
		panic(fmt.Sprintf("usp merge state %d", state))
	}
}

// UnlimitedRows disables the output row cap.
const UnlimitedRows = math.MaxInt

type sortCursor struct {
	stream  int
	batch   *chunk.Batch
	columns []chunk.Column
	pos     int
}

func (cur *sortCursor) key() RawKeyView {
	return NewRawKeyView(cur.columns, cur.pos)
}

type MergeStats struct {
	Batches int
	Rows    int
	// Skipped counts rows dropped as duplicates of the previous key.
	Skipped int
}

// MergingSortedInputStream merges streams sorted by the same key into one
// sorted sequence of batches of at most maxBatchRows rows. With slice set,
// only the first row of every distinct key is emitted.
//
// Equal keys come out in stream order. The merge is a single forward pass.
type MergingSortedInputStream struct {
	streams      []InputStream
	desc         *SortDescription
	maxBatchRows int
	slice        bool

	state    MergeState
	started  bool
	schema   *common.Schema
	queue    *btree.BTreeG[*sortCursor]
	builders []chunk.Builder
	// lastKey borrows the key columns of the last emitted row.
	lastKey *RawKeyView
	stats   MergeStats
}

func NewMergingSortedInputStream(
	streams []InputStream,
	desc *SortDescription,
	maxBatchRows int,
	slice bool,
) *MergingSortedInputStream {
	util.AssertF(maxBatchRows > 0, "max batch rows %d", maxBatchRows)
	util.AssertF(desc != nil && desc.Key.NumFields() > 0, "empty sort key")
	ret := &MergingSortedInputStream{
		streams:      streams,
		desc:         desc,
		maxBatchRows: maxBatchRows,
		slice:        slice,
		state:        MS_ACTIVE,
	}
	dir := desc.direction()
	ret.queue = btree.NewBTreeGOptions[*sortCursor](
		func(a, b *sortCursor) bool {
			if c := a.key().Compare(b.key()) * dir; c != 0 {
				return c < 0
			}
			return a.stream < b.stream
		},
		btree.Options{NoLocks: true},
	)
	return ret
}

func (m *MergingSortedInputStream) State() MergeState {
	return m.state
}

func (m *MergingSortedInputStream) Stats() MergeStats {
	return m.stats
}

// nextBatch pulls the next non-empty batch of stream i.
func (m *MergingSortedInputStream) nextBatch(i int) *chunk.Batch {
	for {
		batch := m.streams[i].Read()
		if batch == nil {
			return nil
		}
		if batch.NumRows() == 0 {
			continue
		}
		if m.schema == nil {
			m.schema = batch.Schema()
			m.builders = chunk.MakeBuilders(m.schema, min(m.maxBatchRows, util.DefaultVectorSize))
		} else if !batch.Schema().Equal(m.schema) {
			panic(fmt.Sprintf("stream %d has schema %s, merge wants %s", i, batch.Schema(), m.schema))
		}
		return batch
	}
}

func (m *MergingSortedInputStream) push(i int, batch *chunk.Batch) {
	m.queue.Set(&sortCursor{
		stream:  i,
		batch:   batch,
		columns: KeyColumns(batch, m.desc.Key),
	})
}

func (m *MergingSortedInputStream) init() {
	m.started = true
	for i := range m.streams {
		if batch := m.nextBatch(i); batch != nil {
			m.push(i, batch)
		}
	}
}

// advance moves cur past its row, refilling or dropping it.
func (m *MergingSortedInputStream) advance(cur *sortCursor) {
	cur.pos++
	if cur.pos < cur.batch.NumRows() {
		m.queue.Set(cur)
		return
	}
	if batch := m.nextBatch(cur.stream); batch != nil {
		m.push(cur.stream, batch)
	}
}

// Read returns the next merged batch, nil once every stream is drained.
// Between a returned batch and the next Read the stream is draining, unless
// nothing is left to merge.
func (m *MergingSortedInputStream) Read() *chunk.Batch {
	if m.state == MS_EXHAUSTED {
		return nil
	}
	if !m.started {
		m.init()
	}
	m.state = MS_ACTIVE

	rows := 0
	for rows < m.maxBatchRows {
		cur, ok := m.queue.PopMin()
		if !ok {
			break
		}
		key := cur.key()
		if m.slice && m.lastKey != nil && m.lastKey.Equal(key) {
			m.stats.Skipped++
		} else {
			for i, b := range m.builders {
				b.AppendFrom(cur.batch.Column(i), cur.pos)
			}
			m.lastKey = &key
			rows++
		}
		m.advance(cur)
	}

	if rows == 0 {
		m.exhaust()
		return nil
	}

	out := chunk.NewBatch(m.schema, chunk.FinishBuilders(m.builders), rows)
	m.stats.Batches++
	m.stats.Rows += rows
	if m.queue.Len() == 0 {
		m.exhaust()
	} else {
		m.state = MS_DRAINING
	}
	return out
}

func (m *MergingSortedInputStream) exhaust() {
	m.state = MS_EXHAUSTED
	m.lastKey = nil
	util.Debug("merge exhausted",
		zap.Int("batches", m.stats.Batches),
		zap.Int("rows", m.stats.Rows),
		zap.Int("skipped", m.stats.Skipped))
}

func (m *MergingSortedInputStream) Print(tree treeprint.Tree) {
	tree.AddMetaNode("state", m.state.String())
	tree.AddMetaNode("streams", len(m.streams))
	tree.AddMetaNode("maxBatchRows", m.maxBatchRows)
	tree.AddMetaNode("slice", m.slice)
	m.desc.Print(tree.AddMetaBranch("sort", m.desc.String()))
	stats := tree.AddBranch("stats")
	stats.AddMetaNode("batches", m.stats.Batches)
	stats.AddMetaNode("rows", m.stats.Rows)
	stats.AddMetaNode("skipped", m.stats.Skipped)
}

package compute

import (
	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

// ShardingSplit groups the rows of batch by shard id, keeping their relative
// order. Slot i holds the rows of shard i, nil when it has none.
func ShardingSplit(batch *chunk.Batch, sharding []uint32, numShards uint32) []*chunk.Batch {
	util.AssertF(len(sharding) == batch.NumRows(), "%d shard ids for %d rows", len(sharding), batch.NumRows())

	counts := make([]int, numShards)
	for _, shardNo := range sharding {
		util.AssertF(shardNo < numShards, "shard %d out of %d", shardNo, numShards)
		counts[shardNo]++
	}

	// bucket starts
	starts := make([]int, numShards)
	offset := 0
	for i, cnt := range counts {
		starts[i] = offset
		offset += cnt
	}

	perm := make(Permutation, len(sharding))
	next := append([]int(nil), starts...)
	for row, shardNo := range sharding {
		perm[next[shardNo]] = uint64(row)
		next[shardNo]++
	}

	reordered := Reorder(batch, perm)
	out := make([]*chunk.Batch, numShards)
	offset = 0
	for i, cnt := range counts {
		if cnt > 0 {
			out[i] = reordered.Slice(offset, cnt)
			offset += cnt
		}
	}
	util.AssertF(offset == batch.NumRows(), "shards hold %d rows of %d", offset, batch.NumRows())
	return out
}

// HashKeys returns one hash per row of batch over the key columns. Rows with
// equal keys hash equal.
func HashKeys(batch *chunk.Batch, key *common.Schema) []uint64 {
	hashes := make([]uint64, batch.NumRows())
	for i, col := range KeyColumns(batch, key) {
		chunk.HashColumn(col, hashes, i > 0)
	}
	return hashes
}

// MakeSharding assigns every row of batch to one of numShards shards by the
// hash of its key.
func MakeSharding(batch *chunk.Batch, key *common.Schema, numShards uint32) []uint32 {
	util.AssertF(numShards > 0, "zero shards")
	hashes := HashKeys(batch, key)
	sharding := make([]uint32, len(hashes))
	for i, h := range hashes {
		sharding[i] = uint32(h % uint64(numShards))
	}
	return sharding
}

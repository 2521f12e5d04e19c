package compute

import (
	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/util"
)

func oneBatchStreams(batches []*chunk.Batch) []InputStream {
	streams := make([]InputStream, 0, len(batches))
	for _, batch := range batches {
		if batch != nil && batch.NumRows() > 0 {
			streams = append(streams, NewOneBatchInputStream(batch))
		}
	}
	return streams
}

func drain(stream *MergingSortedInputStream) []*chunk.Batch {
	var out []*chunk.Batch
	for batch := stream.Read(); batch != nil; batch = stream.Read() {
		util.AssertF(batch.NumRows() > 0, "merge emitted an empty batch")
		out = append(out, batch)
	}
	return out
}

// CombineSortedBatches merges sorted batches into one. It returns nil when
// every input is empty.
func CombineSortedBatches(batches []*chunk.Batch, desc *SortDescription) *chunk.Batch {
	stream := NewMergingSortedInputStream(oneBatchStreams(batches), desc, UnlimitedRows, false)
	ret := stream.Read()
	util.AssertF(stream.Read() == nil, "unlimited merge emitted a second batch")
	return ret
}

// MergeSortedBatches merges sorted batches into batches of at most
// maxBatchRows rows.
func MergeSortedBatches(batches []*chunk.Batch, desc *SortDescription, maxBatchRows int) []*chunk.Batch {
	util.AssertF(maxBatchRows > 0, "max batch rows %d", maxBatchRows)
	return drain(NewMergingSortedInputStream(oneBatchStreams(batches), desc, maxBatchRows, false))
}

// SliceSortedBatches is MergeSortedBatches keeping one row per key.
func SliceSortedBatches(batches []*chunk.Batch, desc *SortDescription, maxBatchRows int) []*chunk.Batch {
	util.AssertF(!desc.Reverse, "slice merge of reversed batches")
	return drain(NewMergingSortedInputStream(oneBatchStreams(batches), desc, maxBatchRows, true))
}

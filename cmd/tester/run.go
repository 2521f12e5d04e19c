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

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/xlab/treeprint"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/codec"
	"github.com/daviszhen/colkit/pkg/compute"
	"github.com/daviszhen/colkit/pkg/util"
)

func runMerge(cfg *util.Config) error {
	start := time.Now()
	gen := newGenerator(cfg)
	inputs := gen.sortedStreams()

	// Each stream hands its rows over in several pieces.
	streams := make([]compute.InputStream, len(inputs))
	for i, batch := range inputs {
		streams[i] = compute.NewBatchesInputStream(splitBatch(batch, cfg.Data.RowsPerBatch/3+1))
	}
	merger := compute.NewMergingSortedInputStream(streams, gen.desc, cfg.Merge.MaxBatchRows, cfg.Merge.Slice)

	var out []*chunk.Batch
	for batch := merger.Read(); batch != nil; batch = merger.Read() {
		if batch.NumRows() > cfg.Merge.MaxBatchRows {
			return fmt.Errorf("merged batch of %d rows exceeds %d", batch.NumRows(), cfg.Merge.MaxBatchRows)
		}
		out = append(out, batch)
	}

	inRows := rowCount(inputs)
	outRows := rowCount(out)
	if !cfg.Merge.Slice && inRows != outRows {
		return fmt.Errorf("merge lost rows: %d in, %d out", inRows, outRows)
	}
	if len(out) > 0 {
		all := chunk.CombineBatches(out)
		check := compute.IsSorted
		if cfg.Merge.Slice {
			check = compute.IsSortedAndUnique
		}
		if !check(all, gen.key, gen.desc.Reverse) {
			return fmt.Errorf("merged rows are out of order")
		}
	}
	util.Info("merge done",
		zap.Int("inputRows", inRows),
		zap.Int("outputRows", outRows),
		zap.Int("outputBatches", len(out)),
		zap.Duration("elapsed", time.Since(start)))

	if cfg.Debug.PrintSummary {
		tree := treeprint.NewWithRoot("merge")
		gen.schema.Print(tree.AddBranch("schema"))
		merger.Print(tree)
		fmt.Println(tree.String())
	}
	if cfg.Debug.PrintResult {
		for i, batch := range out {
			batch.Print2(fmt.Sprintf("batch %d", i))
		}
	}
	return writeOutput(cfg, out)
}

type shardResult struct {
	shard int
	rows  int
	runs  []*chunk.Batch
}

func runShard(ctx context.Context, cfg *util.Config) error {
	start := time.Now()
	gen := newGenerator(cfg)
	gen.desc.Reverse = false

	inputs := make([]*chunk.Batch, cfg.Data.Streams)
	for i := range inputs {
		inputs[i] = gen.batch(i, cfg.Data.RowsPerBatch)
	}
	data := chunk.CombineBatches(inputs)

	numShards := uint32(cfg.Shard.NumShards)
	sharding := compute.MakeSharding(data, gen.key, numShards)
	shards := compute.ShardingSplit(data, sharding, numShards)

	results := make([]shardResult, len(shards))
	g, _ := errgroup.WithContext(ctx)
	if cfg.Shard.Workers > 0 {
		g.SetLimit(cfg.Shard.Workers)
	}
	for i, shard := range shards {
		if shard == nil {
			continue
		}
		g.Go(func() (err error) {
			defer func() {
				if xre := recover(); xre != nil {
					err = util.ConvertPanicError(xre)
				}
			}()
			sorted := compute.SortBatch(shard, gen.key, false)
			results[i] = shardResult{
				shard: i,
				rows:  sorted.NumRows(),
				runs:  compute.DedupSortedBatch(sorted, gen.key),
			}
			util.Debug("shard done",
				zap.Int("shard", i),
				zap.Int("rows", sorted.NumRows()),
				zap.Int("runs", len(results[i].runs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	total := 0
	var out []*chunk.Batch
	for _, res := range results {
		total += res.rows
		if res.rows > 0 {
			out = append(out, chunk.CombineBatches(res.runs))
		}
	}
	if total != data.NumRows() {
		return fmt.Errorf("sharding lost rows: %d in, %d out", data.NumRows(), total)
	}
	util.Info("shard done",
		zap.Int("rows", total),
		zap.Int("shards", len(out)),
		zap.Duration("elapsed", time.Since(start)))

	if cfg.Debug.PrintSummary {
		tree := treeprint.NewWithRoot("shard")
		gen.schema.Print(tree.AddBranch("schema"))
		gen.desc.Print(tree.AddMetaBranch("sort", gen.desc.String()))
		for _, res := range results {
			if res.rows == 0 {
				continue
			}
			branch := tree.AddMetaBranch(fmt.Sprintf("shard %d", res.shard), res.rows)
			branch.AddMetaNode("runs", len(res.runs))
		}
		fmt.Println(tree.String())
	}
	if cfg.Debug.PrintResult {
		for i, batch := range out {
			batch.Print2(fmt.Sprintf("shard batch %d", i))
		}
	}
	return writeOutput(cfg, out)
}

func runDedup(cfg *util.Config) error {
	start := time.Now()
	gen := newGenerator(cfg)
	gen.desc.Reverse = false
	inputs := gen.sortedStreams()

	all := compute.CombineSortedBatches(inputs, gen.desc)
	if all == nil {
		util.Info("dedup done, no rows")
		return nil
	}
	runs := compute.DedupSortedBatch(all, gen.key)

	total := 0
	longest := 0
	columns := make([][]chunk.Column, len(runs))
	for i, run := range runs {
		total += run.NumRows()
		longest = max(longest, run.NumRows())
		columns[i] = compute.KeyColumns(run, gen.key)
		first := compute.NewRawKeyView(columns[i], 0)
		if !first.Equal(compute.NewRawKeyView(columns[i], run.NumRows()-1)) {
			return fmt.Errorf("run %d holds more than one key", i)
		}
		if i > 0 && !compute.NewRawKeyView(columns[i-1], 0).Less(first) {
			return fmt.Errorf("runs %d and %d are out of order", i-1, i)
		}
	}
	if total != all.NumRows() {
		return fmt.Errorf("dedup lost rows: %d in, %d out", all.NumRows(), total)
	}
	util.Info("dedup done",
		zap.Int("rows", total),
		zap.Int("runs", len(runs)),
		zap.Int("longestRun", longest),
		zap.Duration("elapsed", time.Since(start)))

	if cfg.Debug.PrintSummary {
		tree := treeprint.NewWithRoot("dedup")
		gen.schema.Print(tree.AddBranch("schema"))
		gen.desc.Print(tree.AddMetaBranch("sort", gen.desc.String()))
		tree.AddMetaNode("runs", len(runs))
		tree.AddMetaNode("longestRun", longest)
		fmt.Println(tree.String())
	}
	if cfg.Debug.PrintResult {
		for i, run := range runs {
			run.Print2(fmt.Sprintf("run %d", i))
		}
	}
	return writeOutput(cfg, runs)
}

func rowCount(batches []*chunk.Batch) int {
	n := 0
	for _, batch := range batches {
		n += batch.NumRows()
	}
	return n
}

// writeOutput stores the schema and every batch in the blob file, then reads
// the file back and checks it holds the same batches.
func writeOutput(cfg *util.Config, batches []*chunk.Batch) error {
	if cfg.Output.Path == "" || len(batches) == 0 {
		return nil
	}
	compression, err := codec.ParseCompression(cfg.Output.Compression)
	if err != nil {
		return err
	}
	schema := batches[0].Schema()
	blobs := make([][]byte, 0, len(batches)+1)
	blob, err := codec.SerializeSchema(schema)
	if err != nil {
		return err
	}
	blobs = append(blobs, blob)
	for _, batch := range batches {
		if blob, err = codec.SerializeBatch(batch, codec.WithCompression(compression)); err != nil {
			return err
		}
		blobs = append(blobs, blob)
	}

	serial, err := util.NewFileSerialize(cfg.Output.Path)
	if err != nil {
		return err
	}
	if err = codec.WriteBlobs(serial, blobs); err != nil {
		_ = serial.Close()
		return err
	}
	if err = serial.Close(); err != nil {
		return err
	}

	deserial, err := util.NewFileDeserialize(cfg.Output.Path)
	if err != nil {
		return err
	}
	defer deserial.Close()
	readBack, err := codec.ReadBlobs(deserial)
	if err != nil {
		return err
	}
	if len(readBack) != len(blobs) {
		return fmt.Errorf("read %d blobs, wrote %d", len(readBack), len(blobs))
	}
	got := codec.DeserializeSchema(readBack[0])
	if got == nil || !got.Equal(schema) {
		return fmt.Errorf("schema does not survive the round trip")
	}
	for i, batch := range batches {
		if !batch.Equal(codec.DeserializeBatch(readBack[i+1], got)) {
			return fmt.Errorf("batch %d does not survive the round trip", i)
		}
	}
	util.Info("output written",
		zap.String("path", cfg.Output.Path),
		zap.String("compression", compression.String()),
		zap.Int("batches", len(batches)))
	return nil
}

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

package codec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"go.uber.org/zap"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

type Compression int

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", int(c))
	}
}

// ParseCompression accepts "", "none", "zstd" and "lz4".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return CompressionNone, fmt.Errorf("unknown compression %q", s)
	}
}

type serializeOptions struct {
	compression Compression
	mem         memory.Allocator
}

type SerializeOption func(*serializeOptions)

func WithCompression(c Compression) SerializeOption {
	return func(opts *serializeOptions) {
		opts.compression = c
	}
}

func WithAllocator(mem memory.Allocator) SerializeOption {
	return func(opts *serializeOptions) {
		opts.mem = mem
	}
}

func (opts *serializeOptions) ipcOptions(schema *arrow.Schema) []ipc.Option {
	ret := []ipc.Option{
		ipc.WithSchema(schema),
		ipc.WithAllocator(opts.mem),
	}
	switch opts.compression {
	case CompressionZstd:
		ret = append(ret, ipc.WithZstd())
	case CompressionLZ4:
		ret = append(ret, ipc.WithLZ4())
	}
	return ret
}

// SerializeSchema encodes schema as an IPC stream holding no record.
func SerializeSchema(schema *common.Schema) ([]byte, error) {
	as, err := ToArrowSchema(schema)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, ipc.WithSchema(as))
	if err = w.Close(); err != nil {
		return nil, fmt.Errorf("write schema: %w", err)
	}
	return buf.Bytes(), nil
}

// DeserializeSchema returns nil for a malformed blob.
func DeserializeSchema(blob []byte) *common.Schema {
	schema, err := decodeSchema(blob)
	if err != nil {
		util.Warn("deserialize schema failed", zap.Error(err))
		return nil
	}
	return schema
}

func decodeSchema(blob []byte) (schema *common.Schema, err error) {
	defer func() {
		if xre := recover(); xre != nil {
			schema, err = nil, util.ConvertPanicError(xre)
		}
	}()
	r, err := ipc.NewReader(bytes.NewReader(blob), ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	defer r.Release()
	return FromArrowSchema(r.Schema())
}

// SerializeBatch encodes batch as an IPC stream of one record. No compression
// is applied unless asked for.
func SerializeBatch(batch *chunk.Batch, opts ...SerializeOption) ([]byte, error) {
	options := &serializeOptions{
		compression: CompressionNone,
		mem:         memory.NewGoAllocator(),
	}
	for _, opt := range opts {
		opt(options)
	}

	as, err := ToArrowSchema(batch.Schema())
	if err != nil {
		return nil, err
	}
	rec, err := toRecord(options.mem, as, batch)
	if err != nil {
		return nil, err
	}
	defer rec.Release()

	var buf bytes.Buffer
	w := ipc.NewWriter(&buf, options.ipcOptions(as)...)
	if err = w.Write(rec); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("write batch: %w", err)
	}
	if err = w.Close(); err != nil {
		return nil, fmt.Errorf("close batch writer: %w", err)
	}
	return buf.Bytes(), nil
}

func SerializeBatchNoCompression(batch *chunk.Batch) ([]byte, error) {
	return SerializeBatch(batch, WithCompression(CompressionNone))
}

// DeserializeBatch decodes a blob written by SerializeBatch. It returns nil
// when the blob is malformed or does not hold exactly one record of schema.
func DeserializeBatch(blob []byte, schema *common.Schema) *chunk.Batch {
	batch, err := decodeBatch(blob, schema)
	if err != nil {
		util.Warn("deserialize batch failed",
			zap.String("schema", schema.String()),
			zap.Error(err))
		return nil
	}
	return batch
}

func decodeBatch(blob []byte, schema *common.Schema) (batch *chunk.Batch, err error) {
	defer func() {
		if xre := recover(); xre != nil {
			batch, err = nil, util.ConvertPanicError(xre)
		}
	}()
	as, err := ToArrowSchema(schema)
	if err != nil {
		return nil, err
	}
	r, err := ipc.NewReader(bytes.NewReader(blob),
		ipc.WithSchema(as),
		ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}
	defer r.Release()

	if !r.Next() {
		if r.Err() != nil {
			return nil, fmt.Errorf("read batch: %w", r.Err())
		}
		return nil, fmt.Errorf("blob holds no record")
	}
	rec := r.Record()
	columns := make([]chunk.Column, rec.NumCols())
	for i, field := range schema.Fields() {
		arr := rec.Column(i)
		if int64(arr.Len()) != rec.NumRows() {
			return nil, fmt.Errorf("column %s has %d rows of %d", field.Name, arr.Len(), rec.NumRows())
		}
		if columns[i], err = fromArray(field.Type, arr); err != nil {
			return nil, fmt.Errorf("column %s: %w", field.Name, err)
		}
	}
	rows := int(rec.NumRows())
	if r.Next() {
		return nil, fmt.Errorf("blob holds more than one record")
	}
	if r.Err() != nil {
		return nil, fmt.Errorf("read batch: %w", r.Err())
	}
	return chunk.TryNewBatch(schema, columns, rows)
}

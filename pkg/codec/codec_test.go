package codec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviszhen/colkit/pkg/chunk"
	"github.com/daviszhen/colkit/pkg/common"
	"github.com/daviszhen/colkit/pkg/util"
)

func allTypesBatch() *chunk.Batch {
	valid := []bool{true, false, true}
	ts := common.TimestampFromTime(time.Date(2024, 5, 6, 7, 8, 9, 1000, time.UTC))
	columns := []chunk.Column{
		chunk.NewVector(common.BooleanType(), []bool{true, false, false}, valid),
		chunk.NewVector(common.TinyintType(), []int8{-1, 0, 127}, valid),
		chunk.NewVector(common.SmallintType(), []int16{-300, 0, 300}, valid),
		chunk.NewVector(common.IntegerType(), []int32{-70000, 0, 70000}, nil),
		chunk.NewVector(common.BigintType(), []int64{-1 << 40, 0, 1 << 40}, valid),
		chunk.NewVector(common.UTinyintType(), []uint8{0, 1, 255}, valid),
		chunk.NewVector(common.USmallintType(), []uint16{0, 1, 65535}, valid),
		chunk.NewVector(common.UIntegerType(), []uint32{0, 1, 1 << 31}, valid),
		chunk.NewVector(common.UbigintType(), []uint64{0, 1, 1 << 63}, valid),
		chunk.NewVector(common.FloatType(), []float32{-1.5, 0, 3.25}, valid),
		chunk.NewVector(common.DoubleType(), []float64{-2.5, 0, 1e300}, valid),
		chunk.NewVector(common.DateType(), []common.Date{-1, 0, 19000}, valid),
		chunk.NewVector(common.TimestampType(), []common.Timestamp{0, 0, ts}, valid),
		chunk.NewVector(common.IntervalType(), []common.Interval{common.IntervalFromDuration(time.Hour), 0, 5}, valid),
		chunk.NewVector(common.DecimalType(22, 9), []common.Decimal{
			common.MustDecimal("-12.5"), {}, common.MustDecimal("1234567890.123456789"),
		}, valid),
		chunk.NewVector(common.VarcharType(), []string{"", "x", "hello"}, valid),
		chunk.NewVector(common.BlobType(), [][]byte{{}, nil, {0, 1, 2}}, valid),
		chunk.NewVector(common.FixedBlobType(2), [][]byte{{1, 2}, nil, {3, 4}}, valid),
	}
	fields := make([]common.Field, len(columns))
	for i, col := range columns {
		fields[i] = common.Field{Name: col.Typ().String(), Type: col.Typ()}
	}
	return chunk.NewBatch(common.NewSchema(fields...), columns, 3)
}

func TestSchemaRoundTrip(t *testing.T) {
	schema := allTypesBatch().Schema()
	blob, err := SerializeSchema(schema)
	require.NoError(t, err)
	got := DeserializeSchema(blob)
	require.NotNil(t, got)
	assert.True(t, schema.Equal(got), got.String())

	empty := common.NewSchema()
	blob, err = SerializeSchema(empty)
	require.NoError(t, err)
	assert.Equal(t, 0, DeserializeSchema(blob).NumFields())
}

func TestBatchRoundTrip(t *testing.T) {
	batch := allTypesBatch()
	tests := []struct {
		name string
		opts []SerializeOption
	}{
		{"default", nil},
		{"zstd", []SerializeOption{WithCompression(CompressionZstd)}},
		{"lz4", []SerializeOption{WithCompression(CompressionLZ4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := SerializeBatch(batch, tt.opts...)
			require.NoError(t, err)
			got := DeserializeBatch(blob, batch.Schema())
			require.NotNil(t, got)
			assert.True(t, batch.Equal(got), got.String())
		})
	}

	empty := chunk.MakeEmptyBatch(batch.Schema())
	blob, err := SerializeBatchNoCompression(empty)
	require.NoError(t, err)
	got := DeserializeBatch(blob, batch.Schema())
	require.NotNil(t, got)
	assert.Equal(t, 0, got.NumRows())
	assert.Equal(t, batch.NumCols(), got.NumCols())
}

func TestSlicedBatchRoundTrip(t *testing.T) {
	batch := allTypesBatch().Slice(1, 2)
	blob, err := SerializeBatch(batch)
	require.NoError(t, err)
	got := DeserializeBatch(blob, batch.Schema())
	require.NotNil(t, got)
	assert.True(t, batch.Equal(got))
}

func TestDecimalRoundTripKeepsValues(t *testing.T) {
	typ := common.DecimalType(10, 2)
	col := chunk.NewVector(typ, []common.Decimal{
		common.MustDecimal("1.2300"),
		common.MustDecimal("-99999999.99"),
		common.MustDecimal("0.05"),
		common.MustDecimal("7"),
	}, nil)
	schema := common.NewSchema(common.Field{Name: "d", Type: typ})
	batch := chunk.NewBatch(schema, []chunk.Column{col}, col.Len())
	blob, err := SerializeBatch(batch)
	require.NoError(t, err)
	got := DeserializeBatch(blob, schema)
	require.NotNil(t, got)
	assert.True(t, batch.Equal(got), got.String())

	// A value with more fraction digits than the column keeps can not get in.
	assert.Panics(t, func() {
		chunk.NewVector(typ, []common.Decimal{common.MustDecimal("1.234")}, nil)
	})
}

func TestDeserializeMalformed(t *testing.T) {
	batch := allTypesBatch()
	blob, err := SerializeBatch(batch)
	require.NoError(t, err)

	assert.Nil(t, DeserializeSchema(nil))
	assert.Nil(t, DeserializeSchema([]byte("not a schema")))
	assert.Nil(t, DeserializeBatch(nil, batch.Schema()))
	assert.Nil(t, DeserializeBatch(blob[:len(blob)/2], batch.Schema()))

	other := common.NewSchema(common.Field{Name: "x", Type: common.BigintType()})
	assert.Nil(t, DeserializeBatch(blob, other))

	schemaBlob, err := SerializeSchema(batch.Schema())
	require.NoError(t, err)
	assert.Nil(t, DeserializeBatch(schemaBlob, batch.Schema()))
}

func TestParseCompression(t *testing.T) {
	c, err := ParseCompression("ZSTD")
	require.NoError(t, err)
	assert.Equal(t, CompressionZstd, c)
	c, err = ParseCompression("")
	require.NoError(t, err)
	assert.Equal(t, CompressionNone, c)
	_, err = ParseCompression("gzip")
	assert.Error(t, err)
}

func TestBlobsRoundTrip(t *testing.T) {
	blobs := [][]byte{[]byte("a"), {}, []byte("longer blob")}
	buf := &util.BufferSerialize{}
	require.NoError(t, WriteBlobs(buf, blobs))
	got, err := ReadBlobs(buf)
	require.NoError(t, err)
	assert.Equal(t, blobs, got)

	_, err = ReadBlobs(buf)
	assert.Error(t, err)
}

package codec

import (
	"fmt"

	"github.com/daviszhen/colkit/pkg/util"
)

// MaxBlobSize bounds a single blob read back by ReadBlobs.
const MaxBlobSize = 1 << 30

// WriteBlobs writes the blob count followed by each length-prefixed blob.
func WriteBlobs(serial util.Serialize, blobs [][]byte) error {
	if err := util.Write[uint32](uint32(len(blobs)), serial); err != nil {
		return err
	}
	for _, blob := range blobs {
		if err := util.WriteBytes(blob, serial); err != nil {
			return err
		}
	}
	return nil
}

func ReadBlobs(deserial util.Deserialize) ([][]byte, error) {
	var count uint32
	if err := util.Read[uint32](&count, deserial); err != nil {
		return nil, fmt.Errorf("read blob count: %w", err)
	}
	blobs := make([][]byte, 0, min(count, 1024))
	for i := uint32(0); i < count; i++ {
		blob, err := util.ReadBytes(deserial, MaxBlobSize)
		if err != nil {
			return nil, fmt.Errorf("read blob %d of %d: %w", i, count, err)
		}
		blobs = append(blobs, blob)
	}
	return blobs, nil
}

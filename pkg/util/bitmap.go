package util

// Bitmap is a validity mask. Bit set means valid. An empty Bitmap means
// every row is valid.
type Bitmap struct {
	Bits []uint8
}

func (bm *Bitmap) Init(count int) {
	cnt := EntryCount(count)
	bm.Bits = make([]uint8, cnt)
	for i := range bm.Bits {
		bm.Bits[i] = 0xFF
	}
}

func (bm *Bitmap) Invalid() bool {
	return len(bm.Bits) == 0
}

func GetEntryIndex(idx uint64) (uint64, uint64) {
	return idx / 8, idx % 8
}

func EntryIsSet(e uint8, pos uint64) bool {
	return e&(1<<pos) != 0
}

func (bm *Bitmap) RowIsValid(idx uint64) bool {
	if bm.Invalid() {
		return true
	}
	eIdx, pos := GetEntryIndex(idx)
	return EntryIsSet(bm.Bits[eIdx], pos)
}

// Set marks ridx. count is the row capacity used when the mask has to be
// materialized for the first invalid row.
func (bm *Bitmap) Set(ridx uint64, valid bool, count int) {
	if valid {
		if bm.Invalid() {
			return
		}
		eIdx, pos := GetEntryIndex(ridx)
		bm.Bits[eIdx] |= 1 << pos
		return
	}
	if bm.Invalid() {
		bm.Init(count)
	}
	eIdx, pos := GetEntryIndex(ridx)
	bm.Bits[eIdx] &= ^(1 << pos)
}

func EntryCount(cnt int) int {
	return (cnt + 7) / 8
}

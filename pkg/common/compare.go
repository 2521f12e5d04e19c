package common

// CompareResult is the relation of a row to a border value.
type CompareResult int8

const (
	LESS    CompareResult = -1
	BORDER  CompareResult = 0
	GREATER CompareResult = 1
)

func (res CompareResult) String() string {
	switch res {
	case LESS:
		return "LESS"
	case BORDER:
		return "BORDER"
	case GREATER:
		return "GREATER"
	}
	return "UNKNOWN"
}

// UpdateCompare narrows res when it is still BORDER. A decided result is
// never changed, which gives first-differing-column ordering over keys.
func UpdateCompare[T any](value, border T, cmp func(a, b T) int, res *CompareResult) {
	if *res != BORDER {
		return
	}
	c := cmp(value, border)
	if c < 0 {
		*res = LESS
	} else if c > 0 {
		*res = GREATER
	}
}

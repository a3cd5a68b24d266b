package common

import (
	"fmt"
	"math"
)

// SafeUint64ToUint32 safely converts uint64 to uint32 with bounds checking.
// Used when parsing user-supplied hexadecimal offsets and addresses.
func SafeUint64ToUint32(value uint64) (uint32, error) {
	if value > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of range for uint32 (0-%d)", value, uint64(math.MaxUint32))
	}
	return uint32(value), nil
}

package domain

import "strconv"

// NextOrderNumber returns the successor of the largest numeric order
// number among existing. Non-numeric numbers (manually typed values like
// "PV-0001") do not participate. With no numeric numbers it returns "1".
//
// The caller must run this inside the transaction that consumes the
// result; a concurrent allocation of the same number is caught by the
// natural-key unique index, not here.
func NextOrderNumber(existing []string) string {
	var max uint64
	for _, n := range existing {
		v, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			continue
		}
		if v > max {
			max = v
		}
	}
	return strconv.FormatUint(max+1, 10)
}

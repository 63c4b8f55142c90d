package datagen

import "samplegen/internal/rules"

// Acceptable applies placement legality and the check policy to a built
// candidate. Check status is a property of the placement: each color's
// king is tested as if that color had the move, whatever the stored
// side to move.
func Acceptable(e rules.Engine, b rules.Board, policy CheckPolicy) bool {
	if !e.Legal(b) {
		return false
	}
	switch policy {
	case AllowDoubleCheck:
		return true
	case AllowSingleCheck:
		return !(e.InCheck(b, true) && e.InCheck(b, false))
	default:
		return !e.InCheck(b, true) && !e.InCheck(b, false)
	}
}

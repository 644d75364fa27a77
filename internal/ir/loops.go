package ir

import (
	stderrors "errors"
)

var ErrZeroStep = stderrors.New("loop step must not be zero")

// IterationCount is the number of values start, start+step, ... that do not
// pass end, i.e. floor((end-start)/step)+1 clamped at zero.
func IterationCount(start, end, step int) (int, error) {
	if step == 0 {
		return 0, ErrZeroStep
	}
	n := floorDiv(end-start, step) + 1
	if n < 0 {
		return 0, nil
	}
	return n, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

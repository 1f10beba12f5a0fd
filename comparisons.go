package foldbench

import "math/rand/v2"

// negInf stands in for -INF in the folding tool's dynamic-programming tables.
const negInf = -999999

// min2 and max2 are the branch-based helpers the tool used before moving to
// the min and max builtins.
func min2(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max2(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// matrixSizeLoop sums the band sizes of a window-w triangular matrix one
// diagonal at a time.
func matrixSizeLoop(length, w int) int {
	size := 0
	for i := 1; i <= w; i++ {
		size += length - (i - 1)
	}
	return size
}

// matrixSizeFormula is the closed form of matrixSizeLoop.
func matrixSizeFormula(length, w int) int {
	if w <= length {
		return w*length - (w*(w-1))/2
	}
	return (length * (length + 1)) / 2
}

func fillLoop(buf []int, v int) {
	for i := range buf {
		buf[i] = v
	}
}

// fillDoubling fills buf by repeatedly copying the filled prefix onto the
// rest, which lets copy use wide moves.
func fillDoubling(buf []int, v int) {
	if len(buf) == 0 {
		return
	}
	buf[0] = v
	for filled := 1; filled < len(buf); filled *= 2 {
		copy(buf[filled:], buf[:filled])
	}
}

// spotSum samples every 97th element so a fill can be verified cheaply.
func spotSum(buf []int) int {
	s := 0
	for i := 0; i < len(buf); i += 97 {
		s += buf[i]
	}
	return s + buf[len(buf)-1]
}

// BuiltinComparisons returns the standard set of baseline/candidate pairs.
// All input data is generated here, from seed, before any timing.
func BuiltinComparisons(seed uint64) []Comparison {
	rng := rand.New(rand.NewPCG(seed, seed))

	pairs := make([][2]int, 1000)
	for i := range pairs {
		pairs[i] = [2]int{rng.IntN(1000) + 1, rng.IntN(1000) + 1}
	}

	params := [][2]int{{100, 50}, {200, 100}, {500, 250}, {1000, 500}, {2000, 1000}}

	const clearSize = 10000
	clearA := make([]int, clearSize)
	clearB := make([]int, clearSize)
	for i := range clearA {
		clearA[i] = rng.IntN(1 << 20)
	}
	copy(clearB, clearA)

	var fixed [100]int
	dynamic := make([]int, 100)
	for i := range fixed {
		fixed[i] = i
		dynamic[i] = i
	}

	return []Comparison{
		{
			Name: "min-max",
			Baseline: func() int {
				r := 0
				for _, p := range pairs {
					r += min2(p[0], p[1])
					r += max2(p[0], p[1])
				}
				return r
			},
			Candidate: func() int {
				r := 0
				for _, p := range pairs {
					r += min(p[0], p[1])
					r += max(p[0], p[1])
				}
				return r
			},
		},
		{
			Name: "matrix-size",
			Baseline: func() int {
				r := 0
				for _, p := range params {
					r += matrixSizeLoop(p[0], p[1])
				}
				return r
			},
			Candidate: func() int {
				r := 0
				for _, p := range params {
					r += matrixSizeFormula(p[0], p[1])
				}
				return r
			},
		},
		{
			Name:       "array-clear",
			Iterations: 10_000,
			Baseline: func() int {
				fillLoop(clearA, negInf)
				return spotSum(clearA)
			},
			Candidate: func() int {
				fillDoubling(clearB, negInf)
				return spotSum(clearB)
			},
		},
		{
			Name: "array-access",
			Baseline: func() int {
				r := 0
				for i := 0; i < len(dynamic); i++ {
					r += dynamic[i]
				}
				return r
			},
			Candidate: func() int {
				r := 0
				for i := 0; i < len(fixed); i++ {
					r += fixed[i]
				}
				return r
			},
		},
	}
}

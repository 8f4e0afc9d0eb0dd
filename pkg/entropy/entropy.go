package entropy

// BitsPerByte is the maximum entropy of a byte-valued alphabet.
const BitsPerByte = 8.0

// FreqTable maps each byte value to its occurrence count.
type FreqTable [256]uint64

// Count builds the frequency table for data in a single pass.
// It is total over any input; a nil or empty slice yields all zeros.
func Count(data []byte) FreqTable {
	var t FreqTable
	for _, b := range data {
		t[b]++
	}
	return t
}

// Total returns the sum of all counts, which equals the length of the
// input the table was built from.
func (t *FreqTable) Total() uint64 {
	var n uint64
	for _, c := range t {
		n += c
	}
	return n
}

// Distinct returns the number of byte values with a nonzero count.
func (t *FreqTable) Distinct() int {
	var d int
	for _, c := range t {
		if c > 0 {
			d++
		}
	}
	return d
}

// Log2Func computes a base-2 logarithm. It is only ever called with
// arguments in (0, 1].
type Log2Func func(x float64) float64

// Estimator computes Shannon entropy estimates over byte sequences.
// The zero value is not usable; construct with NewEstimator or
// NewEstimatorWithLog2.
type Estimator struct {
	log2 Log2Func
}

// NewEstimator returns an estimator backed by ApproxLog2.
func NewEstimator() *Estimator {
	return &Estimator{log2: ApproxLog2}
}

// NewEstimatorWithLog2 returns an estimator backed by the given
// logarithm, e.g. math.Log2 where an exact runtime is available.
func NewEstimatorWithLog2(log2 Log2Func) *Estimator {
	return &Estimator{log2: log2}
}

// Estimate returns the Shannon entropy of data in bits per byte.
// The result lies in [0, BitsPerByte]; empty input yields 0.
func (e *Estimator) Estimate(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	table := Count(data)
	return e.EstimateTable(&table, len(data))
}

// EstimateTable computes the entropy of a frequency table whose counts
// sum to n. Callers that already hold a table (e.g. built up across
// chunked reads) can use this directly; n == 0 yields 0.
func (e *Estimator) EstimateTable(table *FreqTable, n int) float64 {
	if n == 0 {
		return 0
	}
	inv := 1.0 / float64(n)
	var sum float64
	for _, c := range table {
		if c == 0 {
			continue
		}
		p := float64(c) * inv
		sum -= p * e.log2(p)
	}
	return sum
}

// Metric returns the metric entropy of data: the Shannon entropy divided
// by the input length, in [0, 1]. Empty input yields 0.
func (e *Estimator) Metric(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}
	return e.Estimate(data) / float64(len(data))
}

var defaultEstimator = NewEstimator()

// Estimate returns the approximate Shannon entropy of data in bits per
// byte, using the package default estimator.
func Estimate(data []byte) float64 {
	return defaultEstimator.Estimate(data)
}

// Metric returns the approximate metric entropy of data, using the
// package default estimator.
func Metric(data []byte) float64 {
	return defaultEstimator.Metric(data)
}

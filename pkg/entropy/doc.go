// Package entropy estimates the Shannon entropy of byte sequences.
//
// The package computes an approximate Shannon entropy, in bits per byte,
// over arbitrary byte slices. It is split into two pieces: a frequency
// counter over the 256-value byte alphabet, and an estimator that folds
// the counts into the Shannon sum using an approximate base-2 logarithm.
//
// # Algorithm
//
// For an input of length N with byte value b occurring count[b] times,
// the estimate is:
//
//	H = sum over b with count[b] > 0 of -p_b * log2(p_b),  p_b = count[b] / N
//
// Buckets with a zero count contribute nothing (0*log2(0) is taken as 0
// by convention and the logarithm is never evaluated at zero). An empty
// input has entropy 0. The result always lies in [0, 8]: 0 for a
// single repeated byte value, 8 for a uniform spread over all 256 values.
//
// # Approximate Logarithm
//
// log2 is computed by ApproxLog2, which decomposes the argument into its
// IEEE-754 exponent and mantissa and evaluates a short rational series on
// the mantissa. Only multiplication, division and addition are used, so
// the estimator does not depend on a transcendental math runtime. The
// approximation is monotonic and accurate to well under 0.01 bits over
// (0, 1]; see log2.go for the exact error bound.
//
// The logarithm is swappable: NewEstimatorWithLog2 accepts any Log2Func,
// so math.Log2 can be substituted where an exact runtime is available.
//
// # Usage
//
//	h := entropy.Estimate(data)       // bits per byte, in [0, 8]
//	m := entropy.Metric(data)         // entropy normalized by input length
//
// Or with an explicit estimator:
//
//	est := entropy.NewEstimatorWithLog2(math.Log2)
//	h := est.Estimate(data)
//
// # Performance
//
// Estimation is a single O(N) counting pass plus at most 256 logarithm
// evaluations, independent of N. No allocations are made beyond the
// fixed-size frequency table.
//
// # Thread Safety
//
// All functions are pure: each call owns its frequency table and no state
// survives between calls. Estimator values are safe for concurrent use.
package entropy

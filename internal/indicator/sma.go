// Package indicator provides pure technical indicator calculations over
// in-memory price slices. All functions are single-pass, allocate only
// their result, and never mutate their input.
package indicator

// SMA computes the Simple Moving Average of prices over the given
// window. The result has length len(prices)-window+1; an empty slice is
// returned when window is zero or exceeds the input length.
//
// A running sum is maintained so the cost is O(n) rather than
// O(n*window): each step drops the oldest price and adds the newest.
func SMA(prices []float64, window int) []float64 {
	if window <= 0 || len(prices) < window {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-window+1)

	sum := 0.0
	for i := 0; i < window; i++ {
		sum += prices[i]
	}

	result = append(result, sum/float64(window))

	for i := window; i < len(prices); i++ {
		sum += prices[i] - prices[i-window]
		result = append(result, sum/float64(window))
	}

	return result
}

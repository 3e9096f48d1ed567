package indicator

// nearZero guards divisions against an average loss that has decayed to
// (effectively) zero.
const nearZero = 1e-12

// RSI computes the Relative Strength Index of prices using Wilder's
// smoothing method. The result has length len(prices)-period; an empty
// slice is returned when period is zero or len(prices) <= period.
//
// The first value is seeded from the arithmetic average gain/loss over
// the first period deltas. Subsequent values smooth the running
// averages with factor (period-1)/period and weight each new delta by
// 1/period. This is Wilder's method, not a plain EMA. When the average
// loss is near zero the RSI saturates at 100.
func RSI(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) <= period {
		return []float64{}
	}

	result := make([]float64, 0, len(prices)-period)

	// Seed: average gain/loss over the first period deltas. Losses are
	// accumulated as positive magnitudes.
	avgGain := 0.0
	avgLoss := 0.0

	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)

	result = append(result, rsiValue(avgGain, avgLoss))

	smooth := float64(period-1) / float64(period)
	inv := 1.0 / float64(period)

	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain = avgGain*smooth + change*inv
			avgLoss = avgLoss * smooth
		} else {
			avgGain = avgGain * smooth
			avgLoss = avgLoss*smooth + (-change)*inv
		}

		result = append(result, rsiValue(avgGain, avgLoss))
	}

	return result
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss < nearZero {
		return 100
	}

	rs := avgGain / avgLoss

	return 100 - (100 / (1 + rs))
}

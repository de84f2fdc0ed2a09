package datautil

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/stat"
)

// ErrNoValues is returned by aggregations over empty inputs.
var ErrNoValues = errors.New("no values provided")

// WeightedMean computes the mean of values where each value is multiplied by
// the weight in the same position. Values beyond the weight list receive
// weight 1, surplus weights are ignored. An empty value list or a total
// weight of zero is an error.
func WeightedMean(values, weights []float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrNoValues
	}

	if len(weights) == 0 {
		return stat.Mean(values, nil), nil
	}

	if len(weights) == len(values) {
		totalWeight := 0.0
		for _, weight := range weights {
			totalWeight += weight
		}
		if totalWeight == 0 {
			return 0, errors.New("total weight is zero")
		}
		return stat.Mean(values, weights), nil
	}

	// pad or trim the weights to the value count
	adjusted := make([]float64, len(values))
	for i := range values {
		if i < len(weights) {
			adjusted[i] = weights[i]
		} else {
			adjusted[i] = 1.0
		}
	}
	totalWeight := 0.0
	for _, weight := range adjusted {
		totalWeight += weight
	}
	if totalWeight == 0 {
		return 0, errors.New("total weight is zero")
	}
	return stat.Mean(values, adjusted), nil
}

// Normalise scales values to [0, 1] using min/max scaling. With unbounded
// set, results are not clamped, so values outside the observed range map
// outside [0, 1] when the scaling is reused. A constant series maps to all
// zeros. The input is not mutated.
func Normalise(values []float64, unbounded bool) []float64 {
	if len(values) == 0 {
		return nil
	}

	minValue := values[0]
	maxValue := values[0]
	for _, value := range values {
		if value < minValue {
			minValue = value
		}
		if value > maxValue {
			maxValue = value
		}
	}

	result := make([]float64, len(values))
	spread := maxValue - minValue
	if spread == 0 {
		return result
	}

	for i, value := range values {
		scaled := (value - minValue) / spread
		if !unbounded {
			scaled = math.Max(0, math.Min(1, scaled))
		}
		result[i] = scaled
	}
	return result
}

// NormaliseWith scales values against an externally provided range, the
// companion to Normalise(..., true) for out-of-sample data.
func NormaliseWith(values []float64, minValue, maxValue float64, unbounded bool) []float64 {
	spread := maxValue - minValue
	result := make([]float64, len(values))
	if spread == 0 {
		return result
	}
	for i, value := range values {
		scaled := (value - minValue) / spread
		if !unbounded {
			scaled = math.Max(0, math.Min(1, scaled))
		}
		result[i] = scaled
	}
	return result
}

// Discretise floors every value onto the bucket boundary below it. The
// bucket size must be positive.
func Discretise(values []float64, bucketSize float64) ([]float64, error) {
	if bucketSize <= 0 {
		return nil, errors.New("bucket size must be positive")
	}
	result := make([]float64, len(values))
	for i, value := range values {
		result[i] = math.Floor(value/bucketSize) * bucketSize
	}
	return result, nil
}

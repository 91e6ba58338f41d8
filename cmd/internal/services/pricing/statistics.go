// Package pricing содержит расчет описательной статистики по рыночным
// ценам и классификацию котировок относительно медианы.
// Пакет не ходит в БД и не пишет логов: только чистые функции.
package pricing

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)

	// Границы допустимого коридора вокруг медианы: ±25%
	BandLowFactor  = decimal.RequireFromString("0.75")
	BandHighFactor = decimal.RequireFromString("1.25")
)

// Stats - описательная статистика по набору цен за единицу
type Stats struct {
	Count    int
	Mean     decimal.Decimal
	Median   decimal.Decimal
	StdDev   decimal.Decimal
	CV       decimal.Decimal // коэффициент вариации, %
	Min      decimal.Decimal
	Max      decimal.Decimal
	BandLow  decimal.Decimal
	BandHigh decimal.Decimal
}

// ComputeStatistics считает статистику по ценам.
// Пустой вход дает нулевой Stats с Count == 0.
func ComputeStatistics(values []decimal.Decimal) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LessThan(sorted[j])
	})

	n := decimal.NewFromInt(int64(len(sorted)))

	sum := decimal.Zero
	for _, v := range sorted {
		sum = sum.Add(v)
	}
	mean := sum.Div(n)

	// Дисперсия генеральной совокупности (деление на N)
	sq := decimal.Zero
	for _, v := range sorted {
		d := v.Sub(mean)
		sq = sq.Add(d.Mul(d))
	}
	variance := sq.Div(n)
	stddev := decimal.NewFromFloat(math.Sqrt(variance.InexactFloat64()))

	median := medianOfSorted(sorted)

	cv := decimal.Zero
	if !mean.IsZero() {
		cv = stddev.Div(mean).Mul(hundred)
	}

	return Stats{
		Count:    len(sorted),
		Mean:     mean,
		Median:   median,
		StdDev:   stddev,
		CV:       cv,
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		BandLow:  median.Mul(BandLowFactor),
		BandHigh: median.Mul(BandHighFactor),
	}
}

func medianOfSorted(sorted []decimal.Decimal) decimal.Decimal {
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(two)
}

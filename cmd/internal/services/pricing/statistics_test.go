package pricing

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
СЦЕНАРИИ ДЛЯ СТАТИСТИКИ ЦЕН

1. Пустой набор - нулевая статистика, Count == 0, без паники
2. Нечетное и четное число цен - медиана берется по середине или среднему двух центральных
3. Медиана всегда лежит в [min, max]
4. Результат не зависит от порядка цен
5. CV == 0 при нулевом среднем
*/

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decs(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = dec(v)
	}
	return out
}

func assertDecEqual(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), append([]interface{}{"ожидалось %s, получено %s", expected, actual.String()}, msgAndArgs...)...)
}

func TestComputeStatistics_Empty(t *testing.T) {
	// GIVEN: пустой набор цен
	// WHEN: считаем статистику
	stats := ComputeStatistics(nil)

	// THEN: нулевая запись без ошибок
	assert.Equal(t, 0, stats.Count)
	assert.True(t, stats.Mean.IsZero())
	assert.True(t, stats.Median.IsZero())
	assert.True(t, stats.StdDev.IsZero())
	assert.True(t, stats.CV.IsZero())
}

func TestComputeStatistics_ThreeQuotations(t *testing.T) {
	// GIVEN: три котировки 100, 110, 105
	stats := ComputeStatistics(decs("100", "110", "105"))

	// THEN: медиана и среднее 105, коридор [78.75, 131.25]
	assert.Equal(t, 3, stats.Count)
	assertDecEqual(t, "105", stats.Median)
	assertDecEqual(t, "105", stats.Mean)
	assertDecEqual(t, "100", stats.Min)
	assertDecEqual(t, "110", stats.Max)
	assertDecEqual(t, "78.75", stats.BandLow)
	assertDecEqual(t, "131.25", stats.BandHigh)

	// sqrt(50/3) ≈ 4.0825
	assert.InDelta(t, 4.0825, stats.StdDev.InexactFloat64(), 0.0001)
	assert.InDelta(t, 3.8881, stats.CV.InexactFloat64(), 0.0001)
}

func TestComputeStatistics_EvenCountMedian(t *testing.T) {
	stats := ComputeStatistics(decs("40", "10", "30", "20"))

	assertDecEqual(t, "25", stats.Median)
	assertDecEqual(t, "25", stats.Mean)
	assertDecEqual(t, "10", stats.Min)
	assertDecEqual(t, "40", stats.Max)
}

func TestComputeStatistics_SingleValue(t *testing.T) {
	stats := ComputeStatistics(decs("12.3456"))

	assert.Equal(t, 1, stats.Count)
	assertDecEqual(t, "12.3456", stats.Median)
	assert.True(t, stats.StdDev.IsZero())
	assert.True(t, stats.CV.IsZero())
}

func TestComputeStatistics_ZeroMeanHasZeroCV(t *testing.T) {
	stats := ComputeStatistics(decs("0", "0"))

	assert.True(t, stats.Mean.IsZero())
	assert.True(t, stats.CV.IsZero())
}

func TestComputeStatistics_DoesNotMutateInput(t *testing.T) {
	input := decs("3", "1", "2")
	ComputeStatistics(input)

	assertDecEqual(t, "3", input[0])
	assertDecEqual(t, "1", input[1])
	assertDecEqual(t, "2", input[2])
}

func randomPrices(r *rand.Rand) []decimal.Decimal {
	n := 1 + r.Intn(15)
	out := make([]decimal.Decimal, n)
	for i := range out {
		// до 4 знаков после запятой, как в колонке NUMERIC(15,4)
		out[i] = decimal.New(1+r.Int63n(10_000_000), -4)
	}
	return out
}

func TestComputeStatistics_MedianWithinRange(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		prices := randomPrices(r)
		stats := ComputeStatistics(prices)

		require.False(t, stats.Median.LessThan(stats.Min), "медиана меньше минимума: %v", prices)
		require.False(t, stats.Median.GreaterThan(stats.Max), "медиана больше максимума: %v", prices)
	}
}

func TestComputeStatistics_OrderIndependent(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		prices := randomPrices(r)
		shuffled := make([]decimal.Decimal, len(prices))
		copy(shuffled, prices)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		s1 := ComputeStatistics(prices)
		s2 := ComputeStatistics(shuffled)

		require.Equal(t, s1.Count, s2.Count)
		require.True(t, s1.Mean.Equal(s2.Mean))
		require.True(t, s1.Median.Equal(s2.Median))
		require.True(t, s1.StdDev.Equal(s2.StdDev))
		require.True(t, s1.CV.Equal(s2.CV))
		require.True(t, s1.Min.Equal(s2.Min))
		require.True(t, s1.Max.Equal(s2.Max))
		require.True(t, s1.BandLow.Equal(s2.BandLow))
		require.True(t, s1.BandHigh.Equal(s2.BandHigh))
	}
}

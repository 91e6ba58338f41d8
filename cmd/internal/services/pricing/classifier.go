package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Classification - результат проверки котировки
type Classification string

const (
	Accepted       Classification = "ACCEPTED"
	BelowThreshold Classification = "BELOW_THRESHOLD"
	AboveThreshold Classification = "ABOVE_THRESHOLD"
	InvalidDate    Classification = "INVALID_DATE"
)

// MaxAgeMonths - котировка старше этого числа полных месяцев считается устаревшей
const MaxAgeMonths = 12

// Observation - котировка на входе классификатора
type Observation struct {
	ID          int64
	Value       decimal.Decimal
	CollectedAt time.Time
}

// Classified - котировка с присвоенной классификацией.
// Deviation == nil для устаревших котировок.
type Classified struct {
	ID             int64
	Classification Classification
	Deviation      *decimal.Decimal
}

// Classifier классифицирует котировки относительно медианы.
// Текущее время берется из now, чтобы тесты могли зафиксировать дату.
type Classifier struct {
	now func() time.Time
}

func NewClassifier(now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{now: now}
}

// Classify проверяет каждую котировку независимо от остальных.
// Порядок правил: устаревание, затем коридор (только при медиане > 0), иначе ACCEPTED.
func (c *Classifier) Classify(observations []Observation, median decimal.Decimal) []Classified {
	now := c.now()
	low := median.Mul(BandLowFactor)
	high := median.Mul(BandHighFactor)
	hasMedian := median.GreaterThan(decimal.Zero)

	result := make([]Classified, 0, len(observations))
	for _, o := range observations {
		if monthsBetween(o.CollectedAt, now) > MaxAgeMonths {
			result = append(result, Classified{ID: o.ID, Classification: InvalidDate})
			continue
		}

		class := Accepted
		if hasMedian {
			switch {
			case o.Value.LessThan(low):
				class = BelowThreshold
			case o.Value.GreaterThan(high):
				class = AboveThreshold
			}
		}

		dev := Deviation(o.Value, median)
		result = append(result, Classified{ID: o.ID, Classification: class, Deviation: &dev})
	}
	return result
}

// Deviation возвращает отклонение value от median в процентах, 0 если медиана не положительна
func Deviation(value, median decimal.Decimal) decimal.Decimal {
	if !median.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	return value.Sub(median).Div(median).Mul(hundred).Round(4)
}

// monthsBetween - число полных календарных месяцев от from до to
func monthsBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.In(from.Location()).Date()

	months := (ty-fy)*12 + int(tm-fm)
	if td < fd {
		months--
	}
	return months
}

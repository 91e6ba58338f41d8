package util

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout - формат дат в API (дата сбора котировки)
const DateLayout = "2006-01-02"

// Deref возвращает значение строки или "" для nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// NullableString преобразует *string в sql.NullString.
// Пустая строка (после обрезки пробелов) считается NULL.
func NullableString(s *string) sql.NullString {
	if s == nil || strings.TrimSpace(*s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: strings.TrimSpace(*s), Valid: true}
}

// NullableInt64 преобразует *int64 в sql.NullInt64
func NullableInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{Valid: false}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

// StringPtr - обратное к NullableString, для ответов API
func StringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func Int64Ptr(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}
	return &i.Int64
}

// TimePtr форматирует sql.NullTime в RFC3339
func TimePtr(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := t.Time.Format(time.RFC3339)
	return &s
}

func DecimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}

// ParseDate разбирает дату в формате YYYY-MM-DD (UTC)
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("дата %q не в формате YYYY-MM-DD", s)
	}
	return t, nil
}

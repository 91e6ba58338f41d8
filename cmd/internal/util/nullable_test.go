package util

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeref(t *testing.T) {
	s := "value"
	assert.Equal(t, "value", Deref(&s))
	assert.Equal(t, "", Deref(nil))
}

func TestNullableString(t *testing.T) {
	t.Run("валидная строка обрезается", func(t *testing.T) {
		s := "  Поставщик  "
		result := NullableString(&s)

		assert.True(t, result.Valid)
		assert.Equal(t, "Поставщик", result.String)
	})

	t.Run("nil и пустые строки - NULL", func(t *testing.T) {
		empty, spaces := "", "   "
		assert.False(t, NullableString(nil).Valid)
		assert.False(t, NullableString(&empty).Valid)
		assert.False(t, NullableString(&spaces).Valid)
	})
}

func TestNullableInt64(t *testing.T) {
	v := int64(0)
	result := NullableInt64(&v)
	assert.True(t, result.Valid, "0 - валидное значение")
	assert.False(t, NullableInt64(nil).Valid)
}

func TestPointersFromNullTypes(t *testing.T) {
	assert.Nil(t, StringPtr(sql.NullString{}))
	assert.Equal(t, "x", *StringPtr(sql.NullString{String: "x", Valid: true}))

	assert.Nil(t, Int64Ptr(sql.NullInt64{}))
	assert.Equal(t, int64(5), *Int64Ptr(sql.NullInt64{Int64: 5, Valid: true}))

	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Nil(t, TimePtr(sql.NullTime{}))
	assert.Equal(t, "2026-01-02T03:04:05Z", *TimePtr(sql.NullTime{Time: ts, Valid: true}))

	assert.Nil(t, DecimalPtr(decimal.NullDecimal{}))
	assert.True(t, DecimalPtr(decimal.NewNullDecimal(decimal.NewFromInt(7))).Equal(decimal.NewFromInt(7)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("15/03/2026")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

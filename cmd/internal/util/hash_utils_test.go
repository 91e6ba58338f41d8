package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("хеш проверяется исходным паролем", func(t *testing.T) {
		hash, err := HashPassword("s3cret-pass")

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"), "ожидается bcrypt префикс")
		assert.True(t, CheckPasswordHash("s3cret-pass", hash))
		assert.False(t, CheckPasswordHash("s3cret-pasS", hash))
	})

	t.Run("одинаковый пароль дает разные соли", func(t *testing.T) {
		h1, err := HashPassword("same")
		require.NoError(t, err)
		h2, err := HashPassword("same")
		require.NoError(t, err)

		assert.NotEqual(t, h1, h2)
	})

	t.Run("пустой пароль", func(t *testing.T) {
		_, err := HashPassword("")
		assert.ErrorIs(t, err, ErrEmptyPassword)
	})
}

func TestCheckPasswordHash_InvalidHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("password", ""))
	assert.False(t, CheckPasswordHash("password", "not-a-bcrypt-hash"))
}

func TestGetSHA256Hash(t *testing.T) {
	// известное значение для пустой строки
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", GetSHA256Hash(""))

	hash := GetSHA256Hash("refresh-token")
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, GetSHA256Hash("refresh-token"))
	assert.NotEqual(t, hash, GetSHA256Hash("refresh-token2"))
}

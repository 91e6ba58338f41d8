package auth

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhukovvlad/procurement-go/cmd/internal/config"
)

/*
СЦЕНАРИИ ТОКЕНОВ И ВСПОМОГАТЕЛЬНЫХ ФУНКЦИЙ

1. Access token несет user_id и роль, подписан HS256 и выпущен procurement-go
2. Просроченный, переподписанный, чужого издателя или с alg=none токен отклоняется
3. Refresh token - 64 hex-символа, в БД хранится только хеш, регистр не важен
4. Мусорный refresh token отсекается до запроса в БД
5. User-Agent обрезается по символам, а не по байтам
6. В логи попадают только короткие хеши идентификаторов
*/

const testSecret = "test-secret-key-minimum-32-chars-long"

func newTokenService(ttl time.Duration) *Service {
	return &Service{config: &config.Config{Auth: config.AuthConfig{
		JWTSecret:      testSecret,
		AccessTokenTTL: ttl,
	}}}
}

func signClaims(t *testing.T, method jwt.SigningMethod, key any, claims JWTClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func claimsFor(userID int64, role, issuer string, expiresIn time.Duration) JWTClaims {
	now := time.Now()
	return JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
}

func TestAccessToken_RoundTrip(t *testing.T) {
	// GIVEN: сервис с TTL 15 минут
	svc := newTokenService(15 * time.Minute)

	// WHEN: токен выпущен для менеджера закупок
	token, err := svc.generateAccessToken(42, RoleGestor)
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(token)

	// THEN: claims совпадают, срок около TTL
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, RoleGestor, claims.Role)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	svc := newTokenService(15 * time.Minute)
	valid, err := svc.generateAccessToken(1, RoleAdmin)
	require.NoError(t, err)

	// подмена payload без пересчета подписи
	parts := strings.Split(valid, ".")
	require.Len(t, parts, 3)
	forgedPayload := signClaims(t, jwt.SigningMethodHS256, []byte("other"), claimsFor(999, RoleAdmin, tokenIssuer, time.Hour))
	tampered := parts[0] + "." + strings.Split(forgedPayload, ".")[1] + "." + parts[2]

	cases := []struct {
		name  string
		token string
	}{
		{"просрочен", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor(1, RoleAdmin, tokenIssuer, -time.Minute))},
		{"чужой ключ", signClaims(t, jwt.SigningMethodHS256, []byte("another-secret-another-secret-xx"), claimsFor(1, RoleAdmin, tokenIssuer, time.Hour))},
		{"чужой издатель", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor(1, RoleAdmin, "other-service", time.Hour))},
		{"alg none", signClaims(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor(1, RoleAdmin, tokenIssuer, time.Hour))},
		{"подмененный payload", tampered},
		{"пустая строка", ""},
		{"не JWT", "abc.def"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := svc.ValidateAccessToken(tc.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestRefreshToken_FormatAndHash(t *testing.T) {
	// GIVEN/WHEN: два сгенерированных токена
	first, firstHash, err := generateRefreshToken()
	require.NoError(t, err)
	second, _, err := generateRefreshToken()
	require.NoError(t, err)

	// THEN: формат валиден, токены различаются, хеш не совпадает с токеном
	assert.Len(t, first, refreshTokenBytes*2)
	assert.NoError(t, validateRefreshTokenFormat(first))
	assert.NotEqual(t, first, second)
	assert.NotEqual(t, first, firstHash)
	assert.Len(t, firstHash, 64)

	// хеш детерминирован и не зависит от регистра
	assert.Equal(t, firstHash, hashRefreshToken(first))
	assert.Equal(t, firstHash, hashRefreshToken(strings.ToUpper(first)))
}

func TestValidateRefreshTokenFormat_Invalid(t *testing.T) {
	cases := map[string]string{
		"пусто":         "",
		"короткий":      strings.Repeat("a", 63),
		"длинный":       strings.Repeat("a", 65),
		"не hex":        strings.Repeat("g", 64),
		"пробелы":       " " + strings.Repeat("a", 62) + " ",
		"SQL-инъекция":  "'; DROP TABLE user_sessions; --" + strings.Repeat("0", 33),
		"юникод":        strings.Repeat("а", 32), // кириллица: 64 байта
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, validateRefreshTokenFormat(token), ErrInvalidToken)
		})
	}
}

func TestValidateUserAgent(t *testing.T) {
	t.Run("короткий не меняется", func(t *testing.T) {
		ua := "Mozilla/5.0 (X11; Linux x86_64)"
		assert.Equal(t, ua, validateUserAgent(ua))
	})

	t.Run("длинный обрезается до лимита символов", func(t *testing.T) {
		got := validateUserAgent(strings.Repeat("x", 1000))
		assert.Len(t, []rune(got), maxUserAgentLength)
	})

	t.Run("многобайтовые символы не разрываются", func(t *testing.T) {
		got := validateUserAgent(strings.Repeat("世", maxUserAgentLength+10))
		assert.Len(t, []rune(got), maxUserAgentLength)
		assert.True(t, strings.HasSuffix(got, "世"))
	})
}

func TestLogIdentifiers(t *testing.T) {
	h := hashIdentifier("Gestor@Orgao.gov.br")
	assert.Len(t, h, 16)
	assert.Equal(t, h, hashIdentifier("gestor@orgao.gov.br"), "регистр email не влияет на хеш")
	assert.NotContains(t, h, "gestor")

	assert.Len(t, hashUserID(7), 16)
	assert.NotEqual(t, hashUserID(7), hashUserID(8))
}

func TestIPToInet(t *testing.T) {
	v4 := net.ParseIP("192.168.10.5")
	inet := ipToInet(&v4)
	require.True(t, inet.Valid)
	assert.Equal(t, "192.168.10.5/32", inet.IPNet.String())

	v6 := net.ParseIP("2001:db8::1")
	inet = ipToInet(&v6)
	require.True(t, inet.Valid)
	assert.Equal(t, "2001:db8::1/128", inet.IPNet.String())

	assert.False(t, ipToInet(nil).Valid)
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleAdmin, RoleGestor, RoleRequisitante} {
		assert.True(t, ValidRole(r), r)
	}
	assert.False(t, ValidRole("superuser"))
	assert.False(t, ValidRole("Admin"))
}

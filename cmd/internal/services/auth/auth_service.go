package auth

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sqlc-dev/pqtype"
	"golang.org/x/crypto/bcrypt"

	"github.com/zhukovvlad/procurement-go/cmd/internal/config"
	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
	"github.com/zhukovvlad/procurement-go/cmd/internal/util"
)

const (
	RoleAdmin        = "admin"
	RoleGestor       = "gestor"
	RoleRequisitante = "requisitante"

	tokenIssuer        = "procurement-go"
	refreshTokenBytes  = 32
	maxUserAgentLength = 255
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrSessionNotFound    = errors.New("session not found or expired")
)

// ValidRole - роль из фиксированного набора
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleGestor, RoleRequisitante:
		return true
	}
	return false
}

// Logger - минимальный интерфейс логгера; *logging.Logger ему удовлетворяет
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// dummyPasswordHash сравнивается, когда пользователь не найден, чтобы время ответа не выдавало существование email
var dummyPasswordHash []byte

func init() {
	var err error
	dummyPasswordHash, err = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing-protection"), bcrypt.DefaultCost)
	if err != nil {
		panic(fmt.Sprintf("failed to generate dummy hash: %v", err))
	}
}

// validateUserAgent обрезает User-Agent до maxUserAgentLength символов, не разрывая UTF-8
func validateUserAgent(ua string) string {
	runes := []rune(ua)
	if len(runes) > maxUserAgentLength {
		return string(runes[:maxUserAgentLength])
	}
	return ua
}

// validateRefreshTokenFormat отсекает мусор до обращения к БД: 64 hex-символа
func validateRefreshTokenFormat(token string) error {
	if len(token) != refreshTokenBytes*2 {
		return ErrInvalidToken
	}
	if _, err := hex.DecodeString(token); err != nil {
		return ErrInvalidToken
	}
	return nil
}

// hashIdentifier - короткий хеш для логов, чтобы не писать email в открытом виде
func hashIdentifier(id string) string {
	return util.GetSHA256Hash(strings.ToLower(id))[:16]
}

func hashUserID(userID int64) string {
	return hashIdentifier(fmt.Sprintf("user:%d", userID))
}

func ipToInet(ip *net.IP) pqtype.Inet {
	if ip == nil || *ip == nil {
		return pqtype.Inet{}
	}
	if v4 := ip.To4(); v4 != nil {
		return pqtype.Inet{IPNet: net.IPNet{IP: v4, Mask: net.CIDRMask(32, 32)}, Valid: true}
	}
	return pqtype.Inet{IPNet: net.IPNet{IP: *ip, Mask: net.CIDRMask(128, 128)}, Valid: true}
}

// JWTClaims представляет payload JWT токена
type JWTClaims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Service предоставляет методы для аутентификации и управления пользователями
type Service struct {
	store  db.Store
	config *config.Config
	audit  AuditRecorder
	logger Logger
}

// AuditRecorder пишет изменения пользователей в журнал
type AuditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

func NewService(store db.Store, cfg *config.Config, auditRecorder AuditRecorder, logger Logger) *Service {
	return &Service{
		store:  store,
		config: cfg,
		audit:  auditRecorder,
		logger: logger,
	}
}

// LoginResult содержит результат успешной аутентификации
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         db.User
}

// Login аутентифицирует пользователя по email и паролю и открывает сессию
func (s *Service) Login(ctx context.Context, email, password string, ipAddress *net.IP, userAgent string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserAuthByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte(password))
			s.logger.Warnf("вход отклонен: пользователь %s не найден", hashIdentifier(email))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// неактивного пользователя не отличаем от неверного пароля
	if !user.IsActive || !util.CheckPasswordHash(password, user.PasswordHash) {
		s.logger.Warnf("вход отклонен для пользователя %s", hashUserID(user.ID))
		return nil, ErrInvalidCredentials
	}

	refreshToken, refreshHash, err := generateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	userAgent = validateUserAgent(userAgent)
	_, err = s.store.CreateUserSession(ctx, db.CreateUserSessionParams{
		UserID:           user.ID,
		RefreshTokenHash: refreshHash,
		UserAgent:        sql.NullString{String: userAgent, Valid: userAgent != ""},
		IpAddress:        ipToInet(ipAddress),
		ExpiresAt:        time.Now().Add(s.config.Auth.RefreshTokenTTL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.generateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.logger.Infof("пользователь %s вошел в систему", hashUserID(user.ID))
	user.PasswordHash = ""
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// RefreshResult содержит новые токены после обновления
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
	UserID       int64
	Role         string
}

// Refresh ротирует refresh token: старая сессия отзывается, новая создается в той же транзакции
func (s *Service) Refresh(ctx context.Context, refreshToken string, ipAddress *net.IP, userAgent string) (*RefreshResult, error) {
	if err := validateRefreshTokenFormat(refreshToken); err != nil {
		return nil, err
	}
	refreshHash := hashRefreshToken(refreshToken)

	var result RefreshResult
	err := s.store.ExecTx(ctx, func(qtx db.Querier) error {
		session, err := qtx.GetActiveSessionByRefreshHashForUpdate(ctx, refreshHash)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}
		if time.Now().After(session.ExpiresAt) {
			return ErrSessionNotFound
		}

		if err := qtx.RevokeSessionByID(ctx, session.ID); err != nil {
			return fmt.Errorf("failed to revoke old session: %w", err)
		}

		user, err := qtx.GetUserByID(ctx, session.UserID)
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if !user.IsActive {
			return ErrSessionNotFound
		}

		newRefreshToken, newRefreshHash, err := generateRefreshToken()
		if err != nil {
			return fmt.Errorf("failed to generate refresh token: %w", err)
		}

		ua := validateUserAgent(userAgent)
		_, err = qtx.CreateUserSession(ctx, db.CreateUserSessionParams{
			UserID:           session.UserID,
			RefreshTokenHash: newRefreshHash,
			UserAgent:        sql.NullString{String: ua, Valid: ua != ""},
			IpAddress:        ipToInet(ipAddress),
			ExpiresAt:        time.Now().Add(s.config.Auth.RefreshTokenTTL),
		})
		if err != nil {
			return fmt.Errorf("failed to create new session: %w", err)
		}

		accessToken, err := s.generateAccessToken(user.ID, user.Role)
		if err != nil {
			return fmt.Errorf("failed to generate access token: %w", err)
		}

		result = RefreshResult{
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			UserID:       user.ID,
			Role:         user.Role,
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			s.logger.Errorf("ошибка обновления сессии: %v", err)
		}
		return nil, err
	}

	return &result, nil
}

// Logout отзывает refresh token. Неизвестный токен не ошибка.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	if err := validateRefreshTokenFormat(refreshToken); err != nil {
		return nil
	}
	if err := s.store.RevokeSessionByRefreshHash(ctx, hashRefreshToken(refreshToken)); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// ValidateAccessToken валидирует JWT access token и возвращает claims
func (s *Service) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Auth.JWTSecret), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetUser возвращает пользователя без хеша пароля
func (s *Service) GetUser(ctx context.Context, userID int64) (db.User, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return db.User{}, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *Service) generateAccessToken(userID int64, role string) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Auth.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   fmt.Sprintf("%d", userID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Auth.JWTSecret))
}

// generateRefreshToken генерирует случайный refresh token и его SHA-256 хеш для БД
func generateRefreshToken() (token string, hash string, err error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	token = hex.EncodeToString(buf)
	return token, hashRefreshToken(token), nil
}

// hashRefreshToken нормализует регистр: hex-токен в верхнем регистре - тот же токен
func hashRefreshToken(token string) string {
	return util.GetSHA256Hash(strings.ToLower(token))
}

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
	"github.com/zhukovvlad/procurement-go/cmd/internal/util"
)

const minPasswordLength = 8

// CreateUser регистрирует пользователя с bcrypt-хешем пароля
func (s *Service) CreateUser(ctx context.Context, actorID int64, email, password, role string) (db.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return db.User{}, apierrors.NewValidationError("некорректный email: %s", email)
	}
	if len(password) < minPasswordLength {
		return db.User{}, apierrors.NewValidationError("пароль должен быть не короче %d символов", minPasswordLength)
	}
	if !ValidRole(role) {
		return db.User{}, apierrors.NewValidationError("неизвестная роль: %s", role)
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return db.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.CreateUser(ctx, db.CreateUserParams{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		if apierrors.IsUniqueViolation(err) {
			return db.User{}, apierrors.NewValidationError("пользователь с email %s уже существует", email)
		}
		return db.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	user.PasswordHash = ""

	s.logger.Infof("создан пользователь %s с ролью %s", hashUserID(user.ID), role)
	s.recordAudit(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionCreate,
		EntityType: audit.EntityUser,
		EntityID:   user.ID,
		New:        map[string]any{"email": user.Email, "role": user.Role},
	})
	return user, nil
}

// ListUsers - список пользователей для администратора, без хешей паролей
func (s *Service) ListUsers(ctx context.Context, limit, offset int32) ([]db.User, error) {
	users, err := s.store.ListUsers(ctx, db.ListUsersParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// ChangeRole меняет роль пользователя. Администратор не может понизить сам себя.
func (s *Service) ChangeRole(ctx context.Context, actorID, userID int64, role string) (db.User, error) {
	if !ValidRole(role) {
		return db.User{}, apierrors.NewValidationError("неизвестная роль: %s", role)
	}
	if actorID == userID && role != RoleAdmin {
		return db.User{}, apierrors.NewForbiddenError("нельзя снять роль администратора с самого себя")
	}

	before, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.User{}, apierrors.NewNotFoundError("пользователь с ID %d не найден", userID)
		}
		return db.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	user, err := s.store.UpdateUserRole(ctx, db.UpdateUserRoleParams{ID: userID, Role: role})
	if err != nil {
		return db.User{}, fmt.Errorf("failed to update role: %w", err)
	}
	user.PasswordHash = ""

	s.logger.Infof("роль пользователя %s изменена: %s -> %s", hashUserID(userID), before.Role, role)
	s.recordAudit(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionUpdate,
		EntityType: audit.EntityUser,
		EntityID:   userID,
		Previous:   map[string]any{"role": before.Role},
		New:        map[string]any{"role": user.Role},
	})
	return user, nil
}

func (s *Service) recordAudit(ctx context.Context, entry audit.Entry) {
	if s.audit != nil {
		s.audit.Record(ctx, entry)
	}
}

package supplier

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"

	"github.com/zhukovvlad/procurement-go/cmd/internal/api_models"
	db "github.com/zhukovvlad/procurement-go/cmd/internal/db/sqlc"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/apierrors"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/audit"
	"github.com/zhukovvlad/procurement-go/cmd/internal/services/lifecycle"
	"github.com/zhukovvlad/procurement-go/cmd/internal/util"
	"github.com/zhukovvlad/procurement-go/cmd/pkg/logging"
)

const (
	cpfLength  = 11
	cnpjLength = 14
)

type Service struct {
	store  db.Querier
	audit  lifecycle.AuditRecorder
	logger *logging.Logger
}

func NewService(store db.Querier, auditRecorder lifecycle.AuditRecorder, logger *logging.Logger) *Service {
	return &Service{store: store, audit: auditRecorder, logger: logger}
}

// NormalizeDocument оставляет только цифры. Документ - CPF (11 цифр) или CNPJ (14).
func NormalizeDocument(document string) (string, error) {
	var b strings.Builder
	for _, r := range document {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != cpfLength && len(digits) != cnpjLength {
		return "", apierrors.NewValidationError("документ поставщика должен содержать %d или %d цифр, получено %d", cpfLength, cnpjLength, len(digits))
	}
	return digits, nil
}

func (s *Service) CreateSupplier(ctx context.Context, actorID int64, data api_models.SupplierData) (db.Supplier, error) {
	logger := s.logger.WithFields(logrus.Fields{"method": "CreateSupplier"})

	name := strings.TrimSpace(data.Name)
	if name == "" {
		return db.Supplier{}, apierrors.NewValidationError("имя поставщика не может быть пустым")
	}
	document, err := NormalizeDocument(data.Document)
	if err != nil {
		return db.Supplier{}, err
	}

	supplier, err := s.store.CreateSupplier(ctx, db.CreateSupplierParams{
		Name:     name,
		Document: document,
		Email:    util.NullableString(data.Email),
		Phone:    util.NullableString(data.Phone),
	})
	if err != nil {
		if apierrors.IsUniqueViolation(err) {
			return db.Supplier{}, apierrors.NewValidationError("поставщик с документом %s уже существует", document)
		}
		logger.Errorf("не удалось создать поставщика: %v", err)
		return db.Supplier{}, fmt.Errorf("не удалось создать поставщика: %w", err)
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionCreate,
		EntityType: audit.EntitySupplier,
		EntityID:   supplier.ID,
		New:        supplier,
	})
	return supplier, nil
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (db.Supplier, error) {
	supplier, err := s.store.GetSupplier(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Supplier{}, apierrors.NewNotFoundError("поставщик с ID %d не найден", id)
		}
		return db.Supplier{}, fmt.Errorf("не удалось получить поставщика %d: %w", id, err)
	}
	return supplier, nil
}

func (s *Service) ListSuppliers(ctx context.Context, limit, offset int32) ([]db.Supplier, error) {
	return s.store.ListSuppliers(ctx, db.ListSuppliersParams{Limit: limit, Offset: offset})
}

// UpdateSupplier меняет имя и контакты. Документ после создания не меняется.
func (s *Service) UpdateSupplier(ctx context.Context, actorID, id int64, data api_models.SupplierData) (db.Supplier, error) {
	before, err := s.GetSupplier(ctx, id)
	if err != nil {
		return db.Supplier{}, err
	}
	name := strings.TrimSpace(data.Name)
	if name == "" {
		return db.Supplier{}, apierrors.NewValidationError("имя поставщика не может быть пустым")
	}
	if data.Document != "" {
		document, err := NormalizeDocument(data.Document)
		if err != nil {
			return db.Supplier{}, err
		}
		if document != before.Document {
			return db.Supplier{}, apierrors.NewValidationError("документ поставщика менять нельзя")
		}
	}

	after, err := s.store.UpdateSupplier(ctx, db.UpdateSupplierParams{
		ID:    id,
		Name:  name,
		Email: util.NullableString(data.Email),
		Phone: util.NullableString(data.Phone),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return db.Supplier{}, apierrors.NewNotFoundError("поставщик с ID %d не найден", id)
		}
		return db.Supplier{}, fmt.Errorf("не удалось обновить поставщика %d: %w", id, err)
	}

	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionUpdate,
		EntityType: audit.EntitySupplier,
		EntityID:   id,
		Previous:   before,
		New:        after,
	})
	return after, nil
}

// DeleteSupplier удаляет поставщика; котировки остаются без ссылки на него
func (s *Service) DeleteSupplier(ctx context.Context, actorID, id int64) error {
	before, err := s.GetSupplier(ctx, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteSupplier(ctx, id); err != nil {
		return fmt.Errorf("не удалось удалить поставщика %d: %w", id, err)
	}

	s.logger.WithField("supplier_id", id).Info("поставщик удален")
	s.audit.Record(ctx, audit.Entry{
		ActorID:    actorID,
		Action:     audit.ActionDelete,
		EntityType: audit.EntitySupplier,
		EntityID:   id,
		Previous:   before,
	})
	return nil
}

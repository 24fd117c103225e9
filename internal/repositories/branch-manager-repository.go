package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"academy-admin/internal/entities"
	apperrors "academy-admin/pkg/errors"
	"academy-admin/pkg/utils"
)

const branchManagerColumns = `id, email, phone, first_name, last_name, full_name,
	personal_info, contact_info, address_info, professional_info, branch_assignment, emergency_contact,
	password_hash, is_active, notes, reset_token, reset_token_expiry, created_at, updated_at`

type BranchManagerRepositoryInterface interface {
	GetBranchManagers(ctx context.Context, params utils.ListParams) ([]entities.BranchManager, uint64, error)
	FindByID(ctx context.Context, id string) (*entities.BranchManager, error)
	FindByEmail(ctx context.Context, email string) (*entities.BranchManager, error)
	FindByResetToken(ctx context.Context, token string) (*entities.BranchManager, error)
	ExistsWithEmailOrPhone(ctx context.Context, email, phone, excludeID string) (bool, error)
	EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, m *entities.BranchManager) error
	Update(ctx context.Context, m *entities.BranchManager) error
	SoftDelete(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, id, token string, expiry time.Time) error
	ResetPassword(ctx context.Context, id, passwordHash string) error
}

type BranchManagerRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewBranchManagerRepository(storage Querier, logger *zap.Logger) BranchManagerRepositoryInterface {
	return &BranchManagerRepository{storage: storage, logger: logger}
}

func scanBranchManager(row pgx.Row) (*entities.BranchManager, error) {
	var m entities.BranchManager
	var personal, contact, professional []byte
	var address, assignment, emergency []byte
	var notes, resetToken sql.NullString
	var resetExpiry sql.NullTime

	err := row.Scan(
		&m.ID, &m.Email, &m.Phone, &m.FirstName, &m.LastName, &m.FullName,
		&personal, &contact, &address, &professional, &assignment, &emergency,
		&m.PasswordHash, &m.IsActive, &notes, &resetToken, &resetExpiry,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan branch manager: %w", err)
	}

	if err := json.Unmarshal(personal, &m.PersonalInfo); err != nil {
		return nil, fmt.Errorf("decode personal_info: %w", err)
	}
	if err := json.Unmarshal(contact, &m.ContactInfo); err != nil {
		return nil, fmt.Errorf("decode contact_info: %w", err)
	}
	if err := json.Unmarshal(professional, &m.ProfessionalInfo); err != nil {
		return nil, fmt.Errorf("decode professional_info: %w", err)
	}
	if address != nil {
		m.AddressInfo = &entities.AddressInfo{}
		if err := json.Unmarshal(address, m.AddressInfo); err != nil {
			return nil, fmt.Errorf("decode address_info: %w", err)
		}
	}
	if assignment != nil {
		m.BranchAssignment = &entities.BranchAssignment{}
		if err := json.Unmarshal(assignment, m.BranchAssignment); err != nil {
			return nil, fmt.Errorf("decode branch_assignment: %w", err)
		}
	}
	if emergency != nil {
		m.EmergencyContact = &entities.EmergencyContact{}
		if err := json.Unmarshal(emergency, m.EmergencyContact); err != nil {
			return nil, fmt.Errorf("decode emergency_contact: %w", err)
		}
	}
	if notes.Valid {
		m.Notes = &notes.String
	}
	if resetToken.Valid {
		m.ResetToken = &resetToken.String
	}
	if resetExpiry.Valid {
		m.ResetTokenExpiry = &resetExpiry.Time
	}

	return &m, nil
}

// isUniqueViolation reports whether err is a unique constraint violation
// (SQLSTATE 23505), raised by the partial unique indexes on email and
// phone when a concurrent write slips past the service-level check.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// jsonGroup marshals a nested group; nil pointers become SQL NULL.
func jsonGroup(v interface{}) ([]byte, error) {
	switch t := v.(type) {
	case *entities.AddressInfo:
		if t == nil {
			return nil, nil
		}
	case *entities.BranchAssignment:
		if t == nil {
			return nil, nil
		}
	case *entities.EmergencyContact:
		if t == nil {
			return nil, nil
		}
	}
	return json.Marshal(v)
}

func (r *BranchManagerRepository) GetBranchManagers(ctx context.Context, params utils.ListParams) ([]entities.BranchManager, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(id)").From("branch_managers")
	if params.ActiveOnly {
		countBuilder = countBuilder.Where(sq.Eq{"is_active": true})
	}

	sqlCount, argsCount, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.BranchManager{}, 0, nil
	}

	listBuilder := psql.Select(branchManagerColumns).
		From("branch_managers").
		OrderBy("created_at DESC").
		Offset(params.Skip).
		Limit(params.Limit)
	if params.ActiveOnly {
		listBuilder = listBuilder.Where(sq.Eq{"is_active": true})
	}

	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("list branch managers failed", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	managers := make([]entities.BranchManager, 0, params.Limit)
	for rows.Next() {
		manager, err := scanBranchManager(rows)
		if err != nil {
			return nil, 0, err
		}
		managers = append(managers, *manager)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return managers, total, nil
}

func (r *BranchManagerRepository) findOne(ctx context.Context, where sq.Sqlizer, orderBy string) (*entities.BranchManager, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select(branchManagerColumns).From("branch_managers").Where(where).Limit(1)
	if orderBy != "" {
		builder = builder.OrderBy(orderBy)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return scanBranchManager(r.storage.QueryRow(ctx, query, args...))
}

func (r *BranchManagerRepository) FindByID(ctx context.Context, id string) (*entities.BranchManager, error) {
	return r.findOne(ctx, sq.Eq{"id": id}, "")
}

// FindByEmail prefers the active record; soft-deleted managers may share
// an email with a newer active one.
func (r *BranchManagerRepository) FindByEmail(ctx context.Context, email string) (*entities.BranchManager, error) {
	return r.findOne(ctx, sq.Eq{"email": email}, "is_active DESC, created_at DESC")
}

func (r *BranchManagerRepository) FindByResetToken(ctx context.Context, token string) (*entities.BranchManager, error) {
	return r.findOne(ctx, sq.Eq{"reset_token": token}, "")
}

func (r *BranchManagerRepository) ExistsWithEmailOrPhone(ctx context.Context, email, phone, excludeID string) (bool, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	builder := psql.Select("COUNT(id)").
		From("branch_managers").
		Where(sq.Eq{"is_active": true}).
		Where(sq.Or{sq.Eq{"email": email}, sq.Eq{"phone": phone}})
	if excludeID != "" {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, err
	}

	var count uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BranchManagerRepository) EmailTakenByOther(ctx context.Context, email, excludeID string) (bool, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.Select("COUNT(id)").
		From("branch_managers").
		Where(sq.Eq{"email": email, "is_active": true}).
		Where(sq.NotEq{"id": excludeID}).
		ToSql()
	if err != nil {
		return false, err
	}

	var count uint64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BranchManagerRepository) Create(ctx context.Context, m *entities.BranchManager) error {
	personal, err := jsonGroup(m.PersonalInfo)
	if err != nil {
		return err
	}
	contact, err := jsonGroup(m.ContactInfo)
	if err != nil {
		return err
	}
	professional, err := jsonGroup(m.ProfessionalInfo)
	if err != nil {
		return err
	}
	address, err := jsonGroup(m.AddressInfo)
	if err != nil {
		return err
	}
	assignment, err := jsonGroup(m.BranchAssignment)
	if err != nil {
		return err
	}
	emergency, err := jsonGroup(m.EmergencyContact)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO branch_managers (
			id, email, phone, first_name, last_name, full_name,
			personal_info, contact_info, address_info, professional_info, branch_assignment, emergency_contact,
			password_hash, is_active, notes, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
	`
	_, err = r.storage.Exec(ctx, query,
		m.ID, m.Email, m.Phone, m.FirstName, m.LastName, m.FullName,
		personal, contact, address, professional, assignment, emergency,
		m.PasswordHash, m.IsActive, m.Notes,
	)
	if isUniqueViolation(err) {
		return apperrors.NewBadRequestError("Email or phone already exists for another branch manager")
	}
	if err != nil {
		r.logger.Error("insert branch manager failed", zap.String("id", m.ID), zap.Error(err))
	}
	return err
}

func (r *BranchManagerRepository) Update(ctx context.Context, m *entities.BranchManager) error {
	personal, err := jsonGroup(m.PersonalInfo)
	if err != nil {
		return err
	}
	contact, err := jsonGroup(m.ContactInfo)
	if err != nil {
		return err
	}
	professional, err := jsonGroup(m.ProfessionalInfo)
	if err != nil {
		return err
	}
	address, err := jsonGroup(m.AddressInfo)
	if err != nil {
		return err
	}
	assignment, err := jsonGroup(m.BranchAssignment)
	if err != nil {
		return err
	}
	emergency, err := jsonGroup(m.EmergencyContact)
	if err != nil {
		return err
	}

	query := `
		UPDATE branch_managers
		SET email = $1, phone = $2, first_name = $3, last_name = $4, full_name = $5,
		    personal_info = $6, contact_info = $7, address_info = $8, professional_info = $9,
		    branch_assignment = $10, emergency_contact = $11,
		    password_hash = $12, is_active = $13, notes = $14, updated_at = NOW()
		WHERE id = $15
	`
	result, err := r.storage.Exec(ctx, query,
		m.Email, m.Phone, m.FirstName, m.LastName, m.FullName,
		personal, contact, address, professional, assignment, emergency,
		m.PasswordHash, m.IsActive, m.Notes, m.ID,
	)
	if isUniqueViolation(err) {
		return apperrors.NewBadRequestError("Email or phone already exists for another branch manager")
	}
	if err != nil {
		r.logger.Error("update branch manager failed", zap.String("id", m.ID), zap.Error(err))
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *BranchManagerRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE branch_managers SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`
	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *BranchManagerRepository) SetResetToken(ctx context.Context, id, token string, expiry time.Time) error {
	query := `UPDATE branch_managers SET reset_token = $1, reset_token_expiry = $2, updated_at = NOW() WHERE id = $3`
	result, err := r.storage.Exec(ctx, query, token, expiry, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ResetPassword installs the new hash and burns the reset token in one
// statement.
func (r *BranchManagerRepository) ResetPassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE branch_managers
		SET password_hash = $1, reset_token = NULL, reset_token_expiry = NULL, updated_at = NOW()
		WHERE id = $2
	`
	result, err := r.storage.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

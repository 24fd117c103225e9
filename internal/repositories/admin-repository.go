package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"academy-admin/internal/entities"
	apperrors "academy-admin/pkg/errors"
)

type AdminRepositoryInterface interface {
	FindByEmail(ctx context.Context, email string) (*entities.Admin, error)
	FindByID(ctx context.Context, id string) (*entities.Admin, error)
	Create(ctx context.Context, admin *entities.Admin) error
}

type AdminRepository struct {
	storage Querier
}

func NewAdminRepository(storage Querier) AdminRepositoryInterface {
	return &AdminRepository{storage: storage}
}

func scanAdmin(row pgx.Row) (*entities.Admin, error) {
	var a entities.Admin
	err := row.Scan(&a.ID, &a.Email, &a.FullName, &a.PasswordHash, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan admin: %w", err)
	}
	return &a, nil
}

const adminColumns = "id, email, full_name, password_hash, role, created_at, updated_at"

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*entities.Admin, error) {
	query := fmt.Sprintf("SELECT %s FROM admins WHERE email = $1", adminColumns)
	return scanAdmin(r.storage.QueryRow(ctx, query, email))
}

func (r *AdminRepository) FindByID(ctx context.Context, id string) (*entities.Admin, error) {
	query := fmt.Sprintf("SELECT %s FROM admins WHERE id = $1", adminColumns)
	return scanAdmin(r.storage.QueryRow(ctx, query, id))
}

func (r *AdminRepository) Create(ctx context.Context, admin *entities.Admin) error {
	query := `
		INSERT INTO admins (id, email, full_name, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (email) DO NOTHING
	`
	_, err := r.storage.Exec(ctx, query, admin.ID, admin.Email, admin.FullName, admin.PasswordHash, admin.Role)
	return err
}

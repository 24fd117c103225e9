package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"academy-admin/internal/entities"
	apperrors "academy-admin/pkg/errors"
	"academy-admin/pkg/utils"
)

const branchColumns = "id, name, address, manager_id, is_active, created_at, updated_at"

type BranchRepositoryInterface interface {
	GetBranches(ctx context.Context, params utils.ListParams) ([]entities.Branch, uint64, error)
	FindBranch(ctx context.Context, id string) (*entities.Branch, error)
	FindByManager(ctx context.Context, managerID string) ([]entities.Branch, error)
	CreateBranch(ctx context.Context, b *entities.Branch) error
	UpdateBranch(ctx context.Context, b *entities.Branch) error
	DeleteBranch(ctx context.Context, id string) error
}

type BranchRepository struct {
	storage Querier
	logger  *zap.Logger
}

func NewBranchRepository(storage Querier, logger *zap.Logger) BranchRepositoryInterface {
	return &BranchRepository{storage: storage, logger: logger}
}

func scanBranch(row pgx.Row) (*entities.Branch, error) {
	var b entities.Branch
	var address []byte

	err := row.Scan(&b.ID, &b.Name, &address, &b.ManagerID, &b.IsActive, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan branch: %w", err)
	}

	if address != nil {
		if err := json.Unmarshal(address, &b.Address); err != nil {
			return nil, fmt.Errorf("decode branch address: %w", err)
		}
	}
	return &b, nil
}

func (r *BranchRepository) GetBranches(ctx context.Context, params utils.ListParams) ([]entities.Branch, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countBuilder := psql.Select("COUNT(id)").From("branches")
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
		return []entities.Branch{}, 0, nil
	}

	listBuilder := psql.Select(branchColumns).
		From("branches").
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
		r.logger.Error("list branches failed", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	branches := make([]entities.Branch, 0, params.Limit)
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, 0, err
		}
		branches = append(branches, *branch)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return branches, total, nil
}

func (r *BranchRepository) FindBranch(ctx context.Context, id string) (*entities.Branch, error) {
	query := fmt.Sprintf("SELECT %s FROM branches WHERE id = $1", branchColumns)
	return scanBranch(r.storage.QueryRow(ctx, query, id))
}

// FindByManager lists the active branches a manager is responsible for;
// used for the delete guard and for login claims.
func (r *BranchRepository) FindByManager(ctx context.Context, managerID string) ([]entities.Branch, error) {
	query := fmt.Sprintf("SELECT %s FROM branches WHERE manager_id = $1 AND is_active ORDER BY name", branchColumns)
	rows, err := r.storage.Query(ctx, query, managerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []entities.Branch
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, err
		}
		branches = append(branches, *branch)
	}
	return branches, rows.Err()
}

func (r *BranchRepository) CreateBranch(ctx context.Context, b *entities.Branch) error {
	address, err := json.Marshal(b.Address)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO branches (id, name, address, manager_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
	`
	_, err = r.storage.Exec(ctx, query, b.ID, b.Name, address, b.ManagerID, b.IsActive)
	if err != nil {
		r.logger.Error("insert branch failed", zap.String("id", b.ID), zap.Error(err))
	}
	return err
}

func (r *BranchRepository) UpdateBranch(ctx context.Context, b *entities.Branch) error {
	address, err := json.Marshal(b.Address)
	if err != nil {
		return err
	}

	query := `
		UPDATE branches
		SET name = $1, address = $2, manager_id = $3, updated_at = NOW()
		WHERE id = $4
	`
	result, err := r.storage.Exec(ctx, query, b.Name, address, b.ManagerID, b.ID)
	if err != nil {
		r.logger.Error("update branch failed", zap.String("id", b.ID), zap.Error(err))
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *BranchRepository) DeleteBranch(ctx context.Context, id string) error {
	query := `UPDATE branches SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND is_active`
	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/expensehq/expense_mgmt_app/internal/apperrors"
	"github.com/expensehq/expense_mgmt_app/internal/core/domain"
	portsrepo "github.com/expensehq/expense_mgmt_app/internal/core/ports/repositories"
	"github.com/expensehq/expense_mgmt_app/internal/models"
	"github.com/expensehq/expense_mgmt_app/internal/utils/mapping"
)

const userColumns = `user_id, name, email, password_hash, role, company_id, manager_id, is_active,
		created_at, created_by, last_updated_at, last_updated_by, deleted_at`

// PgxUserRepository implements portsrepo.UserRepositoryFacade using pgx.
type PgxUserRepository struct {
	BaseRepository
}

func newPgxUserRepository(db PGXQuerier) *PgxUserRepository {
	return &PgxUserRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUserRow(row pgx.Row) (*models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.Name,
		&m.Email,
		&m.PasswordHash,
		&m.Role,
		&m.CompanyID,
		&m.ManagerID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
        INSERT INTO users (user_id, name, email, password_hash, role, company_id, manager_id, is_active,
            created_at, created_by, last_updated_at, last_updated_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err := r.DB.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.Role,
		m.CompanyID,
		m.ManagerID,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s already registered: %w", user.Email, apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE user_id = $1 AND deleted_at IS NULL;`, userColumns)
	m, err := scanUserRow(r.DB.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID %s: %w", userID, err)
	}
	user := mapping.ToDomainUser(*m)
	return &user, nil
}

func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE lower(email) = lower($1) AND deleted_at IS NULL;`, userColumns)
	m, err := scanUserRow(r.DB.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	user := mapping.ToDomainUser(*m)
	return &user, nil
}

func (r *PgxUserRepository) FindUsersByCompany(ctx context.Context, companyID string, limit int, offset int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	query := fmt.Sprintf(`
        SELECT %s FROM users
        WHERE company_id = $1 AND deleted_at IS NULL
        ORDER BY name ASC, user_id ASC
        LIMIT $2 OFFSET $3;
    `, userColumns)
	rows, err := r.DB.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query company users: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

// FindAdminsByCompany returns active admins ordered by ascending user ID so the
// chain resolver always picks the same admin for the final step.
func (r *PgxUserRepository) FindAdminsByCompany(ctx context.Context, companyID string) ([]domain.User, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM users
        WHERE company_id = $1 AND role = $2 AND is_active AND deleted_at IS NULL
        ORDER BY user_id ASC;
    `, userColumns)
	rows, err := r.DB.Query(ctx, query, companyID, string(domain.RoleAdmin))
	if err != nil {
		return nil, fmt.Errorf("failed to query company admins: %w", err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	modelUsers := []models.User{}
	for rows.Next() {
		m, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		modelUsers = append(modelUsers, *m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", rows.Err())
	}
	return mapping.ToDomainUserSlice(modelUsers), nil
}

func (r *PgxUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	m := mapping.ToModelUser(user)
	query := `
        UPDATE users
        SET name = $1, role = $2, manager_id = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
        WHERE user_id = $7 AND deleted_at IS NULL;
    `
	cmdTag, err := r.DB.Exec(ctx, query,
		m.Name,
		m.Role,
		m.ManagerID,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update user query: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxUserRepository) MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time, deletedBy string) error {
	query := `
        UPDATE users
        SET deleted_at = $1, is_active = FALSE, last_updated_at = $1, last_updated_by = $2
        WHERE user_id = $3 AND deleted_at IS NULL;
    `
	cmdTag, err := r.DB.Exec(ctx, query, deletedAt, deletedBy, userID)
	if err != nil {
		return fmt.Errorf("failed to mark user as deleted: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("user not found or already deleted: %w", apperrors.ErrNotFound)
	}
	return nil
}

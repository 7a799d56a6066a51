package repository

import (
	"context"

	"storefront/internal/domain/user"
	"storefront/internal/infra"
	"storefront/internal/infra/db"
	"storefront/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type UserRepository struct{}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(ctx context.Context, tx db.DBTX, email, passwordHash, name, role string) (uuid.UUID, error) {
	query := `
		INSERT INTO users (email, password_hash, name, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	var id uuid.UUID
	err := tx.QueryRow(ctx, query, email, passwordHash, name, role).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create user", err)
	}
	return id, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, userID)
	if err != nil {
		return infra.WrapRepoErr("failed to update last login", err)
	}
	return nil
}

func (r *UserRepository) FindAuthByEmail(ctx context.Context, tx db.DBTX, email string) (*user.User, string, error) {
	var (
		id           uuid.UUID
		storedEmail  string
		passwordHash string
		name, role   string
		isActive     bool
		lastLogin    pgtype.Timestamptz
		createdAt    pgtype.Timestamptz
		updatedAt    pgtype.Timestamptz
	)
	err := tx.QueryRow(ctx,
		`SELECT id, email, password_hash, name, role, is_active, last_login, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	).Scan(&id, &storedEmail, &passwordHash, &name, &role, &isActive, &lastLogin, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user", err)
	}

	addr, err := user.NewEmail(storedEmail)
	if err != nil {
		return nil, "", infra.WrapRepoErr("invalid stored email", err)
	}

	u := user.Reconstruct(
		id, addr, passwordHash, name, user.Role(role),
		pgconv.TimePtrFromPgtype(lastLogin), isActive,
		pgconv.TimeFromPgtype(createdAt), pgconv.TimeFromPgtype(updatedAt),
	)
	return u, passwordHash, nil
}

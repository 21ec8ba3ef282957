package userrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/vthuan-dev/bulkpay/internal/domain"
	"github.com/vthuan-dev/bulkpay/internal/pg"
	"go.uber.org/zap"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (repo *Repository) FindByLogin(ctx context.Context, login string) (*domain.User, error) {
	query := `
        SELECT id, login, password_hash, role, status, expires_at, last_login_at, created_at
        FROM users
        WHERE login = $1
    `
	var user domain.User
	err := repo.db.QueryRow(ctx, query, login).
		Scan(&user.ID, &user.Login, &user.PasswordHash, &user.Role, &user.Status, &user.ExpiresAt, &user.LastLoginAt, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find user", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (repo *Repository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	query := `
        SELECT id, login, password_hash, role, status, expires_at, last_login_at, created_at
        FROM users
        WHERE id = $1
    `
	var user domain.User
	err := repo.db.QueryRow(ctx, query, id).
		Scan(&user.ID, &user.Login, &user.PasswordHash, &user.Role, &user.Status, &user.ExpiresAt, &user.LastLoginAt, &user.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("can't find user by id", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

func (repo *Repository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
        INSERT INTO users (id, login, password_hash, role, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING created_at
    `
	err := repo.db.QueryRow(ctx, query, user.ID, user.Login, user.PasswordHash, user.Role, user.Status).
		Scan(&user.CreatedAt)
	if err != nil {
		zap.L().Error("can't save user", zap.Error(err))
		return nil, err
	}
	return user, nil
}

func (repo *Repository) UpdateLastLogin(ctx context.Context, id string) error {
	query := `
        UPDATE users
        SET last_login_at = now()
        WHERE id = $1
    `
	if _, err := repo.db.Exec(ctx, query, id); err != nil {
		zap.L().Error("can't update last login", zap.Error(err))
		return err
	}
	return nil
}

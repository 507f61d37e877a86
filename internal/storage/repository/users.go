package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clueapp/subscription-api/internal/models"
)

// CreateUser сохраняет нового пользователя в базу данных и возвращает его
// с заполненными uid и датами. Дубликаты email и телефона переводятся в
// сентинельные ошибки по имени нарушенного ограничения.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (email, phone, full_name, password_hash,
			      is_user, is_admin, is_active, is_superuser, is_staff)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING uid, created_at, updated_at`
	err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Phone, user.FullName, user.PasswordHash,
		user.IsUser, user.IsAdmin, user.IsActive, user.IsSuperuser, user.IsStaff).
		Scan(&user.UID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			if pgErr.ConstraintName == "users_phone_key" {
				return nil, fmt.Errorf("%s: %w", op, ErrPhoneExists)
			}
			return nil, fmt.Errorf("%s: %w", op, ErrEmailExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// GetUserByLogin возвращает пользователя по email или телефону.
func (s *Storage) GetUserByLogin(ctx context.Context, identifier string) (*models.User, error) {
	const op = "storage.GetUserByLogin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, phone, full_name, password_hash,
			      is_user, is_admin, is_active, is_superuser, is_staff,
			      created_at, updated_at
			  FROM users
			  WHERE email = $1 OR phone = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, identifier), op)
}

// GetUserByUID возвращает пользователя по его uid.
func (s *Storage) GetUserByUID(ctx context.Context, uid string) (*models.User, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, phone, full_name, password_hash,
			      is_user, is_admin, is_active, is_superuser, is_staff,
			      created_at, updated_at
			  FROM users
			  WHERE uid = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, uid), op)
}

// UpdateUser выполняет частичное обновление профиля (full_name и phone)
// и возвращает обновлённого пользователя.
func (s *Storage) UpdateUser(ctx context.Context, uid string, req models.UpdateUserRequest) (*models.User, error) {
	const op = "storage.UpdateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET full_name = COALESCE($1, full_name),
			      phone = COALESCE($2, phone),
			      updated_at = now()
			  WHERE uid = $3`
	result, err := s.DB.ExecContext(ctx, query, req.FullName, req.Phone, uid)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%s: %w", op, ErrPhoneExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return s.GetUserByUID(ctx, uid)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}
	var phone sql.NullString
	if err := row.Scan(&u.UID, &u.Email, &phone, &u.FullName, &u.PasswordHash,
		&u.IsUser, &u.IsAdmin, &u.IsActive, &u.IsSuperuser, &u.IsStaff,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if phone.Valid {
		u.Phone = &phone.String
	}
	return u, nil
}

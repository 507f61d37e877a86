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

// Колонки записи подписки вместе с данными плана, читаемыми по JOIN.
const subscriptionColumns = `s.id, s.user_uid, s.plan_id, p.name, p.price,
			      s.start_date, s.end_date, s.is_active`

// CreateSubscription оформляет новую подписку пользователя на план.
//
// Весь переход выполняется в одной транзакции: сначала под FOR UPDATE
// берётся строка пользователя, что сериализует все переходы одного
// аккаунта, и только потом проверяются предусловия. Частичный уникальный
// индекс по (user_uid) WHERE is_active страхует инвариант на уровне схемы.
// Возвращает ErrPlanNotFound, если план не существует или деактивирован,
// и ErrActiveSubscriptionExists, если активная подписка уже есть.
func (s *Storage) CreateSubscription(ctx context.Context, userUID string, planID int64) (*models.Subscription, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err = lockAccount(ctx, tx, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	plan, err := getActivePlan(ctx, tx, planID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = lockActive(ctx, tx, userUID); err == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrActiveSubscriptionExists)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := insertSubscription(ctx, tx, userUID, plan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpgradeSubscription переводит пользователя на более дорогой план.
//
// Если активная подписка есть, цена нового плана обязана строго превышать
// текущую цену плана активной записи (сравниваются живые цены планов),
// иначе возвращается ErrPriceNotHigher. Старая запись деактивируется с
// end_date = now(), новая создаётся в той же транзакции. Без активной
// подписки апгрейд ведёт себя как обычное оформление.
func (s *Storage) UpgradeSubscription(ctx context.Context, userUID string, newPlanID int64) (*models.Subscription, error) {
	const op = "storage.UpgradeSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err = lockAccount(ctx, tx, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	newPlan, err := getActivePlan(ctx, tx, newPlanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current, err := lockActive(ctx, tx, userUID)
	switch {
	case err == nil:
		if newPlan.Price <= current.PlanPrice {
			return nil, fmt.Errorf("%s: %w", op, ErrPriceNotHigher)
		}
		deactivate := `UPDATE subscriptions SET is_active = FALSE, end_date = now() WHERE id = $1`
		if _, err = tx.ExecContext(ctx, deactivate, current.ID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		// апгрейд без активной подписки работает как subscribe
	default:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := insertSubscription(ctx, tx, userUID, newPlan)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CancelSubscription деактивирует активную подписку пользователя,
// выставляя end_date в момент отмены. Возвращает ErrNoActiveSubscription,
// если активной записи нет. Запись не удаляется.
func (s *Storage) CancelSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.CancelSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err = lockAccount(ctx, tx, userUID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	current, err := lockActive(ctx, tx, userUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNoActiveSubscription)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE subscriptions SET is_active = FALSE, end_date = now()
			  WHERE id = $1
			  RETURNING end_date`
	if err = tx.QueryRowContext(ctx, query, current.ID).Scan(&current.EndDate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	current.IsActive = false

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return current, nil
}

// FindActiveSubscription возвращает активную подписку пользователя
// или nil, если её нет. Чтение без блокировок.
func (s *Storage) FindActiveSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "storage.FindActiveSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions s
			  JOIN subscription_plans p ON p.id = s.plan_id
			  WHERE s.user_uid = $1 AND s.is_active = TRUE`
	result, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListSubscriptions возвращает всю историю подписок пользователя,
// самые свежие по start_date — первыми.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions s
			  JOIN subscription_plans p ON p.id = s.plan_id
			  WHERE s.user_uid = $1
			  ORDER BY s.start_date DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.UserUID, &item.PlanID, &item.PlanName,
			&item.PlanPrice, &item.StartDate, &item.EndDate, &item.IsActive); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// lockAccount берёт строку пользователя под FOR UPDATE и тем самым
// сериализует переходы подписки одного аккаунта: конкурентная транзакция
// того же пользователя дождётся коммита и увидит его результат.
func lockAccount(ctx context.Context, tx *sql.Tx, userUID string) error {
	query := `SELECT uid FROM users WHERE uid = $1 FOR UPDATE`
	var uid string
	if err := tx.QueryRowContext(ctx, query, userUID).Scan(&uid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}

// getActivePlan читает активный план в рамках транзакции.
// Неактивный план неотличим от отсутствующего.
func getActivePlan(ctx context.Context, tx *sql.Tx, planID int64) (*models.Plan, error) {
	query := `SELECT id, name, price, duration_days, is_active
			  FROM subscription_plans
			  WHERE id = $1 AND is_active = TRUE`
	var plan models.Plan
	if err := tx.QueryRowContext(ctx, query, planID).Scan(&plan.ID, &plan.Name,
		&plan.Price, &plan.DurationDays, &plan.IsActive); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// lockActive берёт строку активной подписки пользователя под FOR UPDATE,
// чтобы последовательность «проверили — записали» была атомарной для аккаунта.
func lockActive(ctx context.Context, tx *sql.Tx, userUID string) (*models.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + `
			  FROM subscriptions s
			  JOIN subscription_plans p ON p.id = s.plan_id
			  WHERE s.user_uid = $1 AND s.is_active = TRUE
			  FOR UPDATE OF s`
	return scanSubscription(tx.QueryRowContext(ctx, query, userUID))
}

func insertSubscription(ctx context.Context, tx *sql.Tx, userUID string, plan *models.Plan) (*models.Subscription, error) {
	query := `INSERT INTO subscriptions (user_uid, plan_id, start_date, end_date, is_active)
			  VALUES ($1, $2, now(), now() + make_interval(days => $3), TRUE)
			  RETURNING id, start_date, end_date`
	result := &models.Subscription{
		UserUID:   userUID,
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		PlanPrice: plan.Price,
		IsActive:  true,
	}
	if err := tx.QueryRowContext(ctx, query, userUID, plan.ID, plan.DurationDays).
		Scan(&result.ID, &result.StartDate, &result.EndDate); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation &&
			pgErr.ConstraintName == "uniq_subscriptions_user_active" {
			return nil, ErrActiveSubscriptionExists
		}
		return nil, err
	}
	return result, nil
}

func scanSubscription(row *sql.Row) (*models.Subscription, error) {
	var item models.Subscription
	if err := row.Scan(&item.ID, &item.UserUID, &item.PlanID, &item.PlanName,
		&item.PlanPrice, &item.StartDate, &item.EndDate, &item.IsActive); err != nil {
		return nil, err
	}
	return &item, nil
}

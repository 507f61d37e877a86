package repository

import "errors"

// Сентинельные ошибки хранилища. Сервисы и обработчики различают их
// через errors.Is и переводят в соответствующие HTTP-статусы.
var (
	// ErrUserNotFound — пользователь не найден по email/телефону или uid.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists — пользователь с таким email уже зарегистрирован.
	ErrEmailExists = errors.New("email already exists")
	// ErrPhoneExists — пользователь с таким телефоном уже зарегистрирован.
	ErrPhoneExists = errors.New("phone already exists")

	// ErrPlanNotFound — план не существует или деактивирован.
	ErrPlanNotFound = errors.New("plan not found")
	// ErrPlanExists — план с таким названием уже есть.
	ErrPlanExists = errors.New("plan already exists")

	// ErrActiveSubscriptionExists — у пользователя уже есть активная подписка.
	ErrActiveSubscriptionExists = errors.New("active subscription already exists")
	// ErrPriceNotHigher — цена нового плана не выше цены текущего.
	ErrPriceNotHigher = errors.New("new plan price is not higher than current")
	// ErrNoActiveSubscription — активной подписки нет.
	ErrNoActiveSubscription = errors.New("no active subscription")
)

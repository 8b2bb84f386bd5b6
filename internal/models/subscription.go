package models

import "time"

// SubscriptionPeriod — длительность одного оплаченного периода подписки.
const SubscriptionPeriod = 30 * 24 * time.Hour

// LevelSingle — единственный уровень подписки, разовая подписка.
const LevelSingle = "SINGLE"

// Subscription — подписка пользователя на премиальный контент. У пользователя не больше одной подписки.
// Активность не хранится отдельно: подписка действует, пока EndsAt в будущем,
// а EndsAt сдвигается только при исполнении оплаченного платежа.
type Subscription struct {
	ID       int64      `json:"id"`
	UserUID  string     `json:"user_uid"`
	Level    string     `json:"subscription_level"`
	Price    int64      `json:"price"`
	StartsAt time.Time  `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at,omitempty"`
}

// IsValid возвращает true, если окончание подписки задано и строго позже now.
func (s *Subscription) IsValid(now time.Time) bool {
	if s == nil || s.EndsAt == nil {
		return false
	}
	return s.EndsAt.After(now)
}

// Active — производный признак активности подписки.
func (s *Subscription) Active(now time.Time) bool {
	return s.IsValid(now)
}

// SetEndDate выставляет окончание подписки через период от даты начала.
func (s *Subscription) SetEndDate(period time.Duration) {
	end := s.StartsAt.Add(period)
	s.EndsAt = &end
}

// Extend продлевает подписку на период, только если окончание уже задано.
// Для подписки без окончания ничего не делает.
func (s *Subscription) Extend(period time.Duration) {
	if s.EndsAt == nil {
		return
	}
	end := s.EndsAt.Add(period)
	s.EndsAt = &end
}

// Renew применяет оплаченный период: действующая подписка продлевается,
// истёкшая или ещё не начатая запускается заново с момента now.
func (s *Subscription) Renew(now time.Time, period time.Duration) {
	if s.IsValid(now) {
		s.Extend(period)
		return
	}
	s.StartsAt = now
	s.SetEndDate(period)
}

// Package metrics содержит счётчики Prometheus платформы.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "premium_blog"

// Metrics — коллекторы, которые экспортируются на /metrics.
// Методы безопасно вызывать у nil.
type Metrics struct {
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	smsSent       *prometheus.CounterVec
	registrations *prometheus.CounterVec
	payments      *prometheus.CounterVec
	postViews     prometheus.Counter
	notifications *prometheus.CounterVec
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default возвращает экземпляр, зарегистрированный в глобальном реестре.
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNew создаёт коллекторы и регистрирует их в reg. Ошибка регистрации приводит к панике.
func MustNew(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "http", Name: "requests_total",
			Help: "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "http", Name: "request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		smsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "sms", Name: "sent_total",
			Help: "SMS send attempts by result.",
		}, []string{"result"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "auth", Name: "registrations_total",
			Help: "Registration steps by stage and result.",
		}, []string{"stage", "result"}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "payments", Name: "transitions_total",
			Help: "Payment status transitions.",
		}, []string{"to"}),
		postViews: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "posts", Name: "views_total",
			Help: "Post detail views.",
		}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "notifications", Name: "processed_total",
			Help: "Notifications by kind and result.",
		}, []string{"kind", "result"}),
	}
	reg.MustRegister(m.httpRequests, m.httpDuration, m.smsSent, m.registrations, m.payments, m.postViews, m.notifications)
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveHTTP учитывает завершённый HTTP-запрос.
func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// SMSSent учитывает попытку отправки SMS.
func (m *Metrics) SMSSent(err error) {
	if m == nil {
		return
	}
	m.smsSent.WithLabelValues(result(err)).Inc()
}

// Registration учитывает шаг регистрации: stage = start | confirm.
func (m *Metrics) Registration(stage string, err error) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(stage, result(err)).Inc()
}

// PaymentTransition учитывает переход платежа в статус to.
func (m *Metrics) PaymentTransition(to string) {
	if m == nil {
		return
	}
	m.payments.WithLabelValues(to).Inc()
}

// PostViewed учитывает просмотр поста.
func (m *Metrics) PostViewed() {
	if m == nil {
		return
	}
	m.postViews.Inc()
}

// Notification учитывает обработанное уведомление.
func (m *Metrics) Notification(kind string, err error) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, result(err)).Inc()
}

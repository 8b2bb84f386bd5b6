package rabbitmq

import "github.com/magabrotheeeer/premium-blog/internal/models"

// QueueConfig описывает очередь и ключ маршрутизации, которым она привязана к exchange.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// QueueNotifications — очередь, которую читает воркер рассылки.
const QueueNotifications = "notifications.subscription"

// NotificationQueues возвращает очереди уведомлений о подписке.
// Оба вида событий попадают в одну очередь, вид различается по полю kind сообщения.
func NotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueNotifications, RoutingKey: models.NotifySubscriptionActivated},
		{QueueName: QueueNotifications, RoutingKey: models.NotifySubscriptionExpiring},
	}
}

// Package docs регистрирует описание API для swagger UI на /docs/*.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/posts": {
            "get": {"tags": ["Posts"], "summary": "Лента постов", "parameters": [{"type": "integer", "name": "page", "in": "query"}], "responses": {"200": {"description": "Страница ленты"}, "404": {"description": "Страница не существует"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Posts"], "summary": "Создать пост", "responses": {"201": {"description": "Созданный пост"}, "400": {"description": "Ошибка валидации"}}}
        },
        "/api/v1/posts/{id}": {
            "get": {"tags": ["Posts"], "summary": "Пост", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Пост"}, "302": {"description": "Нужна подписка"}, "404": {"description": "Пост не найден"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["Posts"], "summary": "Изменить пост", "responses": {"200": {"description": "Изменённый пост"}, "403": {"description": "Нет прав"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Posts"], "summary": "Удалить пост", "responses": {"204": {"description": "Пост удалён"}, "403": {"description": "Нет прав"}}}
        },
        "/api/v1/posts/{id}/unpublish": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Posts"], "summary": "Снять пост с публикации", "responses": {"200": {"description": "Снят"}}}
        },
        "/api/v1/posts/{id}/like": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Posts"], "summary": "Поставить лайк", "responses": {"200": {"description": "Число лайков"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["Posts"], "summary": "Снять лайк", "responses": {"200": {"description": "Число лайков"}}}
        },
        "/api/v1/posts/{id}/comments": {
            "get": {"tags": ["Posts"], "summary": "Комментарии поста", "responses": {"200": {"description": "Комментарии"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Posts"], "summary": "Добавить комментарий", "responses": {"201": {"description": "Комментарий"}}}
        },
        "/api/v1/series": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Series"], "summary": "Создать серию", "responses": {"201": {"description": "Серия"}}}
        },
        "/api/v1/series/{id}/posts": {
            "get": {"tags": ["Series"], "summary": "Посты серии", "responses": {"200": {"description": "Посты серии"}}}
        },
        "/api/v1/search": {
            "get": {"tags": ["Posts"], "summary": "Поиск постов", "parameters": [{"type": "string", "name": "q", "in": "query"}], "responses": {"200": {"description": "Найденные посты"}}}
        },
        "/api/v1/register": {
            "post": {"tags": ["Auth"], "summary": "Регистрация по номеру телефона", "responses": {"202": {"description": "Код отправлен"}, "409": {"description": "Номер занят"}, "429": {"description": "Повторите позже"}, "502": {"description": "SMS не отправлено"}}}
        },
        "/api/v1/verify-phone": {
            "post": {"tags": ["Auth"], "summary": "Подтверждение телефона", "responses": {"201": {"description": "Пользователь создан"}, "400": {"description": "Неверный код"}, "410": {"description": "Регистрация истекла"}}}
        },
        "/api/v1/users": {
            "post": {"tags": ["Auth"], "summary": "Создание пользователя", "responses": {"201": {"description": "Пользователь создан"}}}
        },
        "/api/v1/users/me": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Личный кабинет", "responses": {"200": {"description": "Кабинет"}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["Users"], "summary": "Изменить профиль", "responses": {"200": {"description": "Профиль"}}}
        },
        "/api/v1/token": {
            "post": {"tags": ["Auth"], "summary": "Авторизация пользователя", "responses": {"200": {"description": "Пара токенов"}, "401": {"description": "Неверные учетные данные"}}}
        },
        "/api/v1/token/refresh": {
            "post": {"tags": ["Auth"], "summary": "Обновление access-токена", "responses": {"200": {"description": "Новый access-токен"}}}
        },
        "/api/v1/logout": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Auth"], "summary": "Выход", "responses": {"204": {"description": "Токен отозван"}}}
        },
        "/api/v1/payments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "Платежи пользователя", "responses": {"200": {"description": "Платежи"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "Оплатить подписку", "responses": {"201": {"description": "Платёж"}, "502": {"description": "Ошибка провайдера"}}}
        },
        "/api/v1/payments/webhook": {
            "post": {"tags": ["Payments"], "summary": "Вебхук платёжного провайдера", "responses": {"200": {"description": "Событие принято"}, "400": {"description": "Неверная подпись"}}}
        },
        "/api/v1/forms/{name}": {
            "get": {"tags": ["Forms"], "summary": "Описание формы", "responses": {"200": {"description": "Поля формы"}, "404": {"description": "Форма не найдена"}}}
        },
        "/subscribe/": {
            "get": {"tags": ["Payments"], "summary": "Условия подписки", "responses": {"200": {"description": "Цена и срок"}}}
        },
        "/payment/": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Payments"], "summary": "Оплатить подписку с переходом на страницу оплаты", "responses": {"303": {"description": "Страница оплаты"}}}
        },
        "/payment-success/": {
            "get": {"tags": ["Payments"], "summary": "Возврат после оплаты", "responses": {"200": {"description": "Платёж"}}}
        },
        "/contacts/": {
            "get": {"tags": ["Pages"], "summary": "Контакты", "responses": {"200": {"description": "Контакты"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo содержит экспортируемые сведения об API.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Premium Blog API",
	Description:      "API блога с премиальными постами, регистрацией по SMS и платной подпиской",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

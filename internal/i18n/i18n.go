// Package i18n holds the static UI strings served to the frontend.
// The site is Russian-first; English exists as a fallback catalog.
package i18n

type Lang string

const (
	RU Lang = "ru"
	EN Lang = "en"
)

var catalogs = map[Lang]map[string]string{
	RU: ru,
	EN: en,
}

// Strings returns the full catalog for a language, defaulting to Russian
func Strings(lang Lang) map[string]string {
	if cat, ok := catalogs[lang]; ok {
		return cat
	}
	return ru
}

var ru = map[string]string{
	"name":           "Иракли Кекелашвили",
	"title":          "Fullstack Developer",
	"description":    "Создаю современные веб-приложения, лендинги, веб-сервисы, телеграм боты и другие цифровые решения.",
	"email":          "Email",
	"phone":          "Телефон",
	"telegram":       "Telegram",
	"github":         "GitHub",
	"my_works":       "Работы",
	"view_details":   "Подробнее",
	"view_project":   "Посмотреть проект",
	"login_required": "Сессия истекла. Войдите заново.",
	"login_pending":  "Ожидание подтверждения администратора...",
	"login_rejected": "Доступ отклонен",
	"login_invalid":  "Неверный или истекший токен",
	"login_success":  "Успешный вход в админ-панель!",
	"logout_success": "Вы вышли из админ-панели",
}

var en = map[string]string{
	"name":           "Irakli Kekelashvili",
	"title":          "Fullstack Developer",
	"description":    "I build modern web applications, landing pages, web services and Telegram bots.",
	"email":          "Email",
	"phone":          "Phone",
	"telegram":       "Telegram",
	"github":         "GitHub",
	"my_works":       "Works",
	"view_details":   "Details",
	"view_project":   "View project",
	"login_required": "Session expired. Please sign in again.",
	"login_pending":  "Waiting for administrator approval...",
	"login_rejected": "Access denied",
	"login_invalid":  "Invalid or expired token",
	"login_success":  "Signed in to the admin panel!",
	"logout_success": "Signed out of the admin panel",
}

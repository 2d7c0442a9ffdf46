package models

// Коллекции, синхронизируемые приложением.
// Имена совпадают с именами таблиц на удаленной стороне.
const (
	CollectionProjects         = "projects"
	CollectionLeads            = "leads"
	CollectionAcademyResources = "academy_resources"
	CollectionUserRoles        = "user_roles"
	CollectionCalendarEvents   = "calendar_events"
)

// Collections возвращает все известные коллекции в порядке объявления
func Collections() []string {
	return []string{
		CollectionProjects,
		CollectionLeads,
		CollectionAcademyResources,
		CollectionUserRoles,
		CollectionCalendarEvents,
	}
}

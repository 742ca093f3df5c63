package domain

// User — демонстрационный профиль студента.
type User struct {
	Name   string
	Email  string
	Avatar string
	Major  string
	Year   string
}

// SavedEvent — мероприятие, сохранённое пользователем. С каталогом не связано.
type SavedEvent struct {
	ID       int
	Title    string
	Date     string
	Location string
	Reminder bool
}

type PastEvent struct {
	ID       int
	Title    string
	Date     string
	Location string
}

// Setting — переключатель на вкладке настроек (только отображение).
type Setting struct {
	ID      string
	Group   string
	Label   string
	Enabled bool
}

// Profile собирает все статические данные страницы профиля.
type Profile struct {
	User        User
	SavedEvents []SavedEvent
	PastEvents  []PastEvent
	Settings    []Setting
}

// SettingsByGroup группирует настройки, сохраняя порядок групп.
func (p Profile) SettingsByGroup() []SettingGroup {
	var groups []SettingGroup
	index := make(map[string]int)
	for _, s := range p.Settings {
		i, ok := index[s.Group]
		if !ok {
			i = len(groups)
			index[s.Group] = i
			groups = append(groups, SettingGroup{Name: s.Group})
		}
		groups[i].Settings = append(groups[i].Settings, s)
	}
	return groups
}

type SettingGroup struct {
	Name     string
	Settings []Setting
}

// ProfileTab — вкладка страницы профиля.
type ProfileTab string

const (
	ProfileTabUpcoming ProfileTab = "upcoming"
	ProfileTabPast     ProfileTab = "past"
	ProfileTabSettings ProfileTab = "settings"
)

// ParseProfileTab возвращает вкладку; неизвестные значения дают upcoming.
func ParseProfileTab(s string) ProfileTab {
	switch ProfileTab(s) {
	case ProfileTabPast, ProfileTabSettings:
		return ProfileTab(s)
	default:
		return ProfileTabUpcoming
	}
}

package repositories

// Event — запись каталога в YAML-файле данных.
type Event struct {
	ID          int        `yaml:"id"`
	Title       string     `yaml:"title"`
	Date        string     `yaml:"date"`
	Time        string     `yaml:"time"`
	Location    string     `yaml:"location"`
	Coordinates [2]float64 `yaml:"coordinates"` // [lat, lng]
	Category    string     `yaml:"category"`
	Organizer   string     `yaml:"organizer"`
	Description string     `yaml:"description"`
	Image       string     `yaml:"image"`
}

type Catalog struct {
	Events []Event `yaml:"events"`
}

type User struct {
	Name   string `yaml:"name"`
	Email  string `yaml:"email"`
	Avatar string `yaml:"avatar"`
	Major  string `yaml:"major"`
	Year   string `yaml:"year"`
}

type SavedEvent struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title"`
	Date     string `yaml:"date"`
	Location string `yaml:"location"`
	Reminder bool   `yaml:"reminder"`
}

type PastEvent struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title"`
	Date     string `yaml:"date"`
	Location string `yaml:"location"`
}

type Setting struct {
	ID      string `yaml:"id"`
	Group   string `yaml:"group"`
	Label   string `yaml:"label"`
	Enabled bool   `yaml:"enabled"`
}

type Profile struct {
	User        User         `yaml:"user"`
	SavedEvents []SavedEvent `yaml:"savedEvents"`
	PastEvents  []PastEvent  `yaml:"pastEvents"`
	Settings    []Setting    `yaml:"settings"`
}

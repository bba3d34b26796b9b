package app

// Default fetch settings.
const (
	DefaultGroup      = "stations"
	DefaultLimit      = 50
	DefaultCookieFile = ".spacetrack-session.json"
)

// Config holds CLI configuration.
type Config struct {
	Verbose bool

	// fetch command
	Source      string // "celestrak" or "spacetrack"
	Group       string // celestrak group name
	Name        string // object name
	IntlDes     string // international designator
	CatNr       int    // NORAD catalog number
	Limit       int    // space-track row limit
	ArchiveDir  string // when set, raw XML snapshots are archived here
	Credentials string // path to space-track credentials YAML
	CookieFile  string // path for the persisted space-track session
	UTC         bool   // archive rotation in UTC
}

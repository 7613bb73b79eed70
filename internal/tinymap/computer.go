package tinymap

import "github.com/pixil98/go-rogue/internal/coords"

// Console actions selectable by the player.
const (
	ActionDownloadSoftware = "download_software"
)

// Console failure effects, rolled independently per use.
const (
	FailAlarm    = "alarm"
	FailDamage   = "damage"
	FailManhacks = "manhacks"
)

// ConsoleOption is one selectable action on a console.
type ConsoleOption struct {
	Name     string `json:"name"`
	Action   string `json:"action"`
	Security int    `json:"security"`
}

// Console is an interactive terminal owned by the block it sits in.
// MissionID back-references the mission that placed or claimed it so later
// game logic can attribute the console to that mission.
type Console struct {
	Pos       coords.Tile     `json:"pos"`
	Name      string          `json:"name"`
	Security  int             `json:"security"`
	MissionID string          `json:"mission_id,omitempty"`
	Options   []ConsoleOption `json:"options,omitempty"`
	Failures  []string        `json:"failures,omitempty"`
}

// AddOption appends a selectable action to the console.
func (c *Console) AddOption(name, action string, security int) {
	c.Options = append(c.Options, ConsoleOption{Name: name, Action: action, Security: security})
}

// AddFailure appends a possible failure effect to the console.
func (c *Console) AddFailure(effect string) {
	c.Failures = append(c.Failures, effect)
}

// AddComputer places a console terminal on the tile, rewriting its terrain,
// and returns the console for further configuration.
func (s *Session) AddComputer(t coords.Tile, name string, security int) *Console {
	s.SetTer(t, TerConsole)
	c := &Console{Pos: t, Name: name, Security: security}
	s.block.Consoles = append(s.block.Consoles, c)
	return c
}

// ComputerAt returns the console at the given tile, or nil if there is none.
func (s *Session) ComputerAt(t coords.Tile) *Console {
	for _, c := range s.block.Consoles {
		if c.Pos == t {
			return c
		}
	}
	return nil
}

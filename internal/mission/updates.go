package mission

import "github.com/pixil98/go-rogue/internal/tinymap"

// BuiltinUpdates returns the named map edits mission scripts may reference by
// update_mapgen_id.
func BuiltinUpdates() UpdateRegistry {
	return UpdateRegistry{
		"unlock_doors": func(sess *tinymap.Session) {
			sess.Translate(tinymap.TerDoorLocked, tinymap.TerDoorClosed)
		},
		"board_up_windows": func(sess *tinymap.Session) {
			sess.Translate(tinymap.TerWindow, tinymap.TerWindowBoarded)
		},
		"wreck_consoles": func(sess *tinymap.Session) {
			sess.Translate(tinymap.TerConsole, tinymap.TerConsoleBroken)
		},
	}
}

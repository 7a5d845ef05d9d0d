// Package console resolves console slugs from source file names.
package console

import (
	"path/filepath"
	"regexp"
	"strings"
)

const Unknown = "unknown"

type alias struct {
	key  string
	slug string
}

// Order matters: longer names must precede names they contain
// ("super nintendo" before "nintendo", "game boy advance" before "game boy").
var aliases = []alias{
	{"super nintendo entertainment system", "snes"},
	{"super nintendo", "snes"},
	{"super famicom", "snes"},
	{"snes", "snes"},

	{"playstation vita", "playstationvita"},
	{"vita", "playstationvita"},
	{"psv", "playstationvita"},

	{"playstation portable", "psp"},
	{"psp", "psp"},

	{"playstation 3", "playstation3"},
	{"ps3", "playstation3"},

	{"playstation 2", "playstation2"},
	{"ps2", "playstation2"},

	{"playstation", "playstation"},
	{"ps1", "playstation"},

	{"game boy advance", "gameboyadvance"},
	{"gba", "gameboyadvance"},

	{"game boy color", "gameboycolor"},
	{"gbc", "gameboycolor"},

	{"game boy", "gameboy"},
	{"gb", "gameboy"},

	{"wii u", "wiiu"},
	{"wii", "wii"},

	{"nintendo 3ds", "nintendo3ds"},
	{"3ds", "nintendo3ds"},

	{"nintendo ds", "nintendods"},
	{"ds", "nintendods"},
	{"nds", "nintendods"},

	{"nintendo entertainment system", "nes"},
	{"famicom", "nes"},
	{"nes", "nes"},

	{"nintendo 64", "n64"},
	{"n64", "n64"},
	{"gamecube", "gamecube"},
	{"gc", "gamecube"},

	{"sega genesis", "genesis"},
	{"sega megadrive", "genesis"},
	{"genesis", "genesis"},
	{"mega drive", "genesis"},

	{"sega saturn", "saturn"},
	{"saturn", "saturn"},

	{"sega cd", "segacd"},
	{"mega cd", "segacd"},
	{"segacd", "segacd"},

	{"sega 32x", "sega32x"},
	{"32x", "sega32x"},

	{"sega dreamcast", "dreamcast"},
	{"dreamcast", "dreamcast"},

	{"sega game gear", "gamegear"},
	{"game gear", "gamegear"},

	{"sega master system", "mastersystem"},
	{"master system", "mastersystem"},

	{"sega pico", "pico"},
	{"pico", "pico"},

	{"sg-1000", "sg1000"},
	{"sg1000", "sg1000"},
	{"sega sg-1000", "sg1000"},
	{"sega sg1000", "sg1000"},
}

var aliasPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(aliases))
	for i, a := range aliases {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(a.key) + `\b`)
	}
	return out
}()

var separators = strings.NewReplacer("_", " ", "%20", " ", "+", " ")

// Resolve returns the console slug for an HTML file name such as
// "List_of_Nintendo_Entertainment_System_games.html". Whole-word matches
// win over substring matches; Unknown is returned when nothing matches.
func Resolve(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	name := strings.ToLower(separators.Replace(base))

	for i, re := range aliasPatterns {
		if re.MatchString(name) {
			return aliases[i].slug
		}
	}
	for _, a := range aliases {
		if strings.Contains(name, a.key) {
			return a.slug
		}
	}
	return Unknown
}

// DisplayName renders a slug for humans: "gameboy" -> "GAMEBOY".
func DisplayName(slug string) string {
	return strings.ToUpper(strings.ReplaceAll(slug, "_", " "))
}

package console

import "testing"

func TestResolve(t *testing.T) {
	cases := []struct {
		file string
		want string
	}{
		{"html/List_of_Nintendo_Entertainment_System_games.html", "nes"},
		{"List of Super Nintendo Entertainment System games.html", "snes"},
		{"List_of_Game_Boy_Advance_games.html", "gameboyadvance"},
		{"List_of_Game_Boy_games.html", "gameboy"},
		{"List_of_PlayStation_2_games_(A-K).html", "playstation2"},
		{"List_of_PlayStation_games.htm", "playstation"},
		{"List_of_Nintendo_3DS_games.html", "nintendo3ds"},
		{"List_of_Nintendo_DS_games.html", "nintendods"},
		{"List_of_Sega_Genesis_games.html", "genesis"},
		{"List_of_SG-1000_games.html", "sg1000"},
		{"List_of_Wii_U_games.html", "wiiu"},
		{"List_of_Wii_games.html", "wii"},
		{"List_of_Atari_Lynx_games.html", Unknown},
	}

	for _, tc := range cases {
		t.Run(tc.file, func(t *testing.T) {
			if got := Resolve(tc.file); got != tc.want {
				t.Fatalf("Resolve(%q)=%q want %q", tc.file, got, tc.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("konami_qta"); got != "KONAMI QTA" {
		t.Fatalf("got %q", got)
	}
}

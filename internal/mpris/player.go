package mpris

import (
	"slices"
	"strings"
)

// pickPlayer selects an MPRIS bus name. Names are sorted so the choice is
// stable. A non-empty want matches the part after the MPRIS prefix, either
// exactly or up to an instance suffix ("firefox" matches
// "org.mpris.MediaPlayer2.firefox.instance123").
func pickPlayer(names []string, want string) (string, bool) {
	var players []string
	for _, n := range names {
		if strings.HasPrefix(n, busPrefix) {
			players = append(players, n)
		}
	}
	slices.Sort(players)

	for _, p := range players {
		suffix := strings.TrimPrefix(p, busPrefix)
		if want == "" || suffix == want || strings.HasPrefix(suffix, want+".") {
			return p, true
		}
	}
	return "", false
}

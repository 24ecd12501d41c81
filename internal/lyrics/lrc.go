// Package lyrics resolves song lyrics from embedded tags, a disk cache and
// a chain of remote providers, in that order.
package lyrics

import (
	"bufio"
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

// lrcStampRe matches one LRC time tag: [mm:ss], [mm:ss.xx] or [mm:ss:xx].
var lrcStampRe = regexp.MustCompile(`^\[(\d+):(\d{1,2})(?:[.:](\d{1,3}))?\]`)

type timedLine struct {
	at   time.Duration
	text string
}

// PlainFromLRC turns synced LRC lyrics into plain text in play order.
// ID tags such as [ar:...] are dropped, and a line carrying several time
// tags is repeated once per tag. Lines without a time tag are ignored.
func PlainFromLRC(lrc string) string {
	var lines []timedLine

	sc := bufio.NewScanner(strings.NewReader(lrc))
	for sc.Scan() {
		rest := strings.TrimSpace(sc.Text())
		var stamps []time.Duration
		for {
			m := lrcStampRe.FindStringSubmatch(rest)
			if m == nil {
				break
			}
			stamps = append(stamps, lrcStamp(m[1], m[2], m[3]))
			rest = rest[len(m[0]):]
		}
		text := strings.TrimSpace(rest)
		for _, at := range stamps {
			lines = append(lines, timedLine{at: at, text: text})
		}
	}

	slices.SortStableFunc(lines, func(a, b timedLine) int {
		return cmp.Compare(a.at, b.at)
	})

	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.text
	}
	return strings.TrimSpace(strings.Join(texts, "\n"))
}

// lrcStamp converts the captured parts of a time tag. The fraction is
// centiseconds when it has two digits and milliseconds when it has three.
func lrcStamp(mins, secs, frac string) time.Duration {
	m, _ := strconv.Atoi(mins)
	s, _ := strconv.Atoi(secs)
	d := time.Duration(m)*time.Minute + time.Duration(s)*time.Second
	if frac == "" {
		return d
	}
	f, _ := strconv.Atoi(frac)
	switch len(frac) {
	case 1:
		d += time.Duration(f) * 100 * time.Millisecond
	case 2:
		d += time.Duration(f) * 10 * time.Millisecond
	default:
		d += time.Duration(f) * time.Millisecond
	}
	return d
}

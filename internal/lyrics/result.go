package lyrics

// Status is the outcome of a single lyrics lookup.
type Status int

const (
	// NotFound means the source has no lyrics for the track.
	NotFound Status = iota
	// Found means the source returned lyrics.
	Found
	// Failed means the source could not be queried (network, parse error).
	// Failed results are never cached.
	Failed
)

func (s Status) String() string {
	switch s {
	case Found:
		return "found"
	case NotFound:
		return "not_found"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is what a lyrics source returns.
type Result struct {
	Status Status
	Text   string
	Err    error
}

// FoundResult returns a Found result carrying text.
func FoundResult(text string) Result {
	return Result{Status: Found, Text: text}
}

// NotFoundResult returns a NotFound result.
func NotFoundResult() Result {
	return Result{Status: NotFound}
}

// FailedResult returns a Failed result carrying the cause.
func FailedResult(err error) Result {
	return Result{Status: Failed, Err: err}
}

// IsFound reports whether the result carries lyrics.
func (r Result) IsFound() bool {
	return r.Status == Found
}

// Key identifies a song in the cache and in provider lookups.
type Key struct {
	Artist string
	Title  string
}

// Valid reports whether both artist and title are set. Invalid keys are
// never looked up or cached.
func (k Key) Valid() bool {
	return k.Artist != "" && k.Title != ""
}

package lyricwiki

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// ErrStatus is returned when a server answers with a non-2xx status.
var ErrStatus = errors.New("unexpected status")

// visitFunc is called for every start element of a streamed document.
// text reads the node that follows the element and returns its character
// data, or "" when the next node is not text. Returning stop ends the scan.
type visitFunc func(name string, text func() (string, error)) (stop bool, err error)

// escape prepares a value for use inside a URL query. Spaces become %20.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// expand fills the {artist} and {title} placeholders of a URL template.
func expand(template, artist, title string) string {
	return strings.NewReplacer("{artist}", artist, "{title}", title).Replace(template)
}

// scan issues a GET for rawURL and walks the response as an XML stream,
// calling visit for each start element. The decoder is lenient so HTML
// pages can be read as well.
func (p *Provider) scan(ctx context.Context, rawURL string, visit visitFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	dec := newDecoder(resp.Body)
	text := func() (string, error) {
		tok, err := dec.Token()
		if err != nil {
			return "", fmt.Errorf("read text: %w", err)
		}
		if cd, ok := tok.(xml.CharData); ok {
			return string(cd), nil
		}
		return "", nil
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		stop, err := visit(se.Name.Local, text)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	// Encodings are best effort: bytes are passed through as declared UTF-8.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	return dec
}

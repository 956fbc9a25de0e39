// Package corpus turns corpus files into streams of raw text segments for the
// model builder.
package corpus

import (
	"bufio"
	"compress/bzip2"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"strings"
)

// DefaultProgressEvery is how many dump pages are read between progress logs.
const DefaultProgressEvery = 5000

// Format of a corpus file.
type Format int

const (
	FormatText Format = iota
	FormatWikiDump
)

func (f Format) String() string {
	switch f {
	case FormatWikiDump:
		return "wikidump"
	default:
		return "text"
	}
}

// DetectFormat picks the format from the file name: *.xml and *.xml.bz2 are
// MediaWiki dumps, everything else is plain text.
func DetectFormat(path string) Format {
	p := strings.TrimSuffix(strings.ToLower(path), ".bz2")
	if strings.HasSuffix(p, ".xml") {
		return FormatWikiDump
	}
	return FormatText
}

// Source is a corpus file. Each range over Segments reopens the file, so the
// sequence can be consumed more than once.
type Source struct {
	Path          string
	Format        Format
	ProgressEvery int
	Logger        *slog.Logger

	err   error
	pages int
}

// Open returns a source for path after checking that it can be read.
func Open(path string, logger *slog.Logger) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	f.Close()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{
		Path:          path,
		Format:        DetectFormat(path),
		ProgressEvery: DefaultProgressEvery,
		Logger:        logger,
	}, nil
}

// Segments yields the raw text segments of the file: the article text of
// every page for dumps, every line for plain text. Read errors end the
// sequence and are reported by Err.
func (s *Source) Segments() iter.Seq[string] {
	return func(yield func(string) bool) {
		s.err = nil
		f, err := os.Open(s.Path)
		if err != nil {
			s.err = fmt.Errorf("opening corpus: %w", err)
			return
		}
		defer f.Close()

		var r io.Reader = f
		if strings.HasSuffix(strings.ToLower(s.Path), ".bz2") {
			r = bzip2.NewReader(f)
		}

		switch s.Format {
		case FormatWikiDump:
			w := NewWikiReader(r, s.Logger)
			w.ProgressEvery = s.ProgressEvery
			for seg := range w.Segments() {
				if !yield(seg) {
					break
				}
			}
			s.pages = w.Pages()
			s.err = w.Err()
		default:
			lr := NewLineReader(r)
			for seg := range lr.Segments() {
				if !yield(seg) {
					break
				}
			}
			s.err = lr.Err()
		}
	}
}

// Err returns the error that ended the last pass, if any.
func (s *Source) Err() error { return s.err }

// Pages is the number of dump pages read by the last pass.
func (s *Source) Pages() int { return s.pages }

// LineReader yields one segment per line.
type LineReader struct {
	r   io.Reader
	err error
}

func NewLineReader(r io.Reader) *LineReader { return &LineReader{r: r} }

func (l *LineReader) Segments() iter.Seq[string] {
	return func(yield func(string) bool) {
		sc := bufio.NewScanner(l.r)
		sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
		for sc.Scan() {
			line := sc.Text()
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			l.err = fmt.Errorf("reading corpus lines: %w", err)
		}
	}
}

func (l *LineReader) Err() error { return l.err }

// ErrMalformedDump is reported when the dump is not well formed XML.
var ErrMalformedDump = errors.New("corpus: malformed dump")

// WikiReader streams the article text out of a MediaWiki XML export without
// loading the whole document. Elements are matched by local name, so any
// export schema version works.
type WikiReader struct {
	ProgressEvery int

	r      io.Reader
	logger *slog.Logger
	pages  int
	err    error
}

func NewWikiReader(r io.Reader, logger *slog.Logger) *WikiReader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &WikiReader{r: r, logger: logger, ProgressEvery: DefaultProgressEvery}
}

// Segments yields the text of page/revision/text of every page that has
// one. It can only be consumed once.
func (w *WikiReader) Segments() iter.Seq[string] {
	return func(yield func(string) bool) {
		dec := xml.NewDecoder(w.r)
		var path []string
		for {
			tok, err := dec.Token()
			if err == io.EOF {
				w.logger.Info("dump processed", "pages", w.pages)
				return
			}
			if err != nil {
				w.err = fmt.Errorf("%w: %v", ErrMalformedDump, err)
				return
			}
			switch t := tok.(type) {
			case xml.StartElement:
				if t.Name.Local == "text" && inRevision(path) {
					var body string
					if err := dec.DecodeElement(&body, &t); err != nil {
						w.err = fmt.Errorf("%w: page %d: %v", ErrMalformedDump, w.pages+1, err)
						return
					}
					if body != "" && !yield(body) {
						return
					}
					continue
				}
				path = append(path, t.Name.Local)
			case xml.EndElement:
				if len(path) > 0 {
					path = path[:len(path)-1]
				}
				if t.Name.Local == "page" {
					w.pages++
					if w.ProgressEvery > 0 && w.pages%w.ProgressEvery == 0 {
						w.logger.Info("processing dump", "pages", w.pages)
					}
				}
			}
		}
	}
}

func inRevision(path []string) bool {
	n := len(path)
	return n >= 2 && path[n-1] == "revision" && path[n-2] == "page"
}

// Pages is the number of complete pages read so far.
func (w *WikiReader) Pages() int { return w.pages }

// Err returns the decoding error that stopped the stream, if any.
func (w *WikiReader) Err() error { return w.err }

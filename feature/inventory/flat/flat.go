package flat

import (
	"sort"
	"strconv"
	"strings"

	"dlc-updater/core/reconcile"

	"go.uber.org/zap"
)

const headerMarker = "#"

// Store is the flat-format inventory (steam_settings/DLC.txt): "# <game>" headers
// each followed by "id = name" lines, sections separated by a blank line.
type Store struct {
	path   string
	logger *zap.Logger
}

var _ reconcile.Adapter = (*Store)(nil)

// New creates a flat store bound to path.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Name returns the store name.
func (s *Store) Name() string { return "flat" }

// Path returns the store file location.
func (s *Store) Path() string { return s.path }

// Parse returns the ids recorded under every section.
func (s *Store) Parse(data []byte) reconcile.Snapshot {
	snap := reconcile.Snapshot{}
	_, sections := split(string(data))
	for _, sec := range sections {
		if sec.game == "" {
			continue
		}
		for _, line := range sec.body {
			if id, ok := entryID(line); ok {
				snap.Add(sec.game, id)
			}
		}
	}
	return snap
}

// Rewrite merges the records of delta into their sections and re-sorts those
// sections by numeric id. Sections without new records keep their bytes apart
// from trailing blank lines; the file is re-joined with one blank line between
// sections, using the file's own line ending.
func (s *Store) Rewrite(data []byte, delta reconcile.Delta) ([]byte, int) {
	text := string(data)
	eol := lineEnding(text)
	preamble, sections := split(text)

	found := make(map[string]bool, len(sections))
	chunks := make([]string, 0, len(sections)+1)
	if p := trimBlankTail(preamble); strings.TrimSpace(p) != "" {
		chunks = append(chunks, p)
	}

	applied := 0
	for _, sec := range sections {
		var recs map[string]string
		if !found[sec.game] {
			// only the first section of a repeated game receives records
			recs = delta[sec.game]
		}
		found[sec.game] = true

		lines, added := merge(sec, recs)
		if added == 0 {
			chunks = append(chunks, trimBlankTail(sec.raw))
			continue
		}
		applied += added
		chunks = append(chunks, headerMarker+" "+sec.game+eol+strings.Join(lines, eol))

		s.logger.Info("Appending DLC to section",
			zap.String("store", s.Name()),
			zap.String("game", sec.game),
			zap.Int("count", added),
		)
	}

	for game, recs := range delta {
		if !found[game] && len(recs) > 0 {
			s.logger.Warn("Game section not found, skipping",
				zap.String("store", s.Name()),
				zap.String("game", game),
				zap.Int("records", len(recs)),
			)
		}
	}

	if applied == 0 {
		return data, 0
	}

	out := strings.Join(chunks, eol+eol)
	if strings.HasSuffix(text, "\n") {
		out += eol
	}
	return []byte(out), applied
}

// section is one "# game" header plus the lines up to the next header.
type section struct {
	game string
	// body holds the trimmed non-blank lines after the header.
	body []string
	// raw is the header line and body as written.
	raw string
}

// split cuts text at header lines. Text before the first header is returned separately.
func split(text string) (string, []section) {
	var preamble strings.Builder
	var sections []section
	var raw strings.Builder

	flush := func() {
		if len(sections) > 0 {
			sections[len(sections)-1].raw = raw.String()
		}
		raw.Reset()
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, headerMarker) {
			flush()
			sections = append(sections, section{
				game: strings.TrimSpace(strings.TrimPrefix(trimmed, headerMarker)),
			})
			raw.WriteString(line)
			continue
		}
		if len(sections) == 0 {
			preamble.WriteString(line)
			continue
		}
		raw.WriteString(line)
		if trimmed != "" {
			sec := &sections[len(sections)-1]
			sec.body = append(sec.body, trimmed)
		}
	}
	flush()

	return preamble.String(), sections
}

// merge adds the records missing from sec and returns its lines sorted by id.
func merge(sec section, recs map[string]string) ([]string, int) {
	if len(recs) == 0 || sec.game == "" {
		return nil, 0
	}

	existing := make(map[string]struct{}, len(sec.body))
	for _, line := range sec.body {
		if id, ok := entryID(line); ok {
			existing[id] = struct{}{}
		}
	}

	ids := make([]string, 0, len(recs))
	for id := range recs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return reconcile.LessID(ids[i], ids[j])
	})

	lines := append([]string(nil), sec.body...)
	added := 0
	for _, id := range ids {
		if _, ok := existing[id]; ok {
			continue
		}
		lines = append(lines, id+" = "+recs[id])
		added++
	}
	if added == 0 {
		return nil, 0
	}

	sort.SliceStable(lines, func(i, j int) bool {
		a, aok := numericKey(lines[i])
		b, bok := numericKey(lines[j])
		switch {
		case aok && bok:
			return a < b
		default:
			return aok && !bok
		}
	})
	return lines, added
}

func entryID(line string) (string, bool) {
	id, _, ok := strings.Cut(line, "=")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(id), true
}

func numericKey(line string) (int, bool) {
	id, ok := entryID(line)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(id)
	return n, err == nil
}

// lineEnding returns the ending of the first line, "\n" when there is none.
func lineEnding(text string) string {
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

// trimBlankTail drops trailing whitespace-only lines and the final line ending.
// Everything else, trailing spaces on the last content line included, is kept.
func trimBlankTail(raw string) string {
	lines := strings.SplitAfter(raw, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	out := strings.Join(lines, "")
	out = strings.TrimSuffix(out, "\n")
	return strings.TrimSuffix(out, "\r")
}

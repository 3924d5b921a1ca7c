package block

import (
	"bytes"
	"sort"
	"strings"

	"dlc-updater/core/reconcile"

	"go.uber.org/zap"
)

const (
	headerMarker    = ";"
	headerException = ";lowviolence"
	dlcTag          = "[dlc]"
)

// Store is the block-format inventory (cream_api.ini): comment headers naming a
// game, each followed by bracketed sub-sections, one of which is tagged [dlc] and
// holds "id = name" lines.
type Store struct {
	path   string
	logger *zap.Logger
}

var _ reconcile.Adapter = (*Store)(nil)

// New creates a block store bound to path.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Name returns the store name.
func (s *Store) Name() string { return "block" }

// Path returns the store file location.
func (s *Store) Path() string { return s.path }

// Parse returns the ids recorded in every game's DLC sub-block.
func (s *Store) Parse(data []byte) reconcile.Snapshot {
	_, snap := scan(splitLines(data))
	return snap
}

// Rewrite inserts the records of delta after the last entry of each game's DLC
// sub-block. Every other byte is copied through unchanged.
func (s *Store) Rewrite(data []byte, delta reconcile.Delta) ([]byte, int) {
	lines := splitLines(data)
	sections, snap := scan(lines)
	eol := lineEnding(data)

	byGame := make(map[string]*section, len(sections))
	for i := range sections {
		// a repeated header takes over the game
		byGame[sections[i].game] = &sections[i]
	}

	inserts := make(map[int][]string)
	applied := 0

	games := make([]string, 0, len(delta))
	for game := range delta {
		games = append(games, game)
	}
	sort.Strings(games)

	for _, game := range games {
		sec, ok := byGame[game]
		if !ok {
			s.logger.Warn("Game section not found, skipping",
				zap.String("store", s.Name()),
				zap.String("game", game),
				zap.Int("records", len(delta[game])),
			)
			continue
		}

		var entries []string
		for _, id := range delta.SortedIDs(game) {
			if snap.Has(game, id) {
				continue
			}
			entries = append(entries, id+" = "+delta[game][id])
		}
		if len(entries) == 0 {
			continue
		}

		n := len(entries)
		at, block := sec.insertionPoint()
		if block == blockMissing {
			entries = append([]string{dlcTag}, entries...)
		}
		if block != blockEmpty {
			entries = append([]string{""}, entries...)
		}
		inserts[at] = entries
		applied += n

		s.logger.Info("Appending DLC to section",
			zap.String("store", s.Name()),
			zap.String("game", game),
			zap.Int("count", n),
		)
	}

	if applied == 0 {
		return data, 0
	}

	var buf bytes.Buffer
	buf.Grow(len(data) + applied*64)
	for i, line := range lines {
		buf.Write(line)
		extra, ok := inserts[i]
		if !ok {
			continue
		}
		if !bytes.HasSuffix(line, []byte("\n")) {
			buf.WriteString(eol)
		}
		for _, e := range extra {
			buf.WriteString(e)
			buf.WriteString(eol)
		}
	}
	return buf.Bytes(), applied
}

type blockKind int

const (
	blockHasEntries blockKind = iota
	blockEmpty
	blockMissing
)

// section is one game's line range.
type section struct {
	game string
	// header is the index of the header line.
	header int
	// tag is the index of the first [dlc] line, or -1.
	tag int
	// lastEntry is the index of the last "id = name" line in a DLC sub-block, or -1.
	lastEntry int
	// lastContent is the index of the last non-blank line of the section.
	lastContent int
}

// insertionPoint returns the line new records go after.
func (s *section) insertionPoint() (int, blockKind) {
	switch {
	case s.lastEntry >= 0:
		return s.lastEntry, blockHasEntries
	case s.tag >= 0:
		return s.tag, blockEmpty
	default:
		return s.lastContent, blockMissing
	}
}

// scan walks the file once, tracking the current game and whether the cursor
// is inside its DLC sub-block. Blank lines do not close a sub-block.
func scan(lines [][]byte) ([]section, reconcile.Snapshot) {
	var sections []section
	snap := reconcile.Snapshot{}
	var cur *section
	inDLC := false

	for i, raw := range lines {
		line := strings.TrimSpace(string(raw))

		switch {
		case isHeader(line):
			sections = append(sections, section{
				game:        strings.TrimSpace(strings.TrimPrefix(line, headerMarker)),
				header:      i,
				tag:         -1,
				lastEntry:   -1,
				lastContent: i,
			})
			cur = &sections[len(sections)-1]
			inDLC = false
			continue
		case line == dlcTag:
			inDLC = true
			if cur != nil && cur.tag < 0 {
				cur.tag = i
			}
		case strings.HasPrefix(line, "["):
			inDLC = false
		case inDLC && cur != nil && cur.game != "" && strings.Contains(line, "="):
			id, _, _ := strings.Cut(line, "=")
			snap.Add(cur.game, strings.TrimSpace(id))
			cur.lastEntry = i
		}

		if cur != nil && line != "" {
			cur.lastContent = i
		}
	}
	return sections, snap
}

func isHeader(line string) bool {
	return strings.HasPrefix(line, headerMarker) && !strings.HasPrefix(line, headerException)
}

// splitLines splits data after every '\n', keeping terminators.
func splitLines(data []byte) [][]byte {
	var lines [][]byte
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			lines = append(lines, data)
			break
		}
		lines = append(lines, data[:i+1])
		data = data[i+1:]
	}
	return lines
}

func lineEnding(data []byte) string {
	if bytes.Contains(data, []byte("\r\n")) {
		return "\r\n"
	}
	return "\n"
}

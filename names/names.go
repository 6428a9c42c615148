// Package names loads known-name lists that map asset identifiers back to
// their original relative paths.
//
// A name list is line oriented. Each non-blank line holds a path and the
// decimal identifier of that path, separated by '|' or by a single space:
//
//	interface\login\bg.tga|3953194592
//	scene/readme.txt 3852869192
//
// Carriage returns are ignored, so CRLF files load unchanged. A malformed
// line fails the whole load with [ErrEncoding]: a partially loaded table
// would silently misname assets.
package names

import (
	"bufio"
	"cmp"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/meigma/wdf/stringid"
)

// ErrEncoding is returned when a name list line cannot be parsed.
var ErrEncoding = errors.New("wdf: malformed name list")

// maxLineSize bounds a single name list line.
const maxLineSize = 1 << 20

// Table maps asset identifiers to slash-separated relative paths.
//
// A Table is immutable once loaded and safe for concurrent lookups.
type Table struct {
	paths map[uint32]string
}

// New builds a Table from a uid to path map. Paths are normalized.
func New(m map[uint32]string) *Table {
	t := &Table{paths: make(map[uint32]string, len(m))}
	for uid, p := range m {
		t.paths[uid] = normalize(p)
	}
	return t
}

// Lookup returns the path recorded for uid.
func (t *Table) Lookup(uid uint32) (string, bool) {
	if t == nil {
		return "", false
	}
	p, ok := t.paths[uid]
	return p, ok
}

// Len returns the number of distinct identifiers in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.paths)
}

// LoadFile loads a name list from path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided path is intentional
	if err != nil {
		return nil, fmt.Errorf("open name list: %w", err)
	}
	defer f.Close()

	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Load parses a name list. When an identifier appears more than once, the
// last line wins.
func Load(r io.Reader) (*Table, error) {
	t := &Table{paths: make(map[uint32]string)}
	err := scanLines(r, func(lineNo int, line string) error {
		p, uid, err := parseLine(line)
		if err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrEncoding, lineNo, err)
		}
		t.paths[uid] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// parseLine splits a line on its last '|' if it has one, otherwise on its
// last space. Both fields are trimmed.
func parseLine(line string) (string, uint32, error) {
	i := strings.LastIndexByte(line, '|')
	if i < 0 {
		i = strings.LastIndexByte(line, ' ')
	}
	if i < 0 {
		return "", 0, errors.New("missing uid field")
	}
	p := strings.TrimSpace(line[:i])
	field := strings.TrimSpace(line[i+1:])
	if p == "" {
		return "", 0, errors.New("empty path")
	}
	if field == "" {
		return "", 0, errors.New("missing uid field")
	}
	uid, err := strconv.ParseUint(field, 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("invalid uid %q", field)
	}
	return normalize(p), uint32(uid), nil
}

// normalize converts backslash separators to forward slashes.
func normalize(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

// scanLines calls fn for every non-blank line with carriage returns removed.
// Line numbers start at 1.
func scanLines(r io.Reader, fn func(lineNo int, line string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.ReplaceAll(sc.Text(), "\r", "")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read name list: %w", err)
	}
	return nil
}

// Mismatch is a table entry whose path does not hash to its identifier.
type Mismatch struct {
	UID  uint32
	Path string
	Want uint32 // stringid of Path
}

// Verify recomputes the identifier of every path and returns the entries
// that disagree, sorted by UID.
func (t *Table) Verify() []Mismatch {
	if t == nil {
		return nil
	}
	var out []Mismatch
	for uid, p := range t.paths {
		if want := stringid.SumString(p); want != uid {
			out = append(out, Mismatch{UID: uid, Path: p, Want: want})
		}
	}
	slices.SortFunc(out, func(a, b Mismatch) int { return cmp.Compare(a.UID, b.UID) })
	return out
}

// Generate reads one path per line from r and writes "<path> <uid>" lines
// to w, computing each uid with stringid. Blank lines are skipped and
// paths are written unchanged, so the output loads with Load.
func Generate(w io.Writer, r io.Reader) (int, error) {
	bw := bufio.NewWriter(w)
	n := 0
	err := scanLines(r, func(_ int, line string) error {
		p := strings.TrimSpace(line)
		if _, err := fmt.Fprintf(bw, "%s %d\n", p, stringid.SumString(p)); err != nil {
			return err
		}
		n++
		return nil
	})
	if err != nil {
		return n, err
	}
	return n, bw.Flush()
}

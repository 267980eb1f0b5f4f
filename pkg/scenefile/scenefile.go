// Package scenefile parses the viewer's scene-description file.
//
// Each non-empty line describes one object:
//
//	<name> <model-file> <base-texture-file> <specular-texture-file> <x> <y> <z>
//
// Lines starting with '#' are comments.
package scenefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// FieldCount is the number of whitespace-separated fields per object line.
const FieldCount = 7

// Descriptor is one parsed object line. Paths are already joined onto the
// data directory.
type Descriptor struct {
	Line     int
	Name     string
	Model    string
	Texture  string
	Specular string
	Position mgl32.Vec3
}

// LineError reports a rejected line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

var (
	ErrFieldCount = errors.New("wrong number of fields")
	ErrBadFloat   = errors.New("invalid coordinate")
)

// Loader reads scene files relative to a data directory.
type Loader struct {
	dataDir string
}

func NewLoader(dataDir string) *Loader {
	return &Loader{dataDir: dataDir}
}

// LoadFile opens and parses path. An unreadable file is returned as a plain
// error; malformed lines come back as a joined set of *LineError next to
// the descriptors that did parse.
func (l *Loader) LoadFile(path string) ([]Descriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open scene file: %w", err)
	}
	defer f.Close()
	return l.Parse(f)
}

// Parse reads descriptors from r. Scanner failures abort; bad lines do not.
func (l *Loader) Parse(r io.Reader) ([]Descriptor, error) {
	var (
		out     []Descriptor
		lineErr []error
	)
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		d, err := l.parseLine(text)
		if err != nil {
			lineErr = append(lineErr, &LineError{Line: n, Err: err})
			continue
		}
		d.Line = n
		out = append(out, d)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("could not read scene file: %w", err)
	}
	return out, errors.Join(lineErr...)
}

func (l *Loader) parseLine(text string) (Descriptor, error) {
	fields := strings.Fields(text)
	if len(fields) != FieldCount {
		return Descriptor{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), FieldCount)
	}

	var pos mgl32.Vec3
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(fields[4+i], 32)
		if err != nil {
			return Descriptor{}, fmt.Errorf("%w %q", ErrBadFloat, fields[4+i])
		}
		pos[i] = float32(v)
	}

	return Descriptor{
		Name:     fields[0],
		Model:    l.resolve(fields[1]),
		Texture:  l.resolve(fields[2]),
		Specular: l.resolve(fields[3]),
		Position: pos,
	}, nil
}

func (l *Loader) resolve(p string) string {
	if l.dataDir == "" || filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(l.dataDir, p)
}

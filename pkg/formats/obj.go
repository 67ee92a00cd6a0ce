package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/togetoge/pkg/math"
)

// OBJ format errors.
var (
	ErrInvalidOBJ    = errors.New("invalid OBJ data")
	ErrOBJIndexRange = errors.New("OBJ vertex index out of range")
)

// CompressedOBJExt is the file suffix for zstd-compressed OBJ files.
const CompressedOBJExt = ".zst"

// OBJ is the geometry subset of a Wavefront OBJ file: vertex positions,
// polygon faces and free-standing line segments. Indices are 0-based.
type OBJ struct {
	Vertices []math.Vec3
	Faces    [][]int
	Lines    [][2]int
}

// ParseOBJ parses OBJ text. Texture coordinates, normals, groups and
// material statements are ignored.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseOBJVertex(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			obj.Vertices = append(obj.Vertices, v)
		case "f":
			face, err := obj.parseIndices(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if len(face) < 3 {
				return nil, fmt.Errorf("line %d: %w: face with %d vertices", lineNo, ErrInvalidOBJ, len(face))
			}
			obj.Faces = append(obj.Faces, face)
		case "l":
			poly, err := obj.parseIndices(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			if len(poly) < 2 {
				return nil, fmt.Errorf("line %d: %w: line with %d vertices", lineNo, ErrInvalidOBJ, len(poly))
			}
			for i := 0; i+1 < len(poly); i++ {
				obj.Lines = append(obj.Lines, [2]int{poly[i], poly[i+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOBJ, err)
	}

	return obj, nil
}

func parseOBJVertex(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("%w: vertex needs 3 coordinates, got %d", ErrInvalidOBJ, len(fields))
	}
	var c [3]float64
	for i := range c {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return math.Vec3{}, fmt.Errorf("%w: coordinate %q", ErrInvalidOBJ, fields[i])
		}
		c[i] = f
	}
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}, nil
}

// parseIndices resolves 1-based (or negative, relative) vertex references.
// Only the position part of "v/vt/vn" tokens is used.
func (o *OBJ) parseIndices(fields []string) ([]int, error) {
	out := make([]int, 0, len(fields))
	for _, tok := range fields {
		ref, _, _ := strings.Cut(tok, "/")
		n, err := strconv.Atoi(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: index %q", ErrInvalidOBJ, tok)
		}
		idx := n - 1
		if n < 0 {
			idx = len(o.Vertices) + n
		}
		if n == 0 || idx < 0 || idx >= len(o.Vertices) {
			return nil, fmt.Errorf("%w: %d (have %d vertices)", ErrOBJIndexRange, n, len(o.Vertices))
		}
		out = append(out, idx)
	}
	return out, nil
}

// Write encodes the OBJ as text.
func (o *OBJ) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# togetoge: %d vertices, %d faces, %d lines\n", len(o.Vertices), len(o.Faces), len(o.Lines))
	for _, v := range o.Vertices {
		fmt.Fprintf(bw, "v %s %s %s\n", formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
	}
	for _, f := range o.Faces {
		bw.WriteString("f")
		for _, idx := range f {
			bw.WriteString(" ")
			bw.WriteString(strconv.Itoa(idx + 1))
		}
		bw.WriteString("\n")
	}
	for _, l := range o.Lines {
		fmt.Fprintf(bw, "l %d %d\n", l[0]+1, l[1]+1)
	}
	return bw.Flush()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseOBJFile parses an OBJ file from disk. Files ending in ".zst" are
// decompressed first.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading OBJ file: %w", err)
	}
	if isCompressed(path) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
	}
	return ParseOBJ(data)
}

// WriteOBJFile writes an OBJ file, compressing it when path ends in ".zst".
func WriteOBJFile(path string, o *OBJ) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if !isCompressed(path) {
		if err := o.Write(f); err != nil {
			return err
		}
		return f.Close()
	}

	enc, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := o.Write(enc); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Close()
}

func isCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedOBJExt)
}

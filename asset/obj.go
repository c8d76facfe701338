package asset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lixenwraith/heartfall/vmath"
)

// OBJLoader reads a Wavefront OBJ mesh from disk
// Only geometry is used: v and f records, polygons fan-triangulated
type OBJLoader struct {
	Path     string
	Recenter bool
}

func (l *OBJLoader) Load(ctx context.Context) (*Template, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(l.Path)
	if err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer f.Close()

	tpl, err := ParseOBJ(filepath.Base(l.Path), f)
	if err != nil {
		return nil, err
	}
	if l.Recenter {
		Recenter(tpl.Vertices)
		return NewTemplate(tpl.Name, tpl.Vertices, tpl.Triangles)
	}
	return tpl, nil
}

// ParseOBJ builds a template from OBJ text
func ParseOBJ(name string, r io.Reader) (*Template, error) {
	var verts []vmath.Vec3F
	var tris [][3]int32

	sc := bufio.NewScanner(r)
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
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: vertex needs 3 coordinates", name, lineNo)
			}
			var c [3]float64
			for i := range c {
				val, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
				}
				c[i] = val
			}
			verts = append(verts, vmath.Vec3F{X: c[0], Y: c[1], Z: c[2]})

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("%s:%d: face needs at least 3 vertices", name, lineNo)
			}
			idx := make([]int32, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				i, err := faceIndex(tok, len(verts))
				if err != nil {
					return nil, fmt.Errorf("%s:%d: %w", name, lineNo, err)
				}
				idx = append(idx, i)
			}
			for k := 1; k+1 < len(idx); k++ {
				tris = append(tris, [3]int32{idx[0], idx[k], idx[k+1]})
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return NewTemplate(name, verts, tris)
}

// faceIndex resolves one face token (v, v/vt, v//vn, v/vt/vn), 1-based or negative relative
func faceIndex(tok string, count int) (int32, error) {
	if slash := strings.IndexByte(tok, '/'); slash >= 0 {
		tok = tok[:slash]
	}
	i, err := strconv.Atoi(tok)
	if err != nil {
		return 0, err
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += count
	default:
		return 0, fmt.Errorf("index 0: %w", ErrBadIndex)
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index %s: %w", tok, ErrBadIndex)
	}
	return int32(i), nil
}

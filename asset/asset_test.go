package asset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/heartfall/vmath"
)

func TestNewTemplateValidates(t *testing.T) {
	_, err := NewTemplate("empty", nil, nil)
	assert.ErrorIs(t, err, ErrNoVertices)

	verts := []vmath.Vec3F{{}, {X: 1}, {Y: 1}}
	_, err = NewTemplate("bad", verts, [][3]int32{{0, 1, 3}})
	assert.ErrorIs(t, err, ErrBadIndex)

	tpl, err := NewTemplate("tri", verts, [][3]int32{{0, 1, 2}})
	require.NoError(t, err)
	assert.Equal(t, vmath.Vec3F{X: 1, Y: 1}, tpl.Size())
	assert.Equal(t, 1.0, tpl.MaxDimension())
	assert.InDelta(t, 1.0, tpl.FaceNormals[0].Z, 1e-12)
}

const quadOBJ = `# unit quad in the xz plane, lifted
o quad
v 0 2 0
v 4 2 0
v 4 2 1
v 0 2 1
vn 0 1 0
f 1//1 2//1 3//1 4//1
`

func TestParseOBJFanTriangulates(t *testing.T) {
	tpl, err := ParseOBJ("quad.obj", strings.NewReader(quadOBJ))
	require.NoError(t, err)

	assert.Len(t, tpl.Vertices, 4)
	assert.Equal(t, [][3]int32{{0, 1, 2}, {0, 2, 3}}, tpl.Triangles)
	assert.Equal(t, 4.0, tpl.MaxDimension())
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3/1/1 -2/2/1 -1/3/1\n"
	tpl, err := ParseOBJ("rel.obj", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, [][3]int32{{0, 1, 2}}, tpl.Triangles)
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"no geometry", "# nothing\n", ErrNoVertices},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", ErrBadIndex},
		{"past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", ErrBadIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ("x.obj", strings.NewReader(tt.src))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ParseOBJ("x.obj", strings.NewReader("v 0 zero 0\n"))
	assert.Error(t, err)
	_, err = ParseOBJ("x.obj", strings.NewReader("v 0 0 0\nf 1 1\n"))
	assert.Error(t, err)
}

func TestOBJLoaderRecenters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.obj")
	require.NoError(t, os.WriteFile(path, []byte(quadOBJ), 0o644))

	tpl, err := ForPath(path).Load(context.Background())
	require.NoError(t, err)

	lo, hi := tpl.Bounds()
	assert.InDelta(t, -2.0, lo.X, 1e-12)
	assert.InDelta(t, 2.0, hi.X, 1e-12)
	assert.InDelta(t, 0.0, lo.Y, 1e-12)
	assert.InDelta(t, -0.5, lo.Z, 1e-12)

	_, err = (&OBJLoader{Path: filepath.Join(t.TempDir(), "missing.obj")}).Load(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHeartLoaderMesh(t *testing.T) {
	tpl, err := ForPath("").Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2+(DefaultHeartRings-1)*DefaultHeartSlices, len(tpl.Vertices))
	assert.Equal(t, 2*DefaultHeartSlices*(DefaultHeartRings-1), len(tpl.Triangles))

	lo, hi := tpl.Bounds()
	for _, pair := range [][2]float64{{lo.X, hi.X}, {lo.Y, hi.Y}, {lo.Z, hi.Z}} {
		assert.InDelta(t, 0, pair[0]+pair[1], 1e-9, "bounds centered")
	}

	size := tpl.Size()
	assert.Greater(t, size.X, size.Z, "wider than deep")
	assert.Equal(t, size.X, tpl.MaxDimension())

	for i, n := range tpl.FaceNormals {
		tri := tpl.Triangles[i]
		c := vmath.V3FScale(vmath.V3FAdd(vmath.V3FAdd(tpl.Vertices[tri[0]], tpl.Vertices[tri[1]]), tpl.Vertices[tri[2]]), 1.0/3)
		require.InDelta(t, 1.0, vmath.V3FMag(n), 1e-9, "face %d normal", i)
		require.GreaterOrEqual(t, vmath.V3FDot(n, c), -1e-12, "face %d inward", i)
	}
}

func TestHeartLoaderHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHeartLoader().Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFuturePollThenResolve(t *testing.T) {
	release := make(chan struct{})
	want, err := NewHeartLoader().Load(context.Background())
	require.NoError(t, err)

	f := Start(context.Background(), LoaderFunc(func(ctx context.Context) (*Template, error) {
		<-release
		return want, nil
	}))

	_, err = f.Poll()
	assert.ErrorIs(t, err, ErrPending)

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	got, err := f.Wait(ctx)
	require.NoError(t, err)
	assert.Same(t, want, got)

	got, err = f.Poll()
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestFutureFailures(t *testing.T) {
	boom := errors.New("boom")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := Start(ctx, LoaderFunc(func(context.Context) (*Template, error) {
		return nil, boom
	})).Wait(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = Start(ctx, LoaderFunc(func(context.Context) (*Template, error) {
		return nil, nil
	})).Wait(ctx)
	assert.ErrorIs(t, err, ErrNoVertices)

	_, err = Start(ctx, LoaderFunc(func(context.Context) (*Template, error) {
		panic("corrupt model")
	})).Wait(ctx)
	assert.ErrorContains(t, err, "corrupt model")
}

func TestFutureWaitCancelled(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	f := Start(context.Background(), LoaderFunc(func(context.Context) (*Template, error) {
		<-block
		return nil, nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolvedFuture(t *testing.T) {
	f := Resolved(nil, errors.New("no model"))
	select {
	case <-f.Done():
	default:
		t.Fatal("resolved future not done")
	}
	_, err := f.Poll()
	assert.EqualError(t, err, "no model")
}

func TestBoxTemplate(t *testing.T) {
	tpl, err := BoxTemplate("bounds", vmath.Vec3F{X: -1, Y: -0.5, Z: 0}, vmath.Vec3F{X: 3, Y: 0.5, Z: 1})
	require.NoError(t, err)
	assert.Len(t, tpl.Vertices, 8)
	assert.Len(t, tpl.Triangles, 12)
	assert.InDelta(t, 4, tpl.MaxDimension(), 1e-12)

	// Every face normal points away from the box center
	center := vmath.Vec3F{X: 1, Y: 0, Z: 0.5}
	for i, tri := range tpl.Triangles {
		v := tpl.Vertices[tri[0]]
		out := vmath.V3FSub(v, center)
		assert.Greater(t, vmath.V3FDot(tpl.FaceNormals[i], out), 0.0, "face %d", i)
		assert.InDelta(t, 1, vmath.V3FMag(tpl.FaceNormals[i]), 1e-9)
	}

	_, err = BoxTemplate("empty", vmath.Vec3F{}, vmath.Vec3F{})
	assert.ErrorIs(t, err, ErrNoVertices)
}

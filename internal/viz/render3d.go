package viz

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/solitons/internal/dynamo"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

// Camera manages 3D projection to a 2D plane.
type Camera struct {
	Position         Vec3
	Near             float64
	RotX, RotY, RotZ float64
	Zoom             float64
}

func NewCamera() *Camera {
	return &Camera{Position: Vec3{0, 0, 50}, Near: 0.1, Zoom: 1.0}
}

// RotatePoint rotates a point around the camera's axes.
func (c *Camera) RotatePoint(p Vec3) Vec3 {
	cx, sx := math.Cos(c.RotX), math.Sin(c.RotX)
	p.Y, p.Z = p.Y*cx-p.Z*sx, p.Y*sx+p.Z*cx
	cy, sy := math.Cos(c.RotY), math.Sin(c.RotY)
	p.X, p.Z = p.X*cy+p.Z*sy, -p.X*sy+p.Z*cy
	cz, sz := math.Cos(c.RotZ), math.Sin(c.RotZ)
	p.X, p.Y = p.X*cz-p.Y*sz, p.X*sz+p.Y*cz
	return p
}

// Project converts 3D world coordinates to 2D screen coordinates.
// Returns x, y, depth, and visibility.
func (c *Camera) Project(p Vec3, sw, sh int) (int, int, float64, bool) {
	rot := c.RotatePoint(p).Scale(c.Zoom)
	dist := c.Position.Z
	if rot.Z >= dist-c.Near {
		return 0, 0, 0, false
	}
	scale := dist / (dist - rot.Z)
	minDim := float64(min(sw, sh))
	pScale := minDim / 3.0
	sx := int(rot.X*scale*pScale) + sw/2
	sy := int(-rot.Y*scale*pScale) + sh/2
	return sx, sy, rot.Z, sx >= 0 && sx < sw && sy >= 0 && sy < sh
}

type Edge struct {
	Start, End Vec3
}

type Wireframe struct{ Edges []Edge }

func NewWireframe() *Wireframe          { return &Wireframe{} }
func (w *Wireframe) AddEdge(s, e Vec3) { w.Edges = append(w.Edges, Edge{s, e}) }

type projectedEdge struct {
	x1, y1, x2, y2 int
	depth          float64
}

// Render3D draws the wireframe on the canvas, far edges first.
func Render3D(c *Canvas, w *Wireframe, cam *Camera) {
	if c == nil || w == nil || cam == nil {
		return
	}
	pw, ph := c.PixelSize()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, v1 := cam.Project(e.Start, pw, ph)
		x2, y2, d2, v2 := cam.Project(e.End, pw, ph)
		if v1 || v2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth < proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}

// WaterfallOptions controls the stacked 3-D view. Every selects every
// k-th row; zero picks a stride that keeps about 24 rows.
type WaterfallOptions struct {
	Width, Height int
	Every         int
	Camera        *Camera
}

// Waterfall projects rows of u as curves stacked along the time axis,
// space across and amplitude up. Coordinates are normalized to the unit
// cube before projection.
func Waterfall(u mat.Matrix, opts WaterfallOptions) (string, error) {
	m, n := u.Dims()
	if m == 0 || n < 2 {
		return "", dynamo.Invalidf("waterfall needs at least one row of two points")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return "", dynamo.Invalidf("waterfall size must be positive, got %dx%d", opts.Width, opts.Height)
	}
	every := opts.Every
	if every <= 0 {
		every = max(1, m/24)
	}
	cam := opts.Camera
	if cam == nil {
		cam = NewCamera()
		cam.RotX = -0.6
		cam.RotY = 0.35
		cam.Zoom = 1.1
	}

	lo, hi := mat.Min(u), mat.Max(u)
	if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) {
		return "", dynamo.Invalidf("matrix has non-finite entries")
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}
	depth := max(m-1, 1)

	// rows are drawn nearest first so the floating horizon hides what
	// lies behind them
	type curve struct {
		pts   [][2]int
		depth float64
	}
	c := NewCanvas(opts.Width, opts.Height)
	pw, ph := c.PixelSize()
	var curves []curve
	for i := 0; i < m; i += every {
		z := 1 - 2*float64(i)/float64(depth)
		cv := curve{pts: make([][2]int, n)}
		for j := 0; j < n; j++ {
			p := Vec3{2*float64(j)/float64(n-1) - 1, (u.At(i, j)-lo)/span - 0.5, z}
			x, y, d, _ := cam.Project(p, pw, ph)
			cv.pts[j] = [2]int{x, y}
			cv.depth += d / float64(n)
		}
		curves = append(curves, cv)
	}
	sort.SliceStable(curves, func(a, b int) bool { return curves[a].depth > curves[b].depth })

	c.EnableHorizon()
	for _, cv := range curves {
		for j := 1; j < len(cv.pts); j++ {
			c.DrawLine(cv.pts[j-1][0], cv.pts[j-1][1], cv.pts[j][0], cv.pts[j][1])
		}
		c.CommitHorizon()
	}

	// floor of the (x, t) box, hidden where the surface covers it
	floor := NewWireframe()
	corners := []Vec3{{-1, -0.5, -1}, {1, -0.5, -1}, {1, -0.5, 1}, {-1, -0.5, 1}}
	for k := range corners {
		floor.AddEdge(corners[k], corners[(k+1)%len(corners)])
	}
	Render3D(c, floor, cam)
	return c.String(), nil
}

package director

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/younwookim/stagehand/internal/application/event"
	"github.com/younwookim/stagehand/internal/infrastructure/config"
)

// Projection selects how the view-projection matrix is built.
type Projection int

const (
	// Projection2D is an orthographic projection with the origin at the
	// bottom left.
	Projection2D Projection = iota
	// Projection3D is a 60 degree perspective looking at the window center.
	Projection3D
	// ProjectionCustom keeps the matrix set by SetCustomProjection.
	ProjectionCustom
)

// String returns the config name of p.
func (p Projection) String() string {
	switch p {
	case Projection2D:
		return config.Projection2D
	case Projection3D:
		return config.Projection3D
	case ProjectionCustom:
		return config.ProjectionCustom
	default:
		return "unknown"
	}
}

// ParseProjection maps a config value to a Projection.
func ParseProjection(s string) (Projection, error) {
	switch s {
	case config.Projection2D:
		return Projection2D, nil
	case config.Projection3D:
		return Projection3D, nil
	case config.ProjectionCustom:
		return ProjectionCustom, nil
	default:
		return 0, fmt.Errorf("projection %q: %w", s, config.ErrInvalidProjection)
	}
}

const (
	fovY     = 60.0
	zNear3D  = 10.0
	orthoFar = 1024.0
	// 2 * tan(fovY / 2)
	zEyeDivisor = 1.154700538379252
)

// SetWinSize sets the window size in points and reapplies the projection.
func (d *Director) SetWinSize(width, height int) {
	d.winW = float32(width)
	d.winH = float32(height)
	d.SetProjection(d.projection)
}

// WinSize returns the window size in points.
func (d *Director) WinSize() (width, height float32) {
	return d.winW, d.winH
}

// ZEye returns the camera distance at which one unit maps to one point.
func (d *Director) ZEye() float32 {
	return d.winH / zEyeDivisor
}

// SetProjection rebuilds the projection matrix for p and dispatches
// event.ProjectionChanged. With a zero-size window it logs and does
// nothing. An unknown projection is a fatal assertion.
func (d *Director) SetProjection(p Projection) {
	w, h := d.winW, d.winH
	if w == 0 || h == 0 {
		d.log.Error().Stringer("projection", p).Msg("set projection failed because size is 0")
		return
	}

	switch p {
	case Projection2D:
		d.projMatrix = mgl32.Ortho(0, w, 0, h, -orthoFar, orthoFar)
	case Projection3D:
		zeye := d.ZEye()
		perspective := mgl32.Perspective(mgl32.DegToRad(fovY), w/h, zNear3D, zeye+h/2)
		lookAt := mgl32.LookAtV(
			mgl32.Vec3{w / 2, h / 2, zeye},
			mgl32.Vec3{w / 2, h / 2, 0},
			mgl32.Vec3{0, 1, 0},
		)
		d.projMatrix = perspective.Mul4(lookAt)
	case ProjectionCustom:
		d.projMatrix = d.customProjection
	default:
		d.assertf(false, "unrecognized projection %d", int(p))
	}

	d.projection = p
	d.viewProjs[0] = d.baseViewProjection()
	d.log.Debug().Stringer("projection", p).Float32("width", w).Float32("height", h).Msg("projection set")
	d.bus.Dispatch(event.ProjectionChanged)
}

// SetCustomProjection stores m and switches to ProjectionCustom.
func (d *Director) SetCustomProjection(m mgl32.Mat4) {
	d.customProjection = m
	d.SetProjection(ProjectionCustom)
}

// Projection returns the active projection mode.
func (d *Director) Projection() Projection {
	return d.projection
}

// SetCamera sets the view matrix composed with the projection, so scenes
// render with projection * view. The default camera is the identity.
func (d *Director) SetCamera(view mgl32.Mat4) {
	d.camera = view
	d.viewProjs[0] = d.baseViewProjection()
}

// Camera returns the view matrix.
func (d *Director) Camera() mgl32.Mat4 {
	return d.camera
}

func (d *Director) baseViewProjection() mgl32.Mat4 {
	return d.projMatrix.Mul4(d.camera)
}

// PushViewProjection duplicates the top of the view-projection stack.
func (d *Director) PushViewProjection() {
	d.viewProjs = append(d.viewProjs, d.ViewProjection())
}

// LoadViewProjection replaces the top of the view-projection stack.
func (d *Director) LoadViewProjection(m mgl32.Mat4) {
	d.viewProjs[len(d.viewProjs)-1] = m
}

// PopViewProjection discards the top of the stack. The base entry, the
// projection itself, cannot be popped.
func (d *Director) PopViewProjection() {
	d.assertf(len(d.viewProjs) > 1, "view-projection stack underflow")
	d.viewProjs = d.viewProjs[:len(d.viewProjs)-1]
}

// ViewProjection returns the top of the view-projection stack.
func (d *Director) ViewProjection() mgl32.Mat4 {
	return d.viewProjs[len(d.viewProjs)-1]
}

// ConvertToGL converts a point from UI coordinates (origin top left) to
// world coordinates on the z = 0 plane, through the camera.
func (d *Director) ConvertToGL(ui mgl32.Vec2) mgl32.Vec2 {
	transform := d.baseViewProjection()
	inv := transform.Inv()

	// depth of z = 0 in clip space
	zClip := transform[14] / transform[15]

	clip := mgl32.Vec4{2*ui.X()/d.winW - 1, 1 - 2*ui.Y()/d.winH, zClip, 1}
	gl := inv.Mul4x1(clip)
	return mgl32.Vec2{gl.X() / gl.W(), gl.Y() / gl.W()}
}

// ConvertToUI converts a world point on the z = 0 plane to UI coordinates.
func (d *Director) ConvertToUI(gl mgl32.Vec2) mgl32.Vec2 {
	clip := d.baseViewProjection().Mul4x1(mgl32.Vec4{gl.X(), gl.Y(), 0, 1})
	x := clip.X() / clip.W()
	y := clip.Y() / clip.W()
	return mgl32.Vec2{d.winW * (x*0.5 + 0.5), d.winH * (-y*0.5 + 0.5)}
}

// Package camera maps room coordinates in meters to screen pixels.
package camera

// Camera controls the viewport into the room.
// Supports pan and zoom; the room is bounded, so the center is clamped to it.
type Camera struct {
	// Position is the camera center in room meters
	X, Y float32

	// Zoom level (1.0 = whole room fits the viewport)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// Room dimensions in meters
	RoomW, RoomH float32

	// Pixels per meter at zoom 1.0, recomputed on resize
	fit float32

	// Zoom constraints
	MinZoom, MaxZoom float32
}

// New creates a camera centered on the room with the whole room in view.
func New(viewportW, viewportH, roomW, roomH float32) *Camera {
	c := &Camera{
		X:         roomW / 2,
		Y:         roomH / 2,
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		RoomW:     roomW,
		RoomH:     roomH,
		MinZoom:   0.5,
		MaxZoom:   6.0,
	}
	c.fit = fitScale(viewportW, viewportH, roomW, roomH)
	return c
}

// fitScale is the pixels-per-meter at which the room exactly fits.
func fitScale(viewportW, viewportH, roomW, roomH float32) float32 {
	sx := viewportW / roomW
	sy := viewportH / roomH
	if sy < sx {
		return sy
	}
	return sx
}

// Scale returns the current pixels per meter.
func (c *Camera) Scale() float32 {
	return c.fit * c.Zoom
}

// WorldToScreen converts room coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	s := c.Scale()
	sx = c.ViewportW/2 + (wx-c.X)*s
	sy = c.ViewportH/2 + (wy-c.Y)*s
	return sx, sy
}

// ScreenToWorld converts screen coordinates to room coordinates.
// The result may lie outside the room.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	s := c.Scale()
	wx = c.X + (sx-c.ViewportW/2)/s
	wy = c.Y + (sy-c.ViewportH/2)/s
	return wx, wy
}

// IsVisible returns true if a circle at (wx, wy) with given radius in meters
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	s := c.Scale()
	halfW := c.ViewportW/(2*s) + radius
	halfH := c.ViewportH/(2*s) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and the fit scale.
func (c *Camera) Resize(viewportW, viewportH float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.fit = fitScale(viewportW, viewportH, c.RoomW, c.RoomH)
}

// Pan moves the camera by the given delta in screen pixels.
// The center stays inside the room.
func (c *Camera) Pan(dx, dy float32) {
	s := c.Scale()
	c.X = clamp(c.X+dx/s, 0, c.RoomW)
	c.Y = clamp(c.Y+dy/s, 0, c.RoomH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.X = c.RoomW / 2
	c.Y = c.RoomH / 2
	c.Zoom = 1.0
}

// VisibleWorldBounds returns the room-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	s := c.Scale()
	halfW := c.ViewportW / (2 * s)
	halfH := c.ViewportH / (2 * s)

	minX = c.X - halfW
	maxX = c.X + halfW
	minY = c.Y - halfH
	maxY = c.Y + halfH
	return
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

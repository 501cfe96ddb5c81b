package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/camera"
	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/room"
)

// Sizes in meters
const (
	petRadius    = 0.45
	avatarHalf   = 0.4
	gridSpacing  = 5.0
	pickRadius   = 1.0
	labelMinSize = 14 // px per meter below which labels are hidden
)

var (
	colorFloor     = rl.Color{R: 38, G: 44, B: 40, A: 255}
	colorFloorGrid = rl.Color{R: 52, G: 60, B: 55, A: 255}
	colorWall      = rl.Color{R: 120, G: 110, B: 90, A: 255}
	colorAvatar    = rl.Color{R: 210, G: 210, B: 240, A: 255}
	colorSelected  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	colorFriend    = rl.Color{R: 255, G: 140, B: 200, A: 160}
	colorRange     = rl.Color{R: 120, G: 200, B: 255, A: 110}
)

func toScreen(cam *camera.Camera, p r2.Vec) rl.Vector2 {
	x, y := cam.WorldToScreen(float32(p.X), float32(p.Y))
	return rl.Vector2{X: x, Y: y}
}

// drawFloor renders the room floor, grid and walls.
func drawFloor(cam *camera.Camera, width, height float64) {
	tl := toScreen(cam, r2.Vec{})
	br := toScreen(cam, r2.Vec{X: width, Y: height})
	rl.DrawRectangleV(tl, rl.Vector2{X: br.X - tl.X, Y: br.Y - tl.Y}, colorFloor)

	// Only grid lines inside the view
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	for x := gridSpacing; x < width; x += gridSpacing {
		if x < float64(minX) || x > float64(maxX) {
			continue
		}
		rl.DrawLineV(toScreen(cam, r2.Vec{X: x}), toScreen(cam, r2.Vec{X: x, Y: height}), colorFloorGrid)
	}
	for y := gridSpacing; y < height; y += gridSpacing {
		if y < float64(minY) || y > float64(maxY) {
			continue
		}
		rl.DrawLineV(toScreen(cam, r2.Vec{Y: y}), toScreen(cam, r2.Vec{X: width, Y: y}), colorFloorGrid)
	}

	rl.DrawRectangleLinesEx(rl.Rectangle{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}, 3, colorWall)
}

// drawAvatars renders owners as squares with their last emotion.
func drawAvatars(cam *camera.Camera, avatars []room.Avatar, self components.OwnerID) {
	scale := cam.Scale()
	half := float32(avatarHalf) * scale
	for _, av := range avatars {
		if !cam.IsVisible(float32(av.Position.X), float32(av.Position.Y), avatarHalf) {
			continue
		}
		c := toScreen(cam, av.Position)
		color := colorAvatar
		if av.ID == self {
			color = rl.SkyBlue
		}
		rl.DrawRectangleV(rl.Vector2{X: c.X - half, Y: c.Y - half}, rl.Vector2{X: 2 * half, Y: 2 * half}, color)

		if scale < labelMinSize {
			continue
		}
		label := string(av.ID)
		if av.Emotion != "" {
			label = fmt.Sprintf("%s (%s)", av.ID, av.Emotion)
		}
		drawCenteredText(label, c.X, c.Y+half+2, 10, rl.LightGray)
	}
}

// drawPets renders each pet as a disc with optional name and action labels.
func drawPets(cam *camera.Camera, pets []room.PetState, overlays *OverlayRegistry, selected components.PetID) {
	scale := cam.Scale()
	radius := float32(petRadius) * scale
	bySpecies := overlays.IsEnabled(OverlaySpeciesColors)
	labels := scale >= labelMinSize

	for _, p := range pets {
		if !cam.IsVisible(float32(p.Position.X), float32(p.Position.Y), petRadius) {
			continue
		}
		c := toScreen(cam, p.Position)
		rl.DrawCircleV(c, radius, PetColor(p, bySpecies))
		rl.DrawCircleLinesV(c, radius, rl.Black)
		if p.ID == selected {
			rl.DrawCircleLinesV(c, radius+3, colorSelected)
		}

		if !labels {
			continue
		}
		if overlays.IsEnabled(OverlayNames) {
			name := p.Customization.Name
			if name == "" {
				name = string(p.Species)
			}
			drawCenteredText(fmt.Sprintf("%s L%d", name, p.Level), c.X, c.Y-radius-14, 10, rl.White)
		}
		if overlays.IsEnabled(OverlayActions) {
			drawCenteredText(p.Action.String(), c.X, c.Y+radius+2, 10, rl.Gray)
		}
	}
}

// drawRing outlines a circle of radius meters around p.
func drawRing(cam *camera.Camera, p r2.Vec, meters float64, color rl.Color) {
	rl.DrawCircleLinesV(toScreen(cam, p), float32(meters)*cam.Scale(), color)
}

// drawLink draws a line between two room points with a width in pixels.
func drawLink(cam *camera.Camera, a, b r2.Vec, thick float32, color rl.Color) {
	rl.DrawLineEx(toScreen(cam, a), toScreen(cam, b), thick, color)
}

func drawCenteredText(text string, x, y float32, size int32, color rl.Color) {
	w := rl.MeasureText(text, size)
	rl.DrawText(text, int32(x)-w/2, int32(y), size, color)
}

// petAt returns the pet closest to the room point p within pickRadius.
func petAt(pets []room.PetState, p r2.Vec) (room.PetState, bool) {
	best, bestDist := room.PetState{}, math.Inf(1)
	for _, pet := range pets {
		if d := r2.Norm(r2.Sub(pet.Position, p)); d <= pickRadius && d < bestDist {
			best, bestDist = pet, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

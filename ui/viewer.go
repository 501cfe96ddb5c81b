package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/camera"
	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/game"
	"github.com/pthm-cable/petroom/room"
	"github.com/pthm-cable/petroom/systems"
)

// ViewerOwner is the avatar controlled from the viewer window.
const ViewerOwner components.OwnerID = "viewer"

const controlsLegend = "[Space] pause  [,/.] speed  [Tab] overlays  [RMB] walk  [LMB] select  [Arrows/Wheel] camera  [Home] reset"

var viewerEmotions = []components.Emotion{
	components.EmotionHappy,
	components.EmotionExcited,
	components.EmotionSad,
	components.EmotionAngry,
	components.EmotionLove,
}

// Viewer is the raylib window around a game. It runs on the caller's
// goroutine, which becomes the simulation goroutine.
type Viewer struct {
	game  *game.Game
	title string

	camera    *camera.Camera
	hud       *HUD
	perf      *PerfPanel
	stats     *StatsPanel
	controls  *ControlsPanel
	overlays  *OverlayRegistry
	card      *PetCard
	inspector *Inspector

	width, height int32

	speciesIdx int32
	emotionIdx int32
}

// NewViewer wraps g. The window opens in Run.
func NewViewer(g *game.Game, title string) *Viewer {
	return &Viewer{
		game:     g,
		title:    title,
		hud:      NewHUD(),
		overlays: NewOverlayRegistry(),
		card:     NewPetCard(),
	}
}

// Run opens the window and loops until it is closed, ctx is done or the
// game reaches its tick limit. Must be called from the main goroutine.
func (v *Viewer) Run(ctx context.Context) error {
	scr := v.game.Config().Screen
	v.width, v.height = int32(scr.Width), int32(scr.Height)

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(v.width, v.height, v.title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(scr.TargetFPS))
	rl.SetExitKey(0)

	bounds := v.game.Room().Bounds()
	v.camera = camera.New(float32(v.width), float32(v.height), float32(bounds.Width), float32(bounds.Height))
	if scr.PixelsPerMeter > 0 {
		v.camera.SetZoom(float32(scr.PixelsPerMeter) / v.camera.Scale())
	}
	v.perf = NewPerfPanel(10, 100, systems.NewSystemRegistry())
	v.stats = NewStatsPanel(10, 100)
	v.controls = NewControlsPanel(10, 100, 220)
	v.inspector = NewInspector(v.width, v.height)

	v.game.Avatars().Move(ViewerOwner, r2.Vec{X: bounds.Width / 2, Y: bounds.Height / 2})

	for !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		v.handleInput()
		v.game.Update(time.Duration(float64(rl.GetFrameTime()) * float64(time.Second)))
		v.game.RecordFrame()
		v.draw()

		if v.game.Done() {
			slog.Info("max ticks reached", "tick", v.game.Tick())
			return nil
		}
	}
	return nil
}

func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.game.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyComma) {
		v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() + 1)
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		v.inspector.Deselect()
	}
	v.overlays.HandleKeys()

	v.handleCameraInput()
	v.handleMouse()
}

func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	if w == v.width && h == v.height {
		return
	}
	v.width, v.height = w, h
	v.camera.Resize(float32(w), float32(h))
	v.inspector.Resize(w, h)
}

func (v *Viewer) handleCameraInput() {
	// Pan speed in meters per frame, slower when zoomed in
	pan := float32(0.5) / v.camera.Zoom

	if rl.IsKeyDown(rl.KeyRight) {
		v.camera.Pan(pan, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.camera.Pan(-pan, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.camera.Pan(0, pan)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.camera.Pan(0, -pan)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.camera.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.camera.Reset()
	}
}

func (v *Viewer) handleMouse() {
	mouse := rl.GetMousePosition()
	if v.inspector.Contains(mouse.X, mouse.Y) || v.overToolbar(mouse) {
		return
	}
	wx, wy := v.camera.ScreenToWorld(mouse.X, mouse.Y)
	at := r2.Vec{X: float64(wx), Y: float64(wy)}

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		if pet, ok := petAt(v.game.Room().Snapshot(), at); ok {
			v.inspector.Select(pet.ID)
		} else {
			v.inspector.Deselect()
		}
	}

	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		v.game.Avatars().Move(ViewerOwner, v.game.Room().Bounds().Clamp(at))
		v.game.Room().OwnerMoved(ViewerOwner)
	}
}

func (v *Viewer) draw() {
	r := v.game.Room()
	pets := r.Snapshot()
	avatars := v.game.Avatars().All()
	selected, hasSelected := v.inspector.Selected()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	bounds := r.Bounds()
	drawFloor(v.camera, bounds.Width, bounds.Height)
	v.drawRangeOverlays(pets, selected, hasSelected)
	drawAvatars(v.camera, avatars, ViewerOwner)
	drawPets(v.camera, pets, v.overlays, selected)

	v.hud.Draw(HUDData{
		Title:   v.title,
		Pets:    len(pets),
		Owners:  len(avatars),
		Tick:    v.game.Tick(),
		SimTime: r.Now(),
		Speed:   v.game.StepsPerUpdate(),
		FPS:     rl.GetFPS(),
		Paused:  v.game.Paused(),
		Seed:    v.game.Seed(),
	})

	y := v.controls.Draw(v.overlays) + 10
	if v.overlays.IsEnabled(OverlayWindowStats) {
		if ws, ok := v.game.LastWindow(); ok {
			v.stats.SetPosition(10, y)
			v.stats.Draw(ws)
			y += NewRenderer().PanelHeight(windowStatsPanel, ws) + 10
		}
	}
	if v.overlays.IsEnabled(OverlayPerf) {
		v.perf.SetPosition(10, y)
		v.perf.Draw(v.game.Perf())
	}

	v.drawHoverCard(pets)
	v.drawInspector()
	v.drawToolbar()
	v.hud.DrawControls(v.height, controlsLegend)

	rl.EndDrawing()
}

// drawRangeOverlays draws follow, encounter and friendship overlays beneath
// the pets.
func (v *Viewer) drawRangeOverlays(pets []room.PetState, selected components.PetID, hasSelected bool) {
	r := v.game.Room()
	cfg := r.Config()

	if v.overlays.IsEnabled(OverlayEncounterRadius) {
		for _, p := range pets {
			if p.Action == components.ActionSocializing {
				drawRing(v.camera, p.Position, cfg.Social.EncounterRadius, colorRange)
			}
		}
	}
	if !hasSelected {
		return
	}
	pet, err := r.Pet(selected)
	if err != nil {
		return
	}

	if v.overlays.IsEnabled(OverlayFollowRange) {
		if owner, ok := v.game.Avatars().Get(pet.OwnerID); ok {
			if profile, ok := cfg.Profile(pet.Species); ok {
				drawRing(v.camera, owner.Position, profile.FollowDistance, colorRange)
			}
		}
	}

	if v.overlays.IsEnabled(OverlayFriendships) {
		friends, err := r.Friendships(selected)
		if err != nil {
			return
		}
		for id, f := range friends {
			other, err := r.Pet(id)
			if err != nil {
				continue
			}
			drawLink(v.camera, pet.Position, other.Position, 1+float32(f.Level)/25, colorFriend)
		}
	}
}

func (v *Viewer) drawHoverCard(pets []room.PetState) {
	mouse := rl.GetMousePosition()
	if v.inspector.Contains(mouse.X, mouse.Y) {
		return
	}
	wx, wy := v.camera.ScreenToWorld(mouse.X, mouse.Y)
	if pet, ok := petAt(pets, r2.Vec{X: float64(wx), Y: float64(wy)}); ok {
		v.card.Draw(pet, mouse.X, mouse.Y, v.width, v.height)
	}
}

// drawInspector draws the selected pet's panel and applies the command
// clicked on it.
func (v *Viewer) drawInspector() {
	id, ok := v.inspector.Selected()
	if !ok {
		return
	}
	r := v.game.Room()
	pet, found := r.Inspect(id)
	if !found {
		v.inspector.Deselect()
		return
	}

	var err error
	switch v.inspector.Draw(pet, len(pet.Social.Friendships)) {
	case CommandFeed:
		err = r.FeedPet(id, components.FoodGeneric)
	case CommandTreat:
		err = r.FeedPet(id, components.FoodPremium)
	case CommandPlay:
		err = r.PlayWithPet(id)
	case CommandRemove:
		err = r.RemovePet(id)
		v.inspector.Deselect()
	}
	if err != nil {
		slog.Warn("viewer command failed", "pet", id, "error", err)
	}
}

const (
	toolbarWidth  = 420
	toolbarHeight = 30
)

func (v *Viewer) toolbarBounds() rl.Rectangle {
	return rl.Rectangle{
		X:      float32(v.width - toolbarWidth - 10),
		Y:      float32(v.height - toolbarHeight - 10),
		Width:  toolbarWidth,
		Height: toolbarHeight,
	}
}

func (v *Viewer) overToolbar(p rl.Vector2) bool {
	return rl.CheckCollisionPointRec(p, v.toolbarBounds())
}

// drawToolbar draws the spawn and emotion controls for the viewer avatar.
func (v *Viewer) drawToolbar() {
	b := v.toolbarBounds()
	r := v.game.Room()

	species := make([]string, len(components.AllSpecies))
	for i, s := range components.AllSpecies {
		species[i] = string(s)
	}
	emotions := make([]string, len(viewerEmotions))
	for i, e := range viewerEmotions {
		emotions[i] = string(e)
	}

	v.speciesIdx = gui.ComboBox(rl.Rectangle{X: b.X, Y: b.Y, Width: 100, Height: b.Height}, strings.Join(species, ";"), v.speciesIdx)
	if gui.Button(rl.Rectangle{X: b.X + 105, Y: b.Y, Width: 90, Height: b.Height}, "Spawn") {
		s := components.AllSpecies[v.speciesIdx]
		if _, err := r.SpawnPet(ViewerOwner, string(s), room.SpawnOptions{}); err != nil {
			slog.Warn("viewer spawn failed", "species", s, "error", err)
		}
	}

	v.emotionIdx = gui.ComboBox(rl.Rectangle{X: b.X + 220, Y: b.Y, Width: 100, Height: b.Height}, strings.Join(emotions, ";"), v.emotionIdx)
	if gui.Button(rl.Rectangle{X: b.X + 325, Y: b.Y, Width: 95, Height: b.Height}, "Emote") {
		e := viewerEmotions[v.emotionIdx]
		v.game.Avatars().SetEmotion(ViewerOwner, e)
		r.OwnerEmotionChanged(ViewerOwner, e)
	}
}

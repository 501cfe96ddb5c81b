package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/inspector"
)

// Inspector panel dimensions
const (
	PanelWidth    = 300
	PanelPadding  = 10
	HeaderHeight  = 30
	sectionHeight = 20
	buttonHeight  = 26
)

// Inspector panel colors
var (
	colorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	colorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	colorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	colorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	colorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Command is an owner action requested from the panel.
type Command int

const (
	CommandNone Command = iota
	CommandFeed
	CommandTreat
	CommandPlay
	CommandRemove
)

// Inspector tracks the selected pet and draws its components through
// their inspect struct tags, with buttons for owner commands.
type Inspector struct {
	selected     components.PetID
	hasSelected  bool
	panelX       int32
	panelY       int32
	panelHeight  int32
	screenWidth  int32
	screenHeight int32
}

// NewInspector creates a new inspector instance.
func NewInspector(screenWidth, screenHeight int32) *Inspector {
	ins := &Inspector{}
	ins.Resize(screenWidth, screenHeight)
	return ins
}

// Resize re-anchors the panel to the right edge.
func (ins *Inspector) Resize(screenWidth, screenHeight int32) {
	ins.screenWidth = screenWidth
	ins.screenHeight = screenHeight
	ins.panelX = screenWidth - PanelWidth - 10
	ins.panelY = 10
}

// Select makes id the inspected pet.
func (ins *Inspector) Select(id components.PetID) {
	ins.selected = id
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
	ins.selected = ""
}

// Selected returns the currently selected pet.
func (ins *Inspector) Selected() (components.PetID, bool) {
	return ins.selected, ins.hasSelected
}

// Contains reports whether a screen point falls on the open panel.
func (ins *Inspector) Contains(x, y float32) bool {
	if !ins.hasSelected {
		return false
	}
	return int32(x) >= ins.panelX && int32(x) <= ins.panelX+PanelWidth &&
		int32(y) >= ins.panelY && int32(y) <= ins.panelY+ins.panelHeight
}

// Draw renders the panel for pet and returns the command clicked this
// frame, if any.
func (ins *Inspector) Draw(pet components.Pet, friends int) Command {
	if !ins.hasSelected {
		return CommandNone
	}

	sections := inspector.PetSections(pet)
	ins.panelHeight = ins.calculatePanelHeight(sections)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, ins.panelHeight, colorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(ins.panelX), Y: float32(ins.panelY), Width: PanelWidth, Height: float32(ins.panelHeight)},
		1,
		colorPanelBorder,
	)

	rl.DrawRectangle(ins.panelX, ins.panelY, PanelWidth, HeaderHeight, colorPanelHeader)
	title := pet.Identity.Customization.Name
	if title == "" {
		title = string(pet.Identity.Species)
	}
	rl.DrawText(title, ins.panelX+PanelPadding, ins.panelY+7, 16, colorHeaderText)

	if gui.Button(rl.Rectangle{X: float32(ins.panelX + PanelWidth - 25), Y: float32(ins.panelY + 5), Width: 20, Height: 20}, "X") {
		ins.Deselect()
		return CommandNone
	}

	x := ins.panelX + PanelPadding
	y := ins.panelY + HeaderHeight + PanelPadding

	for _, s := range sections {
		rl.DrawText(s.Title, x, y, 14, colorSectionText)
		y += sectionHeight
		for _, f := range s.Fields {
			y += drawField(x+6, y, f)
		}
	}
	y += drawFieldLabel(x+6, y, "Friends", fmt.Sprint(friends), nil)
	y += PanelPadding / 2

	return ins.drawButtons(x, y)
}

func (ins *Inspector) drawButtons(x, y int32) Command {
	w := float32(PanelWidth-PanelPadding*2-3*6) / 4
	labels := []struct {
		text string
		cmd  Command
	}{
		{"Feed", CommandFeed},
		{"Treat", CommandTreat},
		{"Play", CommandPlay},
		{"Remove", CommandRemove},
	}
	cmd := CommandNone
	for i, l := range labels {
		bounds := rl.Rectangle{X: float32(x) + float32(i)*(w+6), Y: float32(y), Width: w, Height: buttonHeight}
		if gui.Button(bounds, l.text) {
			cmd = l.cmd
		}
	}
	return cmd
}

func (ins *Inspector) calculatePanelHeight(sections []inspector.Section) int32 {
	h := int32(HeaderHeight + PanelPadding)
	for _, s := range sections {
		h += sectionHeight
		for _, f := range s.Fields {
			h += fieldHeight(f)
		}
	}
	h += rowLabel + PanelPadding/2 + buttonHeight + PanelPadding
	return h
}

package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petroom/room"
)

func petState(d any) room.PetState { return d.(room.PetState) }

// petCardPanel is the hover card shown next to the pet under the cursor.
var petCardPanel = PanelDescriptor{
	ID:    "pet_card",
	Width: 200,
	Sections: []SectionDescriptor{
		{
			ID: "identity",
			Fields: []FieldDescriptor{
				{Label: "Name", Widget: WidgetText, TextGetter: func(d any) string {
					p := petState(d)
					if p.Customization.Name == "" {
						return string(p.Species)
					}
					return fmt.Sprintf("%s (%s)", p.Customization.Name, p.Species)
				}},
				{Label: "Owner", Widget: WidgetText, TextGetter: func(d any) string { return string(petState(d).OwnerID) }},
				{Label: "Color", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color { return PetColor(petState(d), true) },
					Visible: func(d any) bool { return petState(d).Customization.Color != "" }},
				{Label: "Level", Widget: WidgetText, TextGetter: func(d any) string {
					p := petState(d)
					return fmt.Sprintf("%d (%d xp)", p.Level, p.Experience)
				}},
				{Label: "Mood", Widget: WidgetText, TextGetter: func(d any) string { return string(petState(d).Mood) }},
				{Label: "Action", Widget: WidgetText, TextGetter: func(d any) string { return petState(d).Action.String() }},
			},
		},
		{
			ID: "needs",
			Fields: []FieldDescriptor{
				{Label: "Health", Widget: WidgetBar, Range: NeedRange(), Getter: func(d any) float32 { return float32(petState(d).Needs.Health) }},
				{Label: "Energy", Widget: WidgetBar, Range: NeedRange(), Getter: func(d any) float32 { return float32(petState(d).Needs.Energy) }},
				{Label: "Hunger", Widget: WidgetBar, Range: NeedRange(), Getter: func(d any) float32 { return float32(petState(d).Needs.Hunger) }},
				{Label: "Happy", Widget: WidgetBar, Range: NeedRange(), Getter: func(d any) float32 { return float32(petState(d).Needs.Happiness) }},
				{Label: "Affection", Widget: WidgetBar, Range: NeedRange(), Getter: func(d any) float32 { return float32(petState(d).Needs.Affection) }},
			},
		},
	},
}

// PetCard renders the hover card for one pet.
type PetCard struct {
	renderer *Renderer
}

// NewPetCard creates a hover card renderer.
func NewPetCard() *PetCard {
	return &PetCard{renderer: NewRenderer()}
}

// Draw renders the card beside the screen point (sx, sy), kept on screen.
func (c *PetCard) Draw(pet room.PetState, sx, sy float32, screenW, screenH int32) {
	height := c.renderer.PanelHeight(petCardPanel, pet)
	x := int32(sx) + 16
	y := int32(sy) - height/2
	if x+petCardPanel.Width > screenW {
		x = int32(sx) - 16 - petCardPanel.Width
	}
	y = min(max(y, 0), screenH-height)
	c.renderer.DrawPanelDescriptor(x, y, petCardPanel, pet)
}

package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petroom/telemetry"
)

// ControlsPanel renders the overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the controls panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry) int32 {
	if !c.visible {
		return c.y
	}

	r := c.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	categories := overlays.Categories()
	items := 0
	for _, cat := range categories {
		items += len(overlays.ByCategory(cat)) + 1
	}
	panelHeight := int32(items)*lineHeight + int32(len(categories))*4 + padding*2 + lineHeight + 4

	r.DrawPanel(c.x, c.y, c.width, panelHeight)

	y := c.y + padding
	rl.DrawText("Overlays", c.x+padding, y, 16, rl.White)
	y += lineHeight + 4

	for _, category := range categories {
		rl.DrawText(categoryLabel(category), c.x+padding, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += lineHeight

		for _, desc := range overlays.ByCategory(category) {
			c.drawToggle(c.x+padding, y, desc, overlays.IsEnabled(desc.ID), c.width-padding*2)
			y += lineHeight
		}
		y += 4
	}

	return c.y + panelHeight
}

func (c *ControlsPanel) drawToggle(x, y int32, desc OverlayDescriptor, enabled bool, width int32) {
	r := c.renderer

	statusColor := rl.Color{R: 80, G: 80, B: 80, A: 255}
	nameColor := r.Theme.LabelColor
	if enabled {
		statusColor = rl.Color{R: 100, G: 200, B: 100, A: 255}
		nameColor = rl.White
	}
	rl.DrawRectangle(x, y+2, 8, 8, statusColor)
	rl.DrawText(desc.Name, x+14, y, r.Theme.FontSize, nameColor)

	if desc.KeyLabel != "" {
		keyText := fmt.Sprintf("[%s]", desc.KeyLabel)
		keyWidth := rl.MeasureText(keyText, r.Theme.FontSize)
		rl.DrawText(keyText, x+width-keyWidth, y, r.Theme.FontSize, rl.Color{R: 150, G: 150, B: 150, A: 255})
	}
}

func categoryLabel(cat string) string {
	switch cat {
	case "pets":
		return "Pets"
	case "social":
		return "Social"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}

// windowStatsPanel lays out the last telemetry window.
var windowStatsPanel = PanelDescriptor{
	ID:    "window_stats",
	Title: "Last Window",
	Width: 240,
	Sections: []SectionDescriptor{
		{
			ID: "population",
			Fields: []FieldDescriptor{
				{Label: "Pets", Widget: WidgetText, TextGetter: func(d any) string {
					s := d.(telemetry.WindowStats)
					return fmt.Sprintf("%d (%d owners)", s.Pets, s.Owners)
				}},
				{Label: "Events", Widget: WidgetText, TextGetter: func(d any) string {
					s := d.(telemetry.WindowStats)
					return fmt.Sprintf("%d fed %d play %d lvl", s.Feeds, s.Plays, s.LevelUps)
				}},
			},
		},
		{
			ID:    "needs",
			Title: "Needs (mean)",
			Fields: []FieldDescriptor{
				{Label: "Health", Widget: WidgetBar, Range: NeedRange(), Getter: func(d any) float32 { return float32(d.(telemetry.WindowStats).HealthMean) }},
				{Label: "Energy", Widget: WidgetBar, Range: NeedRange(), Getter: func(d any) float32 { return float32(d.(telemetry.WindowStats).EnergyMean) }},
				{Label: "Hunger", Widget: WidgetBar, Range: NeedRange(), Getter: func(d any) float32 { return float32(d.(telemetry.WindowStats).HungerMean) }},
				{Label: "Happy", Widget: WidgetBar, Range: NeedRange(), Getter: func(d any) float32 { return float32(d.(telemetry.WindowStats).HappinessMean) }},
			},
		},
		{
			ID:    "mood",
			Title: "Mood",
			Fields: []FieldDescriptor{
				{Label: "Content+", Widget: WidgetBar, Range: FieldRange{Max: 1}, Getter: func(d any) float32 { return float32(d.(telemetry.WindowStats).ContentFraction) }},
				{Label: "Happy+", Widget: WidgetBar, Range: FieldRange{Max: 1}, Getter: func(d any) float32 { return float32(d.(telemetry.WindowStats).HappyFraction) }},
				{Label: "Level", Widget: WidgetText, TextGetter: func(d any) string {
					s := d.(telemetry.WindowStats)
					return fmt.Sprintf("%.1f avg, %d max", s.LevelMean, s.LevelMax)
				}},
			},
		},
	},
}

// StatsPanel renders the most recent telemetry window.
type StatsPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewStatsPanel creates a new stats panel.
func NewStatsPanel(x, y int32) *StatsPanel {
	return &StatsPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (s *StatsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Draw renders the panel for stats.
func (s *StatsPanel) Draw(stats telemetry.WindowStats) {
	s.renderer.DrawPanelDescriptor(s.x, s.y, windowStatsPanel, stats)
}

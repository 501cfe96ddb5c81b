package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petroom/inspector"
)

// Inspector field colors
var (
	colorFieldBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	colorFieldBarFill = rl.Color{R: 100, G: 180, B: 100, A: 255}
	colorFieldBarLow  = rl.Color{R: 180, G: 80, B: 80, A: 255}
	colorFieldText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	colorFieldTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
	colorBoolOn       = rl.Color{R: 100, G: 200, B: 100, A: 255}
	colorBoolOff      = rl.Color{R: 80, G: 80, B: 80, A: 255}
)

// Row heights per widget.
const (
	rowLabel = 18
	rowBar   = 18
	rowBool  = 18
)

func drawFieldLabel(x, y int32, name string, value any, options map[string]string) int32 {
	text := inspector.FormatValue(value, options["fmt"])
	rl.DrawText(fmt.Sprintf("%s: %s", name, text), x, y, 14, colorFieldText)
	return rowLabel
}

func drawFieldBar(x, y int32, name string, value float32, options map[string]string) int32 {
	ratio := value / inspector.GetMax(options)
	ratio = min(max(ratio, 0), 1)

	barWidth := int32(140)
	barHeight := int32(12)

	rl.DrawText(name, x, y, 14, colorFieldTextDim)

	barX := x + 90
	rl.DrawRectangle(barX, y+1, barWidth, barHeight, colorFieldBarBg)

	fillColor := colorFieldBarFill
	if ratio < 0.3 {
		fillColor = colorFieldBarLow
	}
	rl.DrawRectangle(barX, y+1, int32(float32(barWidth)*ratio), barHeight, fillColor)

	rl.DrawText(fmt.Sprintf("%.1f", value), barX+barWidth+5, y, 14, colorFieldTextDim)

	return rowBar
}

func drawFieldBool(x, y int32, name string, value bool) int32 {
	color := colorBoolOff
	if value {
		color = colorBoolOn
	}
	rl.DrawRectangle(x, y+3, 10, 10, color)
	rl.DrawText(name, x+16, y, 14, colorFieldText)
	return rowBool
}

// drawField renders one reflected field and returns its height.
func drawField(x, y int32, f inspector.Field) int32 {
	switch f.Widget {
	case inspector.WidgetBar:
		if v, ok := inspector.GetFloatValue(f.Value); ok {
			return drawFieldBar(x, y, f.Name, v, f.Options)
		}
	case inspector.WidgetBool:
		if v, ok := f.Value.(bool); ok {
			return drawFieldBool(x, y, f.Name, v)
		}
	}
	return drawFieldLabel(x, y, f.Name, f.Value, f.Options)
}

// fieldHeight mirrors drawField without drawing.
func fieldHeight(f inspector.Field) int32 {
	switch f.Widget {
	case inspector.WidgetBar:
		return rowBar
	case inspector.WidgetBool:
		return rowBool
	default:
		return rowLabel
	}
}

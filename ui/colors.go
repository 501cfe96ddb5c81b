package ui

import (
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/room"
)

var speciesColors = map[components.Species]rl.Color{
	components.Cat:     {R: 230, G: 160, B: 80, A: 255},
	components.Dog:     {R: 170, G: 120, B: 80, A: 255},
	components.Bird:    {R: 90, G: 170, B: 230, A: 255},
	components.Rabbit:  {R: 225, G: 225, B: 225, A: 255},
	components.Fox:     {R: 235, G: 110, B: 40, A: 255},
	components.Dragon:  {R: 120, G: 200, B: 90, A: 255},
	components.Hamster: {R: 240, G: 200, B: 140, A: 255},
	components.Unicorn: {R: 230, G: 150, B: 230, A: 255},
}

var moodColors = map[components.Mood]rl.Color{
	components.MoodEcstatic:  {R: 255, G: 215, B: 0, A: 255},
	components.MoodHappy:     {R: 100, G: 220, B: 100, A: 255},
	components.MoodContent:   {R: 150, G: 190, B: 220, A: 255},
	components.MoodSad:       {R: 90, G: 110, B: 200, A: 255},
	components.MoodDepressed: {R: 90, G: 60, B: 130, A: 255},
	components.MoodConcerned: {R: 230, G: 160, B: 60, A: 255},
	components.MoodAlert:     {R: 240, G: 240, B: 90, A: 255},
	components.MoodAnxious:   {R: 220, G: 90, B: 90, A: 255},
	components.MoodLoving:    {R: 255, G: 120, B: 180, A: 255},
}

// SpeciesColor returns the default body color of a species.
func SpeciesColor(s components.Species) rl.Color {
	if c, ok := speciesColors[s]; ok {
		return c
	}
	return rl.Gray
}

// MoodColor returns the ring color shown around a pet in mood m.
func MoodColor(m components.Mood) rl.Color {
	if c, ok := moodColors[m]; ok {
		return c
	}
	return rl.White
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (rl.Color, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return rl.Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rl.Color{}, false
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	return rl.Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, true
}

// PetColor returns a pet's body color: its mood color, or with bySpecies
// its customized color falling back to the species color.
func PetColor(p room.PetState, bySpecies bool) rl.Color {
	if !bySpecies {
		return MoodColor(p.Mood)
	}
	if c, ok := ParseHexColor(p.Customization.Color); ok {
		return c
	}
	return SpeciesColor(p.Species)
}

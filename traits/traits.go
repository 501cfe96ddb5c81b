// Package traits defines species capabilities and personality tags.
package traits

import (
	"fmt"
	"strings"
)

// Trait is a species capability flag.
type Trait uint32

const (
	Flying  Trait = 1 << iota // Can take the flying action
	Magic                     // Can cast magic
	Healing                   // Interactions may heal the owner
)

// Has checks if a trait set contains a trait.
func (t Trait) Has(other Trait) bool {
	return t&other != 0
}

// Add adds a trait to the set.
func (t Trait) Add(other Trait) Trait {
	return t | other
}

// Remove removes a trait from the set.
func (t Trait) Remove(other Trait) Trait {
	return t &^ other
}

var traitByName = map[string]Trait{
	"flying":  Flying,
	"magic":   Magic,
	"healing": Healing,
}

// Parse builds a trait set from config names such as "flying" or "magic".
func Parse(names []string) (Trait, error) {
	var t Trait
	for _, n := range names {
		tr, ok := traitByName[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("unknown trait %q", n)
		}
		t = t.Add(tr)
	}
	return t, nil
}

// TraitNames returns human-readable names for traits.
func TraitNames(t Trait) []string {
	var names []string
	if t.Has(Flying) {
		names = append(names, "Flying")
	}
	if t.Has(Magic) {
		names = append(names, "Magic")
	}
	if t.Has(Healing) {
		names = append(names, "Healing")
	}
	return names
}

// Personality is a species-level tag that scales action weights and durations.
type Personality string

const (
	Playful     Personality = "playful"
	Loyal       Personality = "loyal"
	Independent Personality = "independent"
	Curious     Personality = "curious"
	Energetic   Personality = "energetic"
	Lazy        Personality = "lazy"
	Protective  Personality = "protective"
	Gentle      Personality = "gentle"
)

var knownPersonalities = map[Personality]bool{
	Playful:     true,
	Loyal:       true,
	Independent: true,
	Curious:     true,
	Energetic:   true,
	Lazy:        true,
	Protective:  true,
	Gentle:      true,
}

// Valid reports whether p is one of the known personalities.
func (p Personality) Valid() bool {
	return knownPersonalities[p]
}

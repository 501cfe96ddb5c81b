package telemetry

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/room"
)

func leaver(id string, level, exp int) room.PetState {
	return room.PetState{ID: components.PetID(id), OwnerID: "o", Species: components.Cat, Level: level, Experience: exp}
}

func TestHallOfFameOrdering(t *testing.T) {
	hof := NewHallOfFame(3)

	assert.True(t, hof.Consider(leaver("low", 1, 10), nil, 0))
	assert.True(t, hof.Consider(leaver("high", 4, 0), nil, 0))
	assert.True(t, hof.Consider(leaver("mid", 2, 50), nil, 0))
	assert.True(t, hof.Consider(leaver("mid-more-xp", 2, 80), nil, 0))

	entries := hof.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, components.PetID("high"), entries[0].PetID)
	assert.Equal(t, components.PetID("mid-more-xp"), entries[1].PetID)
	assert.Equal(t, components.PetID("mid"), entries[2].PetID)
}

func TestHallOfFameFullRejectsWeaker(t *testing.T) {
	hof := NewHallOfFame(2)
	hof.Consider(leaver("a", 3, 0), nil, 0)
	hof.Consider(leaver("b", 2, 0), nil, 0)

	assert.False(t, hof.Consider(leaver("c", 1, 0), nil, 0))
	assert.Equal(t, 2, hof.Size())
}

func TestHallOfFameTiesKeepArrivalOrder(t *testing.T) {
	hof := NewHallOfFame(5)
	hof.Consider(leaver("first", 2, 10), nil, 0)
	hof.Consider(leaver("second", 2, 10), nil, 0)

	entries := hof.Entries()
	assert.Equal(t, components.PetID("first"), entries[0].PetID)
	assert.Equal(t, components.PetID("second"), entries[1].PetID)
}

func TestHallOfFameUsesLifetime(t *testing.T) {
	hof := NewHallOfFame(5)
	stats := &LifetimeStats{SpawnTime: 10 * time.Second, Interactions: 4, Feeds: 2}
	hof.Consider(leaver("a", 1, 0), stats, 70*time.Second)

	e := hof.Entries()[0]
	assert.Equal(t, 4, e.Interactions)
	assert.Equal(t, 2, e.Feeds)
	assert.Equal(t, time.Minute, e.Tenure)

	data, err := hof.MarshalJSON()
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "a", decoded[0]["pet_id"])
	assert.Equal(t, 60.0, decoded[0]["tenure_sec"])
}

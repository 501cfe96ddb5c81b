package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/petroom/config"
	"github.com/pthm-cable/petroom/game"
	"github.com/pthm-cable/petroom/room"
	"github.com/pthm-cable/petroom/transport/httpapi"
)

func newServer(t *testing.T) (*httptest.Server, *game.Game) {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Derived.TickInterval = 5 * time.Millisecond

	g, err := game.NewGame(cfg, game.Options{Seed: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = g.Run(ctx)
	}()

	srv := httptest.NewServer(httpapi.NewRouter(g, nil))
	t.Cleanup(func() {
		srv.Close()
		cancel()
		<-done
		g.Unload()
	})
	return srv, g
}

func doReq(t *testing.T, baseURL, method, path string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func spawn(t *testing.T, baseURL, owner, species string) room.PetState {
	t.Helper()
	status, body := doReq(t, baseURL, http.MethodPost, "/owners/"+owner+"/pets", map[string]any{
		"species": species,
		"name":    "Mochi",
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var pet room.PetState
	require.NoError(t, json.Unmarshal(body, &pet))
	return pet
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t)

	status, body := doReq(t, srv.URL, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", string(body))
}

func TestSpawnAndGetPet(t *testing.T) {
	srv, _ := newServer(t)

	pet := spawn(t, srv.URL, "alice", "cat")
	assert.NotEmpty(t, pet.ID)
	assert.Equal(t, "alice", string(pet.OwnerID))
	assert.Equal(t, "cat", string(pet.Species))
	assert.Equal(t, "Mochi", pet.Customization.Name)
	assert.Equal(t, 1, pet.Level)

	status, body := doReq(t, srv.URL, http.MethodGet, "/pets/"+string(pet.ID), nil)
	require.Equal(t, http.StatusOK, status, string(body))

	var got struct {
		ID          string         `json:"id"`
		Friendships map[string]any `json:"friendships"`
	}
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, string(pet.ID), got.ID)
	assert.Empty(t, got.Friendships)
}

func TestSpawnErrors(t *testing.T) {
	srv, g := newServer(t)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"unknown species", map[string]any{"species": "goldfish"}, http.StatusBadRequest},
		{"missing body", nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doReq(t, srv.URL, http.MethodPost, "/owners/bob/pets", tt.body)
			assert.Equal(t, tt.status, status, string(body))
		})
	}

	limit := g.Config().Room.MaxPetsPerOwner
	for i := 0; i < limit; i++ {
		spawn(t, srv.URL, "carol", "dog")
	}
	status, body := doReq(t, srv.URL, http.MethodPost, "/owners/carol/pets", map[string]any{"species": "dog"})
	assert.Equal(t, http.StatusConflict, status, string(body))
}

func TestListPetsFiltersByOwner(t *testing.T) {
	srv, _ := newServer(t)

	spawn(t, srv.URL, "alice", "cat")
	spawn(t, srv.URL, "alice", "bird")
	spawn(t, srv.URL, "bob", "dog")

	status, body := doReq(t, srv.URL, http.MethodGet, "/pets", nil)
	require.Equal(t, http.StatusOK, status)
	var all []room.PetState
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all, 3)

	status, body = doReq(t, srv.URL, http.MethodGet, "/pets?owner=alice", nil)
	require.Equal(t, http.StatusOK, status)
	var mine []room.PetState
	require.NoError(t, json.Unmarshal(body, &mine))
	require.Len(t, mine, 2)
	assert.Equal(t, "cat", string(mine[0].Species))
	assert.Equal(t, "bird", string(mine[1].Species))
}

func TestFeedAndPlay(t *testing.T) {
	srv, _ := newServer(t)
	pet := spawn(t, srv.URL, "alice", "cat")
	path := "/pets/" + string(pet.ID)

	status, body := doReq(t, srv.URL, http.MethodPost, path+"/feed", map[string]any{"tier": "premium"})
	assert.Equal(t, http.StatusOK, status, string(body))

	// No body feeds the generic tier
	status, body = doReq(t, srv.URL, http.MethodPost, path+"/feed", nil)
	assert.Equal(t, http.StatusOK, status, string(body))

	status, body = doReq(t, srv.URL, http.MethodPost, path+"/feed", map[string]any{"tier": "caviar"})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	status, body = doReq(t, srv.URL, http.MethodPost, path+"/play", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var played room.PetState
	require.NoError(t, json.Unmarshal(body, &played))
	assert.Equal(t, "playing", played.Action.String())
}

func TestCustomizeKeepsOmittedFields(t *testing.T) {
	srv, _ := newServer(t)
	pet := spawn(t, srv.URL, "alice", "cat")

	status, body := doReq(t, srv.URL, http.MethodPatch, "/pets/"+string(pet.ID), map[string]any{
		"color":   "#ff8800",
		"options": map[string]string{"hat": "beret"},
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var got room.PetState
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Mochi", got.Customization.Name)
	assert.Equal(t, "#ff8800", got.Customization.Color)
	assert.Equal(t, "beret", got.Customization.Options["hat"])
}

func TestUnknownPetIsNotFound(t *testing.T) {
	srv, _ := newServer(t)

	tests := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/pets/nope", nil},
		{http.MethodDelete, "/pets/nope", nil},
		{http.MethodPost, "/pets/nope/feed", nil},
		{http.MethodPost, "/pets/nope/play", nil},
		{http.MethodPatch, "/pets/nope", map[string]any{"name": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			status, body := doReq(t, srv.URL, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusNotFound, status, string(body))
		})
	}
}

func TestRemovePet(t *testing.T) {
	srv, _ := newServer(t)
	pet := spawn(t, srv.URL, "alice", "cat")

	status, _ := doReq(t, srv.URL, http.MethodDelete, "/pets/"+string(pet.ID), nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = doReq(t, srv.URL, http.MethodGet, "/pets/"+string(pet.ID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestOwnerLifecycle(t *testing.T) {
	srv, g := newServer(t)
	spawn(t, srv.URL, "alice", "cat")
	spawn(t, srv.URL, "alice", "dog")

	status, body := doReq(t, srv.URL, http.MethodPut, "/owners/alice/position", map[string]any{"x": 3, "y": 4})
	require.Equal(t, http.StatusOK, status, string(body))
	var av room.Avatar
	require.NoError(t, json.Unmarshal(body, &av))
	assert.Equal(t, 3.0, av.Position.X)
	assert.Equal(t, 4.0, av.Position.Y)

	// Positions outside the room land on the nearest wall
	status, body = doReq(t, srv.URL, http.MethodPut, "/owners/alice/position", map[string]any{"x": -5, "y": 1e6})
	require.Equal(t, http.StatusOK, status, string(body))
	require.NoError(t, json.Unmarshal(body, &av))
	assert.Equal(t, 0.0, av.Position.X)
	assert.Equal(t, g.Config().Room.Height, av.Position.Y)

	status, body = doReq(t, srv.URL, http.MethodPost, "/owners/alice/emotion", map[string]any{"emotion": "grumpy"})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	status, body = doReq(t, srv.URL, http.MethodPost, "/owners/alice/emotion", map[string]any{"emotion": "happy"})
	require.Equal(t, http.StatusOK, status, string(body))
	got, ok := g.Avatars().Get("alice")
	require.True(t, ok)
	assert.Equal(t, "happy", string(got.Emotion))

	status, body = doReq(t, srv.URL, http.MethodDelete, "/owners/alice", nil)
	require.Equal(t, http.StatusOK, status, string(body))
	var removed struct {
		Removed int `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(body, &removed))
	assert.Equal(t, 2, removed.Removed)
	assert.Equal(t, 0, g.Avatars().Len())

	status, body = doReq(t, srv.URL, http.MethodGet, "/pets?owner=alice", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(body))
}

package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/config"
	"github.com/pthm-cable/petroom/game"
	"github.com/pthm-cable/petroom/room"
)

func newTestServer(t *testing.T) (*Server, *game.Game, string) {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Derived.TickInterval = 5 * time.Millisecond
	cfg.Server.SnapshotEvery = 1

	g, err := game.NewGame(cfg, game.Options{Seed: 1})
	require.NoError(t, err)
	s := NewServer(g, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = g.Run(ctx)
	}()

	srv := httptest.NewServer(s)
	t.Cleanup(func() {
		srv.Close()
		s.Close()
		cancel()
		<-done
		g.Unload()
	})
	return s, g, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func hello(t *testing.T, conn *websocket.Conn) WelcomeMsg {
	t.Helper()
	require.NoError(t, conn.WriteJSON(HelloMsg{Type: TypeHello, Name: "tester"}))

	var welcome WelcomeMsg
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&welcome))
	require.Equal(t, TypeWelcome, welcome.Type)
	return welcome
}

// readUntil reads frames until one of type typ satisfies match.
func readUntil(t *testing.T, conn *websocket.Conn, typ string, match func([]byte) bool) []byte {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", typ)
		base, err := decodeBase(msg)
		require.NoError(t, err)
		if base.Type == typ && (match == nil || match(msg)) {
			return msg
		}
	}
}

func TestHelloAssignsOwner(t *testing.T) {
	s, g, url := newTestServer(t)
	conn := dial(t, url)

	welcome := hello(t, conn)
	assert.NotEmpty(t, welcome.OwnerID)
	assert.Equal(t, g.Config().Room.Width, welcome.Room.Width)
	assert.Contains(t, welcome.Species, "cat")

	av, ok := g.Avatars().Get(welcome.OwnerID)
	require.True(t, ok)
	assert.Equal(t, welcome.Room.Width/2, av.Position.X)
	require.Eventually(t, func() bool { return s.Clients() == 1 }, time.Second, 5*time.Millisecond)
}

func TestHandshakeRequiresHello(t *testing.T) {
	_, _, url := newTestServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(CommandMsg{Type: TypeMove}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation), err.Error())
}

func TestSpawnAckEventAndState(t *testing.T) {
	_, _, url := newTestServer(t)
	conn := dial(t, url)
	welcome := hello(t, conn)

	name := "Pip"
	require.NoError(t, conn.WriteJSON(CommandMsg{Type: TypeSpawn, Ref: "1", Species: "bird", Name: &name}))

	// The creation event is queued before the reply
	var created EventMsg
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeEvent, func(b []byte) bool {
		var ev EventMsg
		return json.Unmarshal(b, &ev) == nil && ev.Event.Type == room.EventPetCreated
	}), &created))
	assert.Equal(t, welcome.OwnerID, created.Event.OwnerID)

	var ack AckMsg
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeAck, nil), &ack))
	assert.Equal(t, "1", ack.Ref)
	assert.Equal(t, TypeSpawn, ack.Command)
	assert.Equal(t, created.Event.PetID, ack.PetID)

	var state StateMsg
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeState, func(b []byte) bool {
		var st StateMsg
		return json.Unmarshal(b, &st) == nil && len(st.Pets) == 1
	}), &state))
	assert.Equal(t, ack.PetID, state.Pets[0].ID)
	assert.Equal(t, welcome.OwnerID, state.Pets[0].OwnerID)
	assert.Equal(t, "Pip", state.Pets[0].Customization.Name)
	assert.Len(t, state.Avatars, 1)
}

func TestCommandErrors(t *testing.T) {
	_, g, url := newTestServer(t)
	conn := dial(t, url)
	hello(t, conn)

	var foreign components.PetID
	require.NoError(t, g.Submit(context.Background(), func(reg *room.Registry) error {
		var err error
		foreign, err = reg.SpawnPet("someone-else", "dog", room.SpawnOptions{})
		return err
	}))

	color := "#00ff00"
	tests := []struct {
		name string
		cmd  CommandMsg
		code string
	}{
		{"unknown species", CommandMsg{Type: TypeSpawn, Species: "goldfish"}, ErrInvalidSpecies},
		{"unknown pet", CommandMsg{Type: TypePlay, PetID: "nope"}, ErrNotFound},
		{"unknown tier", CommandMsg{Type: TypeFeed, PetID: foreign, Tier: "caviar"}, ErrInvalidTier},
		{"bad emotion", CommandMsg{Type: TypeEmotion, Emotion: "grumpy"}, ErrBadRequest},
		{"unknown type", CommandMsg{Type: "DANCE"}, ErrBadRequest},
		{"customize foreign", CommandMsg{Type: TypeCustomize, PetID: foreign, Color: &color}, ErrNotOwner},
		{"remove foreign", CommandMsg{Type: TypeRemove, PetID: foreign}, ErrNotOwner},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cmd.Ref = tt.name
			require.NoError(t, conn.WriteJSON(tt.cmd))

			var msg ErrorMsg
			require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeError, func(b []byte) bool {
				var e ErrorMsg
				return json.Unmarshal(b, &e) == nil && e.Ref == tt.name
			}), &msg), "case %d", i)
			assert.Equal(t, tt.code, msg.Code)
		})
	}
}

func TestFeedingAnotherOwnersPetIsAllowed(t *testing.T) {
	_, g, url := newTestServer(t)
	conn := dial(t, url)
	hello(t, conn)

	var id components.PetID
	require.NoError(t, g.Submit(context.Background(), func(reg *room.Registry) error {
		var err error
		id, err = reg.SpawnPet("neighbor", "cat", room.SpawnOptions{})
		return err
	}))

	require.NoError(t, conn.WriteJSON(CommandMsg{Type: TypeFeed, Ref: "f", PetID: id}))
	var ack AckMsg
	require.NoError(t, json.Unmarshal(readUntil(t, conn, TypeAck, nil), &ack))
	assert.Equal(t, "f", ack.Ref)
}

func TestDisconnectRemovesOwner(t *testing.T) {
	s, g, url := newTestServer(t)
	conn := dial(t, url)
	welcome := hello(t, conn)

	for i := 0; i < 2; i++ {
		require.NoError(t, conn.WriteJSON(CommandMsg{Type: TypeSpawn, Species: "cat"}))
		readUntil(t, conn, TypeAck, nil)
	}
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return s.Clients() == 0 && g.Avatars().Len() == 0
	}, 2*time.Second, 10*time.Millisecond)

	var left []components.PetID
	require.NoError(t, g.Submit(context.Background(), func(reg *room.Registry) error {
		left = reg.PetsOf(welcome.OwnerID)
		return nil
	}))
	assert.Empty(t, left)
}

func TestSendLatestDropsOldest(t *testing.T) {
	ch := make(chan []byte, 2)
	sendLatest(ch, []byte("a"))
	sendLatest(ch, []byte("b"))
	sendLatest(ch, []byte("c"))

	require.Len(t, ch, 2)
	assert.Equal(t, "b", string(<-ch))
	assert.Equal(t, "c", string(<-ch))
}

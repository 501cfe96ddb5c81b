// Package ws is the realtime gateway: each WebSocket client becomes an
// owner avatar that can command its pets and receives room state and
// events as they happen.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/game"
	"github.com/pthm-cable/petroom/room"
)

const (
	handshakeTimeout = 5 * time.Second
	writeTimeout     = 5 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = pongWait * 9 / 10
	leaveTimeout     = 2 * time.Second
	defaultMaxQueue  = 8
)

var errNotOwner = errors.New("pet belongs to another owner")

// Server upgrades HTTP requests to sessions.
type Server struct {
	game     *game.Game
	log      *slog.Logger
	upgrader websocket.Upgrader

	snapshotEvery int64
	maxQueue      int

	mu      sync.RWMutex
	clients map[components.OwnerID]chan []byte

	unsubscribe func()
}

// NewServer creates the gateway for g. It registers a tick observer, so it
// must be called before the game loop starts.
func NewServer(g *game.Game, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := g.Config().Server
	s := &Server{
		game: g,
		log:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
		snapshotEvery: int64(cfg.SnapshotEvery),
		maxQueue:      cfg.MaxQueue,
		clients:       make(map[components.OwnerID]chan []byte),
	}
	if s.maxQueue <= 0 {
		s.maxQueue = defaultMaxQueue
	}

	s.unsubscribe = g.Room().Bus().Subscribe(s.onEvent)
	g.AddTickObserver(s.onTick)
	return s
}

// Close stops forwarding room events.
func (s *Server) Close() {
	s.unsubscribe()
}

// Clients returns the number of connected sessions.
func (s *Server) Clients() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// onTick runs on the simulation goroutine.
func (s *Server) onTick(res room.TickResult) {
	if s.snapshotEvery <= 0 || res.Tick%s.snapshotEvery != 0 || s.Clients() == 0 {
		return
	}
	s.broadcast(StateMsg{
		Type:    TypeState,
		Tick:    res.Tick,
		TimeSec: res.Now.Seconds(),
		Pets:    s.game.Room().Snapshot(),
		Avatars: s.game.Avatars().All(),
	})
}

// onEvent runs on the simulation goroutine.
func (s *Server) onEvent(ev room.Event) {
	if !ev.Type.Public() || s.Clients() == 0 {
		return
	}
	s.broadcast(EventMsg{Type: TypeEvent, Event: ev})
}

func (s *Server) broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error("ws: encode broadcast", "error", err)
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, out := range s.clients {
		sendLatest(out, b)
	}
}

func (s *Server) send(out chan []byte, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Error("ws: encode reply", "error", err)
		return
	}
	sendLatest(out, b)
}

// ServeHTTP runs one session until the client disconnects.
func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	owner, out := s.handshake(r.Context(), conn)
	if owner == "" {
		return
	}
	defer s.leave(owner)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go s.writeLoop(ctx, cancel, conn, out)

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		s.send(out, s.dispatch(ctx, owner, msg))
	}
}

func (s *Server) writeLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, out chan []byte) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case b := <-out:
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
				cancel()
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				cancel()
				return
			}
		}
	}
}

func (s *Server) handshake(ctx context.Context, conn *websocket.Conn) (components.OwnerID, chan []byte) {
	_ = conn.SetReadDeadline(time.Now().Add(handshakeTimeout))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", nil
	}

	base, err := decodeBase(msg)
	if err != nil || base.Type != TypeHello {
		closeWith(conn, websocket.ClosePolicyViolation, "expected HELLO")
		return "", nil
	}
	var hello HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		closeWith(conn, websocket.ClosePolicyViolation, "bad HELLO")
		return "", nil
	}

	owner := components.OwnerID(uuid.NewString())
	welcome := WelcomeMsg{Type: TypeWelcome, OwnerID: owner}
	for _, sc := range s.game.Config().Species {
		welcome.Species = append(welcome.Species, sc.Name)
	}

	err = s.game.Submit(ctx, func(reg *room.Registry) error {
		bounds := reg.Bounds()
		pos := r2.Vec{X: bounds.Width / 2, Y: bounds.Height / 2}
		if hello.Position != nil {
			pos = bounds.Clamp(r2.Vec{X: hello.Position.X, Y: hello.Position.Y})
		}
		s.game.Avatars().Move(owner, pos)
		welcome.Tick = reg.TickCount()
		welcome.Room = RoomInfo{Width: bounds.Width, Height: bounds.Height}
		return nil
	})
	if err != nil {
		closeWith(conn, websocket.CloseTryAgainLater, "room unavailable")
		return "", nil
	}

	if err := writeJSON(conn, welcome); err != nil {
		s.game.Avatars().Remove(owner)
		return "", nil
	}

	out := make(chan []byte, s.maxQueue)
	s.mu.Lock()
	s.clients[owner] = out
	s.mu.Unlock()

	s.log.Info("ws: owner joined", "owner", owner, "name", hello.Name)
	return owner, out
}

// leave drops the session and cascades the owner's removal.
func (s *Server) leave(owner components.OwnerID) {
	s.mu.Lock()
	delete(s.clients, owner)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), leaveTimeout)
	defer cancel()

	removed := 0
	err := s.game.Submit(ctx, func(reg *room.Registry) error {
		removed = reg.OwnerRemoved(owner)
		s.game.Avatars().Remove(owner)
		return nil
	})
	if err != nil {
		// The loop is gone; the avatar table is still safe to touch.
		s.game.Avatars().Remove(owner)
		s.log.Warn("ws: owner cleanup skipped", "owner", owner, "error", err)
		return
	}
	s.log.Info("ws: owner left", "owner", owner, "pets_removed", removed)
}

// dispatch runs one command and returns the reply frame.
func (s *Server) dispatch(ctx context.Context, owner components.OwnerID, msg []byte) any {
	var cmd CommandMsg
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return ErrorMsg{Type: TypeError, Code: ErrBadRequest, Message: "invalid json"}
	}
	ack := AckMsg{Type: TypeAck, Ref: cmd.Ref, Command: cmd.Type, PetID: cmd.PetID}

	var err error
	switch cmd.Type {
	case TypeMove:
		err = s.game.Submit(ctx, func(reg *room.Registry) error {
			s.game.Avatars().Move(owner, reg.Bounds().Clamp(r2.Vec{X: cmd.X, Y: cmd.Y}))
			reg.OwnerMoved(owner)
			return nil
		})

	case TypeEmotion:
		emotion, ok := components.ParseEmotion(cmd.Emotion)
		if !ok {
			return cmdError(cmd, ErrBadRequest, fmt.Sprintf("unknown emotion %q", cmd.Emotion))
		}
		err = s.game.Submit(ctx, func(reg *room.Registry) error {
			s.game.Avatars().SetEmotion(owner, emotion)
			ack.Count = reg.OwnerEmotionChanged(owner, emotion)
			return nil
		})

	case TypeSpawn:
		opts := room.SpawnOptions{Options: cmd.Options}
		if cmd.Name != nil {
			opts.Name = *cmd.Name
		}
		if cmd.Color != nil {
			opts.Color = *cmd.Color
		}
		err = s.game.Submit(ctx, func(reg *room.Registry) error {
			id, err := reg.SpawnPet(owner, cmd.Species, opts)
			ack.PetID = id
			return err
		})

	case TypeFeed:
		tier := components.FoodTier(cmd.Tier)
		if tier == "" {
			tier = components.FoodGeneric
		}
		err = s.game.Submit(ctx, func(reg *room.Registry) error {
			return reg.FeedPet(cmd.PetID, tier)
		})

	case TypePlay:
		err = s.game.Submit(ctx, func(reg *room.Registry) error {
			return reg.PlayWithPet(cmd.PetID)
		})

	case TypeCustomize:
		err = s.game.Submit(ctx, func(reg *room.Registry) error {
			current, err := ownedPet(reg, owner, cmd.PetID)
			if err != nil {
				return err
			}
			c := current.Customization
			if cmd.Name != nil {
				c.Name = *cmd.Name
			}
			if cmd.Color != nil {
				c.Color = *cmd.Color
			}
			if cmd.Options != nil {
				c.Options = cmd.Options
			}
			return reg.CustomizePet(cmd.PetID, c)
		})

	case TypeRemove:
		err = s.game.Submit(ctx, func(reg *room.Registry) error {
			if _, err := ownedPet(reg, owner, cmd.PetID); err != nil {
				return err
			}
			return reg.RemovePet(cmd.PetID)
		})

	default:
		return cmdError(cmd, ErrBadRequest, fmt.Sprintf("unknown message type %q", cmd.Type))
	}

	if err != nil {
		return cmdError(cmd, errorCode(err), err.Error())
	}
	return ack
}

// ownedPet returns the pet if owner owns it.
func ownedPet(reg *room.Registry, owner components.OwnerID, id components.PetID) (room.PetState, error) {
	pet, err := reg.Pet(id)
	if err != nil {
		return room.PetState{}, err
	}
	if pet.OwnerID != owner {
		return room.PetState{}, errNotOwner
	}
	return pet, nil
}

func cmdError(cmd CommandMsg, code, message string) ErrorMsg {
	return ErrorMsg{Type: TypeError, Ref: cmd.Ref, Command: cmd.Type, Code: code, Message: message}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, room.ErrPetNotFound):
		return ErrNotFound
	case errors.Is(err, room.ErrInvalidSpecies):
		return ErrInvalidSpecies
	case errors.Is(err, room.ErrInvalidFoodTier):
		return ErrInvalidTier
	case errors.Is(err, room.ErrPetLimit):
		return ErrPetLimit
	case errors.Is(err, errNotOwner):
		return ErrNotOwner
	default:
		return ErrInternal
	}
}

func closeWith(conn *websocket.Conn, code int, text string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, text), time.Now().Add(time.Second))
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}

// sendLatest queues b, dropping the oldest queued frame when full.
func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}

package httpapi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/game"
	"github.com/pthm-cable/petroom/room"
)

type emotionRequest struct {
	Emotion string `json:"emotion"`
}

type emotionResponse struct {
	OwnerID components.OwnerID `json:"owner_id"`
	Emotion components.Emotion `json:"emotion"`
	Reacted int                `json:"reacted"`
}

type positionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type removeOwnerResponse struct {
	OwnerID components.OwnerID `json:"owner_id"`
	Removed int                `json:"removed"`
}

// RegisterOwnerRoutes mounts the avatar endpoints on r.
func RegisterOwnerRoutes(r chi.Router, g *game.Game) {
	r.Get("/owners", listOwnersHandler(g))
	r.Route("/owners/{owner}", func(r chi.Router) {
		r.Post("/pets", spawnPetHandler(g))
		r.Post("/emotion", ownerEmotionHandler(g))
		r.Put("/position", ownerPositionHandler(g))
		r.Delete("/", removeOwnerHandler(g))
	})
}

func ownerID(r *http.Request) components.OwnerID {
	return components.OwnerID(chi.URLParam(r, "owner"))
}

func listOwnersHandler(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, g.Avatars().All())
	}
}

func ownerEmotionHandler(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := ownerID(r)

		var in emotionRequest
		if err := decodeBody(r, &in, true); err != nil {
			writeError(w, r, err)
			return
		}
		emotion, ok := components.ParseEmotion(in.Emotion)
		if !ok {
			writeError(w, r, fmt.Errorf("%w: unknown emotion %q", errBadRequest, in.Emotion))
			return
		}

		out := emotionResponse{OwnerID: owner, Emotion: emotion}
		err := g.Submit(r.Context(), func(reg *room.Registry) error {
			g.Avatars().SetEmotion(owner, emotion)
			out.Reacted = reg.OwnerEmotionChanged(owner, emotion)
			return nil
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func ownerPositionHandler(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := ownerID(r)

		var in positionRequest
		if err := decodeBody(r, &in, true); err != nil {
			writeError(w, r, err)
			return
		}

		var out room.Avatar
		err := g.Submit(r.Context(), func(reg *room.Registry) error {
			g.Avatars().Move(owner, reg.Bounds().Clamp(r2.Vec{X: in.X, Y: in.Y}))
			reg.OwnerMoved(owner)
			out, _ = g.Avatars().Get(owner)
			return nil
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func removeOwnerHandler(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := ownerID(r)

		out := removeOwnerResponse{OwnerID: owner}
		err := g.Submit(r.Context(), func(reg *room.Registry) error {
			out.Removed = reg.OwnerRemoved(owner)
			g.Avatars().Remove(owner)
			return nil
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

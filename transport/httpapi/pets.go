package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/game"
	"github.com/pthm-cable/petroom/room"
)

type spawnRequest struct {
	Species string            `json:"species"`
	Name    string            `json:"name"`
	Color   string            `json:"color"`
	Options map[string]string `json:"options"`
}

type feedRequest struct {
	Tier string `json:"tier"`
}

// customizeRequest patches a pet's customization. Omitted fields are kept.
type customizeRequest struct {
	Name    *string           `json:"name"`
	Color   *string           `json:"color"`
	Options map[string]string `json:"options"`
}

type petDetail struct {
	room.PetState
	Friendships map[components.PetID]components.Friendship `json:"friendships"`
}

// RegisterPetRoutes mounts the pet endpoints on r.
func RegisterPetRoutes(r chi.Router, g *game.Game) {
	r.Route("/pets", func(r chi.Router) {
		r.Get("/", listPetsHandler(g))
		r.Route("/{petID}", func(r chi.Router) {
			r.Get("/", getPetHandler(g))
			r.Patch("/", customizePetHandler(g))
			r.Delete("/", removePetHandler(g))
			r.Post("/feed", feedPetHandler(g))
			r.Post("/play", playPetHandler(g))
		})
	})
}

func petID(r *http.Request) components.PetID {
	return components.PetID(chi.URLParam(r, "petID"))
}

func listPetsHandler(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := components.OwnerID(r.URL.Query().Get("owner"))

		var pets []room.PetState
		err := g.Submit(r.Context(), func(reg *room.Registry) error {
			pets = reg.Snapshot()
			return nil
		})
		if err != nil {
			writeError(w, r, err)
			return
		}

		out := make([]room.PetState, 0, len(pets))
		for _, p := range pets {
			if owner == "" || p.OwnerID == owner {
				out = append(out, p)
			}
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := petID(r)

		var out petDetail
		err := g.Submit(r.Context(), func(reg *room.Registry) error {
			state, err := reg.Pet(id)
			if err != nil {
				return err
			}
			friends, err := reg.Friendships(id)
			if err != nil {
				return err
			}
			out = petDetail{PetState: state, Friendships: friends}
			return nil
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func spawnPetHandler(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := components.OwnerID(chi.URLParam(r, "owner"))

		var in spawnRequest
		if err := decodeBody(r, &in, true); err != nil {
			writeError(w, r, err)
			return
		}

		var out room.PetState
		err := g.Submit(r.Context(), func(reg *room.Registry) error {
			id, err := reg.SpawnPet(owner, in.Species, room.SpawnOptions{
				Name:    in.Name,
				Color:   in.Color,
				Options: in.Options,
			})
			if err != nil {
				return err
			}
			out, err = reg.Pet(id)
			return err
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, out)
	}
}

func removePetHandler(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := petID(r)
		err := g.Submit(r.Context(), func(reg *room.Registry) error {
			return reg.RemovePet(id)
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func feedPetHandler(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := petID(r)

		in := feedRequest{Tier: string(components.FoodGeneric)}
		if err := decodeBody(r, &in, false); err != nil {
			writeError(w, r, err)
			return
		}

		var out room.PetState
		err := g.Submit(r.Context(), func(reg *room.Registry) error {
			if err := reg.FeedPet(id, components.FoodTier(in.Tier)); err != nil {
				return err
			}
			var err error
			out, err = reg.Pet(id)
			return err
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func playPetHandler(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := petID(r)

		var out room.PetState
		err := g.Submit(r.Context(), func(reg *room.Registry) error {
			if err := reg.PlayWithPet(id); err != nil {
				return err
			}
			var err error
			out, err = reg.Pet(id)
			return err
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func customizePetHandler(g *game.Game) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := petID(r)

		var in customizeRequest
		if err := decodeBody(r, &in, true); err != nil {
			writeError(w, r, err)
			return
		}

		var out room.PetState
		err := g.Submit(r.Context(), func(reg *room.Registry) error {
			current, err := reg.Pet(id)
			if err != nil {
				return err
			}
			c := current.Customization
			if in.Name != nil {
				c.Name = *in.Name
			}
			if in.Color != nil {
				c.Color = *in.Color
			}
			if in.Options != nil {
				c.Options = in.Options
			}
			if err := reg.CustomizePet(id, c); err != nil {
				return err
			}
			out, err = reg.Pet(id)
			return err
		})
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

package room

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/petroom/components"
	"github.com/pthm-cable/petroom/systems"
)

// FeedPet restores hunger by the tier amount plus a happiness bonus.
func (r *Registry) FeedPet(id components.PetID, tier components.FoodTier) error {
	amount, ok := r.cfg.Food.Tiers[string(tier)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFoodTier, tier)
	}
	pet, ok := r.lookup(id)
	if !ok {
		return &PetNotFoundError{ID: id}
	}

	n := pet.Needs
	n.Hunger += amount
	n.Happiness += r.cfg.Food.HappinessBonus
	n.Clamp()

	r.publish(Event{Type: EventPetFed, PetID: id, OwnerID: pet.Identity.OwnerID, Detail: string(tier)})
	return nil
}

// PlayWithPet boosts happiness and affection at an energy cost and forces
// the playing action.
func (r *Registry) PlayWithPet(id components.PetID) error {
	pet, ok := r.lookup(id)
	if !ok {
		return &PetNotFoundError{ID: id}
	}

	play := r.cfg.Play
	n := pet.Needs
	n.Happiness += play.Happiness
	n.Energy += play.Energy
	n.Affection += play.Affection
	n.Clamp()

	now := r.clock.Now()
	systems.StartAction(pet, components.ActionPlaying, now, r.scheduler.Duration(components.ActionPlaying, r.profile(pet)))

	r.publish(Event{Type: EventPetInteracted, PetID: id, OwnerID: pet.Identity.OwnerID, Detail: DetailPlay})
	return nil
}

// CustomizePet replaces the pet's visual settings.
func (r *Registry) CustomizePet(id components.PetID, c components.Customization) error {
	pet, ok := r.lookup(id)
	if !ok {
		return &PetNotFoundError{ID: id}
	}
	pet.Identity.Customization = c.Clone()

	state := r.stateOf(pet)
	r.publish(Event{Type: EventPetCustomized, PetID: id, OwnerID: pet.Identity.OwnerID, Pet: &state})
	return nil
}

// OwnerMoved pulls the next decision forward for the owner's pets that are
// now out of follow range, so following becomes eligible on the next tick.
// Unknown owners are ignored.
func (r *Registry) OwnerMoved(owner components.OwnerID) {
	pos, ok := r.owners.PositionOf(owner)
	if !ok {
		return
	}
	now := r.clock.Now()

	query := r.filter.Query()
	for query.Next() {
		ident, _, beh, _, _, mot := query.Get()
		if ident.Removed || ident.OwnerID != owner {
			continue
		}
		if beh.Action == components.ActionFollowing || beh.NextDecision <= now {
			continue
		}
		profile, _ := r.cfg.Profile(ident.Species)
		if r2.Norm(r2.Sub(mot.Position, pos)) > profile.FollowDistance {
			beh.NextDecision = now
		}
	}
}

// OwnerRemoved removes every pet of the owner. The cascade is synchronous.
func (r *Registry) OwnerRemoved(owner components.OwnerID) int {
	ids := r.PetsOf(owner)
	for _, id := range ids {
		// Only live ids are listed, so this cannot miss.
		_ = r.RemovePet(id)
	}
	if len(ids) > 0 {
		slog.Info("owner removed", "owner", owner, "pets", len(ids))
	}
	return len(ids)
}

// OwnerEmotionChanged applies the emotion reaction to each of the owner's
// pets and returns how many reacted.
func (r *Registry) OwnerEmotionChanged(owner components.OwnerID, emotion components.Emotion) int {
	now := r.clock.Now()
	var reacted []Event

	query := r.filter.Query()
	for query.Next() {
		pet := r.pet(query.Entity())
		if pet.Identity.Removed || pet.Identity.OwnerID != owner {
			continue
		}
		if _, ok := r.interaction.ReactToOwnerEmotion(pet, r.profile(pet), emotion, now); ok {
			reacted = append(reacted, Event{Type: EventPetReacted, PetID: pet.Identity.ID, OwnerID: owner, Detail: string(emotion)})
		}
	}

	for _, ev := range reacted {
		r.publish(ev)
	}
	return len(reacted)
}

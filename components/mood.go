package components

// Mood is a coarse label derived from the needs vector, or a transient
// reaction to an owner emotion.
type Mood string

const (
	MoodEcstatic  Mood = "ecstatic"
	MoodHappy     Mood = "happy"
	MoodContent   Mood = "content"
	MoodSad       Mood = "sad"
	MoodDepressed Mood = "depressed"

	// Transient moods set by owner emotion reactions
	MoodConcerned Mood = "concerned"
	MoodAlert     Mood = "alert"
	MoodAnxious   Mood = "anxious"
	MoodLoving    Mood = "loving"
)

// AllMoods lists every mood in display order.
var AllMoods = []Mood{
	MoodEcstatic, MoodHappy, MoodContent, MoodSad, MoodDepressed,
	MoodConcerned, MoodAlert, MoodAnxious, MoodLoving,
}

// IsTransient reports whether the mood only comes from an emotion reaction.
func (m Mood) IsTransient() bool {
	switch m {
	case MoodConcerned, MoodAlert, MoodAnxious, MoodLoving:
		return true
	}
	return false
}

// AtLeastContent reports whether the mood is content or better.
func (m Mood) AtLeastContent() bool {
	switch m {
	case MoodEcstatic, MoodHappy, MoodContent, MoodLoving:
		return true
	}
	return false
}

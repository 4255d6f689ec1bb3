package tutor

import "github.com/abhisek/egotutor/internal/profile"

// Persona is the gender-keyed tutor identity: display name, character
// framing for the system prompt, and the prebuilt speech voice.
type Persona struct {
	Name        string
	Personality string
	Voice       string
}

var (
	mrEgo = Persona{
		Name:        "Mr. Ego (the Dog)",
		Personality: "a friendly, energetic, and encouraging golden retriever dog tutor",
		Voice:       "Kore",
	}
	missEgo = Persona{
		Name:        "Miss Ego (the Cat)",
		Personality: "a wise, graceful, and patient calico cat tutor",
		Voice:       "Puck",
	}
)

// PersonaFor returns the tutor persona for a gender preference.
// "other" has no distinct persona and falls back to the default (Mr. Ego).
func PersonaFor(g profile.Gender) Persona {
	if g == profile.GenderGirl {
		return missEgo
	}
	return mrEgo
}

// DisplayName is the short tutor name shown in headers and cards.
func DisplayName(g profile.Gender) string {
	if g == profile.GenderGirl {
		return "Miss Ego"
	}
	return "Mr. Ego"
}

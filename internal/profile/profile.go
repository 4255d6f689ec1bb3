// Package profile holds the learner data model: profiles, lessons, and
// the messages that make up a lesson transcript.
package profile

import (
	"time"

	"github.com/google/uuid"
)

// Gender selects the tutor persona a learner chats with.
type Gender string

const (
	GenderBoy   Gender = "boy"
	GenderGirl  Gender = "girl"
	GenderOther Gender = "other"
)

// Role is the author of a transcript message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one turn in a lesson transcript. AudioURL is transient: it
// may point at synthesized audio during a live session but is never
// replayed from history.
type Message struct {
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	AudioURL  string `json:"audioUrl,omitempty"`
}

// Lesson is one completed tutoring session. Immutable once created.
type Lesson struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Timestamp int64     `json:"timestamp"`
	Messages  []Message `json:"messages"`
}

// Profile is one learner. Lessons are ordered most-recent-first.
type Profile struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	DOB       string   `json:"dob"`
	Gender    Gender   `json:"gender"`
	Interests []string `json:"interests"`
	Lessons   []Lesson `json:"lessons,omitempty"`
}

const (
	// titleLimit is the maximum lesson title length before truncation.
	titleLimit = 40

	// placeholderTitle is used when a transcript has no user message.
	placeholderTitle = "Quick Lesson"
)

// NewMessage builds a transcript message stamped with the current time.
func NewMessage(role Role, text string) Message {
	return Message{
		Role:      role,
		Text:      text,
		Timestamp: NowMillis(),
	}
}

// NewLesson derives a Lesson from a finished transcript. The title is the
// first user-authored message truncated to 40 characters, with an ellipsis
// appended when truncated.
func NewLesson(messages []Message) Lesson {
	return Lesson{
		ID:        uuid.New().String(),
		Title:     DeriveTitle(messages),
		Timestamp: NowMillis(),
		Messages:  messages,
	}
}

// DeriveTitle computes the lesson title for a transcript.
func DeriveTitle(messages []Message) string {
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}
		runes := []rune(m.Text)
		if len(runes) > titleLimit {
			return string(runes[:titleLimit]) + "..."
		}
		return m.Text
	}
	return placeholderTitle
}

// NowMillis returns the current time in milliseconds since the epoch,
// the timestamp unit used throughout the persisted document.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Package mascot holds the tutor avatars shown in the classroom.
package mascot

import "github.com/abhisek/egotutor/internal/profile"

const dog = `   / \__
  (    @\___
  /         O
 /   (_____/
/_____/   U`

const cat = ` /\_/\
( o.o )
 > ^ <
/ | | \
  m m`

// Art returns the ASCII avatar for the persona matching the learner's
// gender. Mr. Ego the golden retriever is the default.
func Art(g profile.Gender) string {
	if g == profile.GenderGirl {
		return cat
	}
	return dog
}

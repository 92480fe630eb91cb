package entity

import "fmt"

type Player struct {
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// DefaultPlayerName is the name given to a player who left the name field blank.
func DefaultPlayerName(index int) string {
	return fmt.Sprintf("Player %d", index+1)
}

type Role string

const (
	RoleWordHolder Role = "word_holder"
	RoleImpostor   Role = "impostor"
)

func (that Role) IsImpostor() bool {
	return that == RoleImpostor
}

// RevealCard is what one player sees privately during the reveal walk.
type RevealCard struct {
	Player   Player `json:"player"`
	Role     Role   `json:"role"`
	Word     Word   `json:"word,omitempty"`
	Position int    `json:"position"`
	Total    int    `json:"total"`
}

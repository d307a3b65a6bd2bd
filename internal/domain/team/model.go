package team

import (
	"fmt"
	"strings"
)

// Team is a professional roster, identified by its canonical name.
type Team struct {
	ID   int64
	Name string
}

func (t Team) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("team name is required")
	}
	return nil
}

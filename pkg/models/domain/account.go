package domain

import "fmt"

// TrackedAccount is a GitHub account registered for periodic snapshots.
type TrackedAccount struct {
	Name     string
	Username string
	BaseURL  string
}

func (a TrackedAccount) String() string {
	return fmt.Sprintf("%s:%s", a.Name, a.Username)
}

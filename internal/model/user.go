package model

import "time"

// User is the owner of all other ledger entities. Registration and
// authentication live outside this service; users are provisioned
// through the CLI and identified by id everywhere else.
type User struct {
	CreatedAt time.Time
	ID        string
	Email     string
}

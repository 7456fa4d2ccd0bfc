package seeding

import "time"

// Bus subjects and lock keys.
const (
	SubjectSeedPrefix   = "seeder.database."
	SubjectAdminCreated = "seeder.admin.created"
	SeedLockKey         = "seeder:lock:seed"
)

// Outcome is the result of one SeedDatabase call.
type Outcome string

const (
	OutcomeSeeded  Outcome = "seeded"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
	OutcomeLocked  Outcome = "locked"
)

type SeedEvent struct {
	Outcome Outcome   `json:"outcome"`
	At      time.Time `json:"at"`
}

type AdminCreatedEvent struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	At    time.Time `json:"at"`
}

package model

import "time"

// Credential is the bearer token obtained from the backend together with the
// username that obtained it. Created on successful login, persisted to the
// local credential store, read back at startup, destroyed on logout.
// Invariant: a non-empty credential implies a non-nil derived Identity once
// session restore completes.
type Credential struct {
	Token    string
	Username string
}

// Identity is the minimal user descriptor derived from a Credential. Nothing
// beyond the username backing it is ever persisted.
type Identity struct {
	Username string
}

// StoredValue is a single encrypted entry in the local credential store.
type StoredValue struct {
	ID        int64
	Key       string
	Value     string
	UpdatedAt time.Time
}

// Package projection pairs a stored aggregate with the timestamps its repository keeps.
package projection

import "time"

// Metadata records when an aggregate was first saved and when it was last written.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fresh stamps an aggregate that has never been saved.
func Fresh(at time.Time) Metadata {
	return Metadata{CreatedAt: at, UpdatedAt: at}
}

// Rewritten keeps the creation time and moves UpdatedAt to at.
func (m Metadata) Rewritten(at time.Time) Metadata {
	m.UpdatedAt = at
	return m
}

// Projection is an aggregate as a repository hands it out, e.g. a session cart.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// Of wraps entity with its metadata.
func Of[T any](entity T, meta Metadata) *Projection[T] {
	return &Projection[T]{Entity: entity, Metadata: meta}
}

// Package models defines the core domain models for document revision workflows.
package models

import "time"

// RevisionDescription identifies the revision letter family of a document
// revision stage (e.g. "A" = For Approval). Reference data maintained by
// administrators, immutable from the engine's point of view.
type RevisionDescription struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"        validate:"required"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// RevisionStep identifies the workflow step code within a revision
// (e.g. "TCO" = issued to construction owner).
type RevisionStep struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"        validate:"required"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReviewCode identifies the discrete outcome of a document review
// (e.g. "APP" = Approved, "REJ" = Rejected).
type ReviewCode struct {
	ID          string    `json:"id"`
	Code        string    `json:"code"        validate:"required"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

package handlers

import (
	loggingpkg "github.com/fiberline/orderflow/internal/runtime/logging"
	metadatapkg "github.com/fiberline/orderflow/internal/runtime/metadata"
)

// MessageContextBase provides common functionality shared by all message
// context types. It holds the attributes and logger for one delivery.
type MessageContextBase struct {
	Metadata metadatapkg.Metadata
	Logger   loggingpkg.ServiceLogger
}

// CloneMetadata returns a copy of the current metadata map so handlers can
// safely mutate attributes for outgoing events without touching the original.
func (b MessageContextBase) CloneMetadata() metadatapkg.Metadata {
	return b.Metadata.Clone()
}

// Get retrieves a metadata value by key.
func (b MessageContextBase) Get(key string) string {
	return b.Metadata[key]
}

// CorrelationID returns the originating order ID from metadata, if present.
func (b MessageContextBase) CorrelationID() string {
	return b.Metadata[metadatapkg.KeyCorrelationID]
}

// Instock reports the instock attribute. ok is false when the attribute is
// absent, which consumers must treat differently from "false".
func (b MessageContextBase) Instock() (value, ok bool) {
	return b.Metadata.Bool(metadatapkg.KeyInstock)
}

// RequiresTechnician reports the technician-scheduling attribute.
func (b MessageContextBase) RequiresTechnician() bool {
	value, ok := b.Metadata.Bool(metadatapkg.KeyRequiresTechnician)
	return ok && value
}

// Package domain holds the impression types
package domain

import (
	"context"
	"time"
)

// Impression is one post shown to one viewer at one feed position
type Impression struct {
	BatchID  string
	ViewerID string
	PostID   string
	AuthorID string
	Position uint16
	Score    float64
	ServedAt time.Time
}

// Storage persists impressions
type Storage interface {
	WriteBatch(ctx context.Context, xs []Impression) error
}

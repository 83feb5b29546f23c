package models

import "time"

// Room represents a physical teaching space.
type Room struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Type      string    `db:"type" json:"type"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RoomFilter encapsulates search parameters for listing rooms.
type RoomFilter struct {
	Search    string
	Type      string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

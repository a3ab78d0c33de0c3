package models

import (
	"time"
)

// Currency is a named currency scoped to a single guild
type Currency struct {
	ID        int64     `db:"id"`
	GuildID   int64     `db:"guild_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

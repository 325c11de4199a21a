// internal/storage/models/base.go
package models

import "time"

// BaseModel is the surrogate key and insert time shared by every table.
type BaseModel struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

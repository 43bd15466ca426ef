package model

import "time"

// BaseModel carries the integer identity and creation audit field shared by every record.
type BaseModel struct {
	ID        uint      `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *BaseModel) GetID() uint {
	return b.ID
}

func (b *BaseModel) SetID(id uint) {
	b.ID = id
}

// Touch sets CreatedAt on first insert only.
func (b *BaseModel) Touch(now time.Time) {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
}

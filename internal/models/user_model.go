package models

type User struct {
	ID         int64  `db:"id" json:"id"`
	Email      string `db:"email" json:"email"`
	Name       string `db:"name" json:"name"`
	ReferredBy *int64 `db:"referred_by" json:"referred_by,omitempty"`
}

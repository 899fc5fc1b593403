package domain

import "time"

// MaxCommentLen bounds the review and contact message bodies.
const MaxCommentLen = 1000

type Review struct {
	ID         int64
	BusinessID int64
	Rating     int // 1..5
	Name       string
	Email      string
	Comment    string
	Approved   bool
	CreatedAt  time.Time
}

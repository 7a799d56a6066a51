package review

import (
	"errors"
	"strings"
)

var (
	ErrInvalidRating           = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong          = errors.New("comment is too long (max 1000 characters)")
	ErrInvalidModerationStatus = errors.New("invalid moderation status")
)

const MaxCommentLength = 1000

type Rating struct {
	value int
}

func NewRating(v int) (Rating, error) {
	if v < 1 || v > 5 {
		return Rating{}, ErrInvalidRating
	}
	return Rating{value: v}, nil
}

func (r Rating) Value() int { return r.value }

// Comment is optional; an empty comment is a rating-only review.
type Comment struct {
	text string
}

func NewComment(s string) (Comment, error) {
	t := strings.TrimSpace(s)
	if len(t) > MaxCommentLength {
		return Comment{}, ErrCommentTooLong
	}
	return Comment{text: t}, nil
}

func (c Comment) String() string { return c.text }
func (c Comment) IsEmpty() bool  { return c.text == "" }

type ModerationStatus string

const (
	StatusPending  ModerationStatus = "pending"
	StatusApproved ModerationStatus = "approved"
	StatusRejected ModerationStatus = "rejected"
)

func (s ModerationStatus) String() string { return string(s) }

func (s ModerationStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

func NewModerationStatus(s string) (ModerationStatus, error) {
	status := ModerationStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidModerationStatus
	}
	return status, nil
}

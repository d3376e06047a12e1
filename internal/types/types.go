package types

import (
	"time"
)

// DateSentLayout is the display format for message timestamps, matching the
// en-US locale string the web client renders. Ordering always uses the
// numeric SentAt field, never this string.
const DateSentLayout = "01/02/2006, 03:04 PM"

type User struct {
	Id        int       `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

type GroupMessage struct {
	Id       string    `json:"_id"`
	FromUser string    `json:"from_user"`
	Room     string    `json:"room"`
	Message  string    `json:"message"`
	DateSent string    `json:"date_sent"`
	SentAt   time.Time `json:"-"`
}

type PrivateMessage struct {
	Id       string    `json:"_id"`
	FromUser string    `json:"from_user"`
	ToUser   string    `json:"to_user"`
	Message  string    `json:"message"`
	DateSent string    `json:"date_sent"`
	SentAt   time.Time `json:"-"`
}

func FormatDateSent(t time.Time) string {
	return t.Format(DateSentLayout)
}

package models

import "time"

type User struct {
	ID       int64   `db:"id" json:"id"`
	Username string  `db:"username" json:"username"`
	FullName *string `db:"full_name" json:"full_name"`
}

type Group struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Message is a private message between two users.
type Message struct {
	ID                   int64     `db:"id" json:"id"`
	SenderID             int64     `db:"sender_id" json:"sender_id"`
	ReceiverID           int64     `db:"receiver_id" json:"receiver_id"`
	SenderName           string    `db:"sender_name" json:"sender_name"`
	ReceiverName         string    `db:"receiver_name" json:"receiver_name"`
	SenderAvatar         *string   `db:"sender_avatar" json:"sender_avatar"`
	ReceiverAvatar       *string   `db:"receiver_avatar" json:"receiver_avatar"`
	Content              string    `db:"content" json:"content"`
	MessageType          string    `db:"message_type" json:"message_type"`
	FileName             *string   `db:"file_name" json:"file_name"`
	QuotedMessageID      *int64    `db:"quoted_message_id" json:"quoted_message_id"`
	QuotedMessageContent *string   `db:"quoted_message_content" json:"quoted_message_content"`
	CallType             *string   `db:"call_type" json:"call_type"`
	VoiceDuration        *int      `db:"voice_duration" json:"voice_duration"`
	Status               string    `db:"status" json:"status"`
	IsRead               bool      `db:"is_read" json:"is_read"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

type GroupMessage struct {
	ID                   int64     `db:"id" json:"id"`
	GroupID              int64     `db:"group_id" json:"group_id"`
	SenderID             int64     `db:"sender_id" json:"sender_id"`
	SenderName           string    `db:"sender_name" json:"sender_name"`
	SenderAvatar         *string   `db:"sender_avatar" json:"sender_avatar"`
	Content              string    `db:"content" json:"content"`
	MessageType          string    `db:"message_type" json:"message_type"`
	FileName             *string   `db:"file_name" json:"file_name"`
	QuotedMessageID      *int64    `db:"quoted_message_id" json:"quoted_message_id"`
	QuotedMessageContent *string   `db:"quoted_message_content" json:"quoted_message_content"`
	VoiceDuration        *int      `db:"voice_duration" json:"voice_duration"`
	Status               string    `db:"status" json:"status"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
}

// MessageSummary is a private message as listed by keyword search.
type MessageSummary struct {
	ID           int64     `db:"id" json:"id"`
	SenderID     int64     `db:"sender_id" json:"sender_id"`
	ReceiverID   int64     `db:"receiver_id" json:"receiver_id"`
	SenderName   string    `db:"sender_name" json:"sender_name"`
	ReceiverName string    `db:"receiver_name" json:"receiver_name"`
	Content      string    `db:"content" json:"content"`
	MessageType  string    `db:"message_type" json:"message_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

const (
	ChatPrivate = "private"
	ChatGroup   = "group"
)

// Conversation is the latest message of a private pair or of a group.
// Receiver fields are nil for groups and group fields nil for pairs.
type Conversation struct {
	ID           int64     `db:"id" json:"id"`
	ChatType     string    `db:"chat_type" json:"chat_type"`
	SenderID     int64     `db:"sender_id" json:"sender_id"`
	SenderName   string    `db:"sender_name" json:"sender_name"`
	ReceiverID   *int64    `db:"receiver_id" json:"receiver_id"`
	ReceiverName *string   `db:"receiver_name" json:"receiver_name"`
	GroupID      *int64    `db:"group_id" json:"group_id"`
	GroupName    *string   `db:"group_name" json:"group_name"`
	Content      string    `db:"content" json:"content"`
	MessageType  string    `db:"message_type" json:"message_type"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

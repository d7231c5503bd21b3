package model

import (
	"encoding/json"
	"time"
)

// Email is a synced message. The external Message-ID header is the
// primary key. FolderID goes nil when the folder is deleted; the email
// itself survives.
type Email struct {
	MessageID        string          `json:"message_id"`
	Subject          string          `json:"subject"`
	FromAddressID    *int64          `json:"from_address"`
	ReplyToAddressID *int64          `json:"reply_to_address"`
	ToAddressIDs     []int64         `json:"to_addresses"`
	InReplyTo        *string         `json:"in_reply_to"`
	FolderID         *int64          `json:"folder"`
	DateSent         time.Time       `json:"date_sent"`
	DateReceived     time.Time       `json:"date_received"`
	BodyText         string          `json:"body_text"`
	BodyHTML         string          `json:"body_html"`
	IsRead           bool            `json:"is_read"`
	Priority         *int            `json:"priority"`
	RawJSON          json.RawMessage `json:"json_data"`
}

// ThreadView is an email plus its one-hop reply summary. Replies of
// replies are deliberately not counted; the thread is a single level.
type ThreadView struct {
	Email
	RepliesCount int64 `json:"replies_count"`
	HasReplies   bool  `json:"has_replies"`
}

// EmailFilter narrows email listings. Zero values mean "no filter".
type EmailFilter struct {
	FolderID      *int64
	IsRead        *bool
	FromAddressID *int64
	Search        string
	Ordering      string
	Limit         int
	Offset        int
}

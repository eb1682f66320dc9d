package model

// ContentItem maps a short user-facing code to a message previously posted
// in the source channel. The platform re-delivers it by message ID, the file
// itself is never re-uploaded.
type ContentItem struct {
	Code        string
	MessageID   int64
	AccessCount int64
}

// ContentStat is one row of the admin statistics report.
type ContentStat struct {
	Code        string
	AccessCount int64
}

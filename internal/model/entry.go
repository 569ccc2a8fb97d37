package model

import "time"

// JournalEntry is one answered question (or uploaded media item) as it is
// appended to the document store. Entries are never updated after creation.
type JournalEntry struct {
	ID          string       `json:"id"`
	Question    string       `json:"question"`
	Answer      string       `json:"answer"`
	Category    string       `json:"category"`
	Kind        QuestionKind `json:"question_kind"`
	Options     []string     `json:"option_set"`
	Color       Color        `json:"color_label"`
	TimeOfDay   TimeOfDay    `json:"time_of_day"`
	CreatedDate string       `json:"created_date"`
	CreatedAt   time.Time    `json:"created_at"`
	Media       *Media       `json:"media,omitempty"`
}

// Media holds the optional attributes of an uploaded photo, voice note or document.
type Media struct {
	Kind      string    `json:"kind"`
	URL       string    `json:"url"`
	SizeBytes int64     `json:"size_bytes"`
	Timestamp time.Time `json:"timestamp"`
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date    string         `json:"date"`
	Entries []JournalEntry `json:"entries"`
}

// DateLayout is the calendar-date format used for CreatedDate and day keys.
const DateLayout = "2006-01-02"

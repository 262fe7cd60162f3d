package models

import "time"

type User struct {
	ID        string    `json:"id" db:"id"`
	Timezone  string    `json:"timezone" db:"timezone"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Word is the vocabulary content questions are generated from.
type Word struct {
	UserID      string    `json:"-" db:"user_id"`
	WordID      string    `json:"word_id" db:"word_id"`
	Term        string    `json:"term" db:"term"`
	Translation string    `json:"translation" db:"translation"`
	Example     string    `json:"example" db:"example"`
	AudioURL    string    `json:"audio_url" db:"audio_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

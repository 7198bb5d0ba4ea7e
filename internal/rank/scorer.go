package rank

// Posting is what an import-time scorer sees of a record.
type Posting struct {
	Title       string
	Company     string
	Location    string
	Description string
	Remote      bool
	FAANG       bool
}

// Scorer assigns match_score to postings that arrive without one.
type Scorer interface {
	Score(p Posting) (score int, tags []string)
}

package domain

// Post is a single feed post handed to the classifier by the extraction
// adapter. ID uniqueness within a batch is the caller's responsibility.
type Post struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

// UnknownAuthor is the sentinel display name used when the extraction
// adapter could not resolve an author. It never participates in learning.
const UnknownAuthor = "Unknown"

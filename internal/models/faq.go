package models

// KnownQuestion is one stored FAQ entry: the question text, its answer lines
// and the derived token set used for overlap scoring. The embedding vector
// lives in the similarity index, not in the persisted document.
type KnownQuestion struct {
	Question string   `json:"question"`
	Answers  []string `json:"answers"`
}

// Topic groups known questions under a heuristically derived label.
type Topic struct {
	Topic     string          `json:"topic"`
	Questions []KnownQuestion `json:"questions"`
}

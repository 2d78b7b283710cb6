package rule

// Token is one word of the document. From and To are offsets in whatever unit the caller
// uses; the rule only compares and echoes them.
type Token struct {
	Text string `msgpack:"text" json:"text"`
	From int    `msgpack:"from" json:"from"`
	To   int    `msgpack:"to" json:"to"`
}

// Category groups findings for display.
type Category struct {
	ID   string `msgpack:"id" json:"id"`
	Name string `msgpack:"name" json:"name"`
}

func DefaultCategory() Category {
	return Category{ID: CategoryID, Name: CategoryName}
}

// Finding is one flagged token.
type Finding struct {
	From         int      `msgpack:"from" json:"from"`
	To           int      `msgpack:"to" json:"to"`
	MatchedText  string   `msgpack:"matched_text" json:"matched_text"`
	RuleID       string   `msgpack:"rule_id" json:"rule_id"`
	Category     Category `msgpack:"category" json:"category"`
	Message      string   `msgpack:"message" json:"message"`
	ShortMessage string   `msgpack:"short_message" json:"short_message"`
	Suggestions  []string `msgpack:"suggestions" json:"suggestions"`
	// MarkAsCorrect is always false for spelling findings.
	MarkAsCorrect bool `msgpack:"mark_as_correct" json:"mark_as_correct"`
}

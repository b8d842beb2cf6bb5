package domain

// Task is a single to-do entry. The ID is an opaque handle assigned at
// creation and stable for the process lifetime; the persisted file is
// positional, so IDs are re-minted on every load.
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

package domain

// NoStepCompleted is the LastStep of a checkpoint with no recorded progress.
const NoStepCompleted = -1

// Checkpoint is the persisted progress of one migration run.
// LastStep only moves forward and Values only grows until the checkpoint is deleted.
type Checkpoint struct {
	ID       string         `json:"-"`
	LastStep int            `json:"lastStep"`
	Values   map[string]any `json:"values"`
	// LoadErr is set on listed checkpoints whose file could not be read.
	// A run treats such a file as no progress; it can still be cleaned.
	LoadErr error `json:"-"`
}

// NewCheckpoint creates an empty checkpoint for a migration
func NewCheckpoint(id string) *Checkpoint {
	return &Checkpoint{
		ID:       id,
		LastStep: NoStepCompleted,
		Values:   make(map[string]any),
	}
}

// Completed reports whether step n was recorded as done.
func (c *Checkpoint) Completed(n int) bool {
	return c != nil && c.LastStep >= n
}

// Merge copies outputs into Values. Later writes to an existing key win.
func (c *Checkpoint) Merge(outputs map[string]any) {
	if c.Values == nil {
		c.Values = make(map[string]any, len(outputs))
	}
	for k, v := range outputs {
		c.Values[k] = v
	}
}

// Advance records step n as completed. It never moves LastStep backwards.
func (c *Checkpoint) Advance(n int) {
	if n > c.LastStep {
		c.LastStep = n
	}
}

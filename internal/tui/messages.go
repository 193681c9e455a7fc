package tui

// boardLoadedMsg reports the end of a board reload.
type boardLoadedMsg struct {
	err error
}

// taskMovedMsg reports the end of a status change.
type taskMovedMsg struct {
	taskID string
	status string
	err    error
}

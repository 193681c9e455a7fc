package models

// Burndown is the ideal-versus-actual remaining story points of a sprint.
type Burndown struct {
	TotalPoints int             `json:"totalPoints"`
	Series      []BurndownPoint `json:"series"`
}

// BurndownPoint is one day of a burndown chart. Actual is nil for days that
// have not happened yet.
type BurndownPoint struct {
	Day    int     `json:"day"`
	Date   string  `json:"date"`
	Ideal  float64 `json:"ideal"`
	Actual *int    `json:"actual"`
}

// VelocityPoint is the committed and completed points of one sprint.
type VelocityPoint struct {
	Name      string `json:"name"`
	Committed int    `json:"committed"`
	Completed int    `json:"completed"`
}

// Contribution counts the finished tasks of one project member.
type Contribution struct {
	User  User `json:"user"`
	Count int  `json:"count"`
}

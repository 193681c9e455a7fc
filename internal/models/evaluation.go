package models

import "time"

// Rubric is a named, ordered list of scoring criteria.
type Rubric struct {
	ID          string     `json:"id"`
	ProjectID   *string    `json:"projectId,omitempty"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Criteria    []Criteria `json:"criteria"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// MaxTotal is the sum of every criterion's maximum score.
func (r Rubric) MaxTotal() int {
	total := 0
	for _, c := range r.Criteria {
		total += c.MaxScore
	}
	return total
}

// Criteria is one scored dimension of a rubric.
type Criteria struct {
	ID          string  `json:"id"`
	RubricID    string  `json:"rubricId,omitempty"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	MaxScore    int     `json:"maxScore"`
	Weight      int     `json:"weight"`
}

// Evaluation is a graded assessment of a task, a sprint or a whole project.
type Evaluation struct {
	ID          string               `json:"id"`
	ProjectID   string               `json:"projectId"`
	TaskID      *string              `json:"taskId,omitempty"`
	SprintID    *string              `json:"sprintId,omitempty"`
	EvaluatorID string               `json:"evaluatorId"`
	Evaluator   *User                `json:"evaluator,omitempty"`
	Status      string               `json:"status"`
	Feedback    *string              `json:"feedback,omitempty"`
	Score       *int                 `json:"score,omitempty"`
	Criteria    []EvaluationCriteria `json:"criteria,omitempty"`
	CreatedAt   *time.Time           `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time           `json:"updatedAt,omitempty"`
}

// EvaluationCriteria is the score given to one criterion in an evaluation.
type EvaluationCriteria struct {
	ID           string    `json:"id"`
	EvaluationID string    `json:"evaluationId"`
	CriteriaID   string    `json:"criteriaId"`
	Score        int       `json:"score"`
	Comment      *string   `json:"comment,omitempty"`
	Criteria     *Criteria `json:"criteria,omitempty"`
}

// CriteriaScore is the write-side form of a per-criterion score.
type CriteriaScore struct {
	CriteriaID string `json:"criteriaId"`
	Score      int    `json:"score"`
}

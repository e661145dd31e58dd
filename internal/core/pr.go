package core

import "time"

// PRFile is one entry of a pull request's changed-file list.
type PRFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"` // added, modified, removed, renamed
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Patch     string `json:"patch"`
}

// PRContext is the immutable snapshot of a pull request a review run works
// against.
type PRContext struct {
	Owner    string   `json:"owner"`
	Repo     string   `json:"repo"`
	PRNumber int      `json:"pr_number"`
	BaseSHA  string   `json:"base_sha"`
	HeadSHA  string   `json:"head_sha"`
	Title    string   `json:"title"`
	Author   string   `json:"author"`
	Files    []PRFile `json:"files"`
	Diff     string   `json:"diff"`
}

// PriorityFinding is one severity-tagged item surfaced from a review.
type PriorityFinding struct {
	Severity string `json:"severity"` // high, medium, low
	File     string `json:"file"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

// ReviewOutput is the terminal artifact of a PRReviewPipeline run.
type ReviewOutput struct {
	Markdown         string            `json:"markdown"`
	PriorityFindings []PriorityFinding `json:"priority_findings"`
	QualityScore     float64           `json:"quality_score"`
	Issues           int               `json:"issues"`
	CostUSD          float64           `json:"cost_usd"`
	InputTokens      int               `json:"input_tokens"`
	OutputTokens     int               `json:"output_tokens"`
}

// Profile is a named block of reviewer guidance prepended to the review
// prompt.
type Profile struct {
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
	Context     string    `json:"context" yaml:"context"`
	Tags        []string  `json:"tags" yaml:"tags"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

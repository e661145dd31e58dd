package githubapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDraftReviewCommentIsPlainData(t *testing.T) {
	c := DraftReviewComment{Path: "main.go", Line: 10, Body: "looks fine"}
	assert.Equal(t, "main.go", c.Path)
	assert.Equal(t, 10, c.Line)
}

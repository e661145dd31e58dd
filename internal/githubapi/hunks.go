package githubapi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var hunkHeaderRegex = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,\d+)? @@`)

// ValidCommentLines extracts every new-side line number a patch's diff
// actually touches, i.e. the lines GitHub will accept a review comment
// against. Lines outside any hunk, or on the removed side, aren't valid
// anchors and are left out.
func ValidCommentLines(patch string) map[int]struct{} {
	valid := make(map[int]struct{})
	currentLine := -1

	for _, line := range strings.Split(patch, "\n") {
		if strings.HasPrefix(line, "@@") {
			start, err := parseHunkHeader(line)
			if err != nil {
				currentLine = -1
				continue
			}
			currentLine = start
			continue
		}
		if currentLine == -1 {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+"), strings.HasPrefix(line, " "):
			valid[currentLine] = struct{}{}
			currentLine++
		case strings.HasPrefix(line, "-"):
			continue
		}
	}
	return valid
}

func parseHunkHeader(line string) (int, error) {
	matches := hunkHeaderRegex.FindStringSubmatch(line)
	if len(matches) < 2 {
		return -1, fmt.Errorf("no hunk header match")
	}
	return strconv.Atoi(matches[1])
}

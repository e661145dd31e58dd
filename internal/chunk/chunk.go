// Package chunk implements Chunker / ContextExtractor: line-window and
// symbol-bounded slicing of files.
package chunk

import (
	"strings"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// Handle is the subset of repohandle.Handle this package needs.
type Handle interface {
	FileContent(rel string) ([]byte, error)
}

// SymbolLister is the subset of symbols.Index this package needs for
// symbol-bounded chunking.
type SymbolLister interface {
	Extract(rel string) ([]core.Symbol, error)
}

type Extractor struct {
	handle Handle
}

func New(handle Handle) *Extractor {
	return &Extractor{handle: handle}
}

// ContextAroundLine returns a line-window Chunk centered on line, padded by
// before/after lines on each side and clamped to the file's bounds.
func (x *Extractor) ContextAroundLine(rel string, line, before, after int) (*core.Chunk, error) {
	lines, err := x.fileLines(rel)
	if err != nil {
		return nil, err
	}
	if line < 1 || line > len(lines) {
		return nil, core.NewError(core.KindInvalidInput, "line number out of range")
	}

	start := max(1, line-before)
	end := min(len(lines), line+after)
	return &core.Chunk{
		Kind:      core.ChunkLines,
		StartLine: start,
		EndLine:   end,
		Code:      strings.Join(lines[start-1:end], "\n"),
	}, nil
}

// ChunkByLines splits a file into fixed-size, non-overlapping line-window
// chunks of at most maxLines each.
func (x *Extractor) ChunkByLines(rel string, maxLines int) ([]core.Chunk, error) {
	if maxLines <= 0 {
		maxLines = 50
	}
	lines, err := x.fileLines(rel)
	if err != nil {
		return nil, err
	}

	var chunks []core.Chunk
	for start := 0; start < len(lines); start += maxLines {
		end := min(len(lines), start+maxLines)
		chunks = append(chunks, core.Chunk{
			Kind:      core.ChunkLines,
			StartLine: start + 1,
			EndLine:   end,
			Code:      strings.Join(lines[start:end], "\n"),
		})
	}
	if chunks == nil {
		chunks = []core.Chunk{}
	}
	return chunks, nil
}

// ChunkBySymbols delegates symbol discovery to a SymbolLister and turns each
// symbol span into a symbol-bounded Chunk, ordered by start line.
func (x *Extractor) ChunkBySymbols(rel string, lister SymbolLister) ([]core.Chunk, error) {
	syms, err := lister.Extract(rel)
	if err != nil {
		return nil, err
	}
	chunks := make([]core.Chunk, 0, len(syms))
	for _, s := range syms {
		chunks = append(chunks, core.Chunk{
			Kind:      core.ChunkSymbol,
			Name:      s.NodePath,
			Type:      s.Type,
			StartLine: s.StartLine,
			EndLine:   s.EndLine,
			Code:      s.Code,
		})
	}
	return chunks, nil
}

func (x *Extractor) fileLines(rel string) ([]string, error) {
	content, err := x.handle.FileContent(rel)
	if err != nil {
		return nil, err
	}
	if len(content) == 0 {
		return []string{}, nil
	}
	return strings.Split(string(content), "\n"), nil
}

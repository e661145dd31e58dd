// Package core defines the essential interfaces and data structures that form
// the backbone of the application. These components are designed to be
// abstract, allowing for flexible and decoupled implementations of the
// application's logic.
package core

import "time"

// FileEntry is one row of a RepoHandle file-tree walk.
type FileEntry struct {
	Path  string `json:"path"`
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`
	Size  int64  `json:"size"`
}

// GitInfo describes the git identity of a handle's checkout; fields are the
// zero value when the handle is a plain, non-git local directory.
type GitInfo struct {
	SHA       string `json:"sha,omitempty"`
	ShortSHA  string `json:"short_sha,omitempty"`
	Branch    string `json:"branch,omitempty"`
	RemoteURL string `json:"remote_url,omitempty"`
}

// SymbolType enumerates the kinds of named entities SymbolIndex recognizes.
type SymbolType string

const (
	SymbolFunction  SymbolType = "function"
	SymbolMethod    SymbolType = "method"
	SymbolClass     SymbolType = "class"
	SymbolVariable  SymbolType = "variable"
	SymbolConstant  SymbolType = "constant"
	SymbolInterface SymbolType = "interface"
	SymbolOther     SymbolType = "other"
)

// Symbol is a named code entity recognized by a language grammar.
type Symbol struct {
	Name      string     `json:"name"`
	NodePath  string     `json:"node_path"`
	Type      SymbolType `json:"type"`
	File      string     `json:"file"`
	StartLine int        `json:"start_line"`
	EndLine   int        `json:"end_line"`
	Code      string     `json:"code"`
}

// Usage is a textual reference to a symbol name outside its definition site.
type Usage struct {
	File        string      `json:"file"`
	LineNumber  int         `json:"line_number"`
	LineContent string      `json:"line_content"`
	SymbolType  *SymbolType `json:"symbol_type,omitempty"`
}

// SearchHit is one matched line of a text/regex search.
type SearchHit struct {
	File       string `json:"file"`
	LineNumber int    `json:"line_number"`
	Line       string `json:"line"`
}

// ChunkKind discriminates the two ways a Chunk can be bounded.
type ChunkKind string

const (
	ChunkLines  ChunkKind = "lines"
	ChunkSymbol ChunkKind = "symbol"
)

// Chunk is a contiguous slice of a file, bounded either by a fixed line
// window or by symbol boundaries.
type Chunk struct {
	Kind      ChunkKind  `json:"kind"`
	Name      string     `json:"name,omitempty"`
	Type      SymbolType `json:"type,omitempty"`
	StartLine int        `json:"start_line"`
	EndLine   int        `json:"end_line"`
	Code      string     `json:"code"`
}

// IndexResult is the combined file-tree + extractAll payload for a handle.
type IndexResult struct {
	Files   []FileEntry `json:"files"`
	Symbols []Symbol    `json:"symbols"`
}

// CacheEntry describes one on-disk materialized checkout owned by RepoCache.
type CacheEntry struct {
	Owner        string    `json:"owner"`
	Repo         string    `json:"repo"`
	Ref          string    `json:"ref"`
	Path         string    `json:"path"`
	ClonedAt     time.Time `json:"cloned_at"`
	LastAccessed time.Time `json:"last_accessed"`
	SizeBytes    int64     `json:"size_bytes"`
}

// CacheStatus is the summary RepoCache.Status returns.
type CacheStatus struct {
	Dir        string  `json:"dir"`
	SizeBytes  int64   `json:"size_bytes"`
	EntryCount int     `json:"entry_count"`
	TTLHours   float64 `json:"ttl_hours"`
}

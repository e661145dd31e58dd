// Package profile implements on-disk CRUD for reviewer profiles: named
// blocks of guidance text that a review run can prepend to its prompt.
// Profiles live as individual YAML files under a store directory so they
// can be copied, exported, and version-controlled independently.
package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/codewarden-kit/internal/core"
)

var (
	ErrNotFound     = errors.New("profile not found")
	ErrAlreadyExist = errors.New("profile already exists")
)

var validName = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

// Store manages profiles persisted as YAML files under Root, one file per
// profile named "<name>.yaml".
type Store struct {
	Root string
}

// New returns a Store rooted at dir, defaulting to ~/.kit/profiles when dir
// is empty.
func New(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".kit", "profiles")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile store: %w", err)
	}
	return &Store{Root: dir}, nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.Root, name+".yaml")
}

func validateName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("invalid profile name %q: must start with a letter or digit and contain only letters, digits, - or _", name)
	}
	return nil
}

// Create writes a new profile, failing if one already exists under the same
// name.
func (s *Store) Create(p core.Profile) error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	if _, err := os.Stat(s.path(p.Name)); err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyExist, p.Name)
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.write(p)
}

// Get loads a single profile by name.
func (s *Store) Get(name string) (*core.Profile, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("read profile %s: %w", name, err)
	}
	var p core.Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", name, err)
	}
	return &p, nil
}

// List returns every stored profile sorted by name.
func (s *Store) List() ([]core.Profile, error) {
	entries, err := os.ReadDir(s.Root)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	var out []core.Profile
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(e.Name(), ".yaml")
		p, err := s.Get(name)
		if err != nil {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Edit applies mutate to the stored profile and persists the result,
// bumping UpdatedAt.
func (s *Store) Edit(name string, mutate func(*core.Profile)) (*core.Profile, error) {
	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	mutate(p)
	p.Name = name
	p.UpdatedAt = time.Now().UTC()
	if err := s.write(*p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a profile by name.
func (s *Store) Delete(name string) error {
	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("delete profile %s: %w", name, err)
	}
	return nil
}

// Copy duplicates a profile under a new name, preserving Context and Tags.
func (s *Store) Copy(srcName, dstName string) (*core.Profile, error) {
	src, err := s.Get(srcName)
	if err != nil {
		return nil, err
	}
	dst := *src
	dst.Name = dstName
	if err := s.Create(dst); err != nil {
		return nil, err
	}
	return &dst, nil
}

// Export serializes a profile to YAML bytes, suitable for writing to a file
// or stdout.
func (s *Store) Export(name string) ([]byte, error) {
	p, err := s.Get(name)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(p)
}

// Import parses YAML bytes produced by Export and stores the result,
// preserving Context exactly as a round trip of Export+Import must.
func (s *Store) Import(data []byte) (*core.Profile, error) {
	var p core.Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse imported profile: %w", err)
	}
	if err := validateName(p.Name); err != nil {
		return nil, err
	}
	if err := s.write(p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) write(p core.Profile) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile %s: %w", p.Name, err)
	}
	if err := os.WriteFile(s.path(p.Name), data, 0o644); err != nil {
		return fmt.Errorf("write profile %s: %w", p.Name, err)
	}
	return nil
}

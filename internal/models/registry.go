package models

import (
	"sort"
	"strings"
	"time"

	"github.com/maruel/natural"
)

// Registry is the collection of projects keyed by their unique name. It is
// the unit that gets persisted.
type Registry struct {
	Projects map[string]*Project
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Projects: make(map[string]*Project),
	}
}

func normaliseName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidName
	}

	return name, nil
}

// Get returns the named project. The exact key wins; otherwise surrounding
// whitespace is ignored, so "Alpha " reaches a stored "Alpha" and a stored
// "Alpha " is still reachable by its own name.
func (r *Registry) Get(name string) (*Project, error) {
	if p, ok := r.Projects[name]; ok {
		return p, nil
	}

	trimmed, err := normaliseName(name)
	if err != nil {
		return nil, err
	}

	p, ok := r.Projects[trimmed]
	if !ok {
		return nil, ErrNotFound.Fmt(name)
	}

	return p, nil
}

// Create adds a new project and starts its first session at now.
func (r *Registry) Create(name string, now time.Time) (*Project, error) {
	name, err := normaliseName(name)
	if err != nil {
		return nil, err
	}

	if _, ok := r.Projects[name]; ok {
		return nil, ErrAlreadyExists.Fmt(name)
	}

	p := &Project{
		Name:     name,
		Status:   Stopped,
		Sessions: []Session{},
	}

	err = p.Resume(now)
	if err != nil {
		return nil, err
	}

	r.Projects[name] = p

	return p, nil
}

// Rename re-keys a project while keeping all of its history.
func (r *Registry) Rename(oldName, newName string) (*Project, error) {
	p, err := r.Get(oldName)
	if err != nil {
		return nil, err
	}

	newName, err = normaliseName(newName)
	if err != nil {
		return nil, err
	}

	if _, ok := r.Projects[newName]; ok {
		return nil, ErrAlreadyExists.Fmt(newName)
	}

	delete(r.Projects, p.Name)

	p.Name = newName
	r.Projects[newName] = p

	return p, nil
}

// Delete removes a project regardless of its status.
func (r *Registry) Delete(name string) (*Project, error) {
	p, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	delete(r.Projects, p.Name)

	return p, nil
}

// List returns the projects in natural name order.
func (r *Registry) List() []*Project {
	projects := make([]*Project, 0, len(r.Projects))

	for _, p := range r.Projects {
		projects = append(projects, p)
	}

	sort.Slice(projects, func(i, j int) bool {
		return natural.Less(projects[i].Name, projects[j].Name)
	})

	return projects
}

// Len returns the number of projects.
func (r *Registry) Len() int {
	return len(r.Projects)
}

// Clone returns a deep copy of the registry.
func (r *Registry) Clone() *Registry {
	c := NewRegistry()

	for name, p := range r.Projects {
		c.Projects[name] = p.Clone()
	}

	return c
}

package memory

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/vsinha/bayplan/pkg/domain/entities"
	"github.com/vsinha/bayplan/pkg/domain/repositories"
)

// ProjectRepository provides in-memory project storage
type ProjectRepository struct {
	mu          sync.RWMutex
	projects    []entities.Project
	projectsMap map[entities.ProjectID]int
	version     atomic.Uint64
}

// NewProjectRepository creates a new in-memory project repository
func NewProjectRepository(expectedProjects int) *ProjectRepository {
	return &ProjectRepository{
		projects:    make([]entities.Project, 0, expectedProjects),
		projectsMap: make(map[entities.ProjectID]int, expectedProjects),
	}
}

// Verify interface compliance
var _ repositories.ProjectRepository = (*ProjectRepository)(nil)

// LoadProjects loads projects into the repository, replacing any with the same id
func (r *ProjectRepository) LoadProjects(projects []*entities.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, project := range projects {
		r.addProject(*project)
	}
	r.version.Add(1)
	return nil
}

// AddProject adds a single project to the repository
func (r *ProjectRepository) AddProject(project entities.Project) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.addProject(project)
	r.version.Add(1)
}

func (r *ProjectRepository) addProject(project entities.Project) {
	if index, exists := r.projectsMap[project.ID]; exists {
		r.projects[index] = project
		return
	}
	r.projectsMap[project.ID] = len(r.projects)
	r.projects = append(r.projects, project)
}

// GetProject returns a copy of the project with the given id
func (r *ProjectRepository) GetProject(id entities.ProjectID) (*entities.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.projectsMap[id]
	if !exists {
		return nil, fmt.Errorf("project %s: %w", id, repositories.ErrNotFound)
	}
	project := r.projects[index]
	return &project, nil
}

// GetAllProjects returns copies of all projects in load order
func (r *ProjectRepository) GetAllProjects() ([]*entities.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]*entities.Project, 0, len(r.projects))
	for _, p := range r.projects {
		project := p
		projects = append(projects, &project)
	}
	return projects, nil
}

// Version returns a counter that advances on every change
func (r *ProjectRepository) Version() uint64 {
	return r.version.Load()
}

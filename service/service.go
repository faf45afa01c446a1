package service

import (
	"github.com/fulldump/mockdb/collection"
	"github.com/fulldump/mockdb/database"
)

type Service struct {
	db *database.Database
}

func NewService(db *database.Database) *Service {
	return &Service{
		db: db,
	}
}

type Resource struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// OpenResource returns the collection, creating its document when the
// resource is new.
func (s *Service) OpenResource(name string) (*collection.Collection, error) {
	return s.db.Resource(name)
}

// GetResource describes an existing resource.
func (s *Service) GetResource(name string) (*Resource, error) {

	if !s.exists(name) {
		return nil, ErrorResourceNotFound
	}

	col, err := s.db.Resource(name)
	if err != nil {
		return nil, err
	}

	return &Resource{
		Name:  col.Name,
		Total: col.Len(),
	}, nil
}

func (s *Service) ListResources() ([]*Resource, error) {

	names, err := s.db.ListResources()
	if err != nil {
		return nil, err
	}

	result := []*Resource{}
	for _, name := range names {
		col, err := s.db.Resource(name)
		if err != nil {
			return nil, err
		}
		result = append(result, &Resource{
			Name:  col.Name,
			Total: col.Len(),
		})
	}

	return result, nil
}

func (s *Service) exists(name string) bool {
	filename, err := database.ResourceName(name)
	if err != nil {
		return false
	}
	names, err := s.db.ListResources()
	if err != nil {
		return false
	}
	for _, n := range names {
		if n+database.Extension == filename {
			return true
		}
	}
	return false
}

package service

import (
	"errors"

	"github.com/fulldump/mockdb/collection"
)

var ErrorResourceNotFound = errors.New("resource not found")

type Servicer interface {
	ListResources() ([]*Resource, error)
	GetResource(name string) (*Resource, error)
	OpenResource(name string) (*collection.Collection, error)
}

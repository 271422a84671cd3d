package server

import (
	"errors"
	"path/filepath"
	"strings"
)

var (
	ErrNoDirectory = errors.New("no serving directory configured")
	ErrInvalidName = errors.New("invalid file name")
)

// ServerContext is the read-only configuration shared by every connection.
// It is built before the accept loop starts and never written afterwards.
type ServerContext struct {
	Directory string
}

func (c *ServerContext) HasDirectory() bool {
	return c != nil && c.Directory != ""
}

// Resolve joins a single file name onto the serving directory. Names that
// would leave the directory are rejected with ErrInvalidName.
func (c *ServerContext) Resolve(name string) (string, error) {
	if !c.HasDirectory() {
		return "", ErrNoDirectory
	}
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", ErrInvalidName
	}
	return filepath.Join(c.Directory, name), nil
}

package config

import (
	"errors"
	"fmt"
)

// Validate checks that every group and directory carries its required fields.
// Regular expressions are compiled later by the scanner.
func (c Config) Validate() error {
	var errs []error
	for i, g := range c.Projects {
		if g.Root == "" {
			errs = append(errs, fmt.Errorf("projects[%d]: root is required", i))
		}
		if g.Title == "" {
			errs = append(errs, fmt.Errorf("projects[%d]: title is required", i))
		}
		if g.Extract == "" {
			errs = append(errs, fmt.Errorf("projects[%d]: extract is required", i))
		}
	}
	for i, d := range c.Directories {
		if d.Path == "" {
			errs = append(errs, fmt.Errorf("directories[%d]: path is required", i))
		}
	}
	return errors.Join(errs...)
}

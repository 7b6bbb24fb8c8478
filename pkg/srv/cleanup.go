package srv

import "context"

// cleanupService only does work on shutdown.
type cleanupService struct {
	cleanup func() error
}

func (c *cleanupService) Start(context.Context) error {
	return nil
}

func (c *cleanupService) Shutdown(context.Context) error {
	if c.cleanup != nil {
		return c.cleanup()
	}
	return nil
}

// NewCleanup wraps a close function, such as a database handle's, as a
// Service.
func NewCleanup(fn func() error) Service {
	return &cleanupService{cleanup: fn}
}

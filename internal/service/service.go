package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/company/internal/events"
	"github.com/Skotchmaster/company/internal/repo"
	"github.com/Skotchmaster/company/pkg/logging"
)

var (
	ErrValidation  = errors.New("validation")  // 400
	ErrNotFound    = errors.New("not found")   // 404
	ErrUnavailable = errors.New("unavailable") // 503
)

// classify maps repository errors onto the service sentinels. Anything it
// does not recognise is returned unchanged.
func classify(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	case errors.Is(err, repo.ErrMissingReference):
		return fmt.Errorf("%w: %v", ErrValidation, err)
	default:
		return err
	}
}

func requireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name required", ErrValidation)
	}
	return name, nil
}

// publish runs after the transaction committed, so a broker failure is
// only logged.
func publish(ctx context.Context, p events.Publisher, entity, action string, id uint) {
	if p == nil {
		return
	}
	e := events.New(entity, action, id)
	if err := p.Publish(ctx, e); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed",
			"type", e.Type, "key", e.Key(), "error", err)
	}
}

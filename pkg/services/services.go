package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"
)

type Service interface {
	Name() string
	Start(ctx context.Context) error
}

type Group []Service

// Start runs every service until ctx is done or one of them stops. The
// errors of all services are returned together.
func (g Group) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, len(g))
	for _, svc := range g {
		go func(svc Service) {
			slog.Info("starting service", "name", svc.Name())
			err := svc.Start(ctx)
			if err != nil {
				err = fmt.Errorf("%s: %w", svc.Name(), err)
			}
			slog.Info("service stopped", "name", svc.Name())
			cancel()
			errCh <- err
		}(svc)
	}

	var result *multierror.Error
	for range g {
		if err := <-errCh; err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}

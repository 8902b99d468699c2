package store

import (
	"context"
	"time"

	"codeberg.org/vintr/updatemon/internal/errors"
	"codeberg.org/vintr/updatemon/internal/rows"
)

type service struct {
	repo Repository
	cfg  Config
}

func NewService(cfg Config) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	repo, err := NewRepository(cfg)
	if err != nil {
		return nil, err // Already wrapped with appropriate error
	}

	return &service{
		repo: repo,
		cfg:  cfg,
	}, nil
}

func (s *service) RecordConfiguration(ctx context.Context, collected []rows.Row, at time.Time) error {
	errFactory := errors.New()

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.StoreConfiguration(ctx, collected, at); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) RecordProducts(ctx context.Context, collected []rows.Row, at time.Time) error {
	errFactory := errors.New()

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
		if err := s.repo.StoreProducts(ctx, collected, at); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Close() error {
	errFactory := errors.New()

	if err := s.repo.Close(); err != nil {
		return errFactory.Wrap(ErrServiceShutdown, err)
	}
	return nil
}

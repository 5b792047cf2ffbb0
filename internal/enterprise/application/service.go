package application

import (
	"context"
	"errors"
	"fmt"

	"cifcheck/internal/enterprise/domain"
	sharedlogger "cifcheck/internal/shared/logger"
)

// Recorder receives validation and load outcomes.
type Recorder interface {
	ObserveValidation(valid bool)
	ObserveLoad(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveValidation(bool) {}
func (noopRecorder) ObserveLoad(string)     {}

// Service coordinates CIF checks and the enterprise registry.
type Service struct {
	logger   sharedlogger.Logger
	loader   *Loader
	repo     domain.Repository
	recorder Recorder
}

// NewService creates a new registry service. A nil recorder disables metrics.
func NewService(logger sharedlogger.Logger, loader *Loader, repo domain.Repository, recorder Recorder) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{
		logger:   logger,
		loader:   loader,
		repo:     repo,
		recorder: recorder,
	}
}

// Check validates a candidate CIF.
func (s *Service) Check(ctx context.Context, candidate string) bool {
	valid := domain.Validate(candidate)
	s.recorder.ObserveValidation(valid)
	s.logger.Debug("Checked CIF", "cif", candidate, "valid", valid)
	return valid
}

// Complete returns the full CIF for an 8 character prefix.
func (s *Service) Complete(ctx context.Context, prefix string) (domain.CIF, error) {
	cif, err := domain.Complete(prefix)
	if err != nil {
		s.logger.Debug("Cannot complete CIF prefix", "prefix", prefix, "err", err)
		return domain.CIF{}, err
	}
	return cif, nil
}

// Load reads a record from a file without registering it.
func (s *Service) Load(ctx context.Context, path string) (domain.Record, error) {
	rec, err := s.loader.Load(path)
	s.recorder.ObserveLoad(domain.KindName(err))
	if err != nil {
		s.logger.Warn("Failed to load enterprise record", "path", path, "kind", domain.KindName(err), "err", err)
		return domain.Record{}, err
	}
	s.logger.Debug("Loaded enterprise record", "path", path, "cif", rec.CIF.String())
	return rec, nil
}

// RegisterFile loads a record from a file and stores it.
func (s *Service) RegisterFile(ctx context.Context, path string) (domain.StoredRecord, error) {
	rec, err := s.Load(ctx, path)
	if err != nil {
		return domain.StoredRecord{}, err
	}
	return s.save(ctx, rec)
}

// RegisterDocument decodes a record from raw document bytes and stores it.
func (s *Service) RegisterDocument(ctx context.Context, raw []byte, format Format) (domain.StoredRecord, error) {
	rec, err := s.loader.Decode(raw, format)
	s.recorder.ObserveLoad(domain.KindName(err))
	if err != nil {
		s.logger.Warn("Rejected enterprise document", "format", format, "kind", domain.KindName(err), "err", err)
		return domain.StoredRecord{}, err
	}
	return s.save(ctx, rec)
}

func (s *Service) save(ctx context.Context, rec domain.Record) (domain.StoredRecord, error) {
	stored, err := s.repo.Save(ctx, rec)
	if err != nil {
		s.logger.Error("Failed to store enterprise record", "cif", rec.CIF.String(), "err", err)
		return domain.StoredRecord{}, fmt.Errorf("failed to store enterprise %s: %w", rec.CIF, err)
	}
	s.logger.Info("Registered enterprise", "cif", stored.CIF.String(), "id", stored.ID.String())
	return stored, nil
}

// Get returns the registered record for a CIF.
func (s *Service) Get(ctx context.Context, cif string) (domain.StoredRecord, error) {
	id, err := domain.NewCIF(cif)
	if err != nil {
		return domain.StoredRecord{}, err
	}
	stored, err := s.repo.Get(ctx, id)
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.StoredRecord{}, err
	}
	if err != nil {
		s.logger.Error("Failed to get enterprise record", "cif", id.String(), "err", err)
		return domain.StoredRecord{}, err
	}
	return stored, nil
}

// List returns every registered record ordered by CIF.
func (s *Service) List(ctx context.Context) ([]domain.StoredRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list enterprise records", "err", err)
		return nil, err
	}
	return records, nil
}

package civic

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/civicconnect/backend/internal/domain/civic"
	"github.com/civicconnect/backend/internal/domain/shared"
)

// RepresentativeService manages the representative directory
type RepresentativeService struct {
	reps   civic.RepresentativeRepository
	logger *zap.Logger
}

// NewRepresentativeService creates a new representative directory service
func NewRepresentativeService(reps civic.RepresentativeRepository, logger *zap.Logger) *RepresentativeService {
	return &RepresentativeService{
		reps:   reps,
		logger: logger,
	}
}

// Create seeds a new directory entry
func (s *RepresentativeService) Create(ctx context.Context, req CreateRepresentativeRequest) (*RepresentativeDTO, error) {
	if _, err := s.reps.FindByIdentity(ctx, req.Name, req.Constituency); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Representative already exists for this constituency")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	rep, err := civic.NewRepresentative(req.Name, req.Constituency, req.Email)
	if err != nil {
		return nil, err
	}
	if err := s.reps.Save(ctx, rep); err != nil {
		return nil, err
	}

	s.logger.Info("representative added to directory",
		zap.String("name", rep.Name),
		zap.String("constituency", rep.Constituency))

	return toRepresentativeDTO(rep), nil
}

// List returns every directory entry with its counters
func (s *RepresentativeService) List(ctx context.Context) ([]RepresentativeDTO, error) {
	reps, err := s.reps.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]RepresentativeDTO, 0, len(reps))
	for i := range reps {
		out = append(out, *toRepresentativeDTO(&reps[i]))
	}
	return out, nil
}

// Get returns one directory entry by identity
func (s *RepresentativeService) Get(ctx context.Context, name, constituency string) (*RepresentativeDTO, error) {
	rep, err := s.reps.FindByIdentity(ctx, name, constituency)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("REPRESENTATIVE_NOT_FOUND", "Representative not found")
		}
		return nil, err
	}
	return toRepresentativeDTO(rep), nil
}

func toRepresentativeDTO(rep *civic.Representative) *RepresentativeDTO {
	return &RepresentativeDTO{
		Name:              rep.Name,
		Constituency:      rep.Constituency,
		Email:             rep.Email,
		QuestionsAsked:    rep.QuestionsAsked,
		QuestionsAnswered: rep.QuestionsAnswered,
		OutstandingForms:  rep.OutstandingForms.Snapshot(),
	}
}

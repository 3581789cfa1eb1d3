package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository"
)

var (
	ErrCreditTypeNotFound         = repository.ErrCreditTypeNotFound
	ErrCreditTypeNameExists       = repository.ErrCreditTypeNameExists
	ErrCreditTypeHasAssignedCodes = repository.ErrCreditTypeHasAssignedCodes
	ErrUniversalCodeImport        = errors.New("universal credit types receive their code at creation, not via import")
	ErrUniversalCodeRequired      = errors.New("universal credit types require a code value and a positive quantity")
)

type CreditRepository interface {
	CreateCreditType(ctx context.Context, creditType domain.CreditType) (domain.CreditType, error)
	UpdateCreditType(ctx context.Context, creditType domain.CreditType) (domain.CreditType, error)
	GetCreditTypeByID(ctx context.Context, id string) (domain.CreditType, error)
	ListCreditTypes(ctx context.Context) ([]domain.CreditType, error)
	ListActiveCreditTypes(ctx context.Context) ([]domain.CreditType, error)
	DeleteCreditType(ctx context.Context, id string) error
	InsertCodes(ctx context.Context, creditTypeID string, imports []domain.CodeImport) error
	ExistingCodeValues(ctx context.Context, creditTypeID string, values []string) (map[string]bool, error)
	PoolStats(ctx context.Context) (map[string]domain.PoolStats, error)
}

// CreateCreditTypeParams carries the registry row plus, for universal
// distribution, the shared code replicated into the pool so the ordinary
// claim path serves every recipient.
type CreateCreditTypeParams struct {
	CreditType         domain.CreditType
	UniversalCode      string
	UniversalRedeemURL string
	UniversalQuantity  int
}

type CreditService struct {
	repo CreditRepository
}

func NewCreditService(repo CreditRepository) *CreditService {
	return &CreditService{
		repo: repo,
	}
}

func (s *CreditService) CreateCreditType(ctx context.Context, params CreateCreditTypeParams) (domain.CreditType, error) {
	creditType := params.CreditType
	if creditType.DistributionType == "" {
		creditType.DistributionType = domain.DistributionUnique
	}

	if creditType.DistributionType == domain.DistributionUniversal {
		if params.UniversalCode == "" || params.UniversalQuantity <= 0 {
			return domain.CreditType{}, ErrUniversalCodeRequired
		}
	}

	created, err := s.repo.CreateCreditType(ctx, creditType)
	if err != nil {
		if errors.Is(err, repository.ErrCreditTypeNameExists) {
			return domain.CreditType{}, ErrCreditTypeNameExists
		}

		return domain.CreditType{}, fmt.Errorf("s.repo.CreateCreditType -> %w", err)
	}

	if created.DistributionType == domain.DistributionUniversal {
		value := strings.ToUpper(strings.TrimSpace(params.UniversalCode))
		imports := make([]domain.CodeImport, params.UniversalQuantity)
		for i := range imports {
			imports[i] = domain.CodeImport{
				CodeValue: value,
				RedeemURL: params.UniversalRedeemURL,
			}
		}

		if err = s.repo.InsertCodes(ctx, created.ID, imports); err != nil {
			return domain.CreditType{}, fmt.Errorf("s.repo.InsertCodes -> %w", err)
		}
	}

	return created, nil
}

func (s *CreditService) UpdateCreditType(ctx context.Context, creditType domain.CreditType) (domain.CreditType, error) {
	existing, err := s.repo.GetCreditTypeByID(ctx, creditType.ID)
	if err != nil {
		return domain.CreditType{}, fmt.Errorf("s.repo.GetCreditTypeByID -> %w", err)
	}

	// Distribution mode is fixed at creation; switching it would strand
	// the existing pool.
	creditType.DistributionType = existing.DistributionType
	creditType.CreatedAt = existing.CreatedAt

	updated, err := s.repo.UpdateCreditType(ctx, creditType)
	if err != nil {
		if errors.Is(err, repository.ErrCreditTypeNameExists) {
			return domain.CreditType{}, ErrCreditTypeNameExists
		}

		return domain.CreditType{}, fmt.Errorf("s.repo.UpdateCreditType -> %w", err)
	}

	return updated, nil
}

func (s *CreditService) GetCreditType(ctx context.Context, id string) (domain.CreditType, error) {
	creditType, err := s.repo.GetCreditTypeByID(ctx, id)
	if err != nil {
		return domain.CreditType{}, fmt.Errorf("s.repo.GetCreditTypeByID -> %w", err)
	}

	return creditType, nil
}

// ListCreditTypes returns every credit type with its pool inventory.
func (s *CreditService) ListCreditTypes(ctx context.Context) ([]domain.CreditTypeOverview, error) {
	creditTypes, err := s.repo.ListCreditTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListCreditTypes -> %w", err)
	}

	stats, err := s.repo.PoolStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.PoolStats -> %w", err)
	}

	overviews := make([]domain.CreditTypeOverview, len(creditTypes))
	for i, creditType := range creditTypes {
		overviews[i] = domain.CreditTypeOverview{
			CreditType: creditType,
			Stats:      stats[creditType.ID],
		}
	}

	return overviews, nil
}

func (s *CreditService) DeleteCreditType(ctx context.Context, id string) error {
	if err := s.repo.DeleteCreditType(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCreditTypeNotFound) ||
			errors.Is(err, repository.ErrCreditTypeHasAssignedCodes) {
			return err
		}

		return fmt.Errorf("s.repo.DeleteCreditType -> %w", err)
	}

	return nil
}

// ImportCodes adds codes to a unique-distribution pool. Values are
// normalized to upper case; duplicates already in the pool and duplicates
// within the submitted batch are skipped and reported, never inserted.
func (s *CreditService) ImportCodes(ctx context.Context, creditTypeID string, imports []domain.CodeImport) (domain.CodeImportResult, error) {
	creditType, err := s.repo.GetCreditTypeByID(ctx, creditTypeID)
	if err != nil {
		return domain.CodeImportResult{}, fmt.Errorf("s.repo.GetCreditTypeByID -> %w", err)
	}

	if creditType.DistributionType == domain.DistributionUniversal {
		return domain.CodeImportResult{}, ErrUniversalCodeImport
	}

	values := make([]string, 0, len(imports))
	for _, imp := range imports {
		value := strings.ToUpper(strings.TrimSpace(imp.CodeValue))
		if value != "" {
			values = append(values, value)
		}
	}

	existing, err := s.repo.ExistingCodeValues(ctx, creditTypeID, values)
	if err != nil {
		return domain.CodeImportResult{}, fmt.Errorf("s.repo.ExistingCodeValues -> %w", err)
	}

	var result domain.CodeImportResult
	seen := make(map[string]bool, len(imports))
	accepted := make([]domain.CodeImport, 0, len(imports))

	for _, imp := range imports {
		value := strings.ToUpper(strings.TrimSpace(imp.CodeValue))

		switch {
		case value == "":
			result.Skipped = append(result.Skipped, domain.SkippedCode{
				CodeValue: imp.CodeValue,
				Reason:    "empty code value",
			})
		case existing[value]:
			result.Skipped = append(result.Skipped, domain.SkippedCode{
				CodeValue: value,
				Reason:    "already in pool",
			})
		case seen[value]:
			result.Skipped = append(result.Skipped, domain.SkippedCode{
				CodeValue: value,
				Reason:    "duplicate in batch",
			})
		default:
			seen[value] = true
			accepted = append(accepted, domain.CodeImport{
				CodeValue: value,
				RedeemURL: imp.RedeemURL,
			})
		}
	}

	if len(accepted) > 0 {
		if err = s.repo.InsertCodes(ctx, creditTypeID, accepted); err != nil {
			return domain.CodeImportResult{}, fmt.Errorf("s.repo.InsertCodes -> %w", err)
		}
	}
	result.Imported = len(accepted)

	return result, nil
}

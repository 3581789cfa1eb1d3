package repository

import (
	"context"
	"fmt"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository/dao"
)

var (
	ErrCreditTypeNotFound         = dao.ErrCreditTypeNotFound
	ErrCreditTypeNameExists       = dao.ErrCreditTypeNameExists
	ErrCreditTypeHasAssignedCodes = dao.ErrCreditTypeHasAssignedCodes
	ErrCodeNotFound               = dao.ErrCodeNotFound
	ErrCodeNotOwned               = dao.ErrCodeNotOwned
	ErrCodeAlreadyRedeemed        = dao.ErrCodeAlreadyRedeemed
	ErrCodeNotAssigned            = dao.ErrCodeNotAssigned
)

type CreditDAO interface {
	InsertCreditType(ctx context.Context, creditType dao.CreditType) (dao.CreditType, error)
	UpdateCreditType(ctx context.Context, creditType dao.CreditType) (dao.CreditType, error)
	FindCreditTypeByID(ctx context.Context, id string) (dao.CreditType, error)
	ListCreditTypes(ctx context.Context) ([]dao.CreditType, error)
	ListActiveCreditTypes(ctx context.Context) ([]dao.CreditType, error)
	DeleteCreditType(ctx context.Context, id string) error
	InsertCodes(ctx context.Context, codes []dao.Code) error
	FindCodeValues(ctx context.Context, creditTypeID string, values []string) ([]string, error)
	ListCodesAssignedTo(ctx context.Context, participantID string) ([]dao.Code, error)
	PoolCounts(ctx context.Context) ([]dao.PoolCount, error)
	Unassign(ctx context.Context, codeID string) (dao.Code, error)
	MarkRedeemed(ctx context.Context, codeID, participantID string, redeemed bool) (dao.Code, error)
}

type CreditRepository struct {
	dao CreditDAO
}

func NewCreditRepository(dao CreditDAO) *CreditRepository {
	return &CreditRepository{
		dao: dao,
	}
}

func creditTypeDaoToDomain(ct dao.CreditType) domain.CreditType {
	return domain.CreditType{
		ID:                ct.ID,
		Name:              ct.Name,
		DisplayName:       ct.DisplayName,
		EmailInstructions: ct.EmailInstructions,
		WebInstructions:   ct.WebInstructions,
		DisplayOrder:      ct.DisplayOrder,
		IconURL:           ct.IconURL,
		IsActive:          ct.IsActive,
		DistributionType:  domain.DistributionType(ct.DistributionType),
		CreatedAt:         ct.CreatedAt,
		UpdatedAt:         ct.UpdatedAt,
	}
}

func creditTypeDomainToDao(ct domain.CreditType) dao.CreditType {
	return dao.CreditType{
		ID:                ct.ID,
		Name:              ct.Name,
		DisplayName:       ct.DisplayName,
		EmailInstructions: ct.EmailInstructions,
		WebInstructions:   ct.WebInstructions,
		DisplayOrder:      ct.DisplayOrder,
		IconURL:           ct.IconURL,
		IsActive:          ct.IsActive,
		DistributionType:  string(ct.DistributionType),
		CreatedAt:         ct.CreatedAt,
		UpdatedAt:         ct.UpdatedAt,
	}
}

func codeDaoToDomain(c dao.Code) domain.Code {
	code := domain.Code{
		ID:           c.ID,
		CreditTypeID: c.CreditTypeID,
		CodeValue:    c.CodeValue,
		RedeemURL:    c.RedeemURL,
		Status:       domain.CodeStatus(c.Status),
		AssignedAt:   c.AssignedAt,
		RedeemedAt:   c.RedeemedAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.AssignedTo != nil {
		code.AssignedTo = *c.AssignedTo
	}

	return code
}

func creditTypesDaoToDomain(cts []dao.CreditType) []domain.CreditType {
	creditTypes := make([]domain.CreditType, len(cts))
	for i, ct := range cts {
		creditTypes[i] = creditTypeDaoToDomain(ct)
	}

	return creditTypes
}

func (r *CreditRepository) CreateCreditType(ctx context.Context, creditType domain.CreditType) (domain.CreditType, error) {
	created, err := r.dao.InsertCreditType(ctx, creditTypeDomainToDao(creditType))
	if err != nil {
		return domain.CreditType{}, err
	}

	return creditTypeDaoToDomain(created), nil
}

func (r *CreditRepository) UpdateCreditType(ctx context.Context, creditType domain.CreditType) (domain.CreditType, error) {
	updated, err := r.dao.UpdateCreditType(ctx, creditTypeDomainToDao(creditType))
	if err != nil {
		return domain.CreditType{}, err
	}

	return creditTypeDaoToDomain(updated), nil
}

func (r *CreditRepository) GetCreditTypeByID(ctx context.Context, id string) (domain.CreditType, error) {
	creditType, err := r.dao.FindCreditTypeByID(ctx, id)
	if err != nil {
		return domain.CreditType{}, err
	}

	return creditTypeDaoToDomain(creditType), nil
}

func (r *CreditRepository) ListCreditTypes(ctx context.Context) ([]domain.CreditType, error) {
	creditTypes, err := r.dao.ListCreditTypes(ctx)
	if err != nil {
		return nil, err
	}

	return creditTypesDaoToDomain(creditTypes), nil
}

func (r *CreditRepository) ListActiveCreditTypes(ctx context.Context) ([]domain.CreditType, error) {
	creditTypes, err := r.dao.ListActiveCreditTypes(ctx)
	if err != nil {
		return nil, err
	}

	return creditTypesDaoToDomain(creditTypes), nil
}

func (r *CreditRepository) DeleteCreditType(ctx context.Context, id string) error {
	return r.dao.DeleteCreditType(ctx, id)
}

func (r *CreditRepository) InsertCodes(ctx context.Context, creditTypeID string, imports []domain.CodeImport) error {
	codes := make([]dao.Code, len(imports))
	for i, imp := range imports {
		codes[i] = dao.Code{
			CreditTypeID: creditTypeID,
			CodeValue:    imp.CodeValue,
			RedeemURL:    imp.RedeemURL,
			Status:       dao.CodeStatusUnassigned,
		}
	}

	return r.dao.InsertCodes(ctx, codes)
}

func (r *CreditRepository) ExistingCodeValues(ctx context.Context, creditTypeID string, values []string) (map[string]bool, error) {
	existing, err := r.dao.FindCodeValues(ctx, creditTypeID, values)
	if err != nil {
		return nil, err
	}

	set := make(map[string]bool, len(existing))
	for _, value := range existing {
		set[value] = true
	}

	return set, nil
}

// ListAssignedCredits returns a participant's codes paired with their
// credit types, ordered by credit type display order.
func (r *CreditRepository) ListAssignedCredits(ctx context.Context, participantID string) ([]domain.AssignedCredit, error) {
	codes, err := r.dao.ListCodesAssignedTo(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListCodesAssignedTo -> %w", err)
	}
	if len(codes) == 0 {
		return nil, nil
	}

	creditTypes, err := r.dao.ListCreditTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListCreditTypes -> %w", err)
	}

	byID := make(map[string]dao.CreditType, len(creditTypes))
	for _, ct := range creditTypes {
		byID[ct.ID] = ct
	}

	var credits []domain.AssignedCredit
	for _, ct := range creditTypes {
		for _, code := range codes {
			if code.CreditTypeID == ct.ID {
				credits = append(credits, domain.AssignedCredit{
					CreditType: creditTypeDaoToDomain(ct),
					Code:       codeDaoToDomain(code),
				})
			}
		}
	}

	// Codes whose credit type row has vanished still belong to the
	// participant; append them without registry metadata.
	for _, code := range codes {
		if _, ok := byID[code.CreditTypeID]; !ok {
			credits = append(credits, domain.AssignedCredit{
				Code: codeDaoToDomain(code),
			})
		}
	}

	return credits, nil
}

func (r *CreditRepository) PoolStats(ctx context.Context) (map[string]domain.PoolStats, error) {
	counts, err := r.dao.PoolCounts(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]domain.PoolStats, len(counts))
	for _, count := range counts {
		stats[count.CreditTypeID] = domain.PoolStats{
			Total:     count.Total,
			Assigned:  count.Total - count.Remaining,
			Remaining: count.Remaining,
		}
	}

	return stats, nil
}

func (r *CreditRepository) Unassign(ctx context.Context, codeID string) (domain.Code, error) {
	code, err := r.dao.Unassign(ctx, codeID)
	if err != nil {
		return domain.Code{}, err
	}

	return codeDaoToDomain(code), nil
}

func (r *CreditRepository) MarkRedeemed(ctx context.Context, codeID, participantID string, redeemed bool) (domain.Code, error) {
	code, err := r.dao.MarkRedeemed(ctx, codeID, participantID, redeemed)
	if err != nil {
		return domain.Code{}, err
	}

	return codeDaoToDomain(code), nil
}

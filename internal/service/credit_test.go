package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository"
)

type fakeCreditRepo struct {
	types    map[string]domain.CreditType
	inserted map[string][]domain.CodeImport
	stats    map[string]domain.PoolStats
	nextID   int
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{
		types:    make(map[string]domain.CreditType),
		inserted: make(map[string][]domain.CodeImport),
		stats:    make(map[string]domain.PoolStats),
	}
}

func (f *fakeCreditRepo) CreateCreditType(_ context.Context, creditType domain.CreditType) (domain.CreditType, error) {
	for _, existing := range f.types {
		if existing.Name == creditType.Name {
			return domain.CreditType{}, repository.ErrCreditTypeNameExists
		}
	}
	f.nextID++
	creditType.ID = fmt.Sprintf("credit-%d", f.nextID)
	f.types[creditType.ID] = creditType

	return creditType, nil
}

func (f *fakeCreditRepo) UpdateCreditType(_ context.Context, creditType domain.CreditType) (domain.CreditType, error) {
	if _, ok := f.types[creditType.ID]; !ok {
		return domain.CreditType{}, repository.ErrCreditTypeNotFound
	}
	f.types[creditType.ID] = creditType

	return creditType, nil
}

func (f *fakeCreditRepo) GetCreditTypeByID(_ context.Context, id string) (domain.CreditType, error) {
	ct, ok := f.types[id]
	if !ok {
		return domain.CreditType{}, repository.ErrCreditTypeNotFound
	}

	return ct, nil
}

func (f *fakeCreditRepo) ListCreditTypes(_ context.Context) ([]domain.CreditType, error) {
	var out []domain.CreditType
	for _, ct := range f.types {
		out = append(out, ct)
	}

	return out, nil
}

func (f *fakeCreditRepo) ListActiveCreditTypes(_ context.Context) ([]domain.CreditType, error) {
	var out []domain.CreditType
	for _, ct := range f.types {
		if ct.IsActive {
			out = append(out, ct)
		}
	}

	return out, nil
}

func (f *fakeCreditRepo) DeleteCreditType(_ context.Context, id string) error {
	if _, ok := f.types[id]; !ok {
		return repository.ErrCreditTypeNotFound
	}
	delete(f.types, id)

	return nil
}

func (f *fakeCreditRepo) InsertCodes(_ context.Context, creditTypeID string, imports []domain.CodeImport) error {
	f.inserted[creditTypeID] = append(f.inserted[creditTypeID], imports...)

	return nil
}

func (f *fakeCreditRepo) ExistingCodeValues(_ context.Context, creditTypeID string, values []string) (map[string]bool, error) {
	pool := make(map[string]bool)
	for _, imp := range f.inserted[creditTypeID] {
		pool[imp.CodeValue] = true
	}

	existing := make(map[string]bool)
	for _, value := range values {
		if pool[value] {
			existing[value] = true
		}
	}

	return existing, nil
}

func (f *fakeCreditRepo) PoolStats(_ context.Context) (map[string]domain.PoolStats, error) {
	return f.stats, nil
}

func TestCreateCreditType_DefaultsToUniqueDistribution(t *testing.T) {
	repo := newFakeCreditRepo()
	svc := NewCreditService(repo)

	created, err := svc.CreateCreditType(context.Background(), CreateCreditTypeParams{
		CreditType: domain.CreditType{Name: "cloud-credits", DisplayName: "Cloud Credits", IsActive: true},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.DistributionUnique, created.DistributionType)
	assert.Empty(t, repo.inserted[created.ID])
}

func TestCreateCreditType_UniversalReplicatesSharedCode(t *testing.T) {
	repo := newFakeCreditRepo()
	svc := NewCreditService(repo)

	created, err := svc.CreateCreditType(context.Background(), CreateCreditTypeParams{
		CreditType: domain.CreditType{
			Name:             "swag-store",
			DisplayName:      "Swag Store",
			IsActive:         true,
			DistributionType: domain.DistributionUniversal,
		},
		UniversalCode:      " hack2026 ",
		UniversalRedeemURL: "https://swag.example.com",
		UniversalQuantity:  150,
	})
	require.NoError(t, err)

	pool := repo.inserted[created.ID]
	require.Len(t, pool, 150)
	for _, imp := range pool {
		assert.Equal(t, "HACK2026", imp.CodeValue)
		assert.Equal(t, "https://swag.example.com", imp.RedeemURL)
	}
}

func TestCreateCreditType_UniversalRequiresCodeAndQuantity(t *testing.T) {
	svc := NewCreditService(newFakeCreditRepo())

	universal := domain.CreditType{Name: "swag-store", DistributionType: domain.DistributionUniversal}

	_, err := svc.CreateCreditType(context.Background(), CreateCreditTypeParams{
		CreditType:        universal,
		UniversalQuantity: 10,
	})
	assert.ErrorIs(t, err, ErrUniversalCodeRequired)

	_, err = svc.CreateCreditType(context.Background(), CreateCreditTypeParams{
		CreditType:    universal,
		UniversalCode: "HACK2026",
	})
	assert.ErrorIs(t, err, ErrUniversalCodeRequired)
}

func TestCreateCreditType_DuplicateName(t *testing.T) {
	repo := newFakeCreditRepo()
	svc := NewCreditService(repo)

	_, err := svc.CreateCreditType(context.Background(), CreateCreditTypeParams{
		CreditType: domain.CreditType{Name: "cloud-credits"},
	})
	require.NoError(t, err)

	_, err = svc.CreateCreditType(context.Background(), CreateCreditTypeParams{
		CreditType: domain.CreditType{Name: "cloud-credits"},
	})
	assert.ErrorIs(t, err, ErrCreditTypeNameExists)
}

func TestUpdateCreditType_PinsDistributionType(t *testing.T) {
	repo := newFakeCreditRepo()
	svc := NewCreditService(repo)

	created, err := svc.CreateCreditType(context.Background(), CreateCreditTypeParams{
		CreditType: domain.CreditType{Name: "cloud-credits", DisplayName: "Cloud Credits"},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCreditType(context.Background(), domain.CreditType{
		ID:               created.ID,
		Name:             "cloud-credits",
		DisplayName:      "Cloud Credits v2",
		DistributionType: domain.DistributionUniversal,
	})
	require.NoError(t, err)

	assert.Equal(t, "Cloud Credits v2", updated.DisplayName)
	assert.Equal(t, domain.DistributionUnique, updated.DistributionType)
}

func TestImportCodes_NormalizesAndDeduplicates(t *testing.T) {
	repo := newFakeCreditRepo()
	svc := NewCreditService(repo)

	created, err := svc.CreateCreditType(context.Background(), CreateCreditTypeParams{
		CreditType: domain.CreditType{Name: "cloud-credits"},
	})
	require.NoError(t, err)

	// Seed the pool with one existing value.
	require.NoError(t, repo.InsertCodes(context.Background(), created.ID, []domain.CodeImport{{CodeValue: "ABC123"}}))

	result, err := svc.ImportCodes(context.Background(), created.ID, []domain.CodeImport{
		{CodeValue: " def456 ", RedeemURL: "https://redeem.example.com"},
		{CodeValue: "abc123"},
		{CodeValue: "DEF456"},
		{CodeValue: "   "},
		{CodeValue: "GHI789"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Skipped, 3)
	assert.Equal(t, domain.SkippedCode{CodeValue: "ABC123", Reason: "already in pool"}, result.Skipped[0])
	assert.Equal(t, domain.SkippedCode{CodeValue: "DEF456", Reason: "duplicate in batch"}, result.Skipped[1])
	assert.Equal(t, domain.SkippedCode{CodeValue: "   ", Reason: "empty code value"}, result.Skipped[2])

	pool := repo.inserted[created.ID]
	require.Len(t, pool, 3)
	assert.Equal(t, "DEF456", pool[1].CodeValue)
	assert.Equal(t, "https://redeem.example.com", pool[1].RedeemURL)
	assert.Equal(t, "GHI789", pool[2].CodeValue)
}

func TestImportCodes_UniversalPoolRejectsImport(t *testing.T) {
	repo := newFakeCreditRepo()
	svc := NewCreditService(repo)

	created, err := svc.CreateCreditType(context.Background(), CreateCreditTypeParams{
		CreditType:        domain.CreditType{Name: "swag-store", DistributionType: domain.DistributionUniversal},
		UniversalCode:     "HACK2026",
		UniversalQuantity: 10,
	})
	require.NoError(t, err)

	_, err = svc.ImportCodes(context.Background(), created.ID, []domain.CodeImport{{CodeValue: "EXTRA1"}})
	assert.ErrorIs(t, err, ErrUniversalCodeImport)
}

func TestImportCodes_UnknownCreditType(t *testing.T) {
	svc := NewCreditService(newFakeCreditRepo())

	_, err := svc.ImportCodes(context.Background(), "ghost", []domain.CodeImport{{CodeValue: "ABC123"}})
	assert.ErrorIs(t, err, ErrCreditTypeNotFound)
}

func TestListCreditTypes_MergesPoolStats(t *testing.T) {
	repo := newFakeCreditRepo()
	svc := NewCreditService(repo)

	created, err := svc.CreateCreditType(context.Background(), CreateCreditTypeParams{
		CreditType: domain.CreditType{Name: "cloud-credits"},
	})
	require.NoError(t, err)
	repo.stats[created.ID] = domain.PoolStats{Total: 100, Assigned: 40, Remaining: 60}

	overviews, err := svc.ListCreditTypes(context.Background())
	require.NoError(t, err)

	require.Len(t, overviews, 1)
	assert.Equal(t, created.ID, overviews[0].CreditType.ID)
	assert.Equal(t, domain.PoolStats{Total: 100, Assigned: 40, Remaining: 60}, overviews[0].Stats)
}

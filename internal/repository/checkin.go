package repository

import (
	"context"

	"github.com/pebble-tech/cursor-my-hackathon/internal/domain"
	"github.com/pebble-tech/cursor-my-hackathon/internal/repository/dao"
)

var (
	ErrCheckinTypeNotFound   = dao.ErrCheckinTypeNotFound
	ErrCheckinTypeNameExists = dao.ErrCheckinTypeNameExists
	ErrAlreadyCheckedIn      = dao.ErrAlreadyCheckedIn
	ErrCheckinRecordNotFound = dao.ErrCheckinRecordNotFound
)

type CheckinDAO interface {
	InsertCheckinType(ctx context.Context, checkinType dao.CheckinType) (dao.CheckinType, error)
	UpdateCheckinType(ctx context.Context, checkinType dao.CheckinType) (dao.CheckinType, error)
	FindCheckinTypeByID(ctx context.Context, id string) (dao.CheckinType, error)
	ListCheckinTypes(ctx context.Context) ([]dao.CheckinType, error)
	ListActiveCheckinTypes(ctx context.Context) ([]dao.CheckinType, error)
	InsertRecord(ctx context.Context, record dao.CheckinRecord) (dao.CheckinRecord, error)
	FindRecord(ctx context.Context, checkinTypeID, participantID string) (dao.CheckinRecord, error)
	ListRecordsByParticipant(ctx context.Context, participantID string) ([]dao.CheckinRecord, error)
	RecentByActor(ctx context.Context, actorID string, limit int) ([]dao.RecentScanRow, error)
}

type CheckinRepository struct {
	dao CheckinDAO
}

func NewCheckinRepository(dao CheckinDAO) *CheckinRepository {
	return &CheckinRepository{
		dao: dao,
	}
}

func checkinTypeDaoToDomain(ct dao.CheckinType) domain.CheckinType {
	return domain.CheckinType{
		ID:           ct.ID,
		Name:         ct.Name,
		Category:     domain.CheckinCategory(ct.Category),
		Description:  ct.Description,
		DisplayOrder: ct.DisplayOrder,
		IsActive:     ct.IsActive,
		CreatedAt:    ct.CreatedAt,
		UpdatedAt:    ct.UpdatedAt,
	}
}

func checkinTypeDomainToDao(ct domain.CheckinType) dao.CheckinType {
	return dao.CheckinType{
		ID:           ct.ID,
		Name:         ct.Name,
		Category:     string(ct.Category),
		Description:  ct.Description,
		DisplayOrder: ct.DisplayOrder,
		IsActive:     ct.IsActive,
		CreatedAt:    ct.CreatedAt,
		UpdatedAt:    ct.UpdatedAt,
	}
}

func checkinRecordDaoToDomain(record dao.CheckinRecord) domain.CheckinRecord {
	return domain.CheckinRecord{
		ID:            record.ID,
		CheckinTypeID: record.CheckinTypeID,
		ParticipantID: record.ParticipantID,
		CheckedInBy:   record.CheckedInBy,
		CheckedInAt:   record.CheckedInAt,
	}
}

func (r *CheckinRepository) CreateCheckinType(ctx context.Context, checkinType domain.CheckinType) (domain.CheckinType, error) {
	created, err := r.dao.InsertCheckinType(ctx, checkinTypeDomainToDao(checkinType))
	if err != nil {
		return domain.CheckinType{}, err
	}

	return checkinTypeDaoToDomain(created), nil
}

func (r *CheckinRepository) UpdateCheckinType(ctx context.Context, checkinType domain.CheckinType) (domain.CheckinType, error) {
	updated, err := r.dao.UpdateCheckinType(ctx, checkinTypeDomainToDao(checkinType))
	if err != nil {
		return domain.CheckinType{}, err
	}

	return checkinTypeDaoToDomain(updated), nil
}

func (r *CheckinRepository) GetCheckinTypeByID(ctx context.Context, id string) (domain.CheckinType, error) {
	checkinType, err := r.dao.FindCheckinTypeByID(ctx, id)
	if err != nil {
		return domain.CheckinType{}, err
	}

	return checkinTypeDaoToDomain(checkinType), nil
}

func (r *CheckinRepository) ListCheckinTypes(ctx context.Context) ([]domain.CheckinType, error) {
	checkinTypes, err := r.dao.ListCheckinTypes(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.CheckinType, len(checkinTypes))
	for i, ct := range checkinTypes {
		result[i] = checkinTypeDaoToDomain(ct)
	}

	return result, nil
}

func (r *CheckinRepository) ListActiveCheckinTypes(ctx context.Context) ([]domain.CheckinType, error) {
	checkinTypes, err := r.dao.ListActiveCheckinTypes(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]domain.CheckinType, len(checkinTypes))
	for i, ct := range checkinTypes {
		result[i] = checkinTypeDaoToDomain(ct)
	}

	return result, nil
}

func (r *CheckinRepository) CreateRecord(ctx context.Context, record domain.CheckinRecord) (domain.CheckinRecord, error) {
	created, err := r.dao.InsertRecord(ctx, dao.CheckinRecord{
		CheckinTypeID: record.CheckinTypeID,
		ParticipantID: record.ParticipantID,
		CheckedInBy:   record.CheckedInBy,
		CheckedInAt:   record.CheckedInAt,
	})
	if err != nil {
		return domain.CheckinRecord{}, err
	}

	return checkinRecordDaoToDomain(created), nil
}

func (r *CheckinRepository) GetRecord(ctx context.Context, checkinTypeID, participantID string) (domain.CheckinRecord, error) {
	record, err := r.dao.FindRecord(ctx, checkinTypeID, participantID)
	if err != nil {
		return domain.CheckinRecord{}, err
	}

	return checkinRecordDaoToDomain(record), nil
}

func (r *CheckinRepository) ListRecordsByParticipant(ctx context.Context, participantID string) ([]domain.CheckinRecord, error) {
	records, err := r.dao.ListRecordsByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.CheckinRecord, len(records))
	for i, record := range records {
		result[i] = checkinRecordDaoToDomain(record)
	}

	return result, nil
}

func (r *CheckinRepository) RecentByActor(ctx context.Context, actorID string, limit int) ([]domain.RecentScan, error) {
	rows, err := r.dao.RecentByActor(ctx, actorID, limit)
	if err != nil {
		return nil, err
	}

	scans := make([]domain.RecentScan, len(rows))
	for i, row := range rows {
		scans[i] = domain.RecentScan{
			ParticipantID:   row.ParticipantID,
			ParticipantName: row.ParticipantName,
			ParticipantType: row.ParticipantType,
			CheckinTypeID:   row.CheckinTypeID,
			CheckinTypeName: row.CheckinTypeName,
			CheckedInAt:     row.CheckedInAt,
		}
	}

	return scans, nil
}

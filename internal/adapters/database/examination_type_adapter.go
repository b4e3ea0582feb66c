package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/zatekoja/screeningscheduler/backend/internal/domain/entities"
	"github.com/zatekoja/screeningscheduler/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/screeningscheduler/backend/pkg/errors"
)

const examinationTypesTable = "examination_types"

// ExaminationTypeAdapter implements the ExaminationTypeRepository interface on PostgreSQL
type ExaminationTypeAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewExaminationTypeAdapter creates a new examination type adapter
func NewExaminationTypeAdapter(client *postgres.Client) *ExaminationTypeAdapter {
	return &ExaminationTypeAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// List retrieves every examination type ordered by name
func (a *ExaminationTypeAdapter) List(ctx context.Context) ([]*entities.ExaminationType, error) {
	query, args, err := a.db.Select("id", "name").
		From(examinationTypesTable).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list examination types", err)
	}
	defer rows.Close()

	types := []*entities.ExaminationType{}
	for rows.Next() {
		examinationType := &entities.ExaminationType{}
		if err := rows.Scan(&examinationType.ID, &examinationType.Name); err != nil {
			return nil, apperrors.NewInternalError("failed to scan examination type", err)
		}
		types = append(types, examinationType)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate examination types", err)
	}

	return types, nil
}

// Create inserts an examination type, leaving an existing row with the same name untouched
func (a *ExaminationTypeAdapter) Create(ctx context.Context, examinationType *entities.ExaminationType) error {
	query, args, err := a.db.Insert(examinationTypesTable).
		Rows(goqu.Record{
			"id":   examinationType.ID,
			"name": examinationType.Name,
		}).
		OnConflict(goqu.DoNothing()).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create examination type", err)
	}
	return nil
}

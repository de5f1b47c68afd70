package user

import (
	"context"
	"errors"

	"go-worklog/internal/features/report"

	"go.mongodb.org/mongo-driver/mongo"
)

// ReportDirectory serves report lookups from the users collection
type ReportDirectory struct {
	Repo UserRepository
}

func NewReportDirectory(repo UserRepository) report.Directory {
	return &ReportDirectory{Repo: repo}
}

func (d *ReportDirectory) Employee(ctx context.Context, id string) (*report.Employee, error) {
	u, err := d.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, report.ErrNotFound
		}
		return nil, err
	}
	return &report.Employee{ID: u.ID.Hex(), Name: u.Name, Department: u.Department}, nil
}

func (d *ReportDirectory) EmployeesIn(ctx context.Context, department string) ([]report.Employee, error) {
	users, err := d.Repo.ListByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	out := make([]report.Employee, 0, len(users))
	for _, u := range users {
		out = append(out, report.Employee{ID: u.ID.Hex(), Name: u.Name, Department: u.Department})
	}
	return out, nil
}

package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"go-sales-tracker/internal/apperror"
	"go-sales-tracker/internal/model"
)

type ReportService interface {
	GetReport(actor model.Actor, year int) (*Report, error)
}

type Report struct {
	Year         int                 `json:"year"`
	MonthlySales [12]decimal.Decimal `json:"monthly_sales"`
	YearTotal    decimal.Decimal     `json:"year_total"`
	Commissions  []CommissionRow     `json:"commissions"`
}

// CommissionRow covers the orders a user created during the report year.
type CommissionRow struct {
	User model.UserResponse `json:"user"`
	SalesFigures
}

type reportService struct {
	sales SalesService
	users UserService
}

func NewReportService(sales SalesService, users UserService) ReportService {
	return &reportService{sales: sales, users: users}
}

func (s *reportService) GetReport(actor model.Actor, year int) (*Report, error) {
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("year %d: %w", year, apperror.ErrInvalidArgument)
	}

	monthly, err := s.sales.MonthlySales(scopeFor(actor), year)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, m := range monthly {
		total = total.Add(m)
	}

	users, err := s.users.ListUsers(actor)
	if err != nil {
		return nil, err
	}
	yearRange := model.DateRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 23, 59, 59, 999999999, time.UTC),
	}
	rows := make([]CommissionRow, 0, len(users))
	for _, u := range users {
		f, err := s.sales.UserCommission(u.ID, yearRange)
		if err != nil {
			return nil, err
		}
		rows = append(rows, CommissionRow{User: u, SalesFigures: f})
	}

	return &Report{Year: year, MonthlySales: monthly, YearTotal: total, Commissions: rows}, nil
}

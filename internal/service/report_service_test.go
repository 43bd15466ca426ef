package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sales-tracker/internal/apperror"
)

func TestGetReportScopesByRole(t *testing.T) {
	f := newFixture(t)
	march := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	f.addOrder(f.collab.UserID, f.c1.ID, march, 2, "50", "10")
	f.addOrder(f.otherAgent.UserID, f.c2.ID, march, 1, "300", "5")
	f.addOrder(f.agent.UserID, f.c1.ID, time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC), 1, "999", "10")

	reports := NewReportService(f.sales, f.users)

	r, err := reports.GetReport(f.agent, 2024)
	require.NoError(t, err)
	assert.Equal(t, "100.00", r.MonthlySales[time.March-1].StringFixed(2))
	assert.Equal(t, "100.00", r.YearTotal.StringFixed(2))
	require.Len(t, r.Commissions, 2)
	assert.Equal(t, f.agent.UserID, r.Commissions[0].User.ID)
	assert.True(t, r.Commissions[0].TotalSales.IsZero())
	assert.Equal(t, f.collab.UserID, r.Commissions[1].User.ID)
	assert.Equal(t, "10.00", r.Commissions[1].TotalCommission.StringFixed(2))

	r, err = reports.GetReport(f.admin, 2024)
	require.NoError(t, err)
	assert.Equal(t, "400.00", r.YearTotal.StringFixed(2))
	assert.Len(t, r.Commissions, 4)

	r, err = reports.GetReport(f.collab, 2023)
	require.NoError(t, err)
	assert.True(t, r.YearTotal.IsZero())
	require.Len(t, r.Commissions, 1)

	_, err = reports.GetReport(f.admin, 0)
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestGetReportBucketsInUTC(t *testing.T) {
	f := newFixture(t)
	rome := time.FixedZone("CET", 60*60)
	// 2023-12-31 23:30 UTC
	f.addOrder(f.collab.UserID, f.c1.ID, time.Date(2024, time.January, 1, 0, 30, 0, 0, rome), 1, "100", "10")
	// 2024-02-01 00:30 UTC
	f.addOrder(f.collab.UserID, f.c1.ID, time.Date(2024, time.January, 31, 19, 30, 0, 0, time.FixedZone("EST", -5*60*60)), 1, "40", "10")

	reports := NewReportService(f.sales, f.users)
	r, err := reports.GetReport(f.collab, 2024)
	require.NoError(t, err)
	require.Len(t, r.Commissions, 1)

	assert.True(t, r.MonthlySales[time.January-1].IsZero())
	assert.Equal(t, "40.00", r.MonthlySales[time.February-1].StringFixed(2))
	assert.Equal(t, r.YearTotal.StringFixed(2), r.Commissions[0].TotalSales.StringFixed(2))

	r, err = reports.GetReport(f.collab, 2023)
	require.NoError(t, err)
	assert.Equal(t, "100.00", r.MonthlySales[time.December-1].StringFixed(2))
	assert.Equal(t, "100.00", r.Commissions[0].TotalSales.StringFixed(2))
}

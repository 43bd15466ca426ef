package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sales-tracker/internal/apperror"
)

func TestDashboard_ScopedToActor(t *testing.T) {
	f := newFixture(t)
	clock := func() time.Time { return testNow }
	dash := NewDashboardService(f.sales, f.access, f.orders, f.users, clock)

	for i := 0; i < 6; i++ {
		f.addOrder(f.agent.UserID, f.c1.ID, testNow.Add(-time.Duration(i)*time.Hour), 1, "10", "10")
	}
	f.addOrder(f.collab.UserID, f.c1.ID, testNow, 1, "5", "20")
	f.addOrder(f.otherAgent.UserID, f.c2.ID, testNow, 1, "1000", "0")

	d, err := dash.GetDashboard(f.agent)
	require.NoError(t, err)
	assert.Equal(t, "2024-03", d.Month)
	assert.Equal(t, 7, d.OrderCount)
	assertDec(t, "65", d.MonthSales)
	assertDec(t, "7", d.Commission.TotalCommission)
	assert.Equal(t, 1, d.CustomerCount)
	assert.Equal(t, 2, d.UserCount)
	assert.Len(t, d.RecentOrders, recentOrderCount)
	assertDec(t, "65", d.MonthlySales[2])

	d, err = dash.GetDashboard(f.collab)
	require.NoError(t, err)
	assert.Equal(t, 1, d.OrderCount)
	assertDec(t, "5", d.MonthlySales[2])
	assert.Equal(t, 1, d.CustomerCount)
}

func TestReport_CommissionRows(t *testing.T) {
	f := newFixture(t)
	reports := NewReportService(f.sales, f.users)
	f.addOrder(f.agent.UserID, f.c1.ID, testNow, 2, "50", "10")
	f.addOrder(f.collab.UserID, f.c1.ID, testNow, 1, "40", "25")
	f.addOrder(f.collab.UserID, f.c1.ID, testNow.AddDate(-1, 0, 0), 1, "999", "50")

	r, err := reports.GetReport(f.agent, 2024)
	require.NoError(t, err)
	assertDec(t, "140", r.YearTotal)
	require.Len(t, r.Commissions, 2)
	assert.Equal(t, "agent1", r.Commissions[0].User.Username)
	assertDec(t, "10", r.Commissions[0].TotalCommission)
	assert.Equal(t, "collab1", r.Commissions[1].User.Username)
	assertDec(t, "10", r.Commissions[1].TotalCommission)

	_, err = reports.GetReport(f.agent, 0)
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

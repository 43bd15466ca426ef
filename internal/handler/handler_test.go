package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sales-tracker/internal/handler"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
	"go-sales-tracker/internal/service"
	"go-sales-tracker/pkg/jwt"
)

var testNow = time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)

type testAPI struct {
	app   *fiber.App
	store *repository.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	clock := func() time.Time { return testNow }
	store := repository.NewStore(repository.WithClock(clock))

	mkUser := func(u model.User, password string) model.User {
		require.NoError(t, u.SetPassword(password))
		return store.Users().Create(u)
	}
	mkUser(model.User{Username: "admin", Role: model.RoleAdmin, FullName: "Administrator"}, "admin123")
	agent := mkUser(model.User{Username: "agent1", Role: model.RoleAgent, FullName: "Agent One"}, "agent123")
	mkUser(model.User{Username: "collab1", Role: model.RoleCollaborator, AgentID: &agent.ID}, "collab123")
	other := mkUser(model.User{Username: "agent2", Role: model.RoleAgent}, "agent123")

	store.Customers().Create(model.Customer{Name: "Cliente Basic SRL", AgentID: agent.ID})
	store.Customers().Create(model.Customer{Name: "Other SpA", AgentID: other.ID})
	store.Products().Create(model.Product{Name: "Prodotto Basic", Code: "PB-001", Price: decimal.RequireFromString("99.99")})

	pricing := service.NewPricingService(store)
	sales := service.NewSalesService(store, clock)
	access := service.NewAccessService(store)
	users := service.NewUserService(store.Users())
	orders := service.NewOrderService(store, pricing, sales, access, nil)
	auth := service.NewAuthService(store.Users(), jwt.NewIssuer("test-secret", time.Hour))

	app := fiber.New()
	handler.RegisterRoutes(app, handler.Handlers{
		Auth: handler.NewAuthHandler(auth),
		Dashboard: handler.NewDashboardHandler(
			service.NewDashboardService(sales, access, orders, users, clock),
			service.NewReportService(sales, users),
			sales,
			store.Generations(),
		),
		Customers: handler.NewCustomerHandler(service.NewCustomerService(store, access, sales), pricing),
		Products:  handler.NewProductHandler(service.NewProductService(store.Products())),
		Orders:    handler.NewOrderHandler(orders),
		Users:     handler.NewUserHandler(users),
	}, auth)
	return &testAPI{app: app, store: store}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (a *testAPI) login(t *testing.T, username, password string) string {
	t.Helper()
	status, body := a.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"username": username, "password": password})
	require.Equal(t, 200, status, string(body))
	var resp service.LoginResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	api := newTestAPI(t)

	status, _ := api.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"username": "agent1", "password": "nope"})
	assert.Equal(t, 401, status)

	status, _ = api.do(t, "POST", "/api/v1/auth/login", "", fiber.Map{"username": "agent1"})
	assert.Equal(t, 400, status)

	status, _ = api.do(t, "GET", "/api/v1/orders", "", nil)
	assert.Equal(t, 401, status)
}

type summaryView struct {
	Customer string
	Code     string
	Items    int
	Total    string
	Paid     string
	Balance  string
}

func TestOrderLifecycle(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(t, "admin", "admin123")
	agent := api.login(t, "agent1", "agent123")

	status, body := api.do(t, "PUT", "/api/v1/customers/1/price-list", agent, fiber.Map{"product_id": 1, "custom_price": "89.99"})
	require.Equal(t, 200, status, string(body))

	status, body = api.do(t, "POST", "/api/v1/orders", agent, fiber.Map{
		"customer_id": 1,
		"items":       []fiber.Map{{"product_id": 1, "quantity": 2, "commission_rate": "10"}},
	})
	require.Equal(t, 201, status, string(body))

	var created struct {
		Data service.OrderSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	id := created.Data.Order.ID
	require.NotZero(t, id)

	status, body = api.do(t, "POST", fmt.Sprintf("/api/v1/orders/%d/payments", id), agent, fiber.Map{"amount": "50", "payment_method": "cash"})
	require.Equal(t, 201, status, string(body))

	status, body = api.do(t, "GET", fmt.Sprintf("/api/v1/orders/%d/summary", id), agent, nil)
	require.Equal(t, 200, status, string(body))
	var summary service.OrderSummary
	require.NoError(t, json.Unmarshal(body, &summary))

	got := summaryView{
		Customer: summary.CustomerName,
		Code:     summary.Order.OrderCode,
		Items:    len(summary.Items),
		Total:    summary.Total.StringFixed(2),
		Paid:     summary.Paid.StringFixed(2),
		Balance:  summary.Balance.StringFixed(2),
	}
	want := summaryView{
		Customer: "Cliente Basic SRL",
		Code:     fmt.Sprintf("ORD-20240315-%06d", id),
		Items:    1,
		Total:    "179.98",
		Paid:     "50.00",
		Balance:  "129.98",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order summary mismatch (-want +got):\n%s", diff)
	}

	status, body = api.do(t, "GET", fmt.Sprintf("/api/v1/orders/%d/pdf", id), agent, nil)
	require.Equal(t, 200, status)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-")))

	status, _ = api.do(t, "DELETE", fmt.Sprintf("/api/v1/orders/%d", id), agent, nil)
	assert.Equal(t, 200, status)
	status, _ = api.do(t, "GET", fmt.Sprintf("/api/v1/orders/%d", id), admin, nil)
	assert.Equal(t, 404, status)
}

func TestOrderVisibility(t *testing.T) {
	api := newTestAPI(t)
	collab := api.login(t, "collab1", "collab123")
	other := api.login(t, "agent2", "agent123")

	status, body := api.do(t, "POST", "/api/v1/orders", collab, fiber.Map{
		"customer_id": 1,
		"items":       []fiber.Map{{"product_id": 1, "quantity": 1, "price": "10"}},
	})
	require.Equal(t, 201, status, string(body))

	status, _ = api.do(t, "POST", "/api/v1/orders", collab, fiber.Map{"customer_id": 2})
	assert.Equal(t, 403, status)

	status, _ = api.do(t, "GET", "/api/v1/orders/1", other, nil)
	assert.Equal(t, 403, status)

	status, body = api.do(t, "GET", "/api/v1/orders", other, nil)
	require.Equal(t, 200, status)
	var list []service.OrderListEntry
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Empty(t, list)
}

func TestRequestValidation(t *testing.T) {
	api := newTestAPI(t)
	admin := api.login(t, "admin", "admin123")
	agent := api.login(t, "agent1", "agent123")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"zero quantity", "POST", "/api/v1/orders", agent, fiber.Map{"customer_id": 1, "items": []fiber.Map{{"product_id": 1, "quantity": 0}}}, 400},
		{"rate over 100", "POST", "/api/v1/orders", agent, fiber.Map{"customer_id": 1, "items": []fiber.Map{{"product_id": 1, "quantity": 1, "commission_rate": "101"}}}, 400},
		{"unknown product", "POST", "/api/v1/orders", agent, fiber.Map{"customer_id": 1, "items": []fiber.Map{{"product_id": 9, "quantity": 1}}}, 404},
		{"bad id", "GET", "/api/v1/orders/abc", agent, nil, 400},
		{"bad start date", "GET", "/api/v1/dashboard/commissions?start_date=03-2024", agent, nil, 400},
		{"inverted range", "GET", "/api/v1/dashboard/commissions?start_date=2024-03-10&end_date=2024-03-01", agent, nil, 400},
		{"bad year", "GET", "/api/v1/reports?year=x", agent, nil, 400},
		{"negative price", "POST", "/api/v1/products", admin, fiber.Map{"name": "X", "code": "X-1", "price": "-1"}, 400},
		{"agent cannot create products", "POST", "/api/v1/products", agent, fiber.Map{"name": "X", "code": "X-1", "price": "1"}, 403},
		{"duplicate product code", "POST", "/api/v1/products", admin, fiber.Map{"name": "Dup", "code": "PB-001", "price": "1"}, 409},
		{"cache stats admin only", "GET", "/api/v1/debug/cache", agent, nil, 403},
		{"cache stats", "GET", "/api/v1/debug/cache", admin, nil, 200},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := api.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, status, string(body))
		})
	}
}

func TestCommissionsDefaultToCurrentMonth(t *testing.T) {
	api := newTestAPI(t)
	agent := api.login(t, "agent1", "agent123")

	status, body := api.do(t, "POST", "/api/v1/orders", agent, fiber.Map{
		"customer_id": 1,
		"items":       []fiber.Map{{"product_id": 1, "quantity": 1, "price": "200", "commission_rate": "5"}},
	})
	require.Equal(t, 201, status, string(body))

	status, body = api.do(t, "GET", "/api/v1/dashboard/commissions", agent, nil)
	require.Equal(t, 200, status, string(body))
	var summary service.CommissionSummary
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, "200.00", summary.TotalSales.StringFixed(2))
	assert.Equal(t, "10.00", summary.TotalCommission.StringFixed(2))
	assert.Equal(t, 1, summary.OrderCount)
	assert.True(t, summary.StartDate.Equal(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)))
}

func TestCustomerDetail(t *testing.T) {
	api := newTestAPI(t)
	agent := api.login(t, "agent1", "agent123")
	other := api.login(t, "agent2", "agent123")

	status, body := api.do(t, "PUT", "/api/v1/customers/1/price-list", agent, fiber.Map{"product_id": 1, "custom_price": "89.99"})
	require.Equal(t, 200, status, string(body))
	status, body = api.do(t, "POST", "/api/v1/orders", agent, fiber.Map{
		"customer_id": 1,
		"items":       []fiber.Map{{"product_id": 1, "quantity": 2}},
	})
	require.Equal(t, 201, status, string(body))
	status, body = api.do(t, "POST", "/api/v1/orders/1/payments", agent, fiber.Map{"amount": "79.98"})
	require.Equal(t, 201, status, string(body))

	status, body = api.do(t, "GET", "/api/v1/customers/1", agent, nil)
	require.Equal(t, 200, status, string(body))
	var detail service.CustomerDetail
	require.NoError(t, json.Unmarshal(body, &detail))

	type orderRow struct{ Code, Total, Paid, Balance string }
	type priceRow struct{ Product, Standard, Custom string }
	gotOrders := make([]orderRow, 0, len(detail.Orders))
	for _, o := range detail.Orders {
		gotOrders = append(gotOrders, orderRow{o.OrderCode, o.Total.StringFixed(2), o.Paid.StringFixed(2), o.Balance.StringFixed(2)})
	}
	gotPrices := make([]priceRow, 0, len(detail.PriceList))
	for _, p := range detail.PriceList {
		gotPrices = append(gotPrices, priceRow{p.ProductName, p.StandardPrice.StringFixed(2), p.CustomPrice.StringFixed(2)})
	}

	assert.Equal(t, "Cliente Basic SRL", detail.Customer.Name)
	if diff := cmp.Diff([]orderRow{{"ORD-20240315-000001", "179.98", "79.98", "100.00"}}, gotOrders); diff != "" {
		t.Errorf("orders mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]priceRow{{"Prodotto Basic", "99.99", "89.99"}}, gotPrices); diff != "" {
		t.Errorf("price list mismatch (-want +got):\n%s", diff)
	}

	status, _ = api.do(t, "GET", "/api/v1/customers/1", other, nil)
	assert.Equal(t, 403, status)
	status, _ = api.do(t, "GET", "/api/v1/customers/42", agent, nil)
	assert.Equal(t, 404, status)
}

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sales-tracker/internal/model"
)

func TestAccess_Customer(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		actor model.Actor
		c1    bool
		c2    bool
	}{
		{"admin", f.admin, true, true},
		{"agent", f.agent, true, false},
		{"collaborator follows agent", f.collab, true, false},
		{"other agent", f.otherAgent, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.c1, f.access.CanViewCustomer(tt.actor, f.c1.ID))
			assert.Equal(t, tt.c2, f.access.CanViewCustomer(tt.actor, f.c2.ID))
			assert.False(t, f.access.CanViewCustomer(tt.actor, 404))
		})
	}
}

func TestAccess_OrderCreatorAlwaysSees(t *testing.T) {
	f := newFixture(t)
	// Collaborator created an order for a customer outside their agent.
	o := f.addOrder(f.collab.UserID, f.c2.ID, testNow, 1, "1", "0")

	assert.True(t, f.access.CanViewOrder(f.collab, o.ID))
	assert.True(t, f.access.CanViewOrder(f.otherAgent, o.ID))
	assert.False(t, f.access.CanViewOrder(f.agent, o.ID))
	assert.True(t, f.access.CanViewOrder(f.admin, o.ID))
	assert.False(t, f.access.CanViewOrder(f.admin, 404))

	// Reassigning the customer flips the answer on the next read.
	c := f.c2
	c.AgentID = f.agent.UserID
	_, err := f.store.Customers().Update(c)
	require.NoError(t, err)
	assert.True(t, f.access.CanViewOrder(f.agent, o.ID))
	assert.False(t, f.access.CanViewOrder(f.otherAgent, o.ID))
}

func TestAccess_VisibleCustomers(t *testing.T) {
	f := newFixture(t)

	all, err := f.access.VisibleCustomers(f.admin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := f.access.VisibleCustomers(f.collab)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, f.c1.ID, mine[0].ID)

	_, err = f.access.VisibleCustomers(model.Actor{Role: "guest"})
	assert.Error(t, err)
}

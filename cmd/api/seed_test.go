package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-sales-tracker/internal/config"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
	"go-sales-tracker/internal/service"
)

func TestSeedDemoData(t *testing.T) {
	store := repository.NewStore()
	require.NoError(t, seedDemoData(store, &config.Config{AdminPassword: "admin123"}))

	admin, ok := store.Users().FindByUsername("admin")
	require.True(t, ok)
	assert.True(t, admin.CheckPassword("admin123"))

	collab, ok := store.Users().FindByUsername("collab1")
	require.True(t, ok)
	assert.Equal(t, model.Actor{UserID: 3, Role: model.RoleCollaborator, AgentID: 2}, collab.Actor())

	pricing := service.NewPricingService(store)
	price, err := pricing.EffectivePrice(basicCustomerID, 6)
	require.NoError(t, err)
	assert.Equal(t, "89.99", price.StringFixed(2))

	price, err = pricing.EffectivePrice(basicCustomerID, 1)
	require.NoError(t, err)
	assert.Equal(t, "199.99", price.StringFixed(2))
}

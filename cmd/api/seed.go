package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"go-sales-tracker/internal/config"
	"go-sales-tracker/internal/model"
	"go-sales-tracker/internal/repository"
)

const basicCustomerID = 999

// seedDemoData loads the demo accounts, catalog and the discounted customer.
func seedDemoData(store *repository.Store, cfg *config.Config) error {
	admin := model.User{
		BaseModel: model.BaseModel{ID: 1},
		Username:  "admin",
		Email:     "admin@example.com",
		Role:      model.RoleAdmin,
		FullName:  "Administrator",
	}
	if cfg.AdminPasswordHash != "" {
		admin.Password = cfg.AdminPasswordHash
	} else if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	agent := model.User{
		BaseModel: model.BaseModel{ID: 2},
		Username:  "agent1",
		Email:     "agent1@example.com",
		Role:      model.RoleAgent,
		FullName:  "Main Agent",
	}
	if err := agent.SetPassword("agent123"); err != nil {
		return fmt.Errorf("hash agent password: %w", err)
	}

	agentID := agent.ID
	collab := model.User{
		BaseModel: model.BaseModel{ID: 3},
		Username:  "collab1",
		Email:     "collab1@example.com",
		Role:      model.RoleCollaborator,
		FullName:  "First Collaborator",
		AgentID:   &agentID,
	}
	if err := collab.SetPassword("collab123"); err != nil {
		return fmt.Errorf("hash collaborator password: %w", err)
	}

	for _, u := range []model.User{admin, agent, collab} {
		if _, err := store.Users().Register(u); err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
	}

	products := []model.Product{
		{Name: "Office Chair", Code: "FURN-001", Description: "Ergonomic office chair", Price: decimal.RequireFromString("199.99"), Unit: "piece", Category: "Furniture"},
		{Name: "Office Desk", Code: "FURN-002", Description: "Modern office desk", Price: decimal.RequireFromString("299.99"), Unit: "piece", Category: "Furniture"},
		{Name: "Laptop", Code: "TECH-001", Description: "15.6 inch business laptop", Price: decimal.RequireFromString("999.99"), Unit: "piece", Category: "Technology"},
		{Name: "Monitor", Code: "TECH-002", Description: "24 inch LED monitor", Price: decimal.RequireFromString("249.99"), Unit: "piece", Category: "Technology"},
		{Name: "Printer", Code: "TECH-003", Description: "Color laser printer", Price: decimal.RequireFromString("399.99"), Unit: "piece", Category: "Technology"},
		{Name: "Prodotto Basic", Code: "BASIC-001", Description: "Prodotto base per clienti standard", Price: decimal.RequireFromString("99.99"), Unit: "pezzo", Category: "Base"},
	}
	var basicProduct model.Product
	for _, p := range products {
		basicProduct = store.Products().Create(p)
	}

	customer := store.Customers().Create(model.Customer{
		BaseModel:     model.BaseModel{ID: basicCustomerID},
		Name:          "Cliente Basic SRL",
		VATNumber:     "IT12345678901",
		Address:       "Via Roma 123",
		City:          "Milano",
		ZipCode:       "20100",
		Country:       "Italia",
		ContactPerson: "Mario Rossi",
		Email:         "info@clientebasic.it",
		Phone:         "+39 02 1234567",
		AgentID:       agent.ID,
	})
	store.PriceLists().Create(model.PriceList{
		CustomerID:  customer.ID,
		ProductID:   basicProduct.ID,
		CustomPrice: decimal.RequireFromString("89.99"),
	})

	log.Info().Int("products", len(products)).Uint("customer_id", customer.ID).Msg("demo data seeded")
	return nil
}

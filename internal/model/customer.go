package model

type Customer struct {
	BaseModel
	Name          string `json:"name" validate:"required"`
	VATNumber     string `json:"vat_number" validate:"required"`
	Address       string `json:"address"`
	City          string `json:"city"`
	ZipCode       string `json:"zip_code"`
	Country       string `json:"country"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	AgentID       uint   `json:"agent_id" validate:"required"`
}

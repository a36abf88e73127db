package requests

import (
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/catalogue/app/models"
)

type SubmitEnquiry struct {
	Name      string  `json:"name"       validate:"required,max=255"`
	Email     string  `json:"email"      validate:"required,email,max=255"`
	Phone     *string `json:"phone"      validate:"nullable,max=50"`
	Company   *string `json:"company"    validate:"nullable,max=255"`
	ProductID *string `json:"product_id" validate:"nullable,uuid"`
	Message   string  `json:"message"    validate:"required,max=5000"`
}

func (r *SubmitEnquiry) Model() *models.Enquiry {
	e := &models.Enquiry{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:   nonBlank(r.Phone),
		Company: nonBlank(r.Company),
		Message: strings.TrimSpace(r.Message),
	}
	if p := nonBlank(r.ProductID); p != nil {
		if id, err := uuid.Parse(*p); err == nil {
			e.ProductID = &id
		}
	}
	return e
}

type SubmitContact struct {
	Name    string  `json:"name"    validate:"required,max=255"`
	Email   string  `json:"email"   validate:"required,email,max=255"`
	Phone   *string `json:"phone"   validate:"nullable,max=50"`
	Subject *string `json:"subject" validate:"nullable,max=255"`
	Message string  `json:"message" validate:"required,max=5000"`
}

func (r *SubmitContact) Model() *models.Contact {
	return &models.Contact{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:   nonBlank(r.Phone),
		Subject: nonBlank(r.Subject),
		Message: strings.TrimSpace(r.Message),
	}
}

type Login struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type CreateAdminUser struct {
	Name     string `json:"name"     validate:"required,max=255"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"required,in=admin,editor"`
}

func nonBlank(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

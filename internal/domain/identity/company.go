package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paydesk/backend/internal/domain/shared"
)

// Address is a postal address embedded in the company record
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

// BankAccount is a company bank account used for payment instructions
type BankAccount struct {
	BankName      string `json:"bank_name"`
	AccountNumber string `json:"account_number"`
	AccountHolder string `json:"account_holder"`
	Branch        string `json:"branch,omitempty"`
	IsDefault     bool   `json:"is_default"`
}

// CompanySettings holds per-company configuration
type CompanySettings struct {
	DefaultCurrency string `json:"default_currency"`
	PaymentTermDays int    `json:"payment_term_days"`
	NotifyByEmail   bool   `json:"notify_by_email"`
	NotifyInApp     bool   `json:"notify_in_app"`
}

// DefaultCompanySettings returns settings applied to new companies
func DefaultCompanySettings() CompanySettings {
	return CompanySettings{
		DefaultCurrency: "VND",
		PaymentTermDays: 30,
		NotifyByEmail:   true,
		NotifyInApp:     true,
	}
}

// Company is the tenant unit. Every user and every business document
// belongs to exactly one company.
type Company struct {
	shared.BaseAggregateRoot
	Name         string `gorm:"not null;size:255"`
	TaxCode      string `gorm:"uniqueIndex;not null;size:50"`
	Address      Address `gorm:"serializer:json;type:text"`
	ContactEmail string  `gorm:"not null;size:255"`
	ContactPhone string  `gorm:"size:30"`
	Website      string  `gorm:"size:255"`
	Industry     string  `gorm:"size:100"`
	BankAccounts []BankAccount   `gorm:"serializer:json;type:text"`
	Settings     CompanySettings `gorm:"serializer:json;type:text"`
}

// Company domain errors
var (
	ErrCompanyNameRequired = shared.NewDomainError("VALIDATION_ERROR", "Company name is required")
	ErrTaxCodeRequired     = shared.NewDomainError("VALIDATION_ERROR", "Company tax code is required")
	ErrDuplicateTaxCode    = shared.NewDomainError("ALREADY_EXISTS", "Company with this tax code already exists")
)

// NewCompany registers a company
func NewCompany(name, taxCode, contactEmail string, address Address) (*Company, error) {
	name = strings.TrimSpace(name)
	taxCode = strings.TrimSpace(taxCode)
	if name == "" {
		return nil, ErrCompanyNameRequired
	}
	if taxCode == "" {
		return nil, ErrTaxCodeRequired
	}
	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		TaxCode:           taxCode,
		ContactEmail:      strings.ToLower(strings.TrimSpace(contactEmail)),
		Address:           address,
		Settings:          DefaultCompanySettings(),
	}, nil
}

// UpdateDetails updates the company profile fields
func (c *Company) UpdateDetails(name, contactEmail, contactPhone, website, industry string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrCompanyNameRequired
	}
	c.Name = name
	c.ContactEmail = strings.ToLower(strings.TrimSpace(contactEmail))
	c.ContactPhone = strings.TrimSpace(contactPhone)
	c.Website = strings.TrimSpace(website)
	c.Industry = strings.TrimSpace(industry)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// AddBankAccount registers a bank account. The first account, or an
// account flagged as default, becomes the default one.
func (c *Company) AddBankAccount(account BankAccount) {
	if account.IsDefault || len(c.BankAccounts) == 0 {
		for i := range c.BankAccounts {
			c.BankAccounts[i].IsDefault = false
		}
		account.IsDefault = true
	}
	c.BankAccounts = append(c.BankAccounts, account)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
}

// Department is an organizational unit within a company
type Department struct {
	shared.BaseAggregateRoot
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name        string     `gorm:"not null;size:255"`
	Description string     `gorm:"size:500"`
	ManagerID   *uuid.UUID `gorm:"type:uuid"`
}

// ErrDepartmentNameRequired is returned when a department has no name
var ErrDepartmentNameRequired = shared.NewDomainError("VALIDATION_ERROR", "Department name is required")

// NewDepartment creates a department within a company
func NewDepartment(companyID uuid.UUID, name, description string) (*Department, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrDepartmentNameRequired
	}
	return &Department{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CompanyID:         companyID,
		Name:              name,
		Description:       strings.TrimSpace(description),
	}, nil
}

// AssignManager sets the department manager
func (d *Department) AssignManager(userID uuid.UUID) {
	d.ManagerID = &userID
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

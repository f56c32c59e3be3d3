package model

import "github.com/shopspring/decimal"

// Settings is the device-local configuration blob: branding, theme and fiscal
// profile. It is persisted as a single JSON document, read once at startup and
// written back on every settings change. There is no migration/versioning -
// missing fields fall back to DefaultSettings values on load.
type Settings struct {
	CompanyName  string          `json:"companyName"`
	TaxID        string          `json:"taxId"`
	LogoDataURI  string          `json:"logoDataUri,omitempty"`
	Currency     string          `json:"currency"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	BusinessType string          `json:"businessType"` // restaurant | retail
	Theme        ThemeSettings   `json:"theme"`
}

// ThemeSettings holds the display colors consumed by the UI and the branded
// receipt header.
type ThemeSettings struct {
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	AccentColor    string `json:"accentColor"`
}

// DefaultSettings returns the out-of-the-box profile used until the operator
// saves their own.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:  "POS Morales",
		Currency:     "PYG",
		TaxRate:      decimal.NewFromInt(10),
		BusinessType: "restaurant",
		Theme: ThemeSettings{
			PrimaryColor:   "#1e3a8a",
			SecondaryColor: "#f59e0b",
			AccentColor:    "#10b981",
		},
	}
}

package domain

// TenantSettings holds the branding and locale of the current tenant.
type TenantSettings struct {
	CompanyName    string `json:"company_name" validate:"required,max=255"`
	Timezone       string `json:"timezone" validate:"required,timezone"`
	PrimaryColor   string `json:"primary_color" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondary_color" validate:"omitempty,hexcolor"`
}

// PublicTenant is the unauthenticated subset shown before login.
type PublicTenant struct {
	CompanyName    string `json:"company_name"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
}

package domain

// BusinessProfile describes the operator's company. It is loaded once and never mutated.
type BusinessProfile struct {
	CompanyName string   `json:"company_name" mapstructure:"company_name"`
	Tagline     string   `json:"tagline" mapstructure:"tagline"`
	Services    []string `json:"services" mapstructure:"services"`
	Email       string   `json:"email" mapstructure:"email"`
	Phone       string   `json:"phone" mapstructure:"phone"`
	WhatsApp    string   `json:"whatsapp" mapstructure:"whatsapp"`
	Location    string   `json:"location" mapstructure:"location"`
	About       string   `json:"about" mapstructure:"about"`
	PricingInfo string   `json:"pricing_info" mapstructure:"pricing_info"`
}

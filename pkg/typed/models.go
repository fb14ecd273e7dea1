package typed

import "github.com/aretw0/herbcat/pkg/core"

// Hero is the banner section.
type Hero struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Image    string `json:"image,omitempty"`
}

// Details holds the long-form product copy.
type Details struct {
	Overview string `json:"overview"`
}

// Package is one purchasable bundle of the price table.
type Package struct {
	Title    string     `json:"title"`
	Price    core.Money `json:"price"`
	Save     core.Money `json:"save,omitempty"`
	Features []string   `json:"features,omitempty"`
}

// Pricing is the pricing section.
type Pricing struct {
	Title    string    `json:"title,omitempty"`
	Packages []Package `json:"packages"`
}

// FAQItem is a single question.
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQ is the questions section with its call to action.
type FAQ struct {
	Title string    `json:"title"`
	CTA   string    `json:"cta,omitempty"`
	Items []FAQItem `json:"items,omitempty"`
}

// Page bundles the sections most product pages render. Sections a catalog
// does not define stay zero.
type Page struct {
	Hero    Hero    `json:"hero"`
	Details Details `json:"details"`
	Pricing Pricing `json:"pricing"`
	FAQ     FAQ     `json:"faq"`
}

// GetPage resolves key in loc and decodes it as a Page.
func GetPage(r Resolver, key core.ProductKey, loc core.Locale) (Page, error) {
	return Decode[Page](r.Resolve(key, loc))
}

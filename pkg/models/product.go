package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Slug        string          `json:"slug"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Images      []string        `json:"images"`
	Video       string          `json:"video,omitempty"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating"`
	Tags        []string        `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (p Product) HasImages() bool {
	return len(p.Images) > 0
}

type Category struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Settings is the flat site configuration edited from the back office.
type Settings struct {
	SiteTitle     string `json:"siteTitle"`
	Currency      string `json:"currency"`
	Theme         string `json:"theme"`
	Locale        string `json:"locale"`
	ContactEmail  string `json:"contactEmail"`
	ContactPhone  string `json:"contactPhone"`
	Address       string `json:"address"`
	Description   string `json:"description"`
	AdminName     string `json:"adminName"`
	AdminPassword string `json:"adminPassword"`
}

var whitespace = regexp.MustCompile(`\s+`)

// Slugify lowercases s and joins whitespace runs with dashes.
func Slugify(s string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-")
}

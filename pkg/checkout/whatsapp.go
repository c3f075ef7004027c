package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/example/tweenshop/pkg/models"
	"github.com/shopspring/decimal"
)

// DefaultAdminPhone is used when the settings carry no contact phone. Like
// any configured number it is reduced to its digits.
const DefaultAdminPhone = "221XXXXXXXXX"

var ErrPhoneRequired = errors.New("customer phone number is required")

var nonDigits = regexp.MustCompile(`\D`)

// ImageLookup returns the image URLs of a product, or nil when unknown.
type ImageLookup func(productID string) []string

// WhatsAppLink builds the wa.me deep link that sends the cart to the shop
// owner as a chat message.
func WhatsAppLink(items []models.CartItem, images ImageLookup, adminPhone, customerPhone string) (string, error) {
	customerPhone = strings.TrimSpace(customerPhone)
	if customerPhone == "" {
		return "", ErrPhoneRequired
	}
	if strings.TrimSpace(adminPhone) == "" {
		adminPhone = DefaultAdminPhone
	}
	adminPhone = nonDigits.ReplaceAllString(adminPhone, "")

	lines := make([]string, 0, len(items))
	total := decimal.Zero
	for _, it := range items {
		var urls []string
		if images != nil {
			urls = images(it.ProductID)
		}
		total = total.Add(it.Subtotal())
		lines = append(lines, fmt.Sprintf("%s (x%d) - %s €\nImages: %s",
			it.Title, it.Quantity, it.Subtotal().String(), strings.Join(urls, "\n")))
	}

	msg := fmt.Sprintf("Bonjour, je souhaite commander :\n\n%s\n\nTotal: %s €\nMon numéro: %s",
		strings.Join(lines, "\n\n"), total.StringFixed(2), customerPhone)

	// wa.me expects %20 rather than + for spaces.
	text := strings.ReplaceAll(url.QueryEscape(msg), "+", "%20")
	return "https://wa.me/" + adminPhone + "?text=" + text, nil
}

package sender

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

const OrderConfirmationSubject = "Your order summary and estimated delivery date"

var orderConfirmationTmpl = template.Must(template.ParseFS(templateFS, "templates/order_confirmation.html"))

// OrderConfirmation is the data rendered into the order confirmation email.
type OrderConfirmation struct {
	OrderID            string
	OrderDate          string
	ShippingName       string
	ShippingStreet     string
	ShippingCity       string
	ShippingState      string
	ShippingPostalCode string
}

func (o OrderConfirmation) Params() map[string]string {
	return map[string]string{
		"orderDate":                 o.OrderDate,
		"orderId":                   o.OrderID,
		"shippingAddressName":       o.ShippingName,
		"shippingAddressStreet":     o.ShippingStreet,
		"shippingAddressCity":       o.ShippingCity,
		"shippingAddressState":      o.ShippingState,
		"shippingAddressPostalCode": o.ShippingPostalCode,
	}
}

// NewOrderConfirmationEmail renders the confirmation for one recipient.
func NewOrderConfirmationEmail(to Recipient, data OrderConfirmation) (Email, error) {
	var buf bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&buf, data); err != nil {
		return Email{}, fmt.Errorf("template render failed: %w", err)
	}
	return Email{
		To:       to,
		Subject:  OrderConfirmationSubject,
		HTMLBody: buf.String(),
		Params:   data.Params(),
	}, nil
}

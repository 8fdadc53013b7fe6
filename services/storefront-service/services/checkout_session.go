package services

import (
	"encoding/json"
	"strings"

	"github.com/caseforge/storefront/services/storefront-service/models"
)

// checkoutSession is the subset of a Stripe checkout session object the
// fulfillment flow reads.
type checkoutSession struct {
	ID                   string                `json:"id"`
	AmountTotal          int64                 `json:"amount_total"`
	CustomerDetails      *sessionCustomer      `json:"customer_details"`
	ShippingDetails      *sessionShipping      `json:"shipping_details"`
	CollectedInformation *sessionCollectedInfo `json:"collected_information"`
	Metadata             map[string]string     `json:"metadata"`
}

type sessionCustomer struct {
	Email   string          `json:"email"`
	Name    string          `json:"name"`
	Phone   string          `json:"phone"`
	Address *sessionAddress `json:"address"`
}

type sessionShipping struct {
	Name    string          `json:"name"`
	Address *sessionAddress `json:"address"`
}

// Newer API versions report shipping under collected_information.
type sessionCollectedInfo struct {
	ShippingDetails *sessionShipping `json:"shipping_details"`
}

type sessionAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// paidCheckout is a validated checkout.session.completed payload.
type paidCheckout struct {
	SessionID string
	Email     string
	UserID    string
	OrderID   string
	Shipping  models.Address
	Billing   models.Address
}

func parseCheckoutSession(raw json.RawMessage) (*paidCheckout, error) {
	if len(raw) == 0 {
		return nil, ErrMalformedPayload
	}
	var sess checkoutSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, ErrMalformedPayload
	}

	if sess.CustomerDetails == nil || strings.TrimSpace(sess.CustomerDetails.Email) == "" {
		return nil, ErrMissingEmail
	}
	userID := strings.TrimSpace(sess.Metadata["userId"])
	if userID == "" {
		return nil, ErrMissingUserID
	}
	orderID := strings.TrimSpace(sess.Metadata["orderId"])
	if orderID == "" {
		return nil, ErrMissingOrderID
	}

	name := strings.TrimSpace(sess.CustomerDetails.Name)
	if name == "" {
		return nil, ErrMissingCustomerName
	}

	if sess.CustomerDetails.Address == nil {
		return nil, ErrMissingBillingAddress
	}
	billing, err := toAddress("billing", name, sess.CustomerDetails.Address)
	if err != nil {
		return nil, err
	}

	shippingDetails := sess.ShippingDetails
	if shippingDetails == nil && sess.CollectedInformation != nil {
		shippingDetails = sess.CollectedInformation.ShippingDetails
	}
	if shippingDetails == nil || shippingDetails.Address == nil {
		return nil, ErrMissingShippingAddress
	}
	shipping, err := toAddress("shipping", name, shippingDetails.Address)
	if err != nil {
		return nil, err
	}

	if phone := strings.TrimSpace(sess.CustomerDetails.Phone); phone != "" {
		shipping.Phone = &phone
		billing.Phone = &phone
	}

	return &paidCheckout{
		SessionID: sess.ID,
		Email:     strings.TrimSpace(sess.CustomerDetails.Email),
		UserID:    userID,
		OrderID:   orderID,
		Shipping:  shipping,
		Billing:   billing,
	}, nil
}

func toAddress(block, name string, a *sessionAddress) (models.Address, error) {
	required := []struct {
		field string
		value string
	}{
		{"line1", a.Line1},
		{"city", a.City},
		{"country", a.Country},
		{"postal_code", a.PostalCode},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return models.Address{}, &AddressFieldError{Block: block, Field: r.field}
		}
	}

	addr := models.Address{
		Name:       name,
		Street:     a.Line1,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
	if a.State != "" {
		state := a.State
		addr.State = &state
	}
	return addr, nil
}

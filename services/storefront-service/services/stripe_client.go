package services

import (
	"context"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
)

type CheckoutSessionInput struct {
	OrderID          string
	UserID           string
	CustomerEmail    string
	ProductName      string
	ImageURL         string
	Amount           int64 // in cents
	Currency         string
	SuccessURL       string
	CancelURL        string
	AllowedCountries []string
}

type CheckoutSessionResult struct {
	ID  string
	URL string
}

// PaymentGateway creates hosted checkout sessions.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSessionResult, error)
}

type StripeService struct {
	SecretKey string
}

func NewStripeService(secretKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{SecretKey: secretKey}
}

func (s *StripeService) CreateCheckoutSession(ctx context.Context, in CheckoutSessionInput) (*CheckoutSessionResult, error) {
	productData := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
		Name: stripe.String(in.ProductName),
	}
	if in.ImageURL != "" {
		productData.Images = stripe.StringSlice([]string{in.ImageURL})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(in.SuccessURL),
		CancelURL:          stripe.String(in.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:    stripe.String(in.Currency),
					UnitAmount:  stripe.Int64(in.Amount),
					ProductData: productData,
				},
				Quantity: stripe.Int64(1),
			},
		},
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(in.AllowedCountries),
		},
	}
	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
	}
	params.Context = ctx
	params.AddMetadata("userId", in.UserID)
	params.AddMetadata("orderId", in.OrderID)

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}
	return &CheckoutSessionResult{ID: sess.ID, URL: sess.URL}, nil
}

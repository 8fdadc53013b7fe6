package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a webhook fulfillment failure. The controller maps
// each kind to an HTTP response.
type ErrorKind int

const (
	KindAuthentication ErrorKind = iota + 1
	KindUnsupportedEvent
	KindValidation
	KindPersistence
	KindNotification
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindUnsupportedEvent:
		return "unsupported_event"
	case KindValidation:
		return "validation"
	case KindPersistence:
		return "persistence"
	case KindNotification:
		return "notification"
	}
	return "unknown"
}

var (
	ErrMissingSignature = errors.New("missing stripe signature header")
	ErrUnsupportedEvent = errors.New("unsupported event type")

	ErrMalformedPayload       = errors.New("malformed checkout session payload")
	ErrMissingEmail           = errors.New("missing customer email")
	ErrMissingUserID          = errors.New("missing userId metadata")
	ErrMissingOrderID         = errors.New("missing orderId metadata")
	ErrMissingCustomerName    = errors.New("missing customer name")
	ErrMissingShippingAddress = errors.New("missing shipping address")
	ErrMissingBillingAddress  = errors.New("missing billing address")
)

// AddressFieldError reports a required address field that was empty.
type AddressFieldError struct {
	Block string // "shipping" or "billing"
	Field string
}

func (e *AddressFieldError) Error() string {
	return fmt.Sprintf("%s address: missing %s", e.Block, e.Field)
}

// FulfillmentError is returned by FulfillmentService.HandleWebhook.
type FulfillmentError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *FulfillmentError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FulfillmentError) Unwrap() error {
	return e.Err
}

func newFulfillmentError(kind ErrorKind, msg string, err error) *FulfillmentError {
	return &FulfillmentError{Kind: kind, Message: msg, Err: err}
}

// KindOf returns the kind of a fulfillment error, or zero when err is not one.
func KindOf(err error) ErrorKind {
	var fe *FulfillmentError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}

package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/caseforge/storefront/services/storefront-service/models"
	"github.com/caseforge/storefront/services/storefront-service/repository"
	"github.com/caseforge/storefront/services/storefront-service/sender"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
)

// ---- mock order repository ----

type markPaidCall struct {
	orderID  string
	shipping *models.ShippingAddress
	billing  *models.BillingAddress
}

type mockOrderRepo struct {
	mu          sync.Mutex
	orders      map[string]*models.Order
	markPaid    []markPaidCall
	markPaidErr error
	created     []*models.Order
	createErr   error
	findErr     error
	paid        []models.Order
	sums        map[int]int64 // days ago -> total
	statusErr   error
	statusSet   map[string]models.OrderStatus
	amountErr   error
	amounts     []int64
}

func newMockOrderRepo(orders ...*models.Order) *mockOrderRepo {
	m := &mockOrderRepo{orders: map[string]*models.Order{}, statusSet: map[string]models.OrderStatus{}}
	for _, o := range orders {
		m.orders[o.ID] = o
	}
	return m
}

func (m *mockOrderRepo) Create(_ context.Context, o *models.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	if o.ID == "" {
		o.ID = "generated-order"
	}
	m.created = append(m.created, o)
	m.orders[o.ID] = o
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id string) (*models.Order, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return o, nil
}

func (m *mockOrderRepo) FindByUserAndConfiguration(_ context.Context, userID, configurationID string) (*models.Order, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, o := range m.orders {
		if o.UserID == userID && o.ConfigurationID == configurationID {
			return o, nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

func (m *mockOrderRepo) MarkPaid(_ context.Context, orderID string, shipping *models.ShippingAddress, billing *models.BillingAddress) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markPaid = append(m.markPaid, markPaidCall{orderID, shipping, billing})
	if m.markPaidErr != nil {
		return nil, m.markPaidErr
	}
	o, ok := m.orders[orderID]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	shipping.ID = "ship-" + orderID
	billing.ID = "bill-" + orderID
	updated := *o
	updated.IsPaid = true
	updated.ShippingAddressID = &shipping.ID
	updated.BillingAddressID = &billing.ID
	return &updated, nil
}

func (m *mockOrderRepo) ListPaid(_ context.Context) ([]models.Order, error) {
	return m.paid, m.findErr
}

func (m *mockOrderRepo) SumPaidSince(_ context.Context, since time.Time) (int64, error) {
	if m.findErr != nil {
		return 0, m.findErr
	}
	days := int(time.Since(since).Hours()/24 + 0.5)
	return m.sums[days], nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	if _, ok := m.orders[id]; !ok {
		return repository.ErrOrderNotFound
	}
	m.statusSet[id] = status
	return nil
}

func (m *mockOrderRepo) UpdateAmount(_ context.Context, id string, amount int64) error {
	if m.amountErr != nil {
		return m.amountErr
	}
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	o.Amount = amount
	m.amounts = append(m.amounts, amount)
	return nil
}

// ---- mock email sender ----

type mockEmailSender struct {
	mu    sync.Mutex
	sent  []sender.Email
	errs  []error // consumed per call; nil entries succeed
	calls int
}

func (m *mockEmailSender) SendEmail(_ context.Context, e sender.Email) (sender.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		if err != nil {
			return sender.SendResult{}, err
		}
	}
	m.sent = append(m.sent, e)
	return sender.SendResult{MessageID: "msg-1", SentAt: time.Now()}, nil
}

// ---- mock SNS publisher ----

type mockSNS struct {
	publishErr error
	topics     []string
	messages   [][]byte
}

func (m *mockSNS) Publish(_ context.Context, topicArn string, message []byte) error {
	m.topics = append(m.topics, topicArn)
	m.messages = append(m.messages, message)
	return m.publishErr
}

// ---- webhook fixtures ----

const testSigningSecret = "whsec_test_fulfillment_secret"

func janeDoeSession() map[string]interface{} {
	address := func() map[string]interface{} {
		return map[string]interface{}{
			"line1":       "221B Baker St",
			"line2":       nil,
			"city":        "London",
			"state":       nil,
			"postal_code": "NW1 6XE",
			"country":     "UK",
		}
	}
	return map[string]interface{}{
		"id":           "cs_test_123",
		"object":       "checkout.session",
		"amount_total": 1400,
		"customer_details": map[string]interface{}{
			"email":   "jane@example.com",
			"name":    "Jane Doe",
			"address": address(),
		},
		"shipping_details": map[string]interface{}{
			"name":    "Jane Doe",
			"address": address(),
		},
		"metadata": map[string]interface{}{
			"userId":  "u1",
			"orderId": "o1",
		},
	}
}

func eventPayload(t *testing.T, eventType string, object map[string]interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(map[string]interface{}{
		"id":          "evt_test_1",
		"object":      "event",
		"api_version": stripe.APIVersion,
		"type":        eventType,
		"created":     time.Now().Unix(),
		"data":        map[string]interface{}{"object": object},
	})
	require.NoError(t, err)
	return b
}

func signPayload(t *testing.T, payload []byte, secret string) ([]byte, string) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func unpaidOrder() *models.Order {
	return &models.Order{
		ID:              "o1",
		UserID:          "u1",
		ConfigurationID: "c1",
		Amount:          1400,
		Status:          models.OrderStatusAwaitingShipment,
		CreatedAt:       time.Date(2024, time.March, 14, 10, 30, 0, 0, time.UTC),
	}
}

// ---- mock configuration repository ----

type mockConfigRepo struct {
	configs   map[string]*models.Configuration
	createErr error
	findErr   error
	updateErr error
	finds     int
	updates   []*models.Configuration
}

func newMockConfigRepo(cfgs ...*models.Configuration) *mockConfigRepo {
	m := &mockConfigRepo{configs: map[string]*models.Configuration{}}
	for _, c := range cfgs {
		m.configs[c.ID] = c
	}
	return m
}

func (m *mockConfigRepo) Create(_ context.Context, c *models.Configuration) error {
	if m.createErr != nil {
		return m.createErr
	}
	if c.ID == "" {
		c.ID = "generated-config"
	}
	m.configs[c.ID] = c
	return nil
}

func (m *mockConfigRepo) FindByID(_ context.Context, id string) (*models.Configuration, error) {
	m.finds++
	if m.findErr != nil {
		return nil, m.findErr
	}
	c, ok := m.configs[id]
	if !ok {
		return nil, repository.ErrConfigurationNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *mockConfigRepo) Update(_ context.Context, c *models.Configuration) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, c)
	m.configs[c.ID] = c
	return nil
}

// ---- mock user repository ----

type mockUserRepo struct {
	ensured map[string]string
	err     error
}

func (m *mockUserRepo) Ensure(_ context.Context, id, email string) error {
	if m.err != nil {
		return m.err
	}
	if m.ensured == nil {
		m.ensured = map[string]string{}
	}
	m.ensured[id] = email
	return nil
}

// ---- mock configuration cache ----

type mockCache struct {
	items   map[string]*models.Configuration
	deleted []string
}

func newMockCache() *mockCache {
	return &mockCache{items: map[string]*models.Configuration{}}
}

func (m *mockCache) Get(_ context.Context, id string) (*models.Configuration, bool) {
	c, ok := m.items[id]
	return c, ok
}

func (m *mockCache) Set(_ context.Context, c *models.Configuration) {
	m.items[c.ID] = c
}

func (m *mockCache) Delete(_ context.Context, id string) {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
}

// ---- mock presigner ----

type mockPresigner struct {
	err         error
	key         string
	contentType string
}

func (m *mockPresigner) PresignPut(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	m.key, m.contentType = key, contentType
	if m.err != nil {
		return "", m.err
	}
	return "https://bucket.s3.amazonaws.com/" + key + "?X-Amz-Signature=abc", nil
}

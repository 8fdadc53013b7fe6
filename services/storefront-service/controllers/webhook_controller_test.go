package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/caseforge/storefront/services/storefront-service/controllers"
	"github.com/caseforge/storefront/services/storefront-service/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/webhook"
	"go.uber.org/zap"
)

// ---- mock fulfillment service ----

type mockFulfillment struct {
	event      *stripe.Event
	err        error
	gotPayload []byte
	gotSig     string
}

func (m *mockFulfillment) HandleWebhook(_ context.Context, payload []byte, signature string) (*stripe.Event, error) {
	m.gotPayload, m.gotSig = payload, signature
	return m.event, m.err
}

func setupWebhookRouter(svc services.FulfillmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	wc := controllers.NewWebhookController(svc, zap.NewNop())
	r.POST("/api/webhooks/stripe", wc.StripeWebhook)
	return r
}

func postWebhook(r *gin.Engine, body []byte, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/stripe", bytes.NewReader(body))
	if sig != "" {
		req.Header.Set("Stripe-Signature", sig)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStripeWebhook_Success(t *testing.T) {
	svc := &mockFulfillment{event: &stripe.Event{ID: "evt_1", Type: "checkout.session.completed"}}
	r := setupWebhookRouter(svc)

	w := postWebhook(r, []byte(`{"id":"evt_1"}`), "t=1,v1=abc")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"id":"evt_1"}`, string(svc.gotPayload))
	assert.Equal(t, "t=1,v1=abc", svc.gotSig)

	var body struct {
		Result  map[string]interface{} `json:"result"`
		Success bool                   `json:"success"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "evt_1", body.Result["id"])
	assert.Equal(t, "checkout.session.completed", body.Result["type"])
}

func TestStripeWebhook_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		kind     services.ErrorKind
		wantCode int
		wantBody string
		wantJSON bool
	}{
		{"authentication", services.KindAuthentication, http.StatusBadRequest, "Invalid signature", false},
		{"unsupported event", services.KindUnsupportedEvent, http.StatusInternalServerError, `{"message":"Event type is wrong","ok":false}`, true},
		{"validation", services.KindValidation, http.StatusInternalServerError, `{"message":"Something went wrong","success":false}`, true},
		{"persistence", services.KindPersistence, http.StatusInternalServerError, `{"message":"Something went wrong","success":false}`, true},
		{"notification", services.KindNotification, http.StatusInternalServerError, `{"message":"Something went wrong","success":false}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockFulfillment{err: &services.FulfillmentError{Kind: tt.kind, Err: errors.New("boom")}}
			r := setupWebhookRouter(svc)

			w := postWebhook(r, []byte(`{}`), "t=1,v1=abc")

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantJSON {
				assert.JSONEq(t, tt.wantBody, w.Body.String())
			} else {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestStripeWebhook_UnknownErrorIsGeneric(t *testing.T) {
	r := setupWebhookRouter(&mockFulfillment{err: errors.New("unexpected")})

	w := postWebhook(r, []byte(`{}`), "t=1,v1=abc")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Something went wrong","success":false}`, w.Body.String())
}

// The real service rejects unsigned and mis-signed deliveries before touching
// any collaborator.
func TestStripeWebhook_SignatureChecks(t *testing.T) {
	const secret = "whsec_controller_test"
	svc := services.NewFulfillmentService(services.FulfillmentConfig{SigningSecret: secret}, nil, nil, zap.NewNop())
	r := setupWebhookRouter(svc)

	payload := []byte(`{"id":"evt_x","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)

	w := postWebhook(r, payload, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid signature", w.Body.String())

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_wrong",
		Timestamp: time.Now(),
	})
	w = postWebhook(r, signed.Payload, signed.Header)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid signature", w.Body.String())
}

func TestStripeWebhook_UnsupportedEventThroughService(t *testing.T) {
	const secret = "whsec_controller_test"
	svc := services.NewFulfillmentService(services.FulfillmentConfig{SigningSecret: secret}, nil, nil, zap.NewNop())
	r := setupWebhookRouter(svc)

	payload := []byte(`{"id":"evt_y","object":"event","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})

	w := postWebhook(r, signed.Payload, signed.Header)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Event type is wrong","ok":false}`, w.Body.String())
}

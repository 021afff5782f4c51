package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"gitlab.com/courexa/edi-gateway/internal/kafka"
	"gitlab.com/courexa/edi-gateway/internal/lifecycle"
	"gitlab.com/courexa/edi-gateway/internal/registrar"
	"gitlab.com/courexa/edi-gateway/internal/repository"
	mock_server "gitlab.com/courexa/edi-gateway/internal/server/mocks"
)

type serverFixture struct {
	registrar *mock_server.MockRegistrar
	machine   *mock_server.MockTransitioner
	submitter *mock_server.MockSubmitter
	parcels   *mock_server.MockParcelReader
	health    *mock_server.MockPinger
	server    *Server
}

func newServerFixture(t *testing.T) *serverFixture {
	ctrl := gomock.NewController(t)

	f := &serverFixture{
		registrar: mock_server.NewMockRegistrar(ctrl),
		machine:   mock_server.NewMockTransitioner(ctrl),
		submitter: mock_server.NewMockSubmitter(ctrl),
		parcels:   mock_server.NewMockParcelReader(ctrl),
		health:    mock_server.NewMockPinger(ctrl),
	}
	f.server = New(f.registrar, f.machine, f.submitter, f.parcels, allowAllClaims{}, f.health, zap.NewNop())
	return f
}

type allowAllClaims struct{}

func (allowAllClaims) Validate(_ context.Context, token string) (*Claims, error) {
	if token == "reject-me" {
		return nil, errors.New("token rejected")
	}
	return &Claims{Subject: "partner-1"}, nil
}

func orderBody() map[string]interface{} {
	return map[string]interface{}{
		"ediReference": "ORD-2024-001",
		"sender":       map[string]interface{}{"name": "Acme Logistics"},
		"recipient":    map[string]interface{}{"name": "Jane Smith"},
		"pickupAddress": map[string]interface{}{
			"streetAddress": "1 Warehouse Way",
			"city":          "Springfield",
		},
		"deliveryAddress": map[string]interface{}{
			"streetAddress": "42 Elm St",
			"city":          "Shelbyville",
		},
		"parcelDetails": map[string]interface{}{
			"description": "Ceramic vase",
			"weight":      2.5,
		},
	}
}

func registeredParcel() *repository.Parcel {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &repository.Parcel{
		ID:           "11111111-2222-3333-4444-555555555555",
		EDIReference: "ORD-2024-001",
		Status:       string(lifecycle.StatusRegistered),
		Priority:     "STANDARD",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestHandleProcess(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(f *serverFixture)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "new order is registered",
			requestBody: orderBody(),
			setupMocks: func(f *serverFixture) {
				f.registrar.EXPECT().
					Register(gomock.Any(), gomock.Any()).
					Return(registeredParcel(), true, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"Parcel registered successfully"`,
		},
		{
			name:        "duplicate order resolves to existing parcel",
			requestBody: orderBody(),
			setupMocks: func(f *serverFixture) {
				f.registrar.EXPECT().
					Register(gomock.Any(), gomock.Any()).
					Return(registeredParcel(), false, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"Order already registered, returning existing parcel"`,
		},
		{
			name: "missing sender name is rejected before registration",
			requestBody: func() map[string]interface{} {
				body := orderBody()
				body["sender"] = map[string]interface{}{"name": ""}
				return body
			}(),
			setupMocks:     func(f *serverFixture) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"invalid order: sender.name is required"`,
		},
		{
			name:        "storage outage answers 503",
			requestBody: orderBody(),
			setupMocks: func(f *serverFixture) {
				f.registrar.EXPECT().
					Register(gomock.Any(), gomock.Any()).
					Return(nil, false, registrar.ErrStorageUnavailable)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"message":"Storage temporarily unavailable, please retry"`,
		},
		{
			name:           "malformed json is rejected",
			requestBody:    "{not json",
			setupMocks:     func(f *serverFixture) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"Invalid request body"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newServerFixture(t)
			tc.setupMocks(f)

			var body []byte
			if raw, ok := tc.requestBody.(string); ok {
				body = []byte(raw)
			} else {
				var err error
				body, err = json.Marshal(tc.requestBody)
				require.NoError(t, err)
			}
			req := httptest.NewRequest(http.MethodPost, "/edi/process", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			f.server.handleProcess(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.expectedBody)
		})
	}
}

func TestHandleSubmit(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMocks     func(f *serverFixture)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "order accepted for async processing",
			requestBody: orderBody(),
			setupMocks: func(f *serverFixture) {
				f.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(nil)
				f.submitter.EXPECT().Topic().Return("edi-orders")
			},
			expectedStatus: http.StatusAccepted,
			expectedBody:   `"status":"SUBMITTED"`,
		},
		{
			name: "invalid order is rejected before queueing",
			requestBody: func() map[string]interface{} {
				body := orderBody()
				delete(body, "ediReference")
				return body
			}(),
			setupMocks:     func(f *serverFixture) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"message":"invalid order: ediReference is required"`,
		},
		{
			name:        "broker outage points at the synchronous path",
			requestBody: orderBody(),
			setupMocks: func(f *serverFixture) {
				f.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(kafka.ErrPublish)
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `"message":"Broker unavailable, use /edi/process for synchronous intake"`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newServerFixture(t)
			tc.setupMocks(f)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)
			req := httptest.NewRequest(http.MethodPost, "/edi/submit", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			f.server.handleSubmit(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.expectedBody)
		})
	}
}

func TestHandleStatus(t *testing.T) {
	t.Run("known parcel is returned and cached", func(t *testing.T) {
		f := newServerFixture(t)
		f.parcels.EXPECT().
			GetByEDIReference(gomock.Any(), "ORD-2024-001").
			Return(registeredParcel(), nil).
			Times(1)

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodGet, "/edi/status/ORD-2024-001", nil)
			req.SetPathValue("ediReference", "ORD-2024-001")
			rr := httptest.NewRecorder()

			f.server.handleStatus(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), `"status":"REGISTERED"`)
		}
	})

	t.Run("unknown reference answers 404", func(t *testing.T) {
		f := newServerFixture(t)
		f.parcels.EXPECT().
			GetByEDIReference(gomock.Any(), "ORD-MISSING").
			Return(nil, repository.ErrParcelNotFound)

		req := httptest.NewRequest(http.MethodGet, "/edi/status/ORD-MISSING", nil)
		req.SetPathValue("ediReference", "ORD-MISSING")
		rr := httptest.NewRecorder()

		f.server.handleStatus(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "Parcel not found")
	})
}

func TestHandleTransition(t *testing.T) {
	transitionBody := map[string]interface{}{
		"status":      "IN_TRANSIT",
		"description": "departed hub",
	}

	t.Run("accepted transition invalidates the status cache", func(t *testing.T) {
		f := newServerFixture(t)
		f.server.parcelCache.Set(registeredParcel())

		ev := &repository.TrackingEvent{
			EventType:      "IN_TRANSIT",
			EventTimestamp: time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC),
		}
		f.machine.EXPECT().
			ApplyTransition(gomock.Any(), "ORD-2024-001", lifecycle.StatusInTransit, gomock.Any()).
			Return(ev, nil)

		body, err := json.Marshal(transitionBody)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/edi/parcels/ORD-2024-001/transitions", bytes.NewReader(body))
		req.SetPathValue("ediReference", "ORD-2024-001")
		rr := httptest.NewRecorder()

		f.server.handleTransition(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"IN_TRANSIT"`)

		_, cached := f.server.parcelCache.Get("ORD-2024-001")
		assert.False(t, cached)
	})

	t.Run("terminal state rejection answers 409", func(t *testing.T) {
		f := newServerFixture(t)
		f.machine.EXPECT().
			ApplyTransition(gomock.Any(), "ORD-2024-001", gomock.Any(), gomock.Any()).
			Return(nil, &lifecycle.InvalidTransitionError{
				ParcelID: "p-1",
				From:     lifecycle.StatusDelivered,
				To:       lifecycle.StatusInTransit,
				Reason:   "parcel is in a terminal state",
			})

		body, err := json.Marshal(transitionBody)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/edi/parcels/ORD-2024-001/transitions", bytes.NewReader(body))
		req.SetPathValue("ediReference", "ORD-2024-001")
		rr := httptest.NewRecorder()

		f.server.handleTransition(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Contains(t, rr.Body.String(), "terminal state")
	})

	t.Run("unknown parcel answers 404", func(t *testing.T) {
		f := newServerFixture(t)
		f.machine.EXPECT().
			ApplyTransition(gomock.Any(), "ORD-MISSING", gomock.Any(), gomock.Any()).
			Return(nil, repository.ErrParcelNotFound)

		body, err := json.Marshal(transitionBody)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPost, "/edi/parcels/ORD-MISSING/transitions", bytes.NewReader(body))
		req.SetPathValue("ediReference", "ORD-MISSING")
		rr := httptest.NewRecorder()

		f.server.handleTransition(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestHandleHealth(t *testing.T) {
	t.Run("up", func(t *testing.T) {
		f := newServerFixture(t)
		f.health.EXPECT().Ping(gomock.Any()).Return(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()

		f.server.handleHealth(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"status":"UP"}`, rr.Body.String())
	})

	t.Run("down", func(t *testing.T) {
		f := newServerFixture(t)
		f.health.EXPECT().Ping(gomock.Any()).Return(errors.New("no connection"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rr := httptest.NewRecorder()

		f.server.handleHealth(rr, req)

		assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
		assert.JSONEq(t, `{"status":"DOWN"}`, rr.Body.String())
	})
}

func TestBearerAuthMiddleware(t *testing.T) {
	f := newServerFixture(t)

	var gotClaims *Claims
	protected := f.server.bearerAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotClaims, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/edi/process", nil)
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/edi/process", nil)
		req.Header.Set("Authorization", "Bearer reject-me")
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("valid token attaches claims", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/edi/process", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rr := httptest.NewRecorder()

		protected.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, gotClaims)
		assert.Equal(t, "partner-1", gotClaims.Subject)
	})
}

package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mmynk/exsplitter/internal/auth"
	"github.com/mmynk/exsplitter/internal/metrics"
	"github.com/mmynk/exsplitter/internal/middleware"
	"github.com/mmynk/exsplitter/internal/notify"
	"github.com/mmynk/exsplitter/internal/storage/sqlite"
	"github.com/mmynk/exsplitter/pkg/api"
)

const testSecret = "service-test-secret-service-test-secret"

type testServer struct {
	trips    api.TripServiceClient
	expenses api.ExpenseServiceClient
	registry *prometheus.Registry
}

// setupTestServer creates a test server backed by a temporary SQLite database.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	jwtManager := auth.NewJWTManager(testSecret, time.Hour)
	authenticator := auth.NewPasscodeAuthenticator(store)
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	tripSvc := NewTripService(store, authenticator, jwtManager)
	tripPath, tripHandler := api.NewTripServiceHandler(tripSvc, middleware.ServerInterceptors(middleware.OptionalTripToken(jwtManager), m))

	expenseSvc := NewExpenseService(store, notify.NewBroker(), m)
	expensePath, expenseHandler := api.NewExpenseServiceHandler(expenseSvc, middleware.ServerInterceptors(middleware.RequireTripToken(jwtManager), m))

	mux := http.NewServeMux()
	mux.Handle(tripPath, tripHandler)
	mux.Handle(expensePath, expenseHandler)

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{
		trips:    api.NewTripServiceClient(http.DefaultClient, server.URL),
		expenses: api.NewExpenseServiceClient(http.DefaultClient, server.URL),
		registry: registry,
	}
}

// authed wraps msg in a request carrying the trip token.
func authed[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	return req
}

type tripFixture struct {
	tripID  string
	token   string
	members map[string]string // name -> member ID
}

// createTrip creates a trip owned by the first name and joins the rest.
func createTrip(t *testing.T, ts *testServer, currencyCode string, names ...string) *tripFixture {
	t.Helper()
	ctx := context.Background()

	resp, err := ts.trips.CreateTrip(ctx, connect.NewRequest(&api.CreateTripRequest{
		Name:        "Test trip",
		Currency:    currencyCode,
		CreatorName: names[0],
	}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	f := &tripFixture{
		tripID:  resp.Msg.Trip.ID,
		token:   resp.Msg.Token,
		members: map[string]string{names[0]: resp.Msg.Member.ID},
	}
	for _, name := range names[1:] {
		joined, err := ts.trips.JoinTrip(ctx, connect.NewRequest(&api.JoinTripRequest{
			TripID: f.tripID,
			Name:   name,
		}))
		if err != nil {
			t.Fatalf("JoinTrip(%s) failed: %v", name, err)
		}
		f.members[name] = joined.Msg.Member.ID
	}
	return f
}

func (f *tripFixture) ids(names ...string) []string {
	ids := make([]string, len(names))
	for i, name := range names {
		ids[i] = f.members[name]
	}
	return ids
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}

package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/exsplitter/pkg/api"
)

func TestCreateTrip(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	resp, err := ts.trips.CreateTrip(ctx, connect.NewRequest(&api.CreateTripRequest{
		Name:        "Kyoto 2026",
		Currency:    "jpy",
		Passcode:    "matcha",
		CreatorName: "  Aiko  ",
	}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}

	if resp.Msg.Trip.ID == "" {
		t.Error("expected trip ID to be set")
	}
	if resp.Msg.Trip.Currency != "JPY" {
		t.Errorf("expected currency JPY, got %s", resp.Msg.Trip.Currency)
	}
	if !resp.Msg.Trip.HasPasscode {
		t.Error("expected trip to have a passcode")
	}
	if resp.Msg.Member.Name != "Aiko" {
		t.Errorf("expected creator name 'Aiko', got %q", resp.Msg.Member.Name)
	}
	if resp.Msg.Member.TripID != resp.Msg.Trip.ID {
		t.Errorf("creator trip = %s, want %s", resp.Msg.Member.TripID, resp.Msg.Trip.ID)
	}
	if resp.Msg.Token == "" {
		t.Error("expected a token")
	}
}

func TestCreateTrip_Invalid(t *testing.T) {
	ts := setupTestServer(t)

	tests := []struct {
		name string
		req  *api.CreateTripRequest
	}{
		{name: "missing creator", req: &api.CreateTripRequest{Name: "x", Currency: "USD"}},
		{name: "unknown currency", req: &api.CreateTripRequest{Name: "x", Currency: "ZZZ", CreatorName: "Bo"}},
		{name: "missing currency", req: &api.CreateTripRequest{Name: "x", CreatorName: "Bo"}},
		{name: "short passcode", req: &api.CreateTripRequest{Name: "x", Currency: "USD", CreatorName: "Bo", Passcode: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ts.trips.CreateTrip(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, connect.CodeInvalidArgument)
		})
	}
}

func TestJoinTrip(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	created, err := ts.trips.CreateTrip(ctx, connect.NewRequest(&api.CreateTripRequest{
		Name:        "Seoul",
		Currency:    "KRW",
		Passcode:    "kimchi",
		CreatorName: "Aiko",
	}))
	if err != nil {
		t.Fatalf("CreateTrip failed: %v", err)
	}
	tripID := created.Msg.Trip.ID

	t.Run("wrong passcode", func(t *testing.T) {
		_, err := ts.trips.JoinTrip(ctx, connect.NewRequest(&api.JoinTripRequest{
			TripID: tripID, Name: "Ben", Passcode: "bulgogi",
		}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("correct passcode", func(t *testing.T) {
		resp, err := ts.trips.JoinTrip(ctx, connect.NewRequest(&api.JoinTripRequest{
			TripID: tripID, Name: "Ben", Passcode: "kimchi",
		}))
		if err != nil {
			t.Fatalf("JoinTrip failed: %v", err)
		}
		if resp.Msg.Member.Name != "Ben" || resp.Msg.Token == "" {
			t.Errorf("unexpected response: %+v", resp.Msg)
		}
	})

	t.Run("duplicate name ignores case", func(t *testing.T) {
		_, err := ts.trips.JoinTrip(ctx, connect.NewRequest(&api.JoinTripRequest{
			TripID: tripID, Name: "aiko", Passcode: "kimchi",
		}))
		assertCode(t, err, connect.CodeAlreadyExists)
	})

	t.Run("unknown trip", func(t *testing.T) {
		_, err := ts.trips.JoinTrip(ctx, connect.NewRequest(&api.JoinTripRequest{
			TripID: "missing", Name: "Cho",
		}))
		assertCode(t, err, connect.CodeNotFound)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := ts.trips.JoinTrip(ctx, connect.NewRequest(&api.JoinTripRequest{
			TripID: tripID, Name: "   ", Passcode: "kimchi",
		}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})
}

func TestGetTrip(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	trip := createTrip(t, ts, "USD", "Alice", "Bob", "Carol")
	other := createTrip(t, ts, "EUR", "Dana")

	t.Run("members in join order", func(t *testing.T) {
		resp, err := ts.trips.GetTrip(ctx, authed(&api.GetTripRequest{TripID: trip.tripID}, trip.token))
		if err != nil {
			t.Fatalf("GetTrip failed: %v", err)
		}
		if resp.Msg.Trip.Name != "Test trip" {
			t.Errorf("expected name 'Test trip', got %q", resp.Msg.Trip.Name)
		}
		var names []string
		for _, m := range resp.Msg.Members {
			names = append(names, m.Name)
		}
		if len(names) != 3 || names[0] != "Alice" || names[1] != "Bob" || names[2] != "Carol" {
			t.Errorf("members = %v, want [Alice Bob Carol]", names)
		}
	})

	t.Run("requires token", func(t *testing.T) {
		_, err := ts.trips.GetTrip(ctx, connect.NewRequest(&api.GetTripRequest{TripID: trip.tripID}))
		assertCode(t, err, connect.CodeUnauthenticated)
	})

	t.Run("token for another trip", func(t *testing.T) {
		_, err := ts.trips.GetTrip(ctx, authed(&api.GetTripRequest{TripID: trip.tripID}, other.token))
		assertCode(t, err, connect.CodePermissionDenied)
	})
}

func TestListTrips(t *testing.T) {
	ts := setupTestServer(t)
	ctx := context.Background()

	resp, err := ts.trips.ListTrips(ctx, connect.NewRequest(&api.ListTripsRequest{}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(resp.Msg.Trips) != 0 {
		t.Errorf("expected no trips, got %d", len(resp.Msg.Trips))
	}

	first := createTrip(t, ts, "USD", "Alice")
	second := createTrip(t, ts, "JPY", "Bob")

	resp, err = ts.trips.ListTrips(ctx, connect.NewRequest(&api.ListTripsRequest{}))
	if err != nil {
		t.Fatalf("ListTrips failed: %v", err)
	}
	if len(resp.Msg.Trips) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(resp.Msg.Trips))
	}
	if resp.Msg.Trips[0].ID != second.tripID || resp.Msg.Trips[1].ID != first.tripID {
		t.Error("expected newest trip first")
	}
}

func TestListCurrencies(t *testing.T) {
	ts := setupTestServer(t)

	resp, err := ts.trips.ListCurrencies(context.Background(), connect.NewRequest(&api.ListCurrenciesRequest{}))
	if err != nil {
		t.Fatalf("ListCurrencies failed: %v", err)
	}

	byCode := make(map[string]*api.Currency)
	for _, c := range resp.Msg.Currencies {
		byCode[c.Code] = c
	}
	if c := byCode["JPY"]; c == nil || c.DecimalPlaces != 0 || c.Symbol != "¥" {
		t.Errorf("JPY = %+v", c)
	}
	if c := byCode["USD"]; c == nil || c.DecimalPlaces != 2 || c.Symbol != "$" {
		t.Errorf("USD = %+v", c)
	}
}

package middleware

import (
	"context"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/exsplitter/internal/auth"
	"github.com/mmynk/exsplitter/internal/models"
)

type ping struct{}

func TestTripTokenInterceptor(t *testing.T) {
	jwtManager := auth.NewJWTManager("middleware-secret-middleware-secret", time.Hour)
	token, err := jwtManager.Generate(&models.Member{ID: "m1", TripID: "t1"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var gotTrip, gotMember string
	next := connect.UnaryFunc(func(ctx context.Context, _ connect.AnyRequest) (connect.AnyResponse, error) {
		gotTrip, gotMember = GetTripID(ctx), GetMemberID(ctx)
		return connect.NewResponse(&ping{}), nil
	})

	tests := []struct {
		name       string
		optional   bool
		header     string
		wantCode   connect.Code
		wantTrip   string
		wantMember string
	}{
		{name: "valid token", header: "Bearer " + token, wantTrip: "t1", wantMember: "m1"},
		{name: "missing header", wantCode: connect.CodeUnauthenticated},
		{name: "wrong scheme", header: "Basic " + token, wantCode: connect.CodeUnauthenticated},
		{name: "bad token", header: "Bearer nope", wantCode: connect.CodeUnauthenticated},
		{name: "optional without header", optional: true},
		{name: "optional with bad token", optional: true, header: "Bearer nope"},
		{name: "optional with valid token", optional: true, header: "Bearer " + token, wantTrip: "t1", wantMember: "m1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotTrip, gotMember = "", ""
			interceptor := RequireTripToken(jwtManager)
			if tt.optional {
				interceptor = OptionalTripToken(jwtManager)
			}

			req := connect.NewRequest(&ping{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}

			_, err := interceptor.WrapUnary(next)(context.Background(), req)
			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Fatalf("code = %v, want %v (err %v)", connect.CodeOf(err), tt.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gotTrip != tt.wantTrip || gotMember != tt.wantMember {
				t.Errorf("context = (%q, %q), want (%q, %q)", gotTrip, gotMember, tt.wantTrip, tt.wantMember)
			}
		})
	}
}

func TestWithTrip(t *testing.T) {
	ctx := WithTrip(context.Background(), "t1", "m1")
	if GetTripID(ctx) != "t1" || GetMemberID(ctx) != "m1" {
		t.Errorf("got (%q, %q)", GetTripID(ctx), GetMemberID(ctx))
	}
	if GetTripID(context.Background()) != "" {
		t.Error("expected empty trip ID on bare context")
	}
}

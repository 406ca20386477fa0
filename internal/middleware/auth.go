package middleware

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/exsplitter/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// TripIDKey is the context key for the trip the token was issued for.
	TripIDKey contextKey = "trip_id"
	// MemberIDKey is the context key for the member the token was issued to.
	MemberIDKey contextKey = "member_id"
)

// GetTripID extracts the token's trip ID from the context.
// Returns empty string if not found.
func GetTripID(ctx context.Context) string {
	tripID, _ := ctx.Value(TripIDKey).(string)
	return tripID
}

// GetMemberID extracts the token's member ID from the context.
// Returns empty string if not found.
func GetMemberID(ctx context.Context) string {
	memberID, _ := ctx.Value(MemberIDKey).(string)
	return memberID
}

// WithTrip returns a context carrying the given trip and member IDs.
func WithTrip(ctx context.Context, tripID, memberID string) context.Context {
	ctx = context.WithValue(ctx, TripIDKey, tripID)
	return context.WithValue(ctx, MemberIDKey, memberID)
}

// tripTokenInterceptor validates trip tokens on unary and server-streaming
// handlers. Client-side calls pass through untouched.
type tripTokenInterceptor struct {
	jwtManager *auth.JWTManager
	optional   bool
}

// RequireTripToken returns an interceptor that validates the bearer token
// in the Authorization header and adds its trip and member IDs to the
// request context.
func RequireTripToken(jwtManager *auth.JWTManager) connect.Interceptor {
	return &tripTokenInterceptor{jwtManager: jwtManager}
}

// OptionalTripToken returns an interceptor that validates the bearer token
// if present, but allows requests without one. Handlers that need a trip
// check GetTripID themselves.
func OptionalTripToken(jwtManager *auth.JWTManager) connect.Interceptor {
	return &tripTokenInterceptor{jwtManager: jwtManager, optional: true}
}

func (i *tripTokenInterceptor) authenticate(ctx context.Context, header http.Header) (context.Context, error) {
	authHeader := header.Get("Authorization")
	if authHeader == "" {
		if i.optional {
			return ctx, nil
		}
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}

	// Parse Bearer token
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		if i.optional {
			return ctx, nil
		}
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}

	claims, err := i.jwtManager.Validate(parts[1])
	if err != nil {
		// Ignore bad tokens when auth is optional
		if i.optional {
			return ctx, nil
		}
		return nil, connect.NewError(connect.CodeUnauthenticated, err)
	}

	return WithTrip(ctx, claims.TripID, claims.MemberID), nil
}

func (i *tripTokenInterceptor) WrapUnary(next connect.UnaryFunc) connect.UnaryFunc {
	return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		if req.Spec().IsClient {
			return next(ctx, req)
		}
		ctx, err := i.authenticate(ctx, req.Header())
		if err != nil {
			return nil, err
		}
		return next(ctx, req)
	}
}

func (i *tripTokenInterceptor) WrapStreamingClient(next connect.StreamingClientFunc) connect.StreamingClientFunc {
	return next
}

func (i *tripTokenInterceptor) WrapStreamingHandler(next connect.StreamingHandlerFunc) connect.StreamingHandlerFunc {
	return func(ctx context.Context, conn connect.StreamingHandlerConn) error {
		ctx, err := i.authenticate(ctx, conn.RequestHeader())
		if err != nil {
			return err
		}
		return next(ctx, conn)
	}
}

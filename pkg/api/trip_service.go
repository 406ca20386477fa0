package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// TripServiceName is the fully-qualified name of the TripService service.
const TripServiceName = "exsplitter.v1.TripService"

// Procedure paths of the TripService RPCs.
const (
	TripServiceCreateTripProcedure     = "/exsplitter.v1.TripService/CreateTrip"
	TripServiceJoinTripProcedure       = "/exsplitter.v1.TripService/JoinTrip"
	TripServiceGetTripProcedure        = "/exsplitter.v1.TripService/GetTrip"
	TripServiceListTripsProcedure      = "/exsplitter.v1.TripService/ListTrips"
	TripServiceListCurrenciesProcedure = "/exsplitter.v1.TripService/ListCurrencies"
)

// TripServiceClient is a client for the exsplitter.v1.TripService service.
type TripServiceClient interface {
	CreateTrip(context.Context, *connect.Request[CreateTripRequest]) (*connect.Response[CreateTripResponse], error)
	JoinTrip(context.Context, *connect.Request[JoinTripRequest]) (*connect.Response[JoinTripResponse], error)
	GetTrip(context.Context, *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[ListTripsRequest]) (*connect.Response[ListTripsResponse], error)
	ListCurrencies(context.Context, *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error)
}

// NewTripServiceClient constructs a client for the exsplitter.v1.TripService
// service. The JSON codec is applied before any caller options.
func NewTripServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) TripServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &tripServiceClient{
		createTrip:     connect.NewClient[CreateTripRequest, CreateTripResponse](httpClient, baseURL+TripServiceCreateTripProcedure, opts...),
		joinTrip:       connect.NewClient[JoinTripRequest, JoinTripResponse](httpClient, baseURL+TripServiceJoinTripProcedure, opts...),
		getTrip:        connect.NewClient[GetTripRequest, GetTripResponse](httpClient, baseURL+TripServiceGetTripProcedure, opts...),
		listTrips:      connect.NewClient[ListTripsRequest, ListTripsResponse](httpClient, baseURL+TripServiceListTripsProcedure, opts...),
		listCurrencies: connect.NewClient[ListCurrenciesRequest, ListCurrenciesResponse](httpClient, baseURL+TripServiceListCurrenciesProcedure, opts...),
	}
}

type tripServiceClient struct {
	createTrip     *connect.Client[CreateTripRequest, CreateTripResponse]
	joinTrip       *connect.Client[JoinTripRequest, JoinTripResponse]
	getTrip        *connect.Client[GetTripRequest, GetTripResponse]
	listTrips      *connect.Client[ListTripsRequest, ListTripsResponse]
	listCurrencies *connect.Client[ListCurrenciesRequest, ListCurrenciesResponse]
}

func (c *tripServiceClient) CreateTrip(ctx context.Context, req *connect.Request[CreateTripRequest]) (*connect.Response[CreateTripResponse], error) {
	return c.createTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) JoinTrip(ctx context.Context, req *connect.Request[JoinTripRequest]) (*connect.Response[JoinTripResponse], error) {
	return c.joinTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) GetTrip(ctx context.Context, req *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error) {
	return c.getTrip.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListTrips(ctx context.Context, req *connect.Request[ListTripsRequest]) (*connect.Response[ListTripsResponse], error) {
	return c.listTrips.CallUnary(ctx, req)
}

func (c *tripServiceClient) ListCurrencies(ctx context.Context, req *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error) {
	return c.listCurrencies.CallUnary(ctx, req)
}

// TripServiceHandler is implemented by servers of exsplitter.v1.TripService.
type TripServiceHandler interface {
	CreateTrip(context.Context, *connect.Request[CreateTripRequest]) (*connect.Response[CreateTripResponse], error)
	JoinTrip(context.Context, *connect.Request[JoinTripRequest]) (*connect.Response[JoinTripResponse], error)
	GetTrip(context.Context, *connect.Request[GetTripRequest]) (*connect.Response[GetTripResponse], error)
	ListTrips(context.Context, *connect.Request[ListTripsRequest]) (*connect.Response[ListTripsResponse], error)
	ListCurrencies(context.Context, *connect.Request[ListCurrenciesRequest]) (*connect.Response[ListCurrenciesResponse], error)
}

// NewTripServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewTripServiceHandler(svc TripServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	mux := http.NewServeMux()
	mux.Handle(TripServiceCreateTripProcedure, connect.NewUnaryHandler(TripServiceCreateTripProcedure, svc.CreateTrip, opts...))
	mux.Handle(TripServiceJoinTripProcedure, connect.NewUnaryHandler(TripServiceJoinTripProcedure, svc.JoinTrip, opts...))
	mux.Handle(TripServiceGetTripProcedure, connect.NewUnaryHandler(TripServiceGetTripProcedure, svc.GetTrip, opts...))
	mux.Handle(TripServiceListTripsProcedure, connect.NewUnaryHandler(TripServiceListTripsProcedure, svc.ListTrips, opts...))
	mux.Handle(TripServiceListCurrenciesProcedure, connect.NewUnaryHandler(TripServiceListCurrenciesProcedure, svc.ListCurrencies, opts...))
	return "/" + TripServiceName + "/", mux
}

package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ExpenseServiceName is the fully-qualified name of the ExpenseService service.
const ExpenseServiceName = "exsplitter.v1.ExpenseService"

// Procedure paths of the ExpenseService RPCs.
const (
	ExpenseServiceCreateExpenseProcedure = "/exsplitter.v1.ExpenseService/CreateExpense"
	ExpenseServiceGetExpenseProcedure    = "/exsplitter.v1.ExpenseService/GetExpense"
	ExpenseServiceListExpensesProcedure  = "/exsplitter.v1.ExpenseService/ListExpenses"
	ExpenseServiceUpdateExpenseProcedure = "/exsplitter.v1.ExpenseService/UpdateExpense"
	ExpenseServiceDeleteExpenseProcedure = "/exsplitter.v1.ExpenseService/DeleteExpense"
	ExpenseServiceClassifySplitProcedure = "/exsplitter.v1.ExpenseService/ClassifySplit"
	ExpenseServiceWatchTripProcedure     = "/exsplitter.v1.ExpenseService/WatchTrip"
)

// ExpenseServiceClient is a client for the exsplitter.v1.ExpenseService service.
type ExpenseServiceClient interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ClassifySplit(context.Context, *connect.Request[ClassifySplitRequest]) (*connect.Response[ClassifySplitResponse], error)
	WatchTrip(context.Context, *connect.Request[WatchTripRequest]) (*connect.ServerStreamForClient[WatchTripResponse], error)
}

// NewExpenseServiceClient constructs a client for the
// exsplitter.v1.ExpenseService service.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &expenseServiceClient{
		createExpense: connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		getExpense:    connect.NewClient[GetExpenseRequest, GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listExpenses:  connect.NewClient[ListExpensesRequest, ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		updateExpense: connect.NewClient[UpdateExpenseRequest, UpdateExpenseResponse](httpClient, baseURL+ExpenseServiceUpdateExpenseProcedure, opts...),
		deleteExpense: connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		classifySplit: connect.NewClient[ClassifySplitRequest, ClassifySplitResponse](httpClient, baseURL+ExpenseServiceClassifySplitProcedure, opts...),
		watchTrip:     connect.NewClient[WatchTripRequest, WatchTripResponse](httpClient, baseURL+ExpenseServiceWatchTripProcedure, opts...),
	}
}

type expenseServiceClient struct {
	createExpense *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	getExpense    *connect.Client[GetExpenseRequest, GetExpenseResponse]
	listExpenses  *connect.Client[ListExpensesRequest, ListExpensesResponse]
	updateExpense *connect.Client[UpdateExpenseRequest, UpdateExpenseResponse]
	deleteExpense *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	classifySplit *connect.Client[ClassifySplitRequest, ClassifySplitResponse]
	watchTrip     *connect.Client[WatchTripRequest, WatchTripResponse]
}

func (c *expenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateExpense(ctx context.Context, req *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error) {
	return c.updateExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ClassifySplit(ctx context.Context, req *connect.Request[ClassifySplitRequest]) (*connect.Response[ClassifySplitResponse], error) {
	return c.classifySplit.CallUnary(ctx, req)
}

func (c *expenseServiceClient) WatchTrip(ctx context.Context, req *connect.Request[WatchTripRequest]) (*connect.ServerStreamForClient[WatchTripResponse], error) {
	return c.watchTrip.CallServerStream(ctx, req)
}

// ExpenseServiceHandler is implemented by servers of exsplitter.v1.ExpenseService.
type ExpenseServiceHandler interface {
	CreateExpense(context.Context, *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[ListExpensesRequest]) (*connect.Response[ListExpensesResponse], error)
	UpdateExpense(context.Context, *connect.Request[UpdateExpenseRequest]) (*connect.Response[UpdateExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	ClassifySplit(context.Context, *connect.Request[ClassifySplitRequest]) (*connect.Response[ClassifySplitResponse], error)
	WatchTrip(context.Context, *connect.Request[WatchTripRequest], *connect.ServerStream[WatchTripResponse]) error
}

// NewExpenseServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
	mux := http.NewServeMux()
	mux.Handle(ExpenseServiceCreateExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts...))
	mux.Handle(ExpenseServiceGetExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...))
	mux.Handle(ExpenseServiceListExpensesProcedure, connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(ExpenseServiceUpdateExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceUpdateExpenseProcedure, svc.UpdateExpense, opts...))
	mux.Handle(ExpenseServiceDeleteExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	mux.Handle(ExpenseServiceClassifySplitProcedure, connect.NewUnaryHandler(ExpenseServiceClassifySplitProcedure, svc.ClassifySplit, opts...))
	mux.Handle(ExpenseServiceWatchTripProcedure, connect.NewServerStreamHandler(ExpenseServiceWatchTripProcedure, svc.WatchTrip, opts...))
	return "/" + ExpenseServiceName + "/", mux
}

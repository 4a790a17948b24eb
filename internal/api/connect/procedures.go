// Package connect provides the Connect RPC TasteService.
//
// Messages are google.protobuf.Struct values so the service needs no
// generated stubs:
//
//	GetReport   {report, time_range?} -> {report, time_range, result}
//	ListReports {}                    -> {reports: [{name, description, time_ranged}]}
package connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// TasteServiceName is the fully-qualified name of the TasteService.
	TasteServiceName = "tastebox.v1.TasteService"

	// GetReportProcedure is the full path of the GetReport RPC.
	GetReportProcedure = "/" + TasteServiceName + "/GetReport"
	// ListReportsProcedure is the full path of the ListReports RPC.
	ListReportsProcedure = "/" + TasteServiceName + "/ListReports"
)

// TasteServiceHandler is implemented by the TasteService.
type TasteServiceHandler interface {
	GetReport(context.Context, *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error)
	ListReports(context.Context, *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error)
}

// NewTasteServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewTasteServiceHandler(svc TasteServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	getReport := connect.NewUnaryHandler(GetReportProcedure, svc.GetReport, opts...)
	listReports := connect.NewUnaryHandler(ListReportsProcedure, svc.ListReports, opts...)

	return "/" + TasteServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GetReportProcedure:
			getReport.ServeHTTP(w, r)
		case ListReportsProcedure:
			listReports.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// TasteServiceClient is a client for the TasteService.
type TasteServiceClient struct {
	getReport   *connect.Client[structpb.Struct, structpb.Struct]
	listReports *connect.Client[structpb.Struct, structpb.Struct]
}

// NewTasteServiceClient constructs a client for the TasteService at baseURL.
func NewTasteServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *TasteServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &TasteServiceClient{
		getReport:   connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+GetReportProcedure, opts...),
		listReports: connect.NewClient[structpb.Struct, structpb.Struct](httpClient, baseURL+ListReportsProcedure, opts...),
	}
}

// GetReport calls tastebox.v1.TasteService.GetReport.
func (c *TasteServiceClient) GetReport(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return c.getReport.CallUnary(ctx, req)
}

// ListReports calls tastebox.v1.TasteService.ListReports.
func (c *TasteServiceClient) ListReports(ctx context.Context, req *connect.Request[structpb.Struct]) (*connect.Response[structpb.Struct], error) {
	return c.listReports.CallUnary(ctx, req)
}

// Package main provides a command-line client for the tastebox server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"connectrpc.com/connect"
	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	"google.golang.org/protobuf/types/known/structpb"

	apiconnect "github.com/osa030/tastebox/internal/api/connect"
)

var (
	app     = kingpin.New("tastebox-cli", "tastebox report client")
	server  = app.Flag("server", "Server address").Default("http://localhost:8080").String()
	token   = app.Flag("token", "API token").Envar("TASTEBOX_API_TOKEN").String()
	timeout = app.Flag("timeout", "Request timeout").Default("60s").Duration()

	// list command
	listCmd = app.Command("list", "List available reports")

	// report command
	reportCmd       = app.Command("report", "Compute a report")
	reportName      = reportCmd.Arg("name", "Report name").Required().String()
	reportTimeRange = reportCmd.Flag("time-range", "short_term, medium_term or long_term (server default when empty)").Short('t').String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Create client
	client := apiconnect.NewTasteServiceClient(
		http.DefaultClient,
		*server,
		connect.WithInterceptors(apiconnect.NewTokenClientInterceptor(*token)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var err error
	switch command {
	case listCmd.FullCommand():
		err = listReports(ctx, client)
	case reportCmd.FullCommand():
		err = getReport(ctx, client, *reportName, *reportTimeRange)
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func listReports(ctx context.Context, client *apiconnect.TasteServiceClient) error {
	resp, err := client.ListReports(ctx, connect.NewRequest(&structpb.Struct{}))
	if err != nil {
		return err
	}
	return renderReportList(os.Stdout, resp.Msg.AsMap()["reports"])
}

func getReport(ctx context.Context, client *apiconnect.TasteServiceClient, name, timeRange string) error {
	fields := map[string]any{"report": name}
	if timeRange != "" {
		fields["time_range"] = timeRange
	}
	msg, err := structpb.NewStruct(fields)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := client.GetReport(ctx, connect.NewRequest(msg))
	if err != nil {
		return err
	}

	out := resp.Msg.AsMap()
	fmt.Printf("%v (%v) in %s\n\n", out["report"], out["time_range"], time.Since(start).Round(time.Millisecond))
	return renderResult(os.Stdout, out["result"])
}

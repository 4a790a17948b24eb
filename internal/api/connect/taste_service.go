package connect

import (
	"context"
	"encoding/json"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/rs/zerolog"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/osa030/tastebox/internal/app/report"
	"github.com/osa030/tastebox/internal/domain/track"
)

// getReportRequest is the decoded GetReport message.
type getReportRequest struct {
	Report    string `mapstructure:"report" validate:"required"`
	TimeRange string `mapstructure:"time_range"`
}

// TasteService implements the TasteService RPC.
type TasteService struct {
	aggregator   *report.Aggregator
	defaultRange track.TimeRange
	validate     *validator.Validate
}

// NewTasteService creates a new TasteService.
func NewTasteService(aggregator *report.Aggregator, defaultRange track.TimeRange) *TasteService {
	if defaultRange == "" {
		defaultRange = track.MediumTerm
	}
	return &TasteService{
		aggregator:   aggregator,
		defaultRange: defaultRange,
		validate:     validator.New(),
	}
}

// Ensure TasteService implements the interface.
var _ TasteServiceHandler = (*TasteService)(nil)

// GetReport computes a single named report.
func (s *TasteService) GetReport(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	msg, err := s.decodeGetReport(req.Msg)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	def, ok := report.Lookup(msg.Report)
	if !ok {
		return nil, connect.NewError(connect.CodeNotFound, errors.Wrapf(report.ErrUnknownReport, "%q", msg.Report))
	}

	timeRange := s.defaultRange
	if def.TimeRanged {
		if timeRange, err = track.ParseTimeRange(msg.TimeRange, s.defaultRange); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
	}

	result, err := def.Run(ctx, s.aggregator, timeRange)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("report", def.Name).Msg("report failed")
		return nil, connect.NewError(codeFor(err), errors.New("failed to compute report"))
	}

	value, err := toValue(result)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out, err := structpb.NewStruct(map[string]any{
		"report":     def.Name,
		"time_range": string(timeRange),
		"result":     value,
	})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, errors.Wrap(err, "failed to build response"))
	}
	return connect.NewResponse(out), nil
}

// ListReports lists the registered reports.
func (s *TasteService) ListReports(
	ctx context.Context,
	req *connect.Request[structpb.Struct],
) (*connect.Response[structpb.Struct], error) {
	defs, err := toValue(report.Registered())
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out, err := structpb.NewStruct(map[string]any{"reports": defs})
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, errors.Wrap(err, "failed to build response"))
	}
	return connect.NewResponse(out), nil
}

func (s *TasteService) decodeGetReport(in *structpb.Struct) (*getReportRequest, error) {
	var msg getReportRequest

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &msg,
		TagName:     "mapstructure",
		ErrorUnused: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create decoder")
	}

	if err := decoder.Decode(in.AsMap()); err != nil {
		return nil, errors.Wrap(err, "failed to decode request")
	}

	if err := s.validate.Struct(msg); err != nil {
		return nil, errors.Wrap(err, "validation failed")
	}
	return &msg, nil
}

// codeFor maps a report error onto a Connect code.
func codeFor(err error) connect.Code {
	switch {
	case errors.Is(err, track.ErrInvalidTimeRange):
		return connect.CodeInvalidArgument
	case errors.Is(err, report.ErrUnknownReport):
		return connect.CodeNotFound
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	default:
		return connect.CodeUnavailable
	}
}

// toValue converts a report result to its JSON shape, which structpb accepts.
func toValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode result")
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(err, "failed to decode result")
	}
	return out, nil
}

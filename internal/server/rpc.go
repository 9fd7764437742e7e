package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"stack-scheduler/internal/domain"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
)

const LookupPlayerProcedure = "/stack.v1.StackService/LookupPlayer"

type LookupPlayerRequest struct {
	DisplayName string `json:"displayName" validate:"required"`
	Tag         string `json:"tag" validate:"required"`
}

// JSONCodec lets connect carry plain Go structs as JSON instead of
// generated protobuf messages.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (s *StackServer) LookupPlayerHandler() (string, http.Handler) {
	return LookupPlayerProcedure, connect.NewUnaryHandler(
		LookupPlayerProcedure,
		s.LookupPlayer,
		connect.WithCodec(JSONCodec{}),
	)
}

// LookupPlayer runs the aggregation pipeline for one handle. It does not
// store anything and never fails for a well-formed handle.
func (s *StackServer) LookupPlayer(ctx context.Context, req *connect.Request[LookupPlayerRequest]) (*connect.Response[domain.AggregateResult], error) {
	start := time.Now()

	msg := req.Msg
	msg.DisplayName = strings.TrimSpace(msg.DisplayName)
	msg.Tag = strings.TrimPrefix(strings.TrimSpace(msg.Tag), "#")
	if err := s.validate.Struct(msg); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	result := s.aggregator.Aggregate(ctx, domain.PlayerHandle{DisplayName: msg.DisplayName, Tag: msg.Tag})

	zerolog.Ctx(ctx).Debug().
		Str("handle", msg.DisplayName+"#"+msg.Tag).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("lookup served")
	return connect.NewResponse(&result), nil
}

package grpcx

import (
	"context"

	"github.com/google/uuid"
	"github.com/md-rashed-zaman/artisanslots/libs/httpx"
)

// RequestIDMetadataKey is the canonical key used for request id propagation over gRPC metadata.
// Lowercase is recommended by gRPC metadata conventions.
const RequestIDMetadataKey = "x-request-id"

// RequestIDFromContext shares the context slot used by libs/httpx so loggers see
// one id regardless of the transport a call arrived on.
func RequestIDFromContext(ctx context.Context) string {
	return httpx.RequestIDFromContext(ctx)
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return httpx.ContextWithRequestID(ctx, id)
}

func NewRequestID() string {
	return uuid.NewString()
}

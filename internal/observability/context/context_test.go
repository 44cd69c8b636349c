package context

import (
	stdctx "context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCorrelationIDGeneratesULID(t *testing.T) {
	ctx, cid := EnsureCorrelationID(stdctx.Background())

	_, err := ulid.ParseStrict(cid)
	require.NoError(t, err)
	assert.Equal(t, cid, CorrelationIDFromContext(ctx))
}

func TestEnsureCorrelationIDKeepsExisting(t *testing.T) {
	ctx := WithCorrelationID(stdctx.Background(), "existing")

	_, cid := EnsureCorrelationID(ctx)
	assert.Equal(t, "existing", cid)
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := WithRequestID(stdctx.Background(), "req-1")
	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Equal(t, "", RequestIDFromContext(stdctx.Background()))
}

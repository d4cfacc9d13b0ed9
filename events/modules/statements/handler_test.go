package statements

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScoreService struct {
	recomputed []string
	err        error
}

func (f *fakeScoreService) Recompute(_ context.Context, productKey string) error {
	f.recomputed = append(f.recomputed, productKey)
	return f.err
}

func TestHandleStatementsChanged(t *testing.T) {
	event := ChangedEvent{
		EventType:     "statements.changed",
		EventID:       "evt-1",
		EventTime:     time.Now().UTC(),
		SchemaVersion: "v1",
		ProductKey:    "prod-1",
		Org:           "acme",
		Action:        "updated",
		StatementKeys: []string{"s1", "s2"},
	}
	raw, err := json.Marshal(event)
	require.NoError(t, err)

	service := &fakeScoreService{}
	require.NoError(t, HandleStatementsChanged(context.Background(), raw, service))

	assert.Equal(t, []string{"prod-1"}, service.recomputed)
}

func TestHandleStatementsChangedRejectsMalformedPayload(t *testing.T) {
	service := &fakeScoreService{}

	err := HandleStatementsChanged(context.Background(), []byte("{not json"), service)
	assert.Error(t, err)
	assert.Empty(t, service.recomputed)
}

func TestHandleStatementsChangedRequiresProductKey(t *testing.T) {
	raw, err := json.Marshal(ChangedEvent{Action: "updated"})
	require.NoError(t, err)

	service := &fakeScoreService{}
	err = HandleStatementsChanged(context.Background(), raw, service)
	assert.Error(t, err)
	assert.Empty(t, service.recomputed)
}

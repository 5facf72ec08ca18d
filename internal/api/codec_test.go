package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec(t *testing.T) {
	codec := JSONCodec{}
	assert.Equal(t, "json", codec.Name())

	data, err := codec.Marshal(&StartSessionRequest{Mode: "written", Scope: "all"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"written","scope":"all","chapterIds":null,"itemId":"","tag":"","timeLimitSeconds":0}`, string(data))

	var req SubmitAnswerRequest
	require.NoError(t, codec.Unmarshal([]byte(`{"sessionId":"abc","answer":"Paris"}`), &req))
	assert.Equal(t, SubmitAnswerRequest{SessionID: "abc", Answer: "Paris"}, req)

	var empty ListDueItemsRequest
	assert.NoError(t, codec.Unmarshal(nil, &empty))
	assert.Error(t, codec.Unmarshal([]byte(`{"answer":`), &req))
}

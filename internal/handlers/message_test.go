// internal/handlers/message_test.go
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgmarket/market-backend/internal/models"
	"github.com/tgmarket/market-backend/internal/services"
	"github.com/tgmarket/market-backend/internal/utils"
)

type stubMessageRepo struct {
	stored []models.Message
}

func (r *stubMessageRepo) UpsertRaw(_ context.Context, _ *models.ChatUser, msg *models.Message) (*models.Message, error) {
	r.stored = append(r.stored, *msg)
	return msg, nil
}

func (r *stubMessageRepo) ListUnparsed(context.Context, int) ([]models.Message, error) {
	return nil, nil
}

func (r *stubMessageRepo) MarkParsed(context.Context, uuid.UUID) error {
	return nil
}

func newIngestRouter(repo *stubMessageRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	r := gin.New()
	h := NewMessageHandler(services.NewIngestService(repo, log))
	r.POST("/v1/messages", h.IngestBatch)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestIngestBatchStoresMessages(t *testing.T) {
	repo := &stubMessageRepo{}
	r := newIngestRouter(repo)

	rec := postJSON(t, r, "/v1/messages", `{
		"messages": [
			{
				"message_id": 101,
				"chat_id": -100123,
				"text": "#продам Меч рыцаря - 1500з",
				"sent_at": "2024-03-01T10:00:00Z",
				"author": {"user_id": 42, "username": "trader"}
			},
			{
				"message_id": 102,
				"chat_id": -100123,
				"text": "#куплю Кольцо мудрости",
				"sent_at": "2024-03-01T10:05:00Z"
			}
		]
	}`)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp utils.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, data["received"])
	assert.EqualValues(t, 2, data["stored"])
	assert.EqualValues(t, 0, data["failed"])

	require.Len(t, repo.stored, 2)
	assert.Equal(t, int64(101), repo.stored[0].PlatformMessageID)
	assert.Equal(t, "#продам Меч рыцаря - 1500з", repo.stored[0].RawText)
}

func TestIngestBatchRejectsEmptyBatch(t *testing.T) {
	repo := &stubMessageRepo{}
	r := newIngestRouter(repo)

	rec := postJSON(t, r, "/v1/messages", `{"messages": []}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.stored)
}

func TestIngestBatchRejectsMalformedJSON(t *testing.T) {
	repo := &stubMessageRepo{}
	r := newIngestRouter(repo)

	rec := postJSON(t, r, "/v1/messages", `{"messages": [`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.stored)
}

func TestIngestBatchRejectsMissingIdentity(t *testing.T) {
	repo := &stubMessageRepo{}
	r := newIngestRouter(repo)

	rec := postJSON(t, r, "/v1/messages", `{
		"messages": [{"text": "no ids", "sent_at": "2024-03-01T10:00:00Z"}]
	}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.stored)
}

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plesir/internal/catalog"
	"plesir/internal/domain"
	"plesir/internal/gemini"
	"plesir/internal/prompt"
	"plesir/internal/service"
	"plesir/internal/session"
)

type stubCompleter struct {
	reply string
	err   error
}

func (s *stubCompleter) Complete(context.Context, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestServer(t *testing.T, completer domain.Completer) (*httptest.Server, *session.Manager) {
	t.Helper()
	ix, err := catalog.BuildIndex([]domain.Place{
		{Name: "Candi Borobudur", City: "Magelang", SignatureFood: "Kuliner Lokal", SearchText: "candi borobudur magelang"},
		{Name: "Malioboro", City: "Yogyakarta", SignatureFood: "Gudeg", SearchText: "malioboro yogyakarta"},
	})
	require.NoError(t, err)

	chat := service.New(ix, prompt.New("", nil), completer, nil, service.Options{TopK: 3, Threshold: 0.15, MemoryWindow: 4})
	sessions := session.NewManager(time.Minute, nil)
	t.Cleanup(sessions.Close)

	srv := New(chat, sessions, ix.Len(), "gemini-1.5-flash")
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, sessions
}

func postChat(t *testing.T, url, sessionID, message string) (int, chatResponse) {
	t.Helper()
	body, _ := json.Marshal(chatRequest{SessionID: sessionID, Message: message})
	res, err := http.Post(url+"/v1/chat", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer res.Body.Close()

	var out chatResponse
	if res.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	}
	return res.StatusCode, out
}

func TestChat_RoundTrip(t *testing.T) {
	ts, _ := newTestServer(t, &stubCompleter{reply: "Monggo ke Borobudur!"})

	status, out := postChat(t, ts.URL, "", "wisata borobudur")
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, out.SessionID)
	assert.Equal(t, "Monggo ke Borobudur!", out.Reply)

	// Reusing the session id keeps the same conversation.
	status, again := postChat(t, ts.URL, out.SessionID, "lanjut")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, out.SessionID, again.SessionID)
}

func TestChat_EmptyMessage(t *testing.T) {
	ts, _ := newTestServer(t, &stubCompleter{reply: "oke"})

	status, _ := postChat(t, ts.URL, "", "   ")
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestChat_CompletionFailureStillResponds(t *testing.T) {
	completer := &stubCompleter{err: fmt.Errorf("boom: %w", gemini.ErrServiceUnavailable)}
	ts, _ := newTestServer(t, completer)

	status, out := postChat(t, ts.URL, "", "halo")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, out.Reply, "gangguan")

	// Session survives the failed turn.
	completer.err = nil
	completer.reply = "aman"
	status, again := postChat(t, ts.URL, out.SessionID, "masih hidup?")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "aman", again.Reply)
}

func TestClearSession(t *testing.T) {
	ts, sessions := newTestServer(t, &stubCompleter{reply: "oke"})

	_, out := postChat(t, ts.URL, "", "halo")
	sess, err := sessions.Get(out.SessionID)
	require.NoError(t, err)
	require.Equal(t, 2, sess.Transcript.Len())

	res, err := http.Post(ts.URL+"/v1/session/"+out.SessionID+"/clear", "application/json", nil)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Zero(t, sess.Transcript.Len())
}

func TestClearSession_Unknown(t *testing.T) {
	ts, _ := newTestServer(t, &stubCompleter{reply: "oke"})

	res, err := http.Post(ts.URL+"/v1/session/nope/clear", "application/json", nil)
	require.NoError(t, err)
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t, &stubCompleter{reply: "oke"})

	res, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, float64(2), out["catalog_size"])
	assert.Equal(t, "gemini-1.5-flash", out["model"])
}

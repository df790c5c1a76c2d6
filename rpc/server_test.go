package rpc

import (
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"agorachain/core/state"
	"agorachain/native/social"
	"agorachain/storage"
)

const body46 = "QmYwAPJzv5CZsnAzt8auVZRnDi3YpwqqjKXVf6E5ae9BdA"

func newTestServer(t *testing.T) (*Server, *social.Engine) {
	t.Helper()
	mgr, err := state.NewManager(storage.NewMemDB())
	require.NoError(t, err)

	engine := social.NewEngine(mgr)
	engine.SetRootAccounts([]string{"root.agora"})
	now := int64(1_700_000_000)
	engine.SetNowFunc(func() int64 { now++; return now })
	require.NoError(t, engine.Initialize("root.agora"))

	return New(Config{Engine: engine}), engine
}

func call(actor string) social.Call {
	return social.Call{Caller: actor, Deposit: big.NewInt(1 << 30)}
}

func get(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListPosts(t *testing.T) {
	srv, engine := newTestServer(t)

	_, err := engine.CreatePost(call("alice"), "first", body46, social.PostPayload{}, social.DefaultTopicID)
	require.NoError(t, err)
	second, err := engine.CreatePost(call("alice"), "second", body46, social.PostPayload{}, social.DefaultTopicID)
	require.NoError(t, err)

	rec := get(t, srv, "/v1/posts?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []social.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &posts))
	require.Len(t, posts, 1)
	require.Equal(t, second.ID, posts[0].ID)
}

func TestGetPostNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := get(t, srv, "/v1/posts/ghost")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "not found")
}

func TestAccountEndpoints(t *testing.T) {
	srv, engine := newTestServer(t)
	require.NoError(t, engine.Follow(call("alice"), "bob"))

	rec := get(t, srv, "/v1/accounts/bob/followers")
	require.Equal(t, http.StatusOK, rec.Code)
	var followers []social.AccountStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &followers))
	require.Len(t, followers, 1)
	require.Equal(t, "alice", followers[0].AccountID)

	rec = get(t, srv, "/v1/accounts/nobody/followers")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlaceEndpoints(t *testing.T) {
	srv, engine := newTestServer(t)

	_, err := engine.PlaceChest(call("alice"), "alice", "1", "hi",
		social.ChestPayload{}, social.Location{Label: "amsterdam"}, 0)
	require.NoError(t, err)

	rec := get(t, srv, "/v1/places")
	require.Equal(t, http.StatusOK, rec.Code)
	var places []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &places))
	require.Equal(t, []string{"amsterdam"}, places)

	rec = get(t, srv, "/v1/places/amsterdam/chests?active=true")
	require.Equal(t, http.StatusOK, rec.Code)
	var chests []social.Chest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chests))
	require.Len(t, chests, 1)
}

type stubSettler struct {
	requestID string
	minted    bool
	err       error
}

func (s *stubSettler) Settle(requestID string, minted bool) (*social.Chest, error) {
	s.requestID = requestID
	s.minted = minted
	if s.err != nil {
		return nil, s.err
	}
	return &social.Chest{ID: "chest-1", Minted: minted}, nil
}

func TestSettleMintWebhook(t *testing.T) {
	mgr, err := state.NewManager(storage.NewMemDB())
	require.NoError(t, err)
	engine := social.NewEngine(mgr)
	settler := &stubSettler{}
	srv := New(Config{Engine: engine, Settler: settler})

	req := httptest.NewRequest(http.MethodPost, "/v1/mints/req-123/settle", strings.NewReader(`{"minted":true}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "req-123", settler.requestID)
	require.True(t, settler.minted)

	req = httptest.NewRequest(http.MethodPost, "/v1/mints/req-123/settle", strings.NewReader("not json"))
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSettleMintUnknownRequest(t *testing.T) {
	mgr, err := state.NewManager(storage.NewMemDB())
	require.NoError(t, err)
	engine := social.NewEngine(mgr)
	settler := &stubSettler{err: social.ErrMintRequestNotFound}
	srv := New(Config{Engine: engine, Settler: settler})

	req := httptest.NewRequest(http.MethodPost, "/v1/mints/ghost/settle", strings.NewReader(`{"minted":false}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWebhookAbsentWithoutSettler(t *testing.T) {
	srv, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/v1/mints/req/settle", strings.NewReader(`{"minted":true}`))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

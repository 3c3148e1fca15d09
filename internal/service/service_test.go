package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"connectrpc.com/connect"
	"github.com/mmynk/splitchamp/internal/api"
	"github.com/mmynk/splitchamp/internal/middleware"
	"github.com/mmynk/splitchamp/internal/storage/sqlite"
	"github.com/shopspring/decimal"
)

const testUserHeader = "X-Test-User"

// testAuthInterceptor signs the caller in as the user named in the test header.
func testAuthInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if user := req.Header().Get(testUserHeader); user != "" {
				ctx = middleware.WithUser(ctx, user, user+"@example.com")
			}
			return next(ctx, req)
		}
	}
}

type testServer struct {
	url   string
	store *sqlite.SQLiteStore
}

// setupTestServer serves the session service over a temporary SQLite database.
func setupTestServer(t *testing.T, opts ...Option) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := http.NewServeMux()
	NewSessionService(store, logger, opts...).Mount(mux, connect.WithInterceptors(testAuthInterceptor()))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testServer{url: server.URL, store: store}
}

// call invokes procedure as user. An empty user calls anonymously.
func call[Res, Req any](t *testing.T, srv *testServer, user, procedure string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](http.DefaultClient, srv.url+procedure, connect.WithCodec(api.Codec{}))
	req := connect.NewRequest(msg)
	if user != "" {
		req.Header().Set(testUserHeader, user)
	}
	resp, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func expectCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected code %v, got %v (%v)", want, got, err)
	}
}

// netBalances maps participant names to their net balance.
func netBalances(view api.SessionView) map[string]decimal.Decimal {
	names := make(map[string]string, len(view.Participants))
	for _, p := range view.Participants {
		names[p.ID] = p.Name
	}
	out := make(map[string]decimal.Decimal, len(view.Balances))
	for _, b := range view.Balances {
		out[names[b.ParticipantID]] = b.NetBalance
	}
	return out
}

// participantID finds a participant by name.
func participantID(t *testing.T, view api.SessionView, name string) string {
	t.Helper()
	for _, p := range view.Participants {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("participant %s not found", name)
	return ""
}

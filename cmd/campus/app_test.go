package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/campus"
	campusjson "github.com/fwojciec/campus/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "tok-1"

// backend is an in-memory stand-in for the platform API.
type backend struct {
	mu       sync.Mutex
	messages []map[string]any // addMessage bodies
	sessions []map[string]any // addSession bodies
	posts    []map[string]any // add bodies
	uploads  []string         // uploaded file names
	deleted  []string
	toggles  []string // "path?query"
	streamed []map[string]any
}

func (b *backend) record(dst *[]map[string]any, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.mu.Lock()
	*dst = append(*dst, body)
	b.mu.Unlock()
}

func (b *backend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer "+testToken {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"message":"token expired"}`)
				return
			}
			h(w, r)
		}
	}
	ok := func(w http.ResponseWriter, body string) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}

	mux.HandleFunc("POST /api/user/login", func(w http.ResponseWriter, r *http.Request) {
		var c struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&c)
		if c.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"wrong password"}`)
			return
		}
		ok(w, `{"message":"login ok","token":"`+testToken+`"}`)
	})
	mux.HandleFunc("GET /api/user/info", authed(func(w http.ResponseWriter, r *http.Request) {
		ok(w, `{"message":"ok","token":"`+testToken+`","data":{"id":3,"username":"ada","degree":"MSc","art_count":2,"follow_count":5,"fans_count":8,"like_count":13}}`)
	}))

	mux.HandleFunc("POST /api/chat/addSession", authed(func(w http.ResponseWriter, r *http.Request) {
		b.record(&b.sessions, r)
		ok(w, `{"message":"ok","data":{"session_id":77}}`)
	}))
	mux.HandleFunc("POST /api/chat/addMessage", authed(func(w http.ResponseWriter, r *http.Request) {
		b.record(&b.messages, r)
		ok(w, `{"message":"ok"}`)
	}))
	mux.HandleFunc("POST /api/chat/stream", authed(func(w http.ResponseWriter, r *http.Request) {
		b.record(&b.streamed, r)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range []string{"Hello", ", ", "world"} {
			fmt.Fprintf(w, "data: %s\n", mustJSON(t, map[string]string{"content": chunk}))
		}
		_, _ = io.WriteString(w, "data: [DONE]\n")
	}))
	mux.HandleFunc("POST /api/chat/call", authed(func(w http.ResponseWriter, r *http.Request) {
		ok(w, `{"message":"ok","data":"Synchronous answer"}`)
	}))
	mux.HandleFunc("GET /api/chat/history", authed(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)
		old := time.Now().AddDate(0, -3, 0).Format(time.RFC3339)
		ok(w, `{"data":[
			{"id":1,"user_id":3,"session_title":"Linear algebra","created_at":"`+now+`"},
			{"id":2,"user_id":3,"session_title":"Deleted one","is_deleted":1,"created_at":"`+now+`"},
			{"id":3,"user_id":3,"session_title":"Ancient","created_at":"`+old+`"}
		]}`)
	}))
	mux.HandleFunc("GET /api/chat/getMessage", authed(func(w http.ResponseWriter, r *http.Request) {
		ok(w, `{"data":[
			{"id":1,"session_id":4,"role":"user","content":"What is 2+2?"},
			{"id":2,"session_id":4,"role":"ai","content":"It is **4**."}
		]}`)
	}))
	mux.HandleFunc("DELETE /api/chat/delSession/{id}", authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.deleted = append(b.deleted, r.PathValue("id"))
		b.mu.Unlock()
		ok(w, `{"message":"ok"}`)
	}))

	post := `{"id":"p1","name":"ada","title":"Study group","time":"2026-03-20 18:30:00","content":"Meet at the *library*.","likes":4,"comments":1,"collection":2,"photo":["https://cdn/p.png"],"isLiked":true}`
	mux.HandleFunc("GET /api/community/page", func(w http.ResponseWriter, r *http.Request) {
		ok(w, `{"data":{"list":[`+post+`],"total":11}}`)
	})
	mux.HandleFunc("GET /api/community/search", func(w http.ResponseWriter, r *http.Request) {
		ok(w, `{"data":{"list":[],"total":0}}`)
	})
	mux.HandleFunc("GET /api/community/like", authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.toggles = append(b.toggles, r.URL.Path+"?"+r.URL.RawQuery)
		b.mu.Unlock()
		ok(w, `{"message":"ok"}`)
	}))
	mux.HandleFunc("GET /api/community/collected", authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.toggles = append(b.toggles, r.URL.Path+"?"+r.URL.RawQuery)
		b.mu.Unlock()
		ok(w, `{"message":"ok"}`)
	}))
	mux.HandleFunc("POST /api/community/image", authed(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, `{"message":"bad form"}`, http.StatusBadRequest)
			return
		}
		var urls []string
		for _, fh := range r.MultipartForm.File["files"] {
			b.mu.Lock()
			b.uploads = append(b.uploads, fh.Filename)
			b.mu.Unlock()
			urls = append(urls, "https://cdn/"+fh.Filename)
		}
		ok(w, `{"data":{"urls":`+mustJSON(t, urls)+`}}`)
	}))
	mux.HandleFunc("POST /api/community/add", authed(func(w http.ResponseWriter, r *http.Request) {
		b.record(&b.posts, r)
		ok(w, `{"message":"ok"}`)
	}))
	mux.HandleFunc("GET /api/community/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "p1" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"message":"no such post"}`)
			return
		}
		ok(w, `{"data":`+post+`}`)
	})
	return mux
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

// harness runs the CLI against a fresh backend and credentials file.
type harness struct {
	t         *testing.T
	backend   *backend
	srv       *httptest.Server
	dir       string
	storePath string
	cfgPath   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	b := &backend{}
	srv := httptest.NewServer(b.handler(t))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log_level: error\npage_size: 5\n"), 0o600))
	return &harness{t: t, backend: b, srv: srv, dir: dir, storePath: filepath.Join(dir, "auth.json"), cfgPath: cfgPath}
}

// loggedIn seeds the credentials file with a valid token.
func (h *harness) loggedIn() *harness {
	h.t.Helper()
	require.NoError(h.t, campusjson.Save(h.storePath, map[string]string{campus.KeyToken: testToken}))
	return h
}

func (h *harness) run(args ...string) (stdout, stderr string, err error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	a := &app{stdout: &out, stderr: &errOut, now: time.Now, keyringService: "campus-test"}
	argv := append([]string{
		"campus",
		"--config", h.cfgPath,
		"--base-url", h.srv.URL,
		"--store", "file",
		"--store-path", h.storePath,
	}, args...)
	err = a.command().Run(context.Background(), argv)
	return out.String(), errOut.String(), err
}

func (h *harness) stored() map[string]string {
	h.t.Helper()
	values, err := campusjson.Load(h.storePath)
	require.NoError(h.t, err)
	return values
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("stores token and username", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		out, _, err := h.run("login", "--username", "ada", "--password", "secret")
		require.NoError(t, err)
		assert.Equal(t, "Logged in as ada.\n", out)
		assert.Equal(t, map[string]string{campus.KeyToken: testToken, campus.KeyUsername: "ada"}, h.stored())
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		_, _, err := h.run("login", "--username", "ada", "--password", "nope")
		assert.ErrorIs(t, err, campus.ErrUnauthorized)
		assert.Empty(t, h.stored())
	})

	t.Run("missing password", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		_, _, err := h.run("login", "--username", "ada")
		assert.ErrorIs(t, err, campus.ErrValidation)
	})
}

func TestLogout(t *testing.T) {
	t.Parallel()
	h := newHarness(t).loggedIn()
	out, _, err := h.run("logout")
	require.NoError(t, err)
	assert.Equal(t, "Logged out.\n", out)
	assert.Empty(t, h.stored())
}

func TestWhoami(t *testing.T) {
	t.Parallel()

	t.Run("prints profile", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		out, _, err := h.run("whoami")
		require.NoError(t, err)
		assert.Contains(t, out, "ada (id 3)")
		assert.Contains(t, out, "degree:    MSc")
		assert.Contains(t, out, "followers: 8")
	})

	t.Run("not logged in", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		_, _, err := h.run("whoami")
		assert.ErrorIs(t, err, campus.ErrNotLoggedIn)
		assert.Contains(t, err.Error(), "campus login")
	})

	t.Run("rejected token", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		require.NoError(t, campusjson.Save(h.storePath, map[string]string{campus.KeyToken: "stale"}))
		_, _, err := h.run("whoami")
		assert.ErrorIs(t, err, campus.ErrUnauthorized)
	})
}

func TestAsk(t *testing.T) {
	t.Parallel()

	t.Run("streams into a new session", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		out, errOut, err := h.run("ask", "--think", "say", "hello")
		require.NoError(t, err)
		assert.Equal(t, "Hello, world\n", out)
		assert.Contains(t, errOut, "session 77")

		b := h.backend
		require.Len(t, b.sessions, 1)
		assert.Equal(t, "say hello", b.sessions[0]["session_title"])
		assert.EqualValues(t, 3, b.sessions[0]["user_id"])
		require.Len(t, b.streamed, 1)
		assert.EqualValues(t, 1, b.streamed[0]["mode"])
		assert.EqualValues(t, 77, b.streamed[0]["session_id"])
		require.Len(t, b.messages, 1)
		assert.Equal(t, "user", b.messages[0]["role"])
	})

	t.Run("continues an existing session", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		_, errOut, err := h.run("ask", "--session", "12", "again")
		require.NoError(t, err)
		assert.NotContains(t, errOut, "session")
		assert.Empty(t, h.backend.sessions)
		require.Len(t, h.backend.streamed, 1)
		assert.EqualValues(t, 12, h.backend.streamed[0]["session_id"])
		assert.EqualValues(t, 0, h.backend.streamed[0]["mode"])
	})

	t.Run("sync records both sides", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		out, _, err := h.run("ask", "--sync", "--session", "5", "question")
		require.NoError(t, err)
		assert.Equal(t, "Synchronous answer\n", out)
		require.Len(t, h.backend.messages, 2)
		assert.Equal(t, "ai", h.backend.messages[1]["role"])
		assert.Equal(t, "Synchronous answer", h.backend.messages[1]["content"])
	})

	t.Run("requires a question", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		_, _, err := h.run("ask")
		assert.ErrorIs(t, err, campus.ErrValidation)
	})
}

func TestReplyWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := &replyWriter{out: &buf}
	w.update("Hel")
	w.update("Hello")
	w.update("Hello, world")
	assert.Equal(t, "Hello, world", buf.String())

	w.update("Rewritten")
	assert.Equal(t, "Hello, world\nRewritten", buf.String())

	buf.Reset()
	w = &replyWriter{out: &buf}
	w.update("plain \x1b[31mred")
	assert.Equal(t, "plain red", buf.String())
}

func TestSessions(t *testing.T) {
	t.Parallel()

	t.Run("groups recent sessions", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		out, _, err := h.run("sessions")
		require.NoError(t, err)
		assert.Contains(t, out, "Today")
		assert.Contains(t, out, "Linear algebra")
		assert.NotContains(t, out, "Deleted one")
		assert.NotContains(t, out, "Ancient")
	})

	t.Run("rm deletes", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		out, _, err := h.run("sessions", "rm", "9")
		require.NoError(t, err)
		assert.Equal(t, "Deleted session 9.\n", out)
		assert.Equal(t, []string{"9"}, h.backend.deleted)
	})

	t.Run("rm rejects a non-numeric id", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		_, _, err := h.run("sessions", "rm", "abc")
		assert.ErrorIs(t, err, campus.ErrValidation)
		assert.Empty(t, h.backend.deleted)
	})
}

func TestHistory(t *testing.T) {
	t.Parallel()

	t.Run("rendered", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		out, _, err := h.run("history", "4")
		require.NoError(t, err)
		assert.Contains(t, out, "> What is 2+2?")
		assert.Contains(t, out, "It is")
		assert.NotContains(t, out, "**")
	})

	t.Run("raw", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		out, _, err := h.run("history", "--raw", "4")
		require.NoError(t, err)
		assert.Contains(t, out, "It is **4**.")
	})
}

func TestFeed(t *testing.T) {
	t.Parallel()

	t.Run("page", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		out, _, err := h.run("feed", "--page", "2")
		require.NoError(t, err)
		assert.Contains(t, out, "Study group")
		assert.Contains(t, out, "2026-03-20 18:30")
		assert.Contains(t, out, "page 2 of 3, 11 posts")
	})

	t.Run("search without results", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		out, _, err := h.run("feed", "--search", "nothing")
		require.NoError(t, err)
		assert.Equal(t, "No posts.\n", out)
	})
}

func TestPost(t *testing.T) {
	t.Parallel()

	t.Run("shows the post", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		out, _, err := h.run("post", "p1")
		require.NoError(t, err)
		assert.Contains(t, out, "Study group")
		assert.Contains(t, out, "library")
		assert.Contains(t, out, "image: https://cdn/p.png")
		assert.Contains(t, out, "4 likes (you)")
	})

	t.Run("missing post", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t)
		_, _, err := h.run("post", "zzz")
		assert.ErrorIs(t, err, campus.ErrNotFound)
	})
}

func TestPublish(t *testing.T) {
	t.Parallel()

	png := []byte("\x89PNG\r\n\x1a\nimage-bytes")

	t.Run("uploads globbed images", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		shots := filepath.Join(h.dir, "shots", "nested")
		require.NoError(t, os.MkdirAll(shots, 0o700))
		require.NoError(t, os.WriteFile(filepath.Join(shots, "a.png"), png, 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(h.dir, "shots", "b.png"), png, 0o600))

		out, _, err := h.run("publish",
			"--title", "Notes",
			"--content", "Shared notes",
			"--image", filepath.Join(h.dir, "shots", "**", "*.png"),
			"--link", "https://example.com",
		)
		require.NoError(t, err)
		assert.Equal(t, "Published \"Notes\" with 2 image(s).\n", out)
		assert.ElementsMatch(t, []string{"a.png", "b.png"}, h.backend.uploads)

		require.Len(t, h.backend.posts, 1)
		p := h.backend.posts[0]
		assert.Equal(t, "ada", p["name"])
		assert.Equal(t, "Notes", p["title"])
		assert.Len(t, p["photo"], 2)
		assert.Equal(t, []any{"https://example.com"}, p["link"])
	})

	t.Run("rejects non-image files", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		path := filepath.Join(h.dir, "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o600))
		_, _, err := h.run("publish", "--title", "t", "--content", "c", "--image", path)
		assert.ErrorIs(t, err, campus.ErrValidation)
		assert.Empty(t, h.backend.posts)
	})

	t.Run("pattern must match", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		_, _, err := h.run("publish", "--title", "t", "--content", "c", "--image", filepath.Join(h.dir, "*.jpg"))
		assert.ErrorIs(t, err, campus.ErrValidation)
	})

	t.Run("too many images", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t).loggedIn()
		for i := range campus.MaxPostImages + 1 {
			require.NoError(t, os.WriteFile(filepath.Join(h.dir, fmt.Sprintf("%d.png", i)), png, 0o600))
		}
		_, _, err := h.run("publish", "--title", "t", "--content", "c", "--image", filepath.Join(h.dir, "*.png"))
		assert.ErrorIs(t, err, campus.ErrValidation)
		assert.Empty(t, h.backend.uploads)
	})
}

func TestToggle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
		out  string
	}{
		{[]string{"like", "p1"}, "/api/community/like?id=p1&isLiked=true", "Done: like p1.\n"},
		{[]string{"like", "--undo", "p1"}, "/api/community/like?id=p1&isLiked=false", "Undone: like p1.\n"},
		{[]string{"collect", "p1"}, "/api/community/collected?id=p1&isLiked=true", "Done: collect p1.\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			h := newHarness(t).loggedIn()
			out, _, err := h.run(tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.out, out)
			assert.Equal(t, []string{tt.want}, h.backend.toggles)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	_, _, err := h.run("--log-level", "shouting", "feed")
	assert.ErrorIs(t, err, campus.ErrValidation)
}

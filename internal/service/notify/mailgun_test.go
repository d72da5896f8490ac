package notify

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailgunSender(t *testing.T) {
	var mu sync.Mutex
	var form map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/messages") {
			http.NotFound(w, r)
			return
		}

		var err error
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
			err = r.ParseMultipartForm(1 << 20)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		mu.Lock()
		form = r.Form
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"<1@x>","message":"Queued"}`))
	}))
	t.Cleanup(srv.Close)

	t.Run("send ok", func(t *testing.T) {
		s := NewMailgunSender("example.com", "key", "noreply@example.com")
		s.SetAPIBase(srv.URL + "/v3")

		err := s.Send(t.Context(), Email{To: "john@example.com", Subject: "Hi", Text: "Hello", HTML: "<b>Hello</b>"})

		require.NoError(t, err)
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, []string{"john@example.com"}, form["to"])
		assert.Equal(t, []string{"Hi"}, form["subject"])
		assert.Equal(t, []string{"<b>Hello</b>"}, form["html"])
	})

	t.Run("api error", func(t *testing.T) {
		srvDown := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer srvDown.Close()
		s := NewMailgunSender("example.com", "key", "noreply@example.com")
		s.SetAPIBase(srvDown.URL + "/v3")

		err := s.Send(t.Context(), Email{To: "john@example.com", Subject: "Hi", Text: "Hello"})

		require.Error(t, err)
	})
}

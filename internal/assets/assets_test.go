package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iconPage(n, offset int) string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf(`{"id":%d}`, offset+i)
	}
	return `{"data":[` + strings.Join(items, ",") + `]}`
}

func TestStickersPaginatesUntilLimit(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/icons", r.URL.Path)
		assert.Equal(t, "fp-key", r.Header.Get("x-freepik-api-key"))
		assert.Equal(t, "emoji", r.URL.Query().Get("term"))
		assert.Equal(t, "lineal-color", r.URL.Query().Get("filters[shape]"))
		page := r.URL.Query().Get("page")
		pages = append(pages, page)
		p, _ := strconv.Atoi(page)
		fmt.Fprint(w, iconPage(100, (p-1)*100))
	}))
	defer srv.Close()

	stickers, err := NewClient(srv.URL, "fp-key", "", "", 5*time.Second).Stickers(context.Background())
	require.NoError(t, err)
	assert.Len(t, stickers, MaxStickers)
	assert.Equal(t, []string{"1", "2"}, pages)
	assert.JSONEq(t, `{"id":199}`, string(stickers[199]))
}

func TestStickersStopsOnShortPage(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, iconPage(30, 0))
	}))
	defer srv.Close()

	stickers, err := NewClient(srv.URL, "fp-key", "", "", 5*time.Second).Stickers(context.Background())
	require.NoError(t, err)
	assert.Len(t, stickers, 30)
	assert.Equal(t, 1, calls)
}

func TestStickersUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "fp-key", "", "", 5*time.Second).Stickers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestEmojiDefaultCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories/travel-places", r.URL.Path)
		assert.Equal(t, "em-key", r.URL.Query().Get("access_key"))
		fmt.Fprint(w, `[{"slug":"airplane","character":"✈"}]`)
	}))
	defer srv.Close()

	emojis, err := NewClient("", "", srv.URL, "em-key", 5*time.Second).Emoji(context.Background(), "")
	require.NoError(t, err)

	var list []map[string]string
	require.NoError(t, json.Unmarshal(emojis, &list))
	assert.Equal(t, "airplane", list[0]["slug"])
}

func TestMissingKeys(t *testing.T) {
	c := NewClient("http://unused", "", "http://unused", "", time.Second)

	_, err := c.Stickers(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = c.Emoji(context.Background(), "animals-nature")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

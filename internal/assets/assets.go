// Package assets 代理编辑器用到的贴纸 (Freepik) 和表情 (Emoji API) 素材
package assets

import (
	"artcase-backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("未配置素材服务密钥")

const (
	stickerPageSize = 100
	// MaxStickers 每次最多返回的贴纸数量
	MaxStickers = 200
	// DefaultEmojiCategory 未指定分类时的表情分类
	DefaultEmojiCategory = "travel-places"
)

type Client struct {
	freepikURL string
	freepikKey string
	emojiURL   string
	emojiKey   string
	http       *http.Client
}

func NewClient(freepikURL, freepikKey, emojiURL, emojiKey string, timeout time.Duration) *Client {
	return &Client{
		freepikURL: strings.TrimRight(freepikURL, "/"),
		freepikKey: freepikKey,
		emojiURL:   strings.TrimRight(emojiURL, "/"),
		emojiKey:   emojiKey,
		http:       &http.Client{Timeout: timeout},
	}
}

// Stickers 按页拉取 lineal-color 风格的 emoji 图标，直到凑满 MaxStickers 或没有下一页
func (c *Client) Stickers(ctx context.Context) ([]json.RawMessage, error) {
	if c.freepikKey == "" {
		return nil, ErrNotConfigured
	}

	stickers := make([]json.RawMessage, 0, MaxStickers)
	for page := 1; len(stickers) < MaxStickers; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(stickerPageSize))
		q.Set("term", "emoji")
		q.Set("filters[shape]", "lineal-color")

		var body struct {
			Data []json.RawMessage `json:"data"`
		}
		headers := map[string]string{"x-freepik-api-key": c.freepikKey}
		if err := c.get(ctx, c.freepikURL+"/v1/icons?"+q.Encode(), headers, &body); err != nil {
			return nil, err
		}
		stickers = append(stickers, body.Data...)
		if len(body.Data) < stickerPageSize {
			break
		}
	}

	if len(stickers) > MaxStickers {
		stickers = stickers[:MaxStickers]
	}
	util.Logger.Debug("贴纸拉取完成", zap.Int("count", len(stickers)))
	return stickers, nil
}

// Emoji 返回某个分类下的表情，上游返回什么就透传什么
func (c *Client) Emoji(ctx context.Context, category string) (json.RawMessage, error) {
	if c.emojiKey == "" {
		return nil, ErrNotConfigured
	}
	if category == "" {
		category = DefaultEmojiCategory
	}

	endpoint := fmt.Sprintf("%s/categories/%s?access_key=%s",
		c.emojiURL, url.PathEscape(category), url.QueryEscape(c.emojiKey))
	var emojis json.RawMessage
	if err := c.get(ctx, endpoint, nil, &emojis); err != nil {
		return nil, err
	}
	return emojis, nil
}

func (c *Client) get(ctx context.Context, endpoint string, headers map[string]string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("请求素材服务失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("读取素材服务响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("素材服务返回 HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("解析素材服务响应失败: %w", err)
	}
	return nil
}

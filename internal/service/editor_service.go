package service

import (
	"artcase-backend/internal/cache"
	"artcase-backend/internal/errors"
	"artcase-backend/internal/fulfillment"
	"artcase-backend/internal/util"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// PrintCatalog 打印服务的产品目录和模板
type PrintCatalog interface {
	PhoneCases(ctx context.Context) ([]map[string]interface{}, error)
	Templates(ctx context.Context, sku string) (map[string]interface{}, error)
}

// AssetSource 编辑器贴纸和表情素材
type AssetSource interface {
	Stickers(ctx context.Context) ([]json.RawMessage, error)
	Emoji(ctx context.Context, category string) (json.RawMessage, error)
}

// EditorService 给设计编辑器提供第三方素材，结果短期缓存以减少上游调用
type EditorService struct {
	catalog PrintCatalog
	assets  AssetSource
	cache   cache.Store
	ttl     time.Duration
}

func NewEditorService(catalog PrintCatalog, assets AssetSource, store cache.Store, ttl time.Duration) *EditorService {
	return &EditorService{catalog: catalog, assets: assets, cache: store, ttl: ttl}
}

// cached 读缓存，未命中时调用 load 并回写，缓存读写失败只记日志
func (s *EditorService) cached(ctx context.Context, key string, dest interface{}, load func() (interface{}, error)) error {
	if s.cache != nil {
		hit, err := s.cache.GetJSON(ctx, key, dest)
		if err != nil {
			util.Logger.Warn("读取编辑器素材缓存失败", zap.String("key", key), zap.Error(err))
		} else if hit {
			return nil
		}
	}

	value, err := load()
	if err != nil {
		return err
	}

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
			util.Logger.Warn("写入编辑器素材缓存失败", zap.String("key", key), zap.Error(err))
		}
	}
	// 统一经过一次 JSON，命中和未命中返回相同的结构
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (s *EditorService) PhoneCases(ctx context.Context) ([]map[string]interface{}, error) {
	var cases []map[string]interface{}
	err := s.cached(ctx, "editor:phone-cases", &cases, func() (interface{}, error) {
		result, err := s.catalog.PhoneCases(ctx)
		if err != nil {
			return nil, upstreamError("Failed to fetch phone cases", err)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (s *EditorService) Templates(ctx context.Context, sku string) (map[string]interface{}, error) {
	if sku == "" {
		sku = fulfillment.DefaultTemplateSKU
	}
	var templates map[string]interface{}
	err := s.cached(ctx, "editor:templates:"+sku, &templates, func() (interface{}, error) {
		result, err := s.catalog.Templates(ctx, sku)
		if err != nil {
			return nil, upstreamError("Failed to fetch templates", err)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return templates, nil
}

func (s *EditorService) Stickers(ctx context.Context) ([]json.RawMessage, error) {
	var stickers []json.RawMessage
	err := s.cached(ctx, "editor:stickers", &stickers, func() (interface{}, error) {
		result, err := s.assets.Stickers(ctx)
		if err != nil {
			return nil, upstreamError("Failed to fetch resources", err)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return stickers, nil
}

func (s *EditorService) Emoji(ctx context.Context, category string) (json.RawMessage, error) {
	var emojis json.RawMessage
	err := s.cached(ctx, "editor:emoji:"+category, &emojis, func() (interface{}, error) {
		result, err := s.assets.Emoji(ctx, category)
		if err != nil {
			return nil, upstreamError("Failed to fetch emojis", err)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	return emojis, nil
}

func upstreamError(message string, err error) error {
	util.Logger.Error(message, zap.Error(err))
	return errors.Wrap(errors.ErrExternalService, message, err)
}

package editor

import (
	"artcase-backend/internal/errors"
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

type EditorService interface {
	PhoneCases(ctx context.Context) ([]map[string]interface{}, error)
	Templates(ctx context.Context, sku string) (map[string]interface{}, error)
	Stickers(ctx context.Context) ([]json.RawMessage, error)
	Emoji(ctx context.Context, category string) (json.RawMessage, error)
}

// EditorHandler 设计编辑器用到的打印目录和素材，全部公开访问
type EditorHandler struct {
	editor EditorService
}

func NewEditorHandler(editor EditorService) *EditorHandler {
	return &EditorHandler{editor: editor}
}

func (h *EditorHandler) PhoneCases(c *gin.Context) {
	cases, err := h.editor.PhoneCases(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"phone_cases": cases}, "")
}

// Templates ?sku= 为空时使用默认机型
func (h *EditorHandler) Templates(c *gin.Context) {
	templates, err := h.editor.Templates(c.Request.Context(), c.Query("sku"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, templates, "")
}

func (h *EditorHandler) Stickers(c *gin.Context) {
	stickers, err := h.editor.Stickers(c.Request.Context())
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, stickers, "")
}

func (h *EditorHandler) Emoji(c *gin.Context) {
	emojis, err := h.editor.Emoji(c.Request.Context(), c.Query("category"))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, emojis, "")
}

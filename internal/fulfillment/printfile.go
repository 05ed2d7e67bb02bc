// Package fulfillment 生成打印文件并向 Gooten (print.io) 提交打印订单
package fulfillment

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/nfnt/resize"
)

// 手机壳打印区域尺寸
const (
	PrintWidth  = 1176
	PrintHeight = 2060
)

const maxSourceImageBytes = 20 << 20

// PreparePrintFile 下载设计图并缩放到打印尺寸，输出 PNG
func PreparePrintFile(ctx context.Context, client *http.Client, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("下载设计图失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("下载设计图失败: HTTP %d", resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxSourceImageBytes))
	if err != nil {
		return nil, fmt.Errorf("解析设计图失败: %w", err)
	}
	return ResizeForPrint(img)
}

// ResizeForPrint 拉伸到 1176x2060，不保持比例
func ResizeForPrint(img image.Image) ([]byte, error) {
	resized := resize.Resize(PrintWidth, PrintHeight, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("编码打印文件失败: %w", err)
	}
	return buf.Bytes(), nil
}

// Package classifier 调用外部 Gradio 图像分类服务，返回设计的类别和三种主色
package classifier

import (
	"artcase-backend/internal/model"
	"artcase-backend/internal/util"
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrMalformedResponse = errors.New("分类服务返回格式异常")

// GradioClient 两步调用：先提交任务拿到 event_id，再读取 SSE 结果
type GradioClient struct {
	baseURL string
	http    *http.Client
}

func NewGradioClient(baseURL string, timeout time.Duration) *GradioClient {
	return &GradioClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Classify 返回 (category, color1, color2, color3)
func (c *GradioClient) Classify(ctx context.Context, imageURL string) (model.Classification, error) {
	if c.baseURL == "" {
		return model.Classification{}, errors.New("未配置分类服务地址")
	}

	eventID, err := c.submit(ctx, imageURL)
	if err != nil {
		return model.Classification{}, err
	}
	result, err := c.fetch(ctx, eventID)
	if err != nil {
		return model.Classification{}, err
	}
	util.Logger.Info("设计分类完成", zap.String("image_url", imageURL), zap.String("category", result.Category))
	return result, nil
}

func (c *GradioClient) submit(ctx context.Context, imageURL string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{"data": []string{imageURL}})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/call/predict", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("提交分类任务失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("提交分类任务失败: HTTP %d", resp.StatusCode)
	}

	var body struct {
		EventID string `json:"event_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if body.EventID == "" {
		return "", ErrMalformedResponse
	}
	return body.EventID, nil
}

func (c *GradioClient) fetch(ctx context.Context, eventID string) (model.Classification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/call/predict/"+eventID, nil)
	if err != nil {
		return model.Classification{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return model.Classification{}, fmt.Errorf("读取分类结果失败: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.Classification{}, fmt.Errorf("读取分类结果失败: HTTP %d", resp.StatusCode)
	}
	return parseEventStream(bufio.NewScanner(resp.Body))
}

// parseEventStream 找到 complete 事件后的 data 行
func parseEventStream(scanner *bufio.Scanner) (model.Classification, error) {
	event := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if event == "error" {
				return model.Classification{}, fmt.Errorf("分类服务返回错误: %s", data)
			}
			if event == "complete" {
				return parseResult(data)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return model.Classification{}, err
	}
	return model.Classification{}, ErrMalformedResponse
}

func parseResult(data string) (model.Classification, error) {
	var values []interface{}
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return model.Classification{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(values) < 4 {
		return model.Classification{}, ErrMalformedResponse
	}
	fields := make([]string, 4)
	for i := range fields {
		s, ok := values[i].(string)
		if !ok {
			return model.Classification{}, ErrMalformedResponse
		}
		fields[i] = s
	}
	return model.Classification{Category: fields[0], Color1: fields[1], Color2: fields[2], Color3: fields[3]}, nil
}

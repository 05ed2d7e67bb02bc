package fulfillment

import (
	"artcase-backend/internal/util"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

var ErrNotConfigured = errors.New("未配置打印服务")

type Address struct {
	FirstName   string `json:"FirstName"`
	LastName    string `json:"LastName"`
	Line1       string `json:"Line1"`
	City        string `json:"City"`
	State       string `json:"State,omitempty"`
	PostalCode  string `json:"PostalCode,omitempty"`
	CountryCode string `json:"CountryCode"`
	Phone       string `json:"Phone"`
	Email       string `json:"Email"`
}

type ImagePosition struct {
	X        float64 `json:"X"`
	Y        float64 `json:"Y"`
	ScaleX   float64 `json:"ScaleX"`
	ScaleY   float64 `json:"ScaleY"`
	Rotation float64 `json:"Rotation"`
}

type PrintArea struct {
	Width  int `json:"Width"`
	Height int `json:"Height"`
}

type ItemImage struct {
	URL             string        `json:"Url"`
	UseURLAsImageID bool          `json:"UseUrlAsImageID"`
	Position        ImagePosition `json:"Position"`
	PrintArea       PrintArea     `json:"PrintArea"`
}

type Item struct {
	SKU      string      `json:"SKU"`
	Quantity int         `json:"Quantity"`
	Images   []ItemImage `json:"Images"`
}

type Payment struct {
	CurrencyCode      string `json:"CurrencyCode"`
	PartnerBillingKey string `json:"PartnerBillingKey"`
}

// Order print.io 订单请求体
type Order struct {
	Items                []Item  `json:"Items"`
	ShipToAddress        Address `json:"ShipToAddress"`
	BillingAddress       Address `json:"BillingAddress"`
	Payment              Payment `json:"Payment"`
	IsPackingSlipEnabled bool    `json:"IsPackingSlipEnabled"`
}

// NewItem 图片居中铺满整个打印区域
func NewItem(sku string, quantity int, imageURL string) Item {
	return Item{
		SKU:      sku,
		Quantity: quantity,
		Images: []ItemImage{{
			URL:       imageURL,
			Position:  ImagePosition{X: 0.5, Y: 0.5, ScaleX: 1, ScaleY: 1},
			PrintArea: PrintArea{Width: PrintWidth, Height: PrintHeight},
		}},
	}
}

type GootenClient struct {
	baseURL    string
	apiKey     string
	recipeID   string
	billingKey string
	http       *http.Client
}

func NewGootenClient(baseURL, apiKey, recipeID, billingKey string, timeout time.Duration) *GootenClient {
	return &GootenClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		recipeID:   recipeID,
		billingKey: billingKey,
		http:       &http.Client{Timeout: timeout},
	}
}

// HTTPClient 下载设计图时复用同一个客户端
func (c *GootenClient) HTTPClient() *http.Client {
	return c.http
}

// SubmitOrder 提交订单，返回 print.io 的原始响应
func (c *GootenClient) SubmitOrder(ctx context.Context, order Order) (map[string]interface{}, error) {
	if c.baseURL == "" || c.apiKey == "" || c.recipeID == "" {
		return nil, ErrNotConfigured
	}
	order.Payment = Payment{CurrencyCode: "USD", PartnerBillingKey: c.billingKey}
	order.IsPackingSlipEnabled = true

	payload, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}
	endpoint := c.baseURL + "/api/orders?recipeId=" + url.QueryEscape(c.recipeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("提交打印订单失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("读取打印服务响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		util.Logger.Warn("打印服务拒绝订单", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, fmt.Errorf("打印服务返回 HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	result := map[string]interface{}{}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &result); err != nil {
			return nil, fmt.Errorf("解析打印服务响应失败: %w", err)
		}
	}
	return result, nil
}

// DefaultTemplateSKU 编辑器默认使用的手机壳模板
const DefaultTemplateSKU = "PremiumPhoneCase-iPhone-15-pro-SnapCaseGloss"

func (c *GootenClient) getJSON(ctx context.Context, endpoint string, bearer bool, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if bearer {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("请求打印服务失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return fmt.Errorf("读取打印服务响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("打印服务返回 HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("解析打印服务响应失败: %w", err)
	}
	return nil
}

// PhoneCases 产品目录中名称包含 phone case 的产品
func (c *GootenClient) PhoneCases(ctx context.Context) ([]map[string]interface{}, error) {
	if c.baseURL == "" || c.apiKey == "" {
		return nil, ErrNotConfigured
	}
	var catalog struct {
		Products []map[string]interface{} `json:"Products"`
	}
	endpoint := c.baseURL + "/api/v/6/source/api/products?apiKey=" + url.QueryEscape(c.apiKey)
	if err := c.getJSON(ctx, endpoint, false, &catalog); err != nil {
		return nil, err
	}

	cases := make([]map[string]interface{}, 0)
	for _, p := range catalog.Products {
		name, _ := p["Name"].(string)
		if strings.Contains(strings.ToLower(name), "phone case") {
			cases = append(cases, p)
		}
	}
	return cases, nil
}

// Templates 查询某个 SKU 的打印模板，sku 为空时使用 DefaultTemplateSKU
func (c *GootenClient) Templates(ctx context.Context, sku string) (map[string]interface{}, error) {
	if c.baseURL == "" || c.apiKey == "" || c.recipeID == "" {
		return nil, ErrNotConfigured
	}
	if sku == "" {
		sku = DefaultTemplateSKU
	}
	q := url.Values{}
	q.Set("recipeid", c.recipeID)
	q.Set("sku", sku)

	result := map[string]interface{}{}
	if err := c.getJSON(ctx, c.baseURL+"/api/v/5/source/api/producttemplates/?"+q.Encode(), true, &result); err != nil {
		return nil, err
	}
	return result, nil
}

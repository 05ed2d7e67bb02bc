package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange 统计时间范围，两端都可为空
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// Analytics 管理端统计面板
type Analytics struct {
	Designs     DesignAnalytics     `json:"designs"`
	Posts       PostAnalytics       `json:"posts"`
	Orders      OrderAnalytics      `json:"orders"`
	Users       UserAnalytics       `json:"users"`
	TimeSeries  TimeSeriesAnalytics `json:"time_series"`
	GeneratedAt time.Time           `json:"generated_at"`
}

type ClassStat struct {
	Class      string `json:"class"`
	Count      int    `json:"count"`
	TotalLikes int    `json:"total_likes"`
	TotalPosts int    `json:"total_posts"`
}

type SalesStat struct {
	Key          string          `json:"key"`
	Count        int             `json:"count"`
	AvgPrice     decimal.Decimal `json:"avg_price"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	OrderCount   int             `json:"order_count"`
}

type KeyCount struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

type DesignAnalytics struct {
	Total           int         `json:"total"`
	ByClass         []ClassStat `json:"by_class"`
	ByModel         []SalesStat `json:"by_model"`
	ByType          []SalesStat `json:"by_type"`
	StockStatus     []KeyCount  `json:"stock_status"`
	MostPostedClass []KeyCount  `json:"most_posted_class"`
	MostPostedModel []KeyCount  `json:"most_posted_model"`
}

type PostStat struct {
	PostID   int    `json:"post_id"`
	Caption  string `json:"caption"`
	Username string `json:"username"`
	ImageURL string `json:"image_url"`
	Class    string `json:"class"`
	Model    string `json:"model"`
	Count    int    `json:"count"`
}

type DateCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type PostAnalytics struct {
	Total        int         `json:"total"`
	TopLiked     []PostStat  `json:"top_liked"`
	TopCommented []PostStat  `json:"top_commented"`
	TopFavorited []PostStat  `json:"top_favorited"`
	TimeSeries   []DateCount `json:"time_series"`
}

type QuantityRevenue struct {
	Key      string          `json:"key"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type StatusStat struct {
	Status  string          `json:"status"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type LocationStat struct {
	Country string          `json:"country"`
	City    string          `json:"city"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type OrderAnalytics struct {
	TotalOrders        int               `json:"total_orders"`
	TotalRevenue       decimal.Decimal   `json:"total_revenue"`
	ByModel            []QuantityRevenue `json:"by_model"`
	ByType             []QuantityRevenue `json:"by_type"`
	StatusDistribution []StatusStat      `json:"status_distribution"`
	ByLocation         []LocationStat    `json:"by_location"`
	MostOrderedModels  []KeyCount        `json:"most_ordered_models"`
	MostOrderedTypes   []KeyCount        `json:"most_ordered_types"`
}

type ActiveUser struct {
	UserID        int    `json:"user_id"`
	Username      string `json:"username"`
	TotalPosts    int    `json:"total_posts"`
	TotalLikes    int    `json:"total_likes"`
	TotalComments int    `json:"total_comments"`
	ActivityScore int    `json:"activity_score"`
}

// ActivityScore 活跃度：发帖 3 分，点赞 1 分，评论 2 分
func ActivityScore(posts, likes, comments int) int {
	return 3*posts + likes + 2*comments
}

type HeatmapCell struct {
	Hour      int `json:"hour"`
	DayOfWeek int `json:"day_of_week"`
	Count     int `json:"count"`
}

type UserAnalytics struct {
	Total            int           `json:"total"`
	MostActive       []ActiveUser  `json:"most_active"`
	DiscountEligible []ActiveUser  `json:"discount_eligible"`
	EngagementMap    []HeatmapCell `json:"engagement_heatmap"`
}

type EngagementPoint struct {
	Date      string `json:"date"`
	Likes     int    `json:"likes"`
	Comments  int    `json:"comments"`
	Favorites int    `json:"favorites"`
}

type TimeSeriesAnalytics struct {
	DesignsOverTime    []DateCount       `json:"designs_over_time"`
	EngagementOverTime []EngagementPoint `json:"engagement_over_time"`
}

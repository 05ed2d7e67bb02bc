package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// Config 结构体用于存储应用程序的配置信息
type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	LogLevel   string
	ServerPort string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string

	FrontendURL string
	BackendURL  string

	RedisAddr         string
	RedisPassword     string
	RedisDB           int
	AnalyticsCacheTTL int // 秒

	RateLimitRPS   int
	RateLimitBurst int

	StorageDriver      string // local | s3 | gcs | cloudinary
	S3Region           string
	S3Bucket           string
	GCSProjectID       string
	GCSBucketName      string
	GCSCredentialsFile string
	LocalStoragePath   string
	CloudinaryURL      string

	ClassifierURL     string
	ClassifierTimeout int // 秒

	GootenBaseURL    string
	GootenAPIKey     string
	GootenRecipeID   string
	GootenBillingKey string

	FreepikBaseURL string
	FreepikAPIKey  string
	EmojiBaseURL   string
	EmojiAPIKey    string
	EditorCacheTTL int // 秒

	// 折扣资格阈值：用户帖子累计获赞数达到该值即可享受折扣
	DiscountLikeThreshold  int
	LoyaltyDiscountPercent int
	DefaultProfilePic      string

	Debug bool // 是否开启调试模式
}

// AppConfig 是全局配置变量
var AppConfig Config

// Init 函数用于初始化配置
func Init() {
	// 加载 .env 文件
	err := godotenv.Load()
	if err != nil {
		log.Printf("警告：无法加载 .env 文件: %v", err)
	}

	AppConfig = Load()

	validateConfig()

	if AppConfig.Debug {
		gin.SetMode(gin.DebugMode)
		log.Println("应用程序运行在调试模式")
	} else {
		gin.SetMode(gin.ReleaseMode)
		log.Println("应用程序运行在生产模式")
	}

	log.Printf("配置加载完成。数据库：%s:%s，存储：%s", AppConfig.DBHost, AppConfig.DBPort, AppConfig.StorageDriver)
}

// Load 从环境变量读取配置，不做校验
func Load() Config {
	return Config{
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", ""),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", ""),
		JWTSecret:  getEnv("JWT_SECRET", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:     getEnvAsInt("SMTP_PORT", 465),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", getEnv("SMTP_USERNAME", "")),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),
		BackendURL:  getEnv("BACKEND_URL", "http://localhost:8080"),

		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsInt("REDIS_DB", 0),
		AnalyticsCacheTTL: getEnvAsInt("ANALYTICS_CACHE_TTL", 60),

		RateLimitRPS:   getEnvAsInt("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 30),

		StorageDriver:      getEnv("STORAGE_DRIVER", "local"),
		S3Region:           getEnv("S3_REGION", "us-west-2"),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		GCSProjectID:       getEnv("GCS_PROJECT_ID", ""),
		GCSBucketName:      getEnv("GCS_BUCKET_NAME", ""),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
		LocalStoragePath:   getEnv("LOCAL_STORAGE_PATH", "./uploads"),
		CloudinaryURL:      getEnv("CLOUDINARY_URL", ""),

		ClassifierURL:     getEnv("CLASSIFIER_URL", ""),
		ClassifierTimeout: getEnvAsInt("CLASSIFIER_TIMEOUT", 20),

		GootenBaseURL:    getEnv("GOOTEN_BASE_URL", "https://api.print.io"),
		GootenAPIKey:     getEnv("GOOTEN_API_KEY", ""),
		GootenRecipeID:   getEnv("GOOTEN_RECIPE_ID", ""),
		GootenBillingKey: getEnv("GOOTEN_BILLING_KEY", ""),

		FreepikBaseURL: getEnv("FREEPIK_BASE_URL", "https://api.freepik.com"),
		FreepikAPIKey:  getEnv("FREEPIK_API_KEY", ""),
		EmojiBaseURL:   getEnv("EMOJI_BASE_URL", "https://emoji-api.com"),
		EmojiAPIKey:    getEnv("EMOJI_API_KEY", ""),
		EditorCacheTTL: getEnvAsInt("EDITOR_CACHE_TTL", 600),

		DiscountLikeThreshold:  getEnvAsInt("DISCOUNT_LIKE_THRESHOLD", 4),
		LoyaltyDiscountPercent: getEnvAsInt("LOYALTY_DISCOUNT_PERCENT", 0),
		DefaultProfilePic: getEnv("DEFAULT_PROFILE_PIC",
			"https://res.cloudinary.com/dnrgyjxsa/image/upload/v1735488163/default-profile_pic.png"),

		Debug: getEnvAsBool("DEBUG", false),
	}
}

// MySQLDSN 拼接数据库连接串，extra 追加到参数末尾
func (c Config) MySQLDSN(extra string) string {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
	if extra != "" {
		dsn += "&" + extra
	}
	return dsn
}

// MailEnabled 是否配置了 SMTP
func (c Config) MailEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUsername != "" && c.SMTPPassword != ""
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := getEnv(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func validateConfig() {
	if AppConfig.DBHost == "" || AppConfig.DBUser == "" || AppConfig.DBName == "" {
		log.Fatal("错误：数据库配置不完整")
	}
	if AppConfig.JWTSecret == "" {
		log.Fatal("错误：JWT密钥未设置")
	}
	if AppConfig.DiscountLikeThreshold < 1 {
		log.Fatal("错误：DISCOUNT_LIKE_THRESHOLD 必须大于 0")
	}
	if AppConfig.LoyaltyDiscountPercent < 0 || AppConfig.LoyaltyDiscountPercent > 100 {
		log.Fatal("错误：LOYALTY_DISCOUNT_PERCENT 必须在 0 到 100 之间")
	}
	switch AppConfig.StorageDriver {
	case "local", "s3", "gcs":
	case "cloudinary":
		if AppConfig.CloudinaryURL == "" {
			log.Fatal("错误：使用 cloudinary 存储时必须设置 CLOUDINARY_URL")
		}
	default:
		log.Fatalf("错误：未知的存储驱动 %s", AppConfig.StorageDriver)
	}
	if !AppConfig.MailEnabled() {
		log.Println("警告：SMTP 配置不完整，邮件通知已禁用")
	}
}

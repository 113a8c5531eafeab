package app

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"library-management-system/auth"
	"library-management-system/config"
	"library-management-system/db"
	"library-management-system/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Ctx = gin.Context
type H = gin.H

// App aggregates the process-wide dependencies; everything downstream
// receives them by reference instead of reaching for globals.
type App struct {
	Router  *gin.Engine
	DB      *gorm.DB
	RDB     *redis.Client
	Tokens  *auth.Issuer
	Refresh *session.RefreshStore
	Config  Config
}

type Config struct {
	RedisAddr string
	RedisPwd  string
	WebOrigin string
	JWTSecret string

	// BorrowSelfService decides who the loan-creation actor is: patrons
	// borrowing for themselves, or librarians recording loans on their behalf.
	BorrowSelfService bool

	BootstrapEmail    string
	BootstrapPassword string
}

func MustNew() *App {
	cfg := loadConfig()

	dbConn := db.ConnectDB()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPwd, DB: 0})
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis: %v", err)
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET not defined")
	}

	r := gin.Default()
	useCORS(r, cfg.WebOrigin)

	return &App{
		Router:  r,
		DB:      dbConn,
		RDB:     rdb,
		Tokens:  auth.NewIssuer(cfg.JWTSecret),
		Refresh: session.NewRefreshStore(rdb, auth.RefreshTTL),
		Config:  cfg,
	}
}

func (a *App) Close() { _ = a.RDB.Close() }

func loadConfig() Config {
	selfService := true
	if v, err := strconv.ParseBool(config.Get("BORROW_SELF_SERVICE", "true")); err == nil {
		selfService = v
	}
	return Config{
		RedisAddr:         config.Get("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPwd:          os.Getenv("REDIS_PASSWORD"),
		WebOrigin:         config.Get("WEB_ORIGIN", "http://localhost:3000"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		BorrowSelfService: selfService,
		BootstrapEmail:    os.Getenv("BOOTSTRAP_ADMIN_EMAIL"),
		BootstrapPassword: os.Getenv("BOOTSTRAP_ADMIN_PASSWORD"),
	}
}

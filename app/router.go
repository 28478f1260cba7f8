// Package app wires the HTTP endpoints to the account core
package app

import (
	"fmt"
	"time"

	"pricecompare/account-api/app/root"
	"pricecompare/account-api/app/user"
	"pricecompare/account-api/db"
	"pricecompare/account-api/internal"
	"pricecompare/account-api/internal/account"
	"pricecompare/account-api/internal/service"
	"pricecompare/account-api/pkg/middleware"
	"pricecompare/account-api/pkg/security"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	conn, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	tokens := security.NewTokenIssuer(
		[]byte(viper.GetString("jwt.secret")),
		time.Duration(viper.GetInt("jwt.ttl_minutes"))*time.Minute,
	)

	d := &internal.Deps{
		DB:      conn,
		Account: account.NewService(conn, security.NewArgonHash(), tokens, service.NewMailer()),
	}

	return newEngine(d), nil
}

func newEngine(d *internal.Deps) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("requestID", v))
				}

				if v := c.GetString("userID"); v != "" {
					fields = append(fields, zap.String("userID", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	auth := middleware.NewAuthMiddleware(d.Account)

	m := router.Group("/api", middleware.BodySizeLimiter(1<<20))
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)

		// POST /api/login		-> Logs in a user and returns a bearer token
		m.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/register		-> Registers a new user
		m.POST("/register", func(c *gin.Context) { user.UserRegister(c, d) })

		// PUT /api/verify		-> Redeems a verification code
		m.PUT("/verify", func(c *gin.Context) { user.UserVerify(c, d) })
	}

	u := m.Group("/user", auth)
	{
		// GET /api/user/:id		-> Returns the basic info of a user
		u.GET("/:id", func(c *gin.Context) { user.UserFetch(c, d) })

		// PUT /api/user/:id/username	-> Changes the username of a user
		u.PUT("/:id/username", func(c *gin.Context) { user.UserUpdateUsername(c, d) })

		// PUT /api/user/:id/email	-> Changes the email of a user
		u.PUT("/:id/email", func(c *gin.Context) { user.UserUpdateEmail(c, d) })

		// PUT /api/user/:id/password	-> Changes the password of a user
		u.PUT("/:id/password", func(c *gin.Context) { user.UserUpdatePassword(c, d) })

		// DELETE /api/user/:id		-> Deletes a user account
		u.DELETE("/:id", func(c *gin.Context) { user.UserDelete(c, d) })
	}

	return router
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	if lvl, err := zapcore.ParseLevel(viper.GetString("app.log_level")); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}

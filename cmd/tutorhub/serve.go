package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ERIC-757875/TutorHub/internal/api/handler"
	"github.com/ERIC-757875/TutorHub/internal/api/middleware"
	"github.com/ERIC-757875/TutorHub/internal/api/router"
	"github.com/ERIC-757875/TutorHub/internal/api/session"
	"github.com/ERIC-757875/TutorHub/internal/repository"
	"github.com/ERIC-757875/TutorHub/internal/service"
	"github.com/ERIC-757875/TutorHub/pkg/filewatch"
	"github.com/ERIC-757875/TutorHub/pkg/redis"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP 服务",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	// 1. 加载配置、初始化日志
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("data", cfg.Data.Path),
		zap.String("schema", cfg.Data.Schema),
		zap.String("log_level", cfg.Log.Level),
	)

	// 2. 连接 Redis（可选：未配置或连接失败时使用进程内限流）
	var limiter middleware.RateLimiter = middleware.NewMemoryLimiter()
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，登录限流改为进程内计数", zap.Error(err))
		} else {
			limiter = rdb
		}
	}

	// 3. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(&cfg.Data, logger)
	svc, err := service.NewService(cfg, repo, logger)
	if err != nil {
		return fmt.Errorf("初始化服务失败: %w", err)
	}
	sessions, err := session.NewManager(&cfg.Gate, logger)
	if err != nil {
		return err
	}
	h := handler.NewHandler(cfg, svc, sessions, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. 预加载一次数据，尽早暴露表格问题（不阻止启动）
	if col, err := repo.Tutor.Load(ctx); err != nil {
		logger.Error("数据文件加载失败，页面将显示错误提示", zap.Error(err))
	} else if col.SourceMissing {
		logger.Warn("数据文件不存在，页面将显示空列表", zap.String("path", cfg.Data.Path))
	} else {
		logger.Info("数据文件加载完成", zap.String("variant", col.Variant.Name), zap.Int("records", col.Len()))
	}

	// 5. 监听数据文件变更
	if cfg.Data.Watch {
		watcher := filewatch.New(cfg.Data.Path, filewatch.DefaultDebounce, func() {
			logger.Info("数据文件已变更，缓存失效", zap.String("path", cfg.Data.Path))
			repo.Tutor.Invalidate()
		}, logger)
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("无法监听数据文件，变更后需手动刷新", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	// 6. 初始化路由
	engine, err := router.Setup(cfg, h, sessions, limiter, logger)
	if err != nil {
		return err
	}

	// 7. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// 8. 等待系统信号，优雅关闭
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP 服务器异常: %w", err)
		}
	case <-ctx.Done():
		logger.Info("收到关闭信号，开始优雅关闭...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
	return nil
}

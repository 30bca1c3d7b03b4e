package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pixels/api"
	"pixels/config"
	"pixels/editor"
)

func runServe(cmd *cobra.Command, f *flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	if err := setupLogger(cfg.Server.LogLevel); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg)
}

// newEngine 创建 gin 引擎并注册路由
func newEngine(cfg *config.Config, ed *editor.Editor) *gin.Engine {
	// 设置 Gin 模式
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	if cfg.Server.EnableCORS {
		r.Use(api.CORS())
	}

	staticDir := cfg.Server.StaticDir
	if _, err := os.Stat(staticDir); err != nil {
		log.Warn().Str("dir", staticDir).Msg("⚠️ 前端静态文件目录不存在，只提供 API")
		staticDir = ""
	}
	api.NewServer(ed,
		api.WithStaticDir(staticDir),
		api.WithThumbnailScale(cfg.Editor.ThumbnailScale),
	).SetupRoutes(r)
	return r
}

// newEditor 根据配置创建编辑器
func newEditor(cfg *config.Config) *editor.Editor {
	return editor.New(editor.Options{
		GridSize:      cfg.Editor.GridSize,
		Speed:         cfg.Editor.Speed,
		MaxGridSize:   cfg.Editor.MaxGridSize,
		MaxSpeed:      cfg.Editor.MaxSpeed,
		DeviceTimeout: cfg.Device.Timeout,
		ThumbnailURL:  api.ThumbnailURL,
	})
}

func serve(ctx context.Context, cfg *config.Config) error {
	ed := newEditor(cfg)
	defer ed.Close()

	log.Info().
		Str("addr", cfg.Addr()).
		Int("gridSize", cfg.Editor.GridSize).
		Float64("speed", cfg.Editor.Speed).
		Dur("deviceTimeout", cfg.Device.Timeout).
		Msg("🔧 服务配置")

	if cfg.Device.Address != "" {
		if err := ed.Connect(ctx, cfg.Device.Address); err != nil {
			log.Warn().Err(err).Msg("⚠️ 启动时连接设备失败，可稍后在页面上重试")
		}
	}

	srv := &http.Server{
		Addr:        cfg.Addr(),
		Handler:     newEngine(cfg, ed),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("🌐 像素动画编辑器运行在 http://%s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("❌ 服务启动失败")
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("🛑 正在关闭服务")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

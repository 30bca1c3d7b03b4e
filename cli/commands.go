package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pixels/config"
	"pixels/preset"
	"pixels/preview"
)

func newPreviewCommand(f *flags) *cobra.Command {
	var presetName string

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "在终端中播放动画文件或预设",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// 预览占用终端，日志只保留错误
			if err := setupLogger("error"); err != nil {
				return err
			}

			switch {
			case len(args) == 1:
				cfg, err := loadConfig(cmd, f)
				if err != nil {
					return err
				}
				anim, err := preview.FromFile(args[0], cfg.Editor.MaxGridSize)
				if err != nil {
					return err
				}
				return preview.Run(anim, args[0])
			case presetName != "":
				catalog := preset.MustBuiltin()
				anim, err := preview.FromPreset(catalog, presetName)
				if err != nil {
					return err
				}
				return preview.Run(anim, fmt.Sprintf("%s - %s", presetName, catalog.Description(presetName)))
			default:
				return fmt.Errorf("需要指定动画文件或 --preset")
			}
		},
	}
	cmd.Flags().StringVar(&presetName, "preset", "", "预设动画名称")
	return cmd
}

func newPresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "列出内置预设动画",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := preset.Builtin()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGRID\tSPEED\tFRAMES\tDESCRIPTION")
			for _, name := range catalog.Names() {
				p, _ := catalog.Get(name)
				fmt.Fprintf(w, "%s\t%d\t%g\t%d\t%s\n", p.Name, p.GridSize, p.Speed, len(p.Frames), p.Description)
			}
			return w.Flush()
		},
	}
}

func newConfigCommand(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "配置文件管理",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "生成默认配置文件",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "pixels.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("配置文件已存在：%s（使用 --force 覆盖）", path)
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ 已生成配置文件 %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "覆盖已存在的文件")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "打印合并后的最终配置",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, f)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "server: %s (cors=%v, static=%s, log=%s)\n", cfg.Addr(), cfg.Server.EnableCORS, cfg.Server.StaticDir, cfg.Server.LogLevel)
			fmt.Fprintf(cmd.OutOrStdout(), "editor: grid=%d speed=%g max_grid=%d\n", cfg.Editor.GridSize, cfg.Editor.Speed, cfg.Editor.MaxGridSize)
			fmt.Fprintf(cmd.OutOrStdout(), "device: address=%q timeout=%s\n", cfg.Device.Address, cfg.Device.Timeout)
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/poseseq"
)

// RootCommand creates and returns the root command.
func RootCommand() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:           "poseseq",
		Short:         "Search pose keypoint streams for pose sequences",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	setupFlags(rootCmd, v)

	rootCmd.AddCommand(
		searchCommand(v),
		snapshotCommand(v),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		// Subcommand flags are bound here so only the running command's
		// flags end up in viper.
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return fmt.Errorf("error binding flags: %w", err)
		}
		return initialize(v)
	}

	return rootCmd
}

// initialize reads the config file, if any, after flags are parsed.
func initialize(v *viper.Viper) error {
	v.SetEnvPrefix("POSESEQ")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", file, err)
		}
	}
	return nil
}

func setupFlags(rootCmd *cobra.Command, v *viper.Viper) {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (yaml, json or toml)")
	pf.BoolP("debug", "d", false, "Enable debug output")
	pf.String("log-format", "text", "Log format: text, json")

	pf.String("store", "local", "Blob store: local, s3, minio")
	pf.String("root", ".", "Root directory of the local store")
	pf.String("bucket", "", "Bucket of the s3 or minio store")
	pf.String("prefix", "", "Key prefix inside the bucket")
	pf.String("region", "", "Region of the s3 or minio store")
	pf.String("endpoint", "", "Custom endpoint of the s3 or minio store")
	pf.String("access-key", "", "MinIO access key")
	pf.String("secret-key", "", "MinIO secret key")
	pf.Bool("secure", true, "Use TLS for MinIO")
	pf.Int64("cache-bytes", 32<<20, "In-memory cache for small blobs of remote stores (0 disables)")

	pf.Int("read-concurrency", 8, "Maximum number of keypoint files read at once")
	pf.Int64("read-rate", 0, "Maximum read throughput in bytes per second (0 = unlimited)")

	_ = v.BindPFlags(pf)
}

func newLogger(v *viper.Viper, w io.Writer) *poseseq.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if v.GetBool("debug") {
		opts.Level = slog.LevelDebug
	}
	if v.GetString("log-format") == "json" {
		return poseseq.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return poseseq.NewLogger(slog.NewTextHandler(w, opts))
}

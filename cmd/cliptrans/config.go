package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/cliptrans/internal/logging"
)

const envPrefix = "CLIPTRANS"

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and CLIPTRANS_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → CLIPTRANS_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("cliptrans")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/cliptrans/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "cliptrans"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// loadDotEnv loads .env from the working directory, then from the
// executable's directory. Variables already set in the environment win.
func loadDotEnv() {
	paths := []string{".env"}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), ".env"))
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			fmt.Fprintf(os.Stderr, "cliptrans: ignoring %s: %v\n", p, err)
		}
	}
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info, debug when interactive)")
	cmd.Flags().String("log-file", "", "write JSON logs to this file (rotated) instead of stderr")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// setupLogging reads logging flags from viper and configures slog. Close the
// result on exit.
func setupLogging(v *viper.Viper) io.Closer {
	interactive := v.GetBool("no-background") || logging.IsTTY(os.Stderr)
	return logging.Setup(resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"), v.GetString("log-file")))
}

func resolveLogging(interactive bool, formatStr, levelStr, file string) logging.Options {
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		level = slog.LevelInfo
		if interactive {
			level = slog.LevelDebug
		}
	}
	return logging.Options{
		Format: logging.ParseFormat(formatStr),
		Level:  level,
		File:   file,
	}
}

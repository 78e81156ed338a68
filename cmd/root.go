package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"os/signal"
	"strings"

	allfiles "github.com/TFMV/allfiles/internal/walk"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

// config is the resolved set of options for one run, after flags, the
// config file and the environment have been merged by viper.
type config struct {
	Async       bool
	Resolve     bool
	ExcludeDirs []string
	Format      string
	JSON        bool
	Count       bool
	Stats       bool
	Verbose     bool
	Silent      bool
}

// NewRootCmd builds the allfiles command with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "allfiles [options] <path>",
		Short: "List every file beneath a directory",
		Long: `allfiles prints the path of every file beneath a directory.

Examples:
  allfiles ./src
  allfiles --async --resolve ./src
  allfiles --exclude-dir=src/vendor,src/.git ./src
  allfiles --format="{base} in {dir}" ./src
  allfiles --count ./src`,
		Version:       version,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile, cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), loadConfig(v), args[0], cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.allfiles.yaml)")

	// Flags
	rootCmd.Flags().BoolP("async", "a", false, "List every directory of a depth level concurrently")
	rootCmd.Flags().BoolP("resolve", "r", false, "Print absolute paths")
	rootCmd.Flags().StringSliceP("exclude-dir", "e", nil, "Directories to skip (comma-separated or repeated)")
	rootCmd.Flags().StringP("format", "f", "{}", "Output template ({}, {base}, {dir}, {ext})")
	rootCmd.Flags().Bool("json", false, "Print one JSON object per file")
	rootCmd.Flags().BoolP("count", "c", false, "Print only the number of files")
	rootCmd.Flags().Bool("stats", false, "Print walk statistics to stderr")
	rootCmd.Flags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.Flags().Bool("silent", false, "Disable all logging except errors")

	// Bind flags to viper
	for _, name := range []string{"async", "resolve", "exclude-dir", "format", "json", "count", "stats", "verbose", "silent"} {
		_ = v.BindPFlag(name, rootCmd.Flags().Lookup(name))
	}

	return rootCmd
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// initConfig reads in config file and ENV variables if set.
func initConfig(v *viper.Viper, cfgFile string, stderr io.Writer) error {
	if cfgFile != "" {
		// Use config file from the flag.
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".allfiles" (without extension).
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".allfiles")
	}

	v.SetEnvPrefix("allfiles")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv() // read in environment variables that match

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
		return nil
	}
	if v.GetBool("verbose") {
		fmt.Fprintln(stderr, "Using config file:", v.ConfigFileUsed())
	}
	return nil
}

func loadConfig(v *viper.Viper) config {
	return config{
		Async:       v.GetBool("async"),
		Resolve:     v.GetBool("resolve"),
		ExcludeDirs: splitList(v.GetStringSlice("exclude-dir")),
		Format:      v.GetString("format"),
		JSON:        v.GetBool("json"),
		Count:       v.GetBool("count"),
		Stats:       v.GetBool("stats"),
		Verbose:     v.GetBool("verbose"),
		Silent:      v.GetBool("silent"),
	}
}

// splitList flattens comma separated entries, which is how a list arrives
// from an environment variable.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func runList(ctx context.Context, cfg config, root string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	opts := allfiles.Options{
		Resolve:      cfg.Resolve,
		ExcludedDirs: cfg.ExcludeDirs,
		LogLevel:     allfiles.LogLevelInfo,
	}
	if cfg.Verbose {
		opts.LogLevel = allfiles.LogLevelDebug
	} else if cfg.Silent {
		opts.LogLevel = allfiles.LogLevelError
	}

	var (
		paths iter.Seq2[string, error]
		stats func() allfiles.Stats
	)
	if cfg.Async {
		files := allfiles.WalkAsync(root, opts)
		paths, stats = files.All(ctx), files.Stats
	} else {
		files := allfiles.WalkSync(root, opts)
		paths, stats = files.All(), files.Stats
	}

	format := cfg.Format
	if format == "" {
		format = "{}"
	}
	enc := json.NewEncoder(stdout)

	count := 0
	for path, err := range paths {
		if err != nil {
			return fmt.Errorf("listing %s: %w", root, err)
		}
		count++

		switch {
		case cfg.Count:
		case cfg.JSON:
			if err := enc.Encode(map[string]string{"path": path}); err != nil {
				return err
			}
		default:
			if _, err := fmt.Fprintln(stdout, allfiles.FormatPath(format, path)); err != nil {
				return err
			}
		}
	}

	if cfg.Count {
		fmt.Fprintln(stdout, count)
	}
	if cfg.Stats {
		s := stats()
		fmt.Fprintf(stderr, "Found: %d files, listed %d dirs, excluded %d dirs, %d batches in %s\n",
			s.FilesFound, s.DirsListed, s.DirsExcluded, s.Batches, s.ElapsedTime)
	}
	return nil
}

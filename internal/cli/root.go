// Package cli implements the logroute command line tool.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/trickstertwo/logroute"
	slogadapter "github.com/trickstertwo/logroute/adapter/slog"
	zapadapter "github.com/trickstertwo/logroute/adapter/zap"
	zerologadapter "github.com/trickstertwo/logroute/adapter/zerolog"
)

var (
	appVersion = "dev"
	appCommit  = "none"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit string) {
	appVersion = version
	appCommit = commit
}

// NewRootCommand builds the command tree. Settings come from flags first and
// LOGROUTE_* environment variables second.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("logroute")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "logroute",
		Short: "Exercise a level-filtered log routing repository",
		Long: `logroute drives a log routing repository: producers dispatch events while
reconfigurers add, move and remove observers, and the final state is checked
for consistency.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("backend", "zap", "diagnostic backend: zap, zerolog or slog")
	root.PersistentFlags().String("level", "info", "minimum level written by the backend")
	_ = v.BindPFlag("backend", root.PersistentFlags().Lookup("backend"))
	_ = v.BindPFlag("level", root.PersistentFlags().Lookup("level"))

	root.AddCommand(newStressCommand(v), newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "logroute %s\ncommit: %s\n", appVersion, appCommit)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// newAdapter builds the backend selected by name, writing to w.
func newAdapter(name string, minLevel logroute.Level, w io.Writer) (logroute.Adapter, error) {
	switch strings.ToLower(name) {
	case "zap":
		return zapadapter.NewAdapter(zapadapter.Config{Writer: w, MinLevel: minLevel}), nil
	case "zerolog":
		return zerologadapter.NewAdapter(zerologadapter.Config{Writer: w, MinLevel: minLevel}), nil
	case "slog":
		return slogadapter.NewAdapter(slogadapter.Config{Writer: w, MinLevel: minLevel}), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", logroute.ErrInvalidArgument, name)
	}
}

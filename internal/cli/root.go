package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the build information shown by --version and the version
// command. main calls it with values injected through ldflags.
func SetVersion(v, c, d string) {
	if v != "" {
		version = v
	}
	commit, date = c, d
}

// printer formats counters with digit grouping.
var printer = message.NewPrinter(language.English)

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "lisa",
		Short:        "lisa approximates images with evolved shapes",
		Long:         `lisa evolves a list of translucent circles, rectangles and triangles until its rendering resembles a target image.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(os.Stderr, level)
			installLogger(logger)
			cmd.SetContext(withLogger(cmd.Context(), logger))
		},
	}

	root.SetVersionTemplate(versionString())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newRunCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newWeightsCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI with ctx, which is usually cancelled on SIGINT.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func versionString() string {
	return fmt.Sprintf("lisa %s\ncommit: %s\nbuilt: %s\n", version, commit, date)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionString())
		},
	}
}

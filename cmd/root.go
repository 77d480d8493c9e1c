// Package cmd implements the CLI commands for pagescrub using Cobra.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/pagescrub/internal/logger"
)

// newRootCmd builds the command tree around v. Every flag is bound into v,
// so values can also come from the config file or PAGESCRUB_* variables.
func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:   "pagescrub",
		Short: "pagescrub - turn exported HTML page records into clean text or Markdown",
		Long: `pagescrub reads a tab-separated export of page records, picks the pages
named in a pages list and writes a sanitized plain text or Markdown file
for each one.

Examples:
  pagescrub content --input db.out --pages pages.list
  pagescrub content --format markdown --utf --output-dir ./out
  pagescrub content --format both --pdf --json --report run.yaml
  pagescrub list --details > pages.csv`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v); err != nil {
				return err
			}
			logger.Init(logger.Options{
				Debug:  v.GetBool("debug"),
				Quiet:  v.GetBool("quiet"),
				JSON:   v.GetBool("log-json"),
				Output: cmd.ErrOrStderr(),
			})
			if used := v.ConfigFileUsed(); used != "" {
				logger.Debug("using config file", "path", used)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ./.pagescrub.yaml or $HOME/.pagescrub.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.Bool("log-json", false, "log as JSON")
	bindFlags(v, "", flags)

	root.AddCommand(newContentCmd(v), newListCmd(v))
	return root
}

func initConfig(v *viper.Viper) error {
	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".pagescrub")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PAGESCRUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// bindFlags binds every flag in fs to "<section>.<name>", or to "<name>"
// for the global section.
func bindFlags(v *viper.Viper, section string, fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		key := f.Name
		if section != "" {
			key = section + "." + f.Name
		}
		_ = v.BindPFlag(key, f)
	})
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

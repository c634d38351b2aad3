package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fenthope/logvision"
)

// renderFlags are the rendering flags shared by run and watch.
type renderFlags struct {
	mode       string
	noColors   bool
	appName    string
	dateFormat string
	configPath string
}

func (f *renderFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.mode, "mode", "m", "pretty", "Output mode (pretty, minimal, json)")
	fs.BoolVar(&f.noColors, "no-colors", false, "Disable colors")
	fs.StringVar(&f.appName, "app-name", "", "Label added to every line")
	fs.StringVar(&f.dateFormat, "date-format", logvision.DefaultDateFormat, "Timestamp pattern for pretty mode")
	fs.StringVar(&f.configPath, "config", "", "YAML file with logvision options")
}

// options resolves the effective Options: config file first, then
// LOGVISION_* environment variables, then flags given on the command line.
func (f *renderFlags) options(cmd *cobra.Command) (logvision.Options, error) {
	var opts logvision.Options
	if f.configPath != "" {
		var err error
		if opts, err = logvision.LoadOptions(f.configPath); err != nil {
			return opts, err
		}
	}
	if err := logvision.FromEnv(&opts); err != nil {
		return opts, err
	}

	fs := cmd.Flags()
	if fs.Changed("mode") {
		mode, err := logvision.ParseOutputMode(f.mode)
		if err != nil {
			return opts, fmt.Errorf("invalid --mode: %w", err)
		}
		opts.Mode = mode
	}
	if fs.Changed("no-colors") {
		opts.EnableColors = logvision.Bool(!f.noColors)
	}
	if fs.Changed("app-name") {
		opts.AppName = f.appName
	}
	if fs.Changed("date-format") {
		opts.DateFormat = f.dateFormat
	}
	return opts, nil
}

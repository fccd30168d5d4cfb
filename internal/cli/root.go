// Package cli implements the timetable command, which prints the same JSON
// the HTTP API serves, computed with the built-in iqamah settings.
package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Nixie-Tech-LLC/minaret/internal/aladhan"
	"github.com/Nixie-Tech-LLC/minaret/internal/config"
	"github.com/Nixie-Tech-LLC/minaret/internal/http/api/prayer/packets"
	"github.com/Nixie-Tech-LLC/minaret/internal/logging"
	"github.com/Nixie-Tech-LLC/minaret/internal/model"
	"github.com/Nixie-Tech-LLC/minaret/internal/settings"
	"github.com/Nixie-Tech-LLC/minaret/internal/timetable"
)

type options struct {
	date      string
	latitude  float64
	longitude float64
	method    int
	school    int
	compact   bool

	cfg *config.Config
	now func() time.Time
}

// NewRootCmd creates the root command. The version is set by the calling
// binary via ldflags.
func NewRootCmd(version string) *cobra.Command {
	opts := &options{now: time.Now}

	rootCmd := &cobra.Command{
		Use:     "timetable",
		Short:   "Print prayer and iqamah timetables",
		Long:    "Compute adhan, iqamah and qibla for a day, week or month using the Al Adhan API.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logging.Setup(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr())
			opts.cfg = cfg
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.date, "date", "", "Anchor date YYYY-MM-DD (month also accepts YYYY-MM); default today")
	pf.Float64Var(&opts.latitude, "latitude", 0, "Override latitude")
	pf.Float64Var(&opts.longitude, "longitude", 0, "Override longitude")
	pf.IntVar(&opts.method, "method", 0, "Override calculation method (0-23)")
	pf.IntVar(&opts.school, "school", -1, "Asr school (0=Shafi, 1=Hanafi)")
	pf.BoolVar(&opts.compact, "compact", false, "Print JSON on one line")

	rootCmd.AddCommand(newRangeCmd(opts, timetable.RangeDay, "Show one day"))
	rootCmd.AddCommand(newRangeCmd(opts, timetable.RangeWeek, "Show seven days from the anchor date"))
	rootCmd.AddCommand(newRangeCmd(opts, timetable.RangeMonth, "Show the anchor date's calendar month"))

	return rootCmd
}

func newRangeCmd(opts *options, rng timetable.Range, short string) *cobra.Command {
	return &cobra.Command{
		Use:   string(rng),
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.request(cmd, rng)
			if err != nil {
				return err
			}

			gateway := aladhan.NewClient(opts.cfg.Prayer.AladhanBaseURL, opts.cfg.Prayer.AladhanTimeout)
			agg := timetable.New(gateway, settings.NewProvider(nil, 0))

			res, err := agg.Compute(cmd.Context(), req)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if !opts.compact {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(packets.FromResult(res))
		},
	}
}

// request merges flags over the configured site defaults. Only flags the
// user actually set override the configuration.
func (o *options) request(cmd *cobra.Command, rng timetable.Range) (timetable.Request, error) {
	date, err := timetable.ParseAnchor(rng, o.date, o.now())
	if err != nil {
		return timetable.Request{}, err
	}

	req := timetable.Request{
		Location: o.cfg.Prayer.Home,
		Method:   o.cfg.Prayer.Method,
		School:   o.school,
		Range:    rng,
		Date:     date,
	}

	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()
	if flagWasSet(flags, root, "latitude") {
		req.Location.Latitude = o.latitude
	}
	if flagWasSet(flags, root, "longitude") {
		req.Location.Longitude = o.longitude
	}
	if flagWasSet(flags, root, "method") {
		req.Method = o.method
	}
	if req.Method < 0 || req.Method > model.MaxMethod {
		return timetable.Request{}, fmt.Errorf("invalid method %d: must be 0-%d", req.Method, model.MaxMethod)
	}
	if req.School > 1 {
		return timetable.Request{}, fmt.Errorf("invalid school %d: must be 0 or 1", req.School)
	}
	if err := req.Location.Validate(); err != nil {
		return timetable.Request{}, err
	}
	return req, nil
}

// flagWasSet checks if a flag was explicitly set on either the local or persistent flag set.
func flagWasSet(local, persistent *pflag.FlagSet, name string) bool {
	if f := local.Lookup(name); f != nil && f.Changed {
		return true
	}
	if f := persistent.Lookup(name); f != nil && f.Changed {
		return true
	}
	return false
}

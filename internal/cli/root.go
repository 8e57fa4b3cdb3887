// Package cli implements the bkkval command line tool.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/dataset"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/usecases"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/config"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/geospatial"
	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/pkg/logging"
)

type options struct {
	lat, lon float64
	radius   float64
	jsonOut  bool
	debug    bool
	line     string
	category string
	analysis *usecases.AnalysisService
}

// NewRootCmd builds the command tree writing to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "bkkval",
		Short:         "Estimate Bangkok land value from distance to rail transit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.debug {
				level = "debug"
			}
			// Logs stay off stdout so --json output remains parseable.
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, "text"))

			svc, err := buildAnalysis()
			if err != nil {
				return err
			}
			opts.analysis = svc
			return nil
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.Float64Var(&opts.lat, "lat", domain.DefaultQueryLocation.Lat, "Latitude in degrees")
	pf.Float64Var(&opts.lon, "lon", domain.DefaultQueryLocation.Lon, "Longitude in degrees")
	pf.Float64VarP(&opts.radius, "radius", "r", 0, "Landmark search radius in meters (0 = configured default)")
	pf.BoolVar(&opts.jsonOut, "json", false, "Print JSON instead of text")
	pf.BoolVarP(&opts.debug, "debug", "v", false, "Enable debug logs")

	root.AddCommand(
		newEstimateCmd(opts),
		newNearbyCmd(opts),
		newAnalyzeCmd(opts),
		newStationsCmd(opts),
		newLandmarksCmd(opts),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// buildAnalysis wires the services with the same configuration as the API
// server, so both price identically.
func buildAnalysis() (*usecases.AnalysisService, error) {
	cfg, err := config.Load("bkkval")
	if err != nil {
		return nil, err
	}

	v, err := usecases.NewValuationService(dataset.Static{}, geospatial.UTM47N, cfg.Valuation)
	if err != nil {
		return nil, err
	}
	l, err := usecases.NewLandmarkService(dataset.Static{}, geospatial.UTM47N, cfg.Landmarks.RadiusMeters)
	if err != nil {
		return nil, err
	}
	return usecases.NewAnalysisService(v, l), nil
}

// point returns the queried location. Giving only one of --lat/--lon is an
// error; giving neither selects the default location.
func (o *options) point(cmd *cobra.Command) (domain.GeoPoint, error) {
	latSet := cmd.Flags().Changed("lat")
	lonSet := cmd.Flags().Changed("lon")
	if latSet != lonSet {
		return domain.GeoPoint{}, errors.New("--lat and --lon must be given together")
	}
	return domain.GeoPoint{Lat: o.lat, Lon: o.lon}, nil
}

func newEstimateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "estimate",
		Short: "Price a location by its nearest station",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.point(cmd)
			if err != nil {
				return err
			}
			res, err := opts.analysis.Valuation().Estimate(cmd.Context(), q)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printValuation(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newNearbyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "nearby",
		Short: "List landmarks around a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.point(cmd)
			if err != nil {
				return err
			}
			svc := opts.analysis.Landmarks()
			nearby, err := svc.Nearby(cmd.Context(), q, opts.radius)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), nearby)
			}
			printLandmarks(cmd.OutOrStdout(), nearby, svc.EffectiveRadius(opts.radius))
			return nil
		},
	}
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Valuation and nearby landmarks for a location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := opts.point(cmd)
			if err != nil {
				return err
			}
			a, err := opts.analysis.Analyze(cmd.Context(), q, opts.radius)
			if err != nil {
				return err
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), a)
			}
			printValuation(cmd.OutOrStdout(), a.Valuation)
			fmt.Fprintln(cmd.OutOrStdout())
			printLandmarks(cmd.OutOrStdout(), a.Landmarks, a.RadiusMeters)
			return nil
		},
	}
}

func newStationsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stations",
		Short: "List transit stations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stations := opts.analysis.Valuation().Stations()
			if opts.line != "" {
				filtered := stations[:0]
				for _, s := range stations {
					if strings.Contains(strings.ToLower(s.Line), strings.ToLower(opts.line)) {
						filtered = append(filtered, s)
					}
				}
				stations = filtered
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), stations)
			}
			printStations(cmd.OutOrStdout(), stations)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.line, "line", "", "Filter by line name")
	return cmd
}

func newLandmarksCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "landmarks",
		Short: "List landmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			landmarks := opts.analysis.Landmarks().Landmarks()
			if opts.category != "" {
				filtered := landmarks[:0]
				for _, l := range landmarks {
					if strings.EqualFold(string(l.Category), opts.category) {
						filtered = append(filtered, l)
					}
				}
				landmarks = filtered
			}
			if opts.jsonOut {
				return writeJSON(cmd.OutOrStdout(), landmarks)
			}
			printLandmarkList(cmd.OutOrStdout(), landmarks)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.category, "category", "", "Filter by category (Mall, Education, Park, Market)")
	return cmd
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

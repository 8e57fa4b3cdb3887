package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/forworkyanika/BKK-Smart-Investment-Map/internal/core/domain"
)

// Thousands separators follow the dashboard: ฿240,000 /sq.wah.
var printer = message.NewPrinter(language.English)

// FormatPrice renders a price in THB per square wah.
func FormatPrice(price float64) string {
	return printer.Sprintf("฿%.0f /sq.wah", price)
}

// FormatKm renders meters as kilometers with one decimal.
func FormatKm(meters float64) string {
	return printer.Sprintf("%.1f km", meters/1000)
}

// FormatMeters renders a whole number of meters.
func FormatMeters(meters float64) string {
	return printer.Sprintf("%.0f m", meters)
}

func printValuation(w io.Writer, v *domain.ValuationResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Location:\t%.4f, %.4f\n", v.Query.Lat, v.Query.Lon)
	fmt.Fprintf(tw, "Nearest station:\t%s (%s)\n", v.Station.Name, v.Station.Line)
	fmt.Fprintf(tw, "Distance:\t%s\n", FormatMeters(v.DistanceMeters))
	price := FormatPrice(v.Price)
	if v.PremiumLine {
		price += "  (premium line)"
	}
	fmt.Fprintf(tw, "Estimated price:\t%s\n", price)
	fmt.Fprintf(tw, "Location tier:\t%s\n", v.TierLabel)
	tw.Flush()
}

func printLandmarks(w io.Writer, nearby []domain.NearbyLandmark, radius float64) {
	fmt.Fprintf(w, "Nearby landmarks (%s):\n", FormatKm(radius))
	if len(nearby) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, n := range nearby {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", n.Landmark.Name, n.Landmark.Category, FormatKm(n.DistanceMeters))
	}
	tw.Flush()
}

func printStations(w io.Writer, stations []domain.TransitStation) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tLINE\tLAT\tLON")
	for _, s := range stations {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\n", s.Name, s.Line, s.Location.Lat, s.Location.Lon)
	}
	tw.Flush()
}

func printLandmarkList(w io.Writer, landmarks []domain.Landmark) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCATEGORY\tLAT\tLON")
	for _, l := range landmarks {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\n", l.Name, l.Category, l.Location.Lat, l.Location.Lon)
	}
	tw.Flush()
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/zatekoja/cafoodfinder/internal/domain/entities"
)

// Header is the CSV column order for result tables
var Header = []string{"name", "website", "maps_link", "address", "distance_km", "types", "lat", "lon"}

// WriteCSV writes the table with one header row and no index column.
// Missing distances and coordinates are written as empty cells.
func WriteCSV(w io.Writer, table entities.ResultTable) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range table {
		record := []string{
			row.Name,
			row.Website,
			row.MapsLink,
			row.Address,
			formatFloat(row.DistanceKm),
			row.Types,
			formatFloat(row.Latitude),
			formatFloat(row.Longitude),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row for %q: %w", row.Name, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

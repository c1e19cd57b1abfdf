package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lyp/geotag/internal/geo"
	"github.com/lyp/geotag/internal/track"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export-geojson <gpx-file>",
	Short: "Convert a GPX track to a GeoJSON LineString",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "track.geojson", "Output file path")
}

func runExport(cmd *cobra.Command, args []string) error {
	ix, err := track.NewGPXSource().Load(args[0])
	if err != nil {
		return err
	}

	if err := geo.WriteFeatureCollection(exportOut, ix, nil); err != nil {
		return err
	}

	fmt.Printf("Wrote %d track points (%.1f km) to %s\n",
		ix.Len(), geo.TrackLengthMeters(ix)/1000, exportOut)
	return nil
}

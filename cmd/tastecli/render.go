package main

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// columnOrder ranks the known report fields. Unknown fields follow,
// alphabetically.
var columnOrder = []string{
	"song_name", "album_name", "artist_name", "playlist_name",
	"artists", "track_count", "top_songs_count", "popularity",
	"duration_ms", "genres", "album_image", "artist_image",
}

var seasonOrder = []string{"Winter", "Spring", "Summer", "Fall"}

// renderResult prints a report result decoded from its JSON shape.
func renderResult(w io.Writer, result any) error {
	switch v := result.(type) {
	case []any:
		return renderRows(w, v)
	case map[string]any:
		if msg, ok := v["error"].(string); ok {
			_, err := fmt.Fprintln(w, msg)
			return err
		}
		if data, ok := v["seasonal_data"].(map[string]any); ok {
			return renderSeasons(w, data, v)
		}
		if data, ok := v["data"].([]any); ok {
			return renderYears(w, data, v)
		}
		return renderRows(w, []any{v})
	default:
		_, err := fmt.Fprintln(w, formatCell(v))
		return err
	}
}

func renderReportList(w io.Writer, reports any) error {
	rows, _ := reports.([]any)
	table := tablewriter.NewWriter(w)
	table.Header("Name", "Time Range", "Description")
	for _, r := range rows {
		def, ok := r.(map[string]any)
		if !ok {
			continue
		}
		timeRanged := ""
		if b, _ := def["time_ranged"].(bool); b {
			timeRanged = "yes"
		}
		if err := table.Append([]string{formatCell(def["name"]), timeRanged, formatCell(def["description"])}); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderRows(w io.Writer, rows []any) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "(no results)")
		return err
	}
	first, ok := rows[0].(map[string]any)
	if !ok {
		for _, r := range rows {
			if _, err := fmt.Fprintln(w, formatCell(r)); err != nil {
				return err
			}
		}
		return nil
	}

	columns := columnsOf(first)
	table := tablewriter.NewWriter(w)
	header := make([]any, 0, len(columns)+1)
	header = append(header, "#")
	for _, c := range columns {
		header = append(header, c)
	}
	table.Header(header...)

	for i, r := range rows {
		row, _ := r.(map[string]any)
		cells := make([]string, 0, len(columns)+1)
		cells = append(cells, strconv.Itoa(i+1))
		for _, c := range columns {
			cells = append(cells, formatCell(row[c]))
		}
		if err := table.Append(cells); err != nil {
			return err
		}
	}
	return table.Render()
}

func renderSeasons(w io.Writer, data map[string]any, report map[string]any) error {
	table := tablewriter.NewWriter(w)
	table.Header("Season", "Genre", "Count")
	for _, season := range seasonOrder {
		counts, _ := data[season].([]any)
		for _, c := range counts {
			gc, _ := c.(map[string]any)
			if err := table.Append([]string{season, formatCell(gc["genre"]), formatCell(gc["count"])}); err != nil {
				return err
			}
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "total genres: %s\n", formatCell(report["total_genres"]))
	return err
}

func renderYears(w io.Writer, data []any, report map[string]any) error {
	table := tablewriter.NewWriter(w)
	table.Header("Year", "Count")
	for _, d := range data {
		yc, _ := d.(map[string]any)
		if err := table.Append([]string{formatCell(yc["year"]), formatCell(yc["count"])}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if peak, ok := report["peak_year"].(map[string]any); ok {
		if _, err := fmt.Fprintf(w, "peak year: %s (%s tracks)\n", formatCell(peak["year"]), formatCell(peak["count"])); err != nil {
			return err
		}
	}
	if yr, ok := report["year_range"].(map[string]any); ok {
		if _, err := fmt.Fprintf(w, "years: %s-%s\n", formatCell(yr["min"]), formatCell(yr["max"])); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "total tracks: %s\n", formatCell(report["total_tracks"]))
	return err
}

func columnsOf(row map[string]any) []string {
	rank := make(map[string]int, len(columnOrder))
	for i, c := range columnOrder {
		rank[c] = i
	}

	columns := make([]string, 0, len(row))
	for k := range row {
		columns = append(columns, k)
	}
	sort.Slice(columns, func(i, j int) bool {
		ri, iKnown := rank[columns[i]]
		rj, jKnown := rank[columns[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return columns[i] < columns[j]
		}
	})
	return columns
}

// formatCell renders a decoded JSON value. Whole numbers lose their decimal
// point, lists are comma-joined.
func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, formatCell(e))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(x)
	}
}

package render

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/vk/coursegrid/internal/catalog"
)

// Catalog prints the indexed curricula.
func Catalog(w io.Writer, entries []catalog.Entry) {
	if len(entries) == 0 {
		warning.Fprintln(w, "No curricula in the catalog. Run the scrape command first.")
		return
	}

	heading.Fprintf(w, "\n%d curricula\n", len(entries))
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Code", "Courses", "File", "Fetched"})
	table.SetAutoWrapText(false)
	for _, e := range entries {
		table.Append([]string{
			e.Code,
			strconv.Itoa(e.CourseCount),
			e.Path,
			e.FetchedAt.Local().Format(time.DateTime),
		})
	}
	table.Render()
}

// ScrapeSummary prints the outcome of a scrape run.
func ScrapeSummary(w io.Writer, successful, failed int, outputDir string) {
	heading.Fprintln(w, "\nCompleted!")
	fmt.Fprintf(w, "Successful: %d\n", successful)
	fmt.Fprintf(w, "Failed: %d\n", failed)
	fmt.Fprintf(w, "Total processed: %d\n", successful+failed)
	fmt.Fprintf(w, "Output directory: %s/\n", outputDir)
}

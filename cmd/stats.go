package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/torinwade/salib/internal/core/services"
	"github.com/torinwade/salib/pkg/ui"
)

var statsHTML string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library statistics",
	Long: `Analyze the library and display useful statistics.

Includes:
  - Asset counts per type and category
  - Contributor breakdown
  - Cached thumbnail coverage

Use --html to additionally write an interactive chart page.`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsHTML, "html", "", "Write an interactive HTML chart to this path")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	resp, err := libraryService.Find(ctx, services.FindRequest{})
	if err != nil {
		return err
	}

	typeCounts := make(map[string]int)
	categoryCounts := make(map[string]int)
	contributorCounts := make(map[string]int)
	cachedCount := 0

	for _, asset := range resp.Assets {
		typeCounts[asset.Type]++
		categoryCounts[asset.Category]++
		contributorCounts[asset.AddedBy]++

		if location, ok := fileStore.Exists(ctx, asset.Ref()); ok {
			if _, err := thumbCache.ReadCached(ctx, location, asset.Ref().FullName()); err == nil {
				cachedCount++
			}
		}
	}

	fmt.Println(ui.FormatTitle("Library statistics"))
	fmt.Println()
	fmt.Println(ui.RenderKeyValue("Total assets", fmt.Sprintf("%d", resp.Total)))
	fmt.Println(ui.RenderKeyValue("Cached thumbnails", fmt.Sprintf("%d/%d", cachedCount, resp.Total)))
	fmt.Println()

	fmt.Println(ui.FormatBold("By type"))
	printCounts(typeCounts)
	fmt.Println()
	fmt.Println(ui.FormatBold("By category"))
	printCounts(categoryCounts)
	fmt.Println()
	fmt.Println(ui.FormatBold("By contributor"))
	printCounts(contributorCounts)

	if statsHTML != "" {
		if err := writeStatsHTML(statsHTML, typeCounts, categoryCounts); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
		fmt.Println()
		fmt.Println(ui.FormatSuccess("Wrote chart: " + statsHTML))
	}

	return nil
}

func printCounts(counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	for _, k := range keys {
		label := k
		if label == "" {
			label = "(none)"
		}
		fmt.Printf("  %s %s\n",
			ui.StyleAccent.Render(fmt.Sprintf("%3d", counts[k])),
			label)
	}
}

// writeStatsHTML renders type and category distributions as an
// interactive chart page.
func writeStatsHTML(path string, typeCounts, categoryCounts map[string]int) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Assets by type"}),
	)

	var types []string
	for t := range typeCounts {
		types = append(types, t)
	}
	sort.Strings(types)

	var bars []opts.BarData
	for _, t := range types {
		bars = append(bars, opts.BarData{Value: typeCounts[t]})
	}
	bar.SetXAxis(types).AddSeries("assets", bars)

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Assets by category"}),
	)

	var slices []opts.PieData
	for name, count := range categoryCounts {
		if name == "" {
			name = "(none)"
		}
		slices = append(slices, opts.PieData{Name: name, Value: count})
	}
	pie.AddSeries("categories", slices)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// Compose both charts into a single HTML document.
	page := components.NewPage()
	page.AddCharts(bar, pie)
	return page.Render(f)
}

package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/internal/core/services"
	"github.com/torinwade/salib/pkg/ui"
)

var (
	listType     string
	listCategory string
	listFilter   string
	listSortBy   string
	listReverse  bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List registered assets",
	Aliases: []string{"ls"},
	Long: `List the registered assets in a table.

Filter with --type and --category ("all" matches everything) and
--filter for substring matching against names. Sort with --sort
(name, type, date).`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", domain.FilterAll, "Filter by asset type")
	listCmd.Flags().StringVarP(&listCategory, "category", "c", domain.FilterAll, "Filter by category")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Substring filter on names")
	listCmd.Flags().StringVarP(&listSortBy, "sort", "s", "", "Sort key: name, type, date")
	listCmd.Flags().BoolVarP(&listReverse, "reverse", "r", false, "Reverse sort order")
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	if listSortBy == "" {
		listSortBy = appConfig.DefaultSort
	}
	if !cmd.Flags().Changed("reverse") {
		listReverse = appConfig.ReverseSort
	}

	resp, err := libraryService.Find(ctx, services.FindRequest{
		Type:       listType,
		Category:   listCategory,
		NameFilter: listFilter,
	})
	if err != nil {
		return err
	}

	if resp.Total == 0 {
		fmt.Println(ui.FormatWarning("No assets found"))
		return nil
	}

	sortAssets(resp.Assets, listSortBy, listReverse)

	table := ui.NewTable([]ui.TableColumn{
		{Header: "", Width: 1},
		{Header: "Name", Width: 24},
		{Header: "Type", Width: 6},
		{Header: "Category", Width: 12},
		{Header: "Added By", Width: 10},
		{Header: "Registered", Width: 10},
	})
	table.MaxWidth = appConfig.TableWidth

	for _, asset := range resp.Assets {
		table.AddRow([]string{
			ui.Swatch(libraryService.TypeColor(asset.Type)),
			asset.EffectiveDisplayName(),
			asset.Type,
			asset.Category,
			asset.AddedBy,
			asset.RegisteredAt.Format("2006-01-02"),
		})
	}

	fmt.Println(table.Render())
	fmt.Println(ui.FormatMuted(fmt.Sprintf("%d asset(s)", resp.Total)))
	return nil
}

// sortAssets orders assets by the chosen key. Find already returns
// display-name order, so "name" only needs the reverse handling.
func sortAssets(assets []domain.Asset, key string, reverse bool) {
	switch strings.ToLower(key) {
	case "type":
		sort.SliceStable(assets, func(i, j int) bool {
			return strings.ToLower(assets[i].Type) < strings.ToLower(assets[j].Type)
		})
	case "date":
		sort.SliceStable(assets, func(i, j int) bool {
			return assets[i].RegisteredAt.After(assets[j].RegisteredAt)
		})
	}

	if reverse {
		for i, j := 0, len(assets)-1; i < j; i, j = i+1, j-1 {
			assets[i], assets[j] = assets[j], assets[i]
		}
	}
}

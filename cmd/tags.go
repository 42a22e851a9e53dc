package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/pkg/ui"
)

var tagsValues bool

var tagsCmd = &cobra.Command{
	Use:   "tags [query]",
	Short: "Show the registered metadata tags",
	Long: `Show the metadata tag names the library registers for its assets.

With a query, shows the tag values recorded for the matching asset
instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTags,
}

var tagsRegisterCmd = &cobra.Command{
	Use:   "register <name>...",
	Short: "Register additional metadata tag names",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		added := tagService.Register(args)
		skipped := len(args) - added
		fmt.Println(ui.FormatSuccess(fmt.Sprintf("Registered %d tag(s)", added)))
		if skipped > 0 {
			fmt.Println(ui.FormatMuted(fmt.Sprintf("%d name(s) were invalid or already registered", skipped)))
		}
		return nil
	},
}

func init() {
	tagsCmd.Flags().BoolVarP(&tagsValues, "values", "V", false, "Show tag values for a selected asset")
	tagsCmd.AddCommand(tagsRegisterCmd)
}

func runTags(cmd *cobra.Command, args []string) error {
	// The registry is filled lazily on ingest; make sure the full set
	// shows even on a fresh process.
	tagService.Register(domain.AllTagNames)

	if len(args) > 0 || tagsValues {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		asset, err := selectAsset(query)
		if err != nil {
			return err
		}

		fmt.Println(ui.FormatTitle(asset.EffectiveDisplayName()))
		fmt.Println()
		tags := asset.Tags()
		for _, name := range domain.AllTagNames {
			fmt.Println(ui.RenderKeyValue(name, tags[name]))
		}
		return nil
	}

	fmt.Println(ui.FormatTitle("Registered metadata tags"))
	fmt.Println()
	fmt.Print(ui.RenderSimpleList(tagService.Registered()))
	return nil
}

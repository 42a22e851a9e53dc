package cmd

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/torinwade/salib/internal/core/domain"
	"github.com/torinwade/salib/internal/core/services"
)

var previewCached bool

var previewCmd = &cobra.Command{
	Use:   "preview [query]",
	Short: "Preview an asset's thumbnail in the terminal",
	Long: `Resolve an asset's thumbnail and render it directly in the terminal.

Keys:
- n/p : Next / previous asset
- r   : Re-resolve (regenerates from the live asset)
- c   : Toggle cached-only resolution
- q   : Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewCached, "cached", false, "Use only the cached thumbnail, skip generation")
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx := getContext()

	query := ""
	if len(args) > 0 {
		query = args[0]
	}
	asset, err := selectAsset(query)
	if err != nil {
		return err
	}

	// Full library for n/p cycling, starting at the selection.
	resp, err := libraryService.Find(ctx, services.FindRequest{})
	if err != nil {
		return err
	}
	start := 0
	for i := range resp.Assets {
		if resp.Assets[i].Name == asset.Name {
			start = i
			break
		}
	}

	view, err := newPreviewView(resp.Assets, start, previewCached)
	if err != nil {
		return err
	}
	return view.Run()
}

// previewView renders a resolved thumbnail with tcell, two pixels per
// character cell using the half-block glyph.
type previewView struct {
	assets     []domain.Asset
	index      int
	cachedOnly bool
	screen     tcell.Screen
	thumb      *domain.Thumbnail
	valid      bool
}

func newPreviewView(assets []domain.Asset, index int, cachedOnly bool) (*previewView, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	v := &previewView{
		assets:     assets,
		index:      index,
		cachedOnly: cachedOnly,
		screen:     screen,
	}
	if err := v.resolve(); err != nil {
		screen.Fini()
		return nil, err
	}
	return v, nil
}

// resolve runs the thumbnail chain and captures the bound pixels.
func (v *previewView) resolve() error {
	mat, result, err := resolveToMaterial(v.assets[v.index].Name, v.cachedOnly)
	if err != nil {
		return err
	}
	defer mat.Destroy()

	thumb, err := boundThumbnail(mat)
	if err != nil {
		return err
	}
	// The material releases its texture on Destroy, so keep a copy.
	v.thumb = &domain.Thumbnail{
		Width:  thumb.Width,
		Height: thumb.Height,
		Pixels: append([]byte(nil), thumb.Pixels...),
	}
	v.valid = result.Valid
	return nil
}

// Run starts the preview loop
func (v *previewView) Run() error {
	defer v.screen.Fini()

	v.render()

	for {
		ev := v.screen.PollEvent()

		switch ev := ev.(type) {
		case *tcell.EventResize:
			v.screen.Sync()
			v.render()

		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				return nil
			}
			switch ev.Rune() {
			case 'r':
				if err := v.resolve(); err != nil {
					return err
				}
			case 'c':
				v.cachedOnly = !v.cachedOnly
				if err := v.resolve(); err != nil {
					return err
				}
			case 'n':
				v.index = (v.index + 1) % len(v.assets)
				if err := v.resolve(); err != nil {
					return err
				}
			case 'p':
				v.index = (v.index - 1 + len(v.assets)) % len(v.assets)
				if err := v.resolve(); err != nil {
					return err
				}
			}
			v.render()
		}
	}
}

func (v *previewView) render() {
	v.screen.Clear()
	width, height := v.screen.Size()

	asset := &v.assets[v.index]
	title := fmt.Sprintf(" %s (%d/%d, %dx%d) ",
		asset.EffectiveDisplayName(), v.index+1, len(v.assets),
		v.thumb.Width, v.thumb.Height)
	if v.cachedOnly {
		title += "[cached] "
	}
	if !v.valid {
		title += "[placeholder] "
	}
	v.drawText(0, 0, title, tcell.StyleDefault.Bold(true))
	v.drawText(0, height-1, " n/p: cycle  r: regenerate  c: toggle cached  q: quit ",
		tcell.StyleDefault.Foreground(tcell.ColorGray))

	// Image area: rows 1..height-2, two image rows per terminal row.
	areaW := width
	areaH := (height - 2) * 2
	if areaW < 1 || areaH < 1 {
		v.screen.Show()
		return
	}

	// Integer downsample factor preserving aspect ratio.
	step := 1
	for v.thumb.Width/step > areaW || v.thumb.Height/step > areaH {
		step++
	}
	imgW := v.thumb.Width / step
	imgH := v.thumb.Height / step

	for cy := 0; cy < (imgH+1)/2; cy++ {
		for cx := 0; cx < imgW; cx++ {
			top := v.sample(cx*step, cy*2*step)
			bottom := tcell.ColorBlack
			if cy*2+1 < imgH {
				bottom = v.sample(cx*step, (cy*2+1)*step)
			}
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			v.screen.SetContent(cx, cy+1, '▀', nil, style)
		}
	}

	v.screen.Show()
}

// sample reads the BGRA pixel at (x, y) as a tcell color.
func (v *previewView) sample(x, y int) tcell.Color {
	if x < 0 || y < 0 || x >= v.thumb.Width || y >= v.thumb.Height {
		return tcell.ColorBlack
	}
	off := (y*v.thumb.Width + x) * domain.BytesPerPixel
	b := int32(v.thumb.Pixels[off+0])
	g := int32(v.thumb.Pixels[off+1])
	r := int32(v.thumb.Pixels[off+2])
	return tcell.NewRGBColor(r, g, b)
}

func (v *previewView) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range text {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"agriconsole/internal/charts"
	"agriconsole/internal/config"
	"agriconsole/internal/services"
)

func newSnapshotCommand(build buildFunc, paths func() (*config.Paths, error)) *cobra.Command {
	var (
		flags filterFlags
		names []string
		image string
		tab   string
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Write chart images for a date range",
		Long: `Run one aggregation cycle and write chart snapshots named
{chart}_{from}_to_{to}.{svg|png}. Without --chart every chart that has data
is written. The state map and area treemap are always written as SVG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := flags.filter()
			if err != nil {
				return err
			}
			if image != services.ImageSVG && image != services.ImagePNG {
				return fmt.Errorf("--image must be svg or png")
			}
			if tab != string(charts.TabCrop) && tab != string(charts.TabDisease) {
				return fmt.Errorf("--tab must be crop or disease")
			}
			for _, name := range names {
				if !services.IsSnapshotName(name) {
					return fmt.Errorf("%w: %q", charts.ErrUnknownChart, name)
				}
			}

			ctx := cmd.Context()
			svc, _, err := build(ctx)
			if err != nil {
				return err
			}
			dir, err := flags.outDir(paths, func(p *config.Paths) string { return p.SnapshotsDir })
			if err != nil {
				return err
			}

			p := svc.Load(ctx, filter)
			if len(names) == 0 {
				names = p.Charts()
			}
			for _, name := range names {
				snap, err := svc.Snapshot(ctx, p, name, image, charts.Tab(tab))
				if err != nil {
					return err
				}
				path := filepath.Join(dir, snap.Filename)
				if err := os.WriteFile(path, snap.Body, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringSliceVarP(&names, "chart", "c", nil, "Charts to write (default: all with data)")
	cmd.Flags().StringVar(&image, "image", services.ImageSVG, "Image format (svg|png)")
	cmd.Flags().StringVar(&tab, "tab", string(charts.TabCrop), "Crop/disease chart tab (crop|disease)")
	return cmd
}

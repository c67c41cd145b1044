/*
Nexus Geom Studio: builds animated compound polyhedra and 4D polytope
projections, renders them in a window or to PNG snapshots, exports them as
glTF and syncs scene configs with the studio backend.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/charmbracelet/fang"
	"github.com/spaghettifunk/geomstudio/engine"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/export"
	"github.com/spaghettifunk/geomstudio/engine/platform"
	"github.com/spaghettifunk/geomstudio/engine/renderer/snapshot"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/spaghettifunk/geomstudio/testbed"
	"github.com/spf13/cobra"
)

// Set by the build.
var version = "dev"

type globalFlags struct {
	configPath string
	logLevel   string
	presetDir  string
}

// sceneFlags override single fields of the starting scene config.
type sceneFlags struct {
	preset    string
	object    string
	count     int
	animation string
	camera    string
	wireframe float32
}

func (sf *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sf.preset, "preset", "", "scene preset file (.toml or .json)")
	cmd.Flags().StringVar(&sf.object, "object", "", "object type, see `geomstudio info`")
	cmd.Flags().IntVar(&sf.count, "count", 1, "number of objects (1-10)")
	cmd.Flags().StringVar(&sf.animation, "animation", "", "animation style")
	cmd.Flags().StringVar(&sf.camera, "camera", "", "camera view")
	cmd.Flags().Float32Var(&sf.wireframe, "wireframe", 0, "wireframe intensity (0-100)")
}

// sceneConfig starts from the settings scene, then the preset file, then
// the flags that were set explicitly.
func (sf *sceneFlags) sceneConfig(cmd *cobra.Command, settings resources.AppConfig) (resources.SceneConfig, error) {
	cfg := settings.Scene
	if sf.preset != "" {
		p, err := resources.LoadSceneConfigFile(sf.preset)
		if err != nil {
			return cfg, err
		}
		cfg = p
	}
	flags := cmd.Flags()
	if flags.Changed("object") {
		cfg.ObjectType = resources.ObjectType(sf.object)
	}
	if flags.Changed("count") {
		cfg.ObjectCount = sf.count
	}
	if flags.Changed("animation") {
		cfg.AnimationStyle = resources.AnimationStyle(sf.animation)
	}
	if flags.Changed("camera") {
		cfg.CameraView = resources.CameraView(sf.camera)
	}
	if flags.Changed("wireframe") {
		cfg.WireframeIntensity = sf.wireframe
	}
	return cfg, nil
}

func (g *globalFlags) settings(cmd *cobra.Command) (resources.AppConfig, error) {
	settings, err := resources.LoadAppConfig(g.configPath)
	if err != nil {
		return settings, fmt.Errorf("cannot read %s: %w", g.configPath, err)
	}
	if cmd.Flags().Changed("log-level") {
		settings.LogLevel = g.logLevel
	}
	if cmd.Flags().Changed("preset-dir") {
		settings.PresetDir = g.presetDir
	}
	if err := core.SetLogLevel(settings.LogLevel); err != nil {
		core.LogWarn("invalid log level %q: %s", settings.LogLevel, err)
	}
	return settings, nil
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "geomstudio",
		Short:         "Compound polyhedra and 4D polytope studio",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", resources.DefaultAppConfigFile, "application config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "debug, info, warn or error")
	root.PersistentFlags().StringVar(&g.presetDir, "preset-dir", "presets", "directory of watched scene presets")

	root.AddCommand(
		newViewCmd(g),
		newSnapshotCmd(g),
		newExportCmd(g),
		newInfoCmd(),
		newLoginCmd(g),
		newSignupCmd(g),
		newSceneCmd(g),
	)
	return root
}

func newViewCmd(g *globalFlags) *cobra.Command {
	sf := &sceneFlags{}
	var follow, snapshotDir string
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Open the studio window",
		Long: `Open the studio window.

Keys:
  1-9, 0    object count
  +/-       add or remove an object
  N         next object type
  A         next animation style
  C         next camera view (arrows steer the free view)
  E         next environment
  W         wireframe intensity
  R         reload the followed preset
  S         save the scene as a preset
  P         save a PNG snapshot
  Esc       quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := g.settings(cmd)
			if err != nil {
				return err
			}
			cfg, err := sf.sceneConfig(cmd, settings)
			if err != nil {
				return err
			}
			window, err := platform.NewWindow()
			if err != nil {
				return err
			}
			backend := snapshot.New()
			studio := testbed.NewStudio(settings, testbed.StudioOptions{
				Scene:       &cfg,
				Preset:      follow,
				Snapshots:   backend,
				SnapshotDir: snapshotDir,
				Prewarm:     true,
			})
			e, err := startStudio(studio, window, backend)
			if err != nil {
				return err
			}
			runErr := e.Run(cmd.Context())
			return joinShutdown(runErr, e)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&follow, "follow", "", "preset name in the preset directory to load and follow")
	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", ".", "directory for snapshots taken with P")
	return cmd
}

func newSnapshotCmd(g *globalFlags) *cobra.Command {
	sf := &sceneFlags{}
	var out string
	var frames uint64
	var width, height uint32
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render a scene to a PNG without a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := g.settings(cmd)
			if err != nil {
				return err
			}
			cfg, err := sf.sceneConfig(cmd, settings)
			if err != nil {
				return err
			}
			settings.PresetDir = ""
			if width > 0 && height > 0 {
				settings.Window.Width = width
				settings.Window.Height = height
			}
			backend := snapshot.New()
			e, err := runHeadless(cmd.Context(), settings, cfg, frames, backend)
			if err != nil {
				return err
			}
			err = backend.SavePNG(out)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			}
			return joinShutdown(err, e)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "geomstudio.png", "output PNG file")
	cmd.Flags().Uint64Var(&frames, "frames", 30, "frames to animate before capturing")
	cmd.Flags().Uint32Var(&width, "width", 0, "image width, defaults to the window width")
	cmd.Flags().Uint32Var(&height, "height", 0, "image height, defaults to the window height")
	return cmd
}

func newExportCmd(g *globalFlags) *cobra.Command {
	sf := &sceneFlags{}
	var out string
	var frames uint64
	var noWireframe, noHyperframe bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a scene as a binary glTF (.glb)",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := g.settings(cmd)
			if err != nil {
				return err
			}
			cfg, err := sf.sceneConfig(cmd, settings)
			if err != nil {
				return err
			}
			settings.PresetDir = ""
			e, err := runHeadless(cmd.Context(), settings, cfg, frames, snapshot.New())
			if err != nil {
				return err
			}
			opts := export.Options{Wireframe: !noWireframe, Hyperframe: !noHyperframe}
			err = export.SaveGLB(out, e.Scene().Objects, opts)
			if err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			}
			return joinShutdown(err, e)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "geomstudio.glb", "output GLB file")
	cmd.Flags().Uint64Var(&frames, "frames", 0, "frames to animate before exporting")
	cmd.Flags().BoolVar(&noWireframe, "no-wireframe", false, "leave out the wireframe struts")
	cmd.Flags().BoolVar(&noHyperframe, "no-hyperframe", false, "leave out the hyperframe struts")
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "List object types, animation styles, camera views and environments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return printSchema(cmd.OutOrStdout())
		},
	}
}

func printSchema(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "OBJECT TYPE\tFAMILY")
	for _, t := range resources.ObjectTypes() {
		fmt.Fprintf(tw, "%s\t%s\n", t, t.Family())
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "ANIMATION\tID")
	for _, s := range resources.AnimationStyles() {
		fmt.Fprintf(tw, "%s\t%d\n", s, s.ID())
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CAMERA VIEW")
	for _, v := range []resources.CameraView{
		resources.CameraOrbit, resources.CameraCinematic, resources.CameraFree,
		resources.CameraFront, resources.CameraTop,
	} {
		fmt.Fprintln(tw, v)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "ENVIRONMENT")
	for _, env := range resources.Environments() {
		fmt.Fprintln(tw, env)
	}
	return tw.Flush()
}

func startStudio(studio *testbed.Studio, p platform.Platform, backend *snapshot.Backend) (*engine.Engine, error) {
	e, err := engine.New(studio.Game, p, backend)
	if err != nil {
		return nil, err
	}
	if err := e.Initialize(); err != nil {
		return nil, joinShutdown(err, e)
	}
	return e, nil
}

// runHeadless animates cfg for the given number of frames. The returned
// engine has stopped but not shut down, so its scene can still be read.
func runHeadless(ctx context.Context, settings resources.AppConfig, cfg resources.SceneConfig, frames uint64, backend *snapshot.Backend) (*engine.Engine, error) {
	studio := testbed.NewStudio(settings, testbed.StudioOptions{Scene: &cfg})
	// One frame is always drawn so the image holds the scene.
	e, err := startStudio(studio, platform.NewHeadless(max(frames, 1)), backend)
	if err != nil {
		return nil, err
	}
	if err := e.Run(ctx); err != nil {
		return nil, joinShutdown(err, e)
	}
	return e, nil
}

func joinShutdown(err error, e *engine.Engine) error {
	if serr := e.Shutdown(); serr != nil {
		core.LogError("shutdown: %s", serr)
		if err == nil {
			return serr
		}
	}
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		stop()
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/samber/lo"
	"github.com/spaghettifunk/geomstudio/engine/core"
	"github.com/spaghettifunk/geomstudio/engine/persistence"
	"github.com/spaghettifunk/geomstudio/engine/resources"
	"github.com/spf13/cobra"
)

const passwordEnv = "GEOMSTUDIO_PASSWORD"

// client builds a backend client carrying the saved token.
func (g *globalFlags) client(cmd *cobra.Command) (*persistence.Client, resources.AppConfig, error) {
	settings, err := g.settings(cmd)
	if err != nil {
		return nil, settings, err
	}
	c, err := persistence.NewClient(settings.Backend.URL,
		persistence.WithTimeout(time.Duration(settings.Backend.TimeoutMS)*time.Millisecond),
	)
	if err != nil {
		return nil, settings, err
	}
	if err := c.LoadToken(settings.Backend.TokenFile); err != nil {
		core.LogWarn("cannot read token file %s: %s", settings.Backend.TokenFile, err)
	}
	return c, settings, nil
}

// explain turns backend errors into the hint a user can act on.
func explain(err error) error {
	switch {
	case errors.Is(err, persistence.ErrAuthExpired):
		return fmt.Errorf("%w\nrun `geomstudio login` and try again", err)
	case errors.Is(err, persistence.ErrNetworkUnreachable):
		return fmt.Errorf("%w\nis the backend running? check [backend] url in %s", err, resources.DefaultAppConfigFile)
	}
	return err
}

func password(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if p := os.Getenv(passwordEnv); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("a password is required: pass --password or set %s", passwordEnv)
}

func newLoginCmd(g *globalFlags) *cobra.Command {
	var email, pass string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the studio backend and save the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, settings, err := g.client(cmd)
			if err != nil {
				return err
			}
			p, err := password(pass)
			if err != nil {
				return err
			}
			res, err := c.Login(cmd.Context(), email, p)
			if err != nil {
				return explain(err)
			}
			if err := c.SaveToken(settings.Backend.TokenFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s\nunlocked animations: %s\n",
				res.User.Username, joinStyles(res.User.Animations()))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&pass, "password", "", "account password, or set "+passwordEnv)
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSignupCmd(g *globalFlags) *cobra.Command {
	var username, email, pass string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a studio account and save the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, settings, err := g.client(cmd)
			if err != nil {
				return err
			}
			p, err := password(pass)
			if err != nil {
				return err
			}
			res, err := c.Signup(cmd.Context(), username, email, p)
			if err != nil {
				return explain(err)
			}
			if err := c.SaveToken(settings.Backend.TokenFile); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "welcome %s\n", res.User.Username)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "account name")
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&pass, "password", "", "account password, or set "+passwordEnv)
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newSceneCmd(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scene",
		Short: "Save, load and list scenes on the studio backend",
	}
	cmd.AddCommand(
		newSceneSaveCmd(g),
		newSceneLoadCmd(g),
		newSceneListCmd(g),
	)
	return cmd
}

func newSceneSaveCmd(g *globalFlags) *cobra.Command {
	sf := &sceneFlags{}
	var description, update string
	var public bool
	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a scene config to the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, settings, err := g.client(cmd)
			if err != nil {
				return err
			}
			cfg, err := sf.sceneConfig(cmd, settings)
			if err != nil {
				return err
			}
			in := persistence.SceneInput{
				Name:        args[0],
				Description: description,
				Config:      cfg,
				IsPublic:    public,
			}
			out := cmd.OutOrStdout()
			if update != "" {
				s, err := c.UpdateScene(cmd.Context(), update, in)
				if err != nil {
					return explain(err)
				}
				fmt.Fprintf(out, "updated scene %s (%s)\n", s.ID, s.Name)
				return nil
			}
			res, err := c.SaveScene(cmd.Context(), in)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(out, "saved scene %s (%s)\n", res.Scene.ID, res.Scene.Name)
			if unlocked := res.NewlyUnlocked(); len(unlocked) > 0 {
				fmt.Fprintf(out, "unlocked animations: %s\n", joinStyles(unlocked))
			}
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&description, "description", "", "scene description")
	cmd.Flags().BoolVar(&public, "public", false, "share the scene publicly")
	cmd.Flags().StringVar(&update, "update", "", "id of an existing scene to overwrite")
	return cmd
}

func newSceneLoadCmd(g *globalFlags) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "load <id>",
		Short: "Download a scene and write it as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := g.client(cmd)
			if err != nil {
				return err
			}
			s, err := c.GetScene(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			cfg, err := s.SceneConfig()
			if err != nil {
				return err
			}
			path := out
			if path == "" {
				path = sanitize(s.Name) + ".toml"
			}
			if err := resources.SaveSceneConfigFile(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s x%d, %d views)\n", path, cfg.ObjectType, cfg.ObjectCount, s.Views)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "preset file to write, defaults to the scene name")
	return cmd
}

func newSceneListCmd(g *globalFlags) *cobra.Command {
	var mine, public bool
	var user string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List scenes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := g.client(cmd)
			if err != nil {
				return err
			}
			var scenes []persistence.Scene
			if mine {
				scenes, err = c.MyScenes(cmd.Context())
			} else {
				filter := persistence.ListFilter{UserID: user}
				if cmd.Flags().Changed("public") {
					filter.IsPublic = &public
				}
				scenes, err = c.ListScenes(cmd.Context(), filter)
			}
			if err != nil {
				return explain(err)
			}
			return printScenes(cmd, scenes)
		},
	}
	cmd.Flags().BoolVar(&mine, "mine", false, "only the scenes of the logged in user")
	cmd.Flags().BoolVar(&public, "public", false, "filter on public scenes")
	cmd.Flags().StringVar(&user, "user", "", "filter on the owner id")
	return cmd
}

func printScenes(cmd *cobra.Command, scenes []persistence.Scene) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tOBJECT\tPUBLIC\tVIEWS")
	for _, s := range scenes {
		object := "?"
		if cfg, err := s.SceneConfig(); err == nil {
			object = fmt.Sprintf("%s x%d", cfg.ObjectType, cfg.ObjectCount)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%d\n", s.ID, s.Name, object, s.IsPublic, s.Views)
	}
	return tw.Flush()
}

func joinStyles(styles []resources.AnimationStyle) string {
	if len(styles) == 0 {
		return "none"
	}
	return strings.Join(lo.Map(styles, func(s resources.AnimationStyle, _ int) string {
		return string(s)
	}), ", ")
}

func sanitize(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, name)
	if clean == "" {
		return "scene"
	}
	return clean
}

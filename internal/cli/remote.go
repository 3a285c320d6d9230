package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbox/pkg/client"
	"github.com/matzehuels/flowbox/pkg/errors"
	"github.com/matzehuels/flowbox/pkg/httputil"
	"github.com/matzehuels/flowbox/pkg/layoutfile"
	"github.com/matzehuels/flowbox/pkg/pipeline"
	"github.com/matzehuels/flowbox/pkg/scene"
)

// remoteCacheTTL bounds how long fetched layouts are reused.
const remoteCacheTTL = 7 * 24 * time.Hour

type remoteOpts struct {
	server  string
	token   string
	noCache bool
}

// remoteCommand creates the remote command group talking to a flowbox server.
func (c *CLI) remoteCommand() *cobra.Command {
	opts := &remoteOpts{}
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Work with layouts stored on a flowbox server",
		Long: `Work with layouts stored on a flowbox server (see 'serve').

The server URL defaults to $FLOWBOX_SERVER, then http://localhost:8080.
Fetched layouts are cached locally; stored layouts never change.`,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.server, "server", envOr("FLOWBOX_SERVER", "http://localhost:8080"), "server URL")
	pf.StringVar(&opts.token, "token", os.Getenv("FLOWBOX_TOKEN"), "bearer token sent with every request")
	pf.BoolVar(&opts.noCache, "no-cache", false, "do not cache fetched layouts")

	cmd.AddCommand(c.remoteCreateCommand(opts))
	cmd.AddCommand(c.remoteGetCommand(opts))
	cmd.AddCommand(c.remoteRenderCommand(opts))
	cmd.AddCommand(c.remoteDeleteCommand(opts))

	return cmd
}

func (c *CLI) remoteCreateCommand(ro *remoteOpts) *cobra.Command {
	opts := pipeline.Options{}
	cmd := &cobra.Command{
		Use:   "create [scene]",
		Short: "Upload a scene and store its layout on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRemoteCreate(cmd.Context(), ro, args[0], opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached on the server")
	layoutFlags(cmd, &opts)
	return cmd
}

func (c *CLI) runRemoteCreate(ctx context.Context, ro *remoteOpts, input string, opts pipeline.Options) error {
	format, err := scene.FormatFromPath(input)
	if err != nil {
		return err
	}
	doc, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read scene %s", input)
	}

	cl, err := c.newClient(ro)
	if err != nil {
		return err
	}
	spinner := newSpinner(ctx, "Uploading scene...").Start()
	created, err := cl.CreateLayout(ctx, doc, format, opts)
	if err != nil {
		spinner.StopWithError("Upload failed")
		return err
	}
	spinner.StopWithSuccess("Stored layout " + StyleValue.Render(created.ID))
	c.Logger.Debug("created remote layout", "id", created.ID, "scene_hash", created.SceneHash)

	printLayoutSummary(created)
	printStats(len(created.Layout.Blocks), len(created.Layout.Lines), created.Cached)
	printNewline()
	printNextStep("Render", fmt.Sprintf("%s remote render %s", appName, created.ID))
	return nil
}

func (c *CLI) remoteGetCommand(ro *remoteOpts) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Download a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClient(ro)
			if err != nil {
				return err
			}
			l, err := cl.GetLayout(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if output == "" {
				printLayoutSummary(l)
				return nil
			}
			if err := layoutfile.WriteFile(l.Layout, output); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}
			printSuccess("Downloaded layout %s", StyleValue.Render(l.ID))
			printFile(output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the layout file here instead of printing a summary")
	return cmd
}

func (c *CLI) remoteRenderCommand(ro *remoteOpts) *cobra.Command {
	var (
		formatsStr string
		output     string
	)
	opts := pipeline.Options{}
	cmd := &cobra.Command{
		Use:   "render [id]",
		Short: "Render a stored layout on the server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			cl, err := c.newClient(ro)
			if err != nil {
				return err
			}
			artifacts, err := cl.Render(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			if output == "" {
				output = c.remoteBase(cmd.Context(), cl, args[0])
			}
			paths, err := writeArtifacts(artifacts, opts.Formats, "", output)
			if err != nil {
				return err
			}
			printSuccess("Rendered %s", plural(len(paths), "file", "files"))
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (default: scene name)")
	renderFlags(cmd, &opts, &formatsStr)
	return cmd
}

func (c *CLI) remoteDeleteCommand(ro *remoteOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a stored layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := c.newClient(ro)
			if err != nil {
				return err
			}
			if err := cl.DeleteLayout(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted layout %s", args[0])
			return nil
		},
	}
}

// remoteBase names render output after the scene of a stored layout. The
// name comes from the server, so anything that is not a safe relative path
// falls back to the layout ID.
func (c *CLI) remoteBase(ctx context.Context, cl *client.Client, id string) string {
	l, err := cl.GetLayout(ctx, id)
	if err != nil {
		return id
	}
	if err := errors.ValidatePath(l.Layout.Scene); err != nil {
		c.Logger.Debug("ignoring scene name for output", "scene", l.Layout.Scene, "error", err)
		return id
	}
	return l.Layout.Scene
}

// newClient creates an API client with the response cache under the cache
// directory.
func (c *CLI) newClient(ro *remoteOpts) (*client.Client, error) {
	var headers map[string]string
	if ro.token != "" {
		headers = map[string]string{"Authorization": "Bearer " + ro.token}
	}
	if ro.noCache {
		return client.New(ro.server, nil, headers), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return client.New(ro.server, nil, headers), nil
	}
	hc, err := httputil.NewCache(filepath.Join(dir, httpCacheDir), remoteCacheTTL)
	if err != nil {
		c.Logger.Warn("response cache disabled", "error", err)
		return client.New(ro.server, nil, headers), nil
	}
	return client.New(ro.server, hc.Namespace(ro.server+"|"), headers), nil
}

func printLayoutSummary(l client.Layout) {
	printKeyValue("ID", l.ID)
	printKeyValue("Scene", l.Layout.Scene)
	printKeyValue("Size", fmt.Sprintf("%dx%d", l.Layout.Width, l.Layout.Height))
	printKeyValue("Orientation", l.Layout.Orientation)
	printKeyValue("Created", l.CreatedAt.Local().Format(time.DateTime))
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

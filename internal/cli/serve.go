package cli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowbox/internal/server"
	"github.com/matzehuels/flowbox/pkg/cache"
	"github.com/matzehuels/flowbox/pkg/pipeline"
	"github.com/matzehuels/flowbox/pkg/store"
)

type serveOpts struct {
	addr    string
	noCache bool
	timeout time.Duration
	maxBody int64

	redisAddr     string
	redisPassword string
	redisDB       int

	mongoURI string
	mongoDB  string
}

// serveCommand creates the serve command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Layouts and renders are cached in Redis when --redis is given, otherwise in
the local cache directory. Computed layouts are stored in MongoDB when
--mongo is given, otherwise in memory for the lifetime of the process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", ":8080", "listen address")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	f.DurationVar(&opts.timeout, "timeout", server.DefaultRequestTimeout, "per-request timeout")
	f.Int64Var(&opts.maxBody, "max-body", server.DefaultMaxBodyBytes, "maximum scene document size in bytes")
	f.StringVar(&opts.redisAddr, "redis", "", "Redis address for the cache (e.g. localhost:6379)")
	f.StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	f.IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	f.StringVar(&opts.mongoURI, "mongo", "", "MongoDB URI for the layout store (e.g. mongodb://localhost:27017)")
	f.StringVar(&opts.mongoDB, "mongo-db", appName, "MongoDB database name")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	lc, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(lc, versionKeyer(), c.Logger)
	defer runner.Close()

	st, err := c.serveStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	srv := server.New(server.Config{
		Runner:         runner,
		Store:          st,
		Logger:         c.Logger,
		MaxBodyBytes:   opts.maxBody,
		RequestTimeout: opts.timeout,
	})

	printSuccess("Serving the layout API on %s", StyleValue.Render(opts.addr))
	printNextStep("Try", fmt.Sprintf("%s remote create scene.toml --server %s", appName, localURL(opts.addr)))
	return srv.ListenAndServe(ctx, opts.addr)
}

func (c *CLI) serveCache(ctx context.Context, opts serveOpts) (cache.Cache, error) {
	switch {
	case opts.noCache:
		return cache.NewNullCache(), nil
	case opts.redisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     opts.redisAddr,
			Password: opts.redisPassword,
			DB:       opts.redisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using redis cache", "addr", opts.redisAddr)
		return rc, nil
	default:
		return newCache(false)
	}
}

func (c *CLI) serveStore(ctx context.Context, opts serveOpts) (store.Store, error) {
	if opts.mongoURI == "" {
		c.Logger.Warn("no --mongo given, layouts are kept in memory")
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, store.MongoOptions{URI: opts.mongoURI, Database: opts.mongoDB})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using mongodb store", "database", opts.mongoDB)
	return ms, nil
}

// localURL returns the loopback URL of a listen address.
func localURL(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return "http://localhost:8080"
	}
	return "http://localhost:" + port
}

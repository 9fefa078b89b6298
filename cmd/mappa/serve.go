package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mappa-dev/mappa/pkg/covstore"
	"github.com/mappa-dev/mappa/pkg/httpbridge"
	"github.com/mappa-dev/mappa/pkg/mapper"
	"github.com/mappa-dev/mappa/pkg/report"
	"github.com/mappa-dev/mappa/pkg/resource"
)

func serveCmd() *cobra.Command {
	var (
		addr     string
		root     string
		store    string
		noTrace  bool
		noMetric bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo resource tree",
		Long: `Serve a small demo application built on the resource tree, with
the collaborator endpoints enabled. Useful for trying the other
commands against something live:

  mappa serve &
  mappa check --registry http://localhost:8080/.mappa/resources .
  mappa coverage --url http://localhost:8080/.mappa/coverage`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))

			st, err := covstore.Open(store)
			if err != nil {
				return err
			}
			defer st.Close()

			reg, err := mapper.Build(demoTree(), mapper.WithRootLocation(root))
			if err != nil {
				return err
			}
			if err := reg.AddStatic("@@Logo", "https://static.example.com/logo.png"); err != nil {
				return err
			}

			opts := []httpbridge.Option{
				httpbridge.WithLogger(logger),
				httpbridge.WithReporter(report.NewTracer(logger)),
				httpbridge.WithCoverage(st),
			}
			if !noTrace {
				opts = append(opts, httpbridge.WithTrace())
			}
			if !noMetric {
				opts = append(opts, httpbridge.WithMetrics(report.NewMetrics()))
			}
			bridge := httpbridge.New(reg, opts...)

			srv := &http.Server{
				Addr:              addr,
				Handler:           bridge.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}
			success("serving demo tree on http://localhost%s%s/", addr, reg.RootLocation())
			return srv.ListenAndServe()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")
	cmd.Flags().StringVar(&root, "root", "", "Mount prefix, e.g. /app")
	cmd.Flags().StringVar(&store, "store", "mem://", "Coverage store connection string")
	cmd.Flags().BoolVar(&noTrace, "no-trace", false, "Disable the live trace stream")
	cmd.Flags().BoolVar(&noMetric, "no-metrics", false, "Disable Prometheus metrics")

	return cmd
}

// demoTree is a small photo site exercising every node variant.
func demoTree() resource.Node {
	text := func(render func(ctx *resource.Context) (string, error)) resource.Handler {
		return resource.HandlerFunc(func(ctx *resource.Context) error {
			body, err := render(ctx)
			if err != nil {
				return err
			}
			ctx.Response.SetContentType("text/plain; charset=utf-8")
			_, err = ctx.Response.Write([]byte(body))
			return err
		})
	}

	photoView := resource.NewLeaf("@@PhotoView",
		text(func(ctx *resource.Context) (string, error) {
			id, _ := ctx.Int("id")
			edit, err := ctx.URL("@@PhotoEdit", resource.Args{"id": id})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("photo %d (edit at %s)\n", id, edit), nil
		}),
		resource.LeafDoc("Single photo"))

	photo := resource.NewFolderWithDefault(photoView)
	photo.Set("edit", resource.NewLeaf("@@PhotoEdit",
		text(func(ctx *resource.Context) (string, error) {
			id, _ := ctx.Int("id")
			return fmt.Sprintf("editing photo %d\n", id), nil
		}),
		resource.LeafDoc("Edit a photo")))

	photos := resource.NewFolderWithDefault(resource.NewLeaf("@@Photos",
		text(func(ctx *resource.Context) (string, error) {
			first, err := ctx.URL("@@FirstPhoto", nil)
			if err != nil {
				return "", err
			}
			return "all photos (start at " + first + ")\n", nil
		}),
		resource.LeafDoc("Photo index")))
	photos.SetVar(resource.Variable("id", resource.Int), photo)

	users := resource.NewFolder()
	users.SetVar(resource.Variable("name", resource.String),
		resource.NewLeaf("@@UserView",
			text(func(ctx *resource.Context) (string, error) {
				name, _ := ctx.String("name")
				return "user " + name + "\n", nil
			}),
			resource.LeafDoc("User page")))

	admin := resource.NewFolderWithMenu(resource.FolderID("@@Admin"), resource.FolderDoc("Admin section"))
	admin.Set("users", resource.NewLeaf("@@AdminUsers",
		text(func(ctx *resource.Context) (string, error) {
			return "user administration\n", nil
		})))

	root := resource.NewFolderWithDefault(resource.NewLeaf("@@Home",
		text(func(ctx *resource.Context) (string, error) {
			photos, err := ctx.URL("@@Photos", nil)
			if err != nil {
				return "", err
			}
			logo, err := ctx.URL("@@Logo", nil)
			if err != nil {
				return "", err
			}
			return "welcome; photos at " + photos + ", logo at " + logo + "\n", nil
		}),
		resource.LeafDoc("Frontpage")))
	root.Set("photos", photos)
	root.Set("users", users)
	root.Set("admin", admin)
	root.Set("first", resource.NewAlias("@@FirstPhoto", "@@PhotoView",
		resource.AliasArg("id", "1"), resource.AliasDoc("The very first photo")))
	root.Set("index", resource.NewLeaf("@@OldIndex", resource.HandlerFunc(func(ctx *resource.Context) error {
		return mapper.Redirect("/")
	}), resource.LeafDoc("Legacy entry point")))

	return root
}

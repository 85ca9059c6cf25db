// Command browse pages through the livery catalog API from the terminal,
// using the same scroll controller and page cache as the UI.
package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/liverylab/catalog/pkg/config"
	"github.com/liverylab/catalog/pkg/logger"
	appsvcs "github.com/liverylab/catalog/services/livery/application/services"
	"github.com/liverylab/catalog/services/livery/client"
	"github.com/liverylab/catalog/services/livery/domain/models"
)

type browseOptions struct {
	apiURL    string
	context   string
	owner     string
	ids       string
	search    string
	category  string
	scoreMin  int
	sort      string
	direction string
	pageSize  int
	pages     int
	logLevel  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts browseOptions

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through the livery catalog",
		Long: "browse requests catalog pages the way the infinite-scroll UI does, " +
			"following nextCursor until the listing is exhausted or --pages is reached.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return browse(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.apiURL, "api", "http://localhost:8080", "Catalog API base URL")
	flags.StringVarP(&opts.context, "context", "c", "catalog", "Browsing context: catalog, mine or owner")
	flags.StringVar(&opts.owner, "owner", "", "Owner id to sign in as (development session)")
	flags.StringVar(&opts.ids, "ids", "", "Comma-separated livery ids to browse")
	flags.StringVarP(&opts.search, "search", "s", "", "Search token")
	flags.StringVar(&opts.category, "category", "", "Category")
	flags.IntVar(&opts.scoreMin, "score-min", 0, "Minimum popularity score (1-5)")
	flags.StringVar(&opts.sort, "sort", "", "Sort key: createdAt or popularity")
	flags.StringVar(&opts.direction, "direction", "", "Direction: asc or desc")
	flags.IntVar(&opts.pageSize, "page-size", 0, "Page size")
	flags.IntVar(&opts.pages, "pages", 1, "Maximum number of pages to request (0 = until exhausted)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level")

	return cmd
}

func parseContext(s string) (client.BrowsingContext, error) {
	switch s {
	case "catalog":
		return client.ContextCatalog, nil
	case "mine":
		return client.ContextMyCollection, nil
	case "owner":
		return client.ContextOwnerCollection, nil
	}
	return 0, fmt.Errorf("unknown context %q", s)
}

// filterFromFlags runs the flags through the server's normalizer so the
// cached filter is the canonical one.
func filterFromFlags(opts browseOptions) (models.FilterSpec, error) {
	params := url.Values{}
	set := func(key, value string) {
		if value != "" {
			params.Set(key, value)
		}
	}
	set(appsvcs.ParamIDs, opts.ids)
	set(appsvcs.ParamSearch, opts.search)
	set(appsvcs.ParamCategory, opts.category)
	set(appsvcs.ParamSort, opts.sort)
	set(appsvcs.ParamDirection, opts.direction)
	if opts.scoreMin > 0 {
		set(appsvcs.ParamScoreMin, strconv.Itoa(opts.scoreMin))
	}
	if opts.pageSize > 0 {
		set(appsvcs.ParamPageSize, strconv.Itoa(opts.pageSize))
	}
	return appsvcs.NewNormalizer(appsvcs.DefaultQueryOptions()).Normalize(params)
}

func browse(ctx context.Context, out io.Writer, opts browseOptions) error {
	log := logger.New(&config.Config{LogLevel: opts.logLevel})

	bc, err := parseContext(opts.context)
	if err != nil {
		return err
	}
	f, err := filterFromFlags(opts)
	if err != nil {
		return err
	}
	if bc == client.ContextOwnerCollection && !f.HasScope() {
		return fmt.Errorf("context owner requires --ids")
	}

	hc, err := client.NewHTTPClient()
	if err != nil {
		return err
	}
	if opts.owner != "" {
		if err := client.StartSession(ctx, hc, opts.apiURL, opts.owner); err != nil {
			return err
		}
	}

	slice := client.NewSlice()
	ctrl := client.NewScrollController(bc, slice, client.NewHTTPFetcher(opts.apiURL, bc, hc), log)
	ctrl.SetFilters(f)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	printed := 0
	for page := 1; opts.pages == 0 || page <= opts.pages; page++ {
		outcome, err := ctrl.OnSentinelVisible(ctx)
		if err != nil {
			return err
		}
		if outcome != client.OutcomeMerged {
			break
		}

		items := slice.Items(bc)
		fmt.Fprintf(tw, "-- page %d --\n", page)
		for _, l := range items[printed:] {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
				l.ID, l.Name, l.Category, l.PopularityScore, l.CreatedAt.Format("2006-01-02 15:04"))
		}
		printed = len(items)
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	entry, _ := slice.Entry(bc)
	if entry.Exhausted {
		fmt.Fprintf(out, "%d liveries, end of listing\n", printed)
	} else if entry.LastCursor != nil {
		fmt.Fprintf(out, "%d liveries, next cursor %s\n", printed, *entry.LastCursor)
	}
	return nil
}

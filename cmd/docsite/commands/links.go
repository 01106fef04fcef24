package commands

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	ferrors "github.com/biginformatics/docsite/internal/foundation/errors"
	"github.com/biginformatics/docsite/internal/linkcheck"
)

// LinkCheckFlags configure the link checker.
type LinkCheckFlags struct {
	Timeout     time.Duration `help:"Per-request timeout" default:"10s"`
	Concurrency int           `help:"Maximum concurrent requests" default:"4"`
	NATSURL     string        `name:"nats-url" help:"Publish broken links to this NATS server (JetStream)" env:"DOCSITE_NATS_URL"`
}

// newChecker builds a checker; the returned close func is never nil.
func (f LinkCheckFlags) newChecker(ctx context.Context, opts ...linkcheck.Option) (*linkcheck.Checker, func(), error) {
	opts = append(opts, linkcheck.WithTimeout(f.Timeout), linkcheck.WithConcurrency(f.Concurrency))
	if f.NATSURL == "" {
		return linkcheck.New(opts...), func() {}, nil
	}
	nc, err := linkcheck.NewNATSClient(ctx, linkcheck.NATSConfig{URL: f.NATSURL})
	if err != nil {
		return nil, nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", f.NATSURL).Build()
	}
	opts = append(opts, linkcheck.WithPublisher(nc), linkcheck.WithCache(nc))
	return linkcheck.New(opts...), func() { _ = nc.Close() }, nil
}

// LinksCmd implements the 'links' command.
type LinksCmd struct {
	PathCheckFlags
	LinkCheckFlags
}

func (l *LinksCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res, err := runPipeline(ctx, root, l.PathCheckFlags)
	if err != nil {
		return err
	}
	checker, closeFn, err := l.newChecker(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	report, checkErr := checker.Check(ctx, res.Resolved)
	if report != nil {
		printReport(g, report)
	}
	return checkErr
}

func printReport(g *Global, report *linkcheck.Report) {
	if report.Skipped {
		printf(g, "Link check skipped (onBrokenLinks: %s), %d link(s) declared\n", report.Policy, len(report.Results))
		return
	}
	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STATUS\tCODE\tFIELD\tURL")
	for _, r := range report.Results {
		state := "ok"
		if r.Broken {
			state = "BROKEN"
		}
		code := "-"
		if r.Status > 0 {
			code = strconv.Itoa(r.Status)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", state, code, r.Link.Field, r.Link.URL)
	}
	_ = tw.Flush()
	printf(g, "%d checked, %d broken (onBrokenLinks: %s)\n", len(report.Results), len(report.Broken()), report.Policy)
}

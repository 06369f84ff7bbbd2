package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cryptonique0/cecd/app"
	"github.com/cryptonique0/cecd/core/model"
	"github.com/cryptonique0/cecd/infra/logger"
	"github.com/cryptonique0/cecd/pkg/export"
	"github.com/cryptonique0/cecd/pkg/snapshot"
)

// queryFlags are shared by the one-shot commands evaluating a snapshot.
type queryFlags struct {
	file   string
	format string
}

func (q *queryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.file, "file", "f", "", "snapshot file (yaml or json)")
	cmd.Flags().StringVar(&q.format, "format", string(export.FormatJSON), "output format: json, csv or html")
	_ = cmd.MarkFlagRequired("file")
}

// query is one evaluation of a snapshot. Logs go to stderr so stdout only
// carries the result.
type query struct {
	svc    *app.Service
	snap   *snapshot.Snapshot
	format export.Format
	out    io.Writer
	ctx    context.Context
}

func (o *rootOptions) openQuery(cmd *cobra.Command, q *queryFlags) (*query, error) {
	format, err := export.ParseFormat(q.format)
	if err != nil {
		return nil, err
	}
	snap, err := snapshot.Load(q.file)
	if err != nil {
		return nil, err
	}
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	errOut := cmd.ErrOrStderr()
	level := os.Getenv("LOG_LEVEL")
	svc, err := app.New(cfg,
		app.WithClock(snap.Now),
		app.WithLoggerFactory(func(component string) logger.Logger {
			return logger.NewWithWriter(component, errOut, level)
		}),
	)
	if err != nil {
		return nil, err
	}
	svc.LoadAssets(snap.Assets)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return &query{svc: svc, snap: snap, format: format, out: cmd.OutOrStdout(), ctx: ctx}, nil
}

func (q *query) close() {
	if err := q.svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}

func unsupported(f export.Format, command string) error {
	return fmt.Errorf("%s output is not supported by %s", f, command)
}

func runQuery(o *rootOptions, flags *queryFlags, run func(*query) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		q, err := o.openQuery(cmd, flags)
		if err != nil {
			return err
		}
		defer q.close()
		return run(q)
	}
}

func newSuggestCmd(o *rootOptions) *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Match responders to open incidents",
	}
	cmd.RunE = runQuery(o, flags, func(q *query) error {
		sugs := q.svc.Matcher.Suggest(q.ctx, q.snap.Incidents, q.snap.Responders)
		switch q.format {
		case export.FormatJSON:
			return export.WriteJSON(q.out, sugs)
		case export.FormatCSV:
			return export.WriteSuggestionsCSV(q.out, sugs)
		}
		return unsupported(q.format, "suggest")
	})
	flags.bind(cmd)
	return cmd
}

func newPlaybookCmd(o *rootOptions) *cobra.Command {
	flags := &queryFlags{}
	var incidentID string
	cmd := &cobra.Command{
		Use:   "playbook",
		Short: "Generate response playbooks",
	}
	cmd.RunE = runQuery(o, flags, func(q *query) error {
		incidents := q.snap.Incidents
		if incidentID != "" {
			inc, ok := q.snap.Incident(incidentID)
			if !ok {
				return fmt.Errorf("incident %s not in snapshot", incidentID)
			}
			incidents = []model.Incident{inc}
		}
		plans := make([]model.PlaybookPlan, 0, len(incidents))
		for _, inc := range incidents {
			if err := inc.Validate(); err != nil {
				q.svc.Logger().Warnf("skip incident: %v", err)
				continue
			}
			plans = append(plans, q.svc.Playbooks.Generate(inc, q.snap.Responders, q.snap.Squad))
		}
		switch q.format {
		case export.FormatJSON:
			if incidentID != "" && len(plans) == 1 {
				return export.WriteJSON(q.out, plans[0])
			}
			return export.WriteJSON(q.out, plans)
		case export.FormatCSV:
			if len(plans) != 1 {
				return fmt.Errorf("csv output needs exactly one playbook, use --incident")
			}
			return export.WritePlaybookCSV(q.out, plans[0])
		}
		return unsupported(q.format, "playbook")
	})
	flags.bind(cmd)
	cmd.Flags().StringVar(&incidentID, "incident", "", "only build the playbook of this incident")
	return cmd
}

func newReadinessCmd(o *rootOptions) *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Score operational readiness per region",
	}
	cmd.RunE = runQuery(o, flags, func(q *query) error {
		recs := q.svc.Readiness.ReadinessByRegion(q.snap.Incidents, q.snap.Responders)
		switch q.format {
		case export.FormatJSON:
			return export.WriteJSON(q.out, recs)
		case export.FormatCSV:
			return export.WriteReadinessCSV(q.out, recs)
		case export.FormatHTML:
			return export.WriteReadinessChart(q.out, recs)
		}
		return unsupported(q.format, "readiness")
	})
	flags.bind(cmd)
	return cmd
}

func newAnomaliesCmd(o *rootOptions) *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "Flag suspicious incident reports",
	}
	cmd.RunE = runQuery(o, flags, func(q *query) error {
		if q.format != export.FormatJSON {
			return unsupported(q.format, "anomalies")
		}
		return export.WriteJSON(q.out, q.svc.Readiness.DetectAnomalies(q.snap.Incidents, q.snap.Responders))
	})
	flags.bind(cmd)
	return cmd
}

type forecastOutput struct {
	Shortages []model.ShortageForecast `json:"shortages"`
	Resupply  []model.ResupplyRoute    `json:"resupply"`
}

func newForecastCmd(o *rootOptions) *cobra.Command {
	flags := &queryFlags{}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast regional shortages and resupply routes",
	}
	cmd.RunE = runQuery(o, flags, func(q *query) error {
		shortages := q.svc.Forecaster.ForecastShortages(q.snap.Incidents, q.snap.Responders)
		switch q.format {
		case export.FormatJSON:
			routes := q.svc.Forecaster.PreallocateResupplyRoutes(q.ctx, q.snap.Incidents)
			return export.WriteJSON(q.out, forecastOutput{Shortages: shortages, Resupply: routes})
		case export.FormatCSV:
			return export.WriteShortagesCSV(q.out, shortages)
		}
		return unsupported(q.format, "forecast")
	})
	flags.bind(cmd)
	return cmd
}

func newTrustCmd(o *rootOptions) *cobra.Command {
	flags := &queryFlags{}
	var responderID string
	cmd := &cobra.Command{
		Use:   "trust",
		Short: "Compute responder trust profiles",
	}
	cmd.RunE = runQuery(o, flags, func(q *query) error {
		if q.format != export.FormatJSON {
			return unsupported(q.format, "trust")
		}
		responders := q.snap.Responders
		if responderID != "" {
			r, ok := q.snap.Responder(responderID)
			if !ok {
				return fmt.Errorf("responder %s not in snapshot", responderID)
			}
			responders = []model.Responder{r}
		}
		profiles := make([]model.TrustProfile, 0, len(responders))
		for _, r := range responders {
			profiles = append(profiles, q.svc.Trust.Profile(r, q.snap.Trust[r.ID]))
		}
		if responderID != "" {
			return export.WriteJSON(q.out, profiles[0])
		}
		return export.WriteJSON(q.out, profiles)
	})
	flags.bind(cmd)
	cmd.Flags().StringVar(&responderID, "responder", "", "only profile this responder")
	return cmd
}

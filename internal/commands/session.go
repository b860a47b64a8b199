package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/plsense/internal/analysis"
	"github.com/cleared-dev/plsense/internal/categorizer"
	"github.com/cleared-dev/plsense/internal/classify"
	"github.com/cleared-dev/plsense/internal/config"
	"github.com/cleared-dev/plsense/internal/ingest"
	"github.com/cleared-dev/plsense/internal/logger"
	"github.com/cleared-dev/plsense/internal/model"
	"github.com/cleared-dev/plsense/internal/taxonomy"
)

// session is the configured pipeline behind one command invocation.
type session struct {
	ctx      context.Context
	cfg      *config.Config
	registry *ingest.Registry
	service  *analysis.Service
}

// open loads configuration, installs the logger and builds the analysis
// service. Relative file paths in the config resolve against its directory.
func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}

	log := logger.NewTo(cmd.ErrOrStderr(), cfg.Log.Level, logger.Format(cfg.Log.Format))
	ctx := logger.WithContext(cmd.Context(), log)
	base := filepath.Dir(o.configPath)

	tax := taxonomy.Default()
	if cfg.TaxonomyFile != "" {
		tax, err = taxonomy.LoadFile(resolve(base, cfg.TaxonomyFile))
		if err != nil {
			return nil, err
		}
	}

	cc := cfg.Categorizer
	var c categorizer.Categorizer
	if cc.UseAI {
		c, err = categorizer.New(ctx, categorizer.Settings{
			Provider:     categorizer.Provider(cc.Provider),
			Model:        cc.Model,
			APIKey:       cc.APIKey,
			MappingsFile: resolve(base, cc.MappingsFile),
			Taxonomy:     tax,
		})
		if err != nil {
			return nil, fmt.Errorf("creating categorizer: %w", err)
		}
		log.Debug().Str("provider", cc.Provider).Dur("timeout", cc.Timeout).Msg("categorizer enabled")
	}

	resolver := classify.NewResolver(tax, c, categorizer.Options{
		UseAI:    cc.UseAI,
		Provider: categorizer.Provider(cc.Provider),
	})
	return &session{
		ctx:      ctx,
		cfg:      cfg,
		registry: ingest.DefaultRegistry(),
		service:  analysis.NewService(resolver, cfg.Waterfall.TopN),
	}, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// analyze reads and analyzes one file. The configured categorizer timeout
// bounds the whole run.
func (s *session) analyze(ctx context.Context, path string, p analysis.Params) (*analysis.Report, error) {
	tbl, err := s.registry.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if t := s.cfg.Categorizer.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	return s.service.Analyze(ctx, tbl, p)
}

// hintFlags override structure detection.
type hintFlags struct {
	headerRow     int
	accountColumn string
	dateColumns   []string
	valueColumns  []string
}

func (h *hintFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&h.headerRow, "header-row", 0, "zero-based header row (detected when unset)")
	cmd.Flags().StringVar(&h.accountColumn, "account-column", "", "account name column")
	cmd.Flags().StringSliceVar(&h.dateColumns, "date-columns", nil, "date columns")
	cmd.Flags().StringSliceVar(&h.valueColumns, "value-columns", nil, "value columns")
}

func (h *hintFlags) hints(cmd *cobra.Command) model.Hints {
	hints := model.Hints{
		AccountColumn: h.accountColumn,
		DateColumns:   h.dateColumns,
		ValueColumns:  h.valueColumns,
	}
	if cmd.Flags().Changed("header-row") {
		row := h.headerRow
		hints.HeaderRow = &row
	}
	return hints
}

// metricFlags feed the runway computation.
type metricFlags struct {
	cash float64
	asOf string
}

func (m *metricFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&m.cash, "cash", 0, "current cash balance (enables runway)")
	cmd.Flags().StringVar(&m.asOf, "as-of", "", "runway anchor date, YYYY-MM-DD (default today)")
}

func (m *metricFlags) apply(cmd *cobra.Command, p *analysis.Params) error {
	if cmd.Flags().Changed("cash") {
		cash := m.cash
		p.CashBalance = &cash
	}
	if m.asOf != "" {
		t, err := time.Parse(time.DateOnly, m.asOf)
		if err != nil {
			return fmt.Errorf("parsing --as-of: %w", err)
		}
		p.AsOf = t
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/BerylCAtieno/persona-studio/internal/apperr"
	"github.com/BerylCAtieno/persona-studio/internal/dataset"
	"github.com/BerylCAtieno/persona-studio/internal/export"
	"github.com/BerylCAtieno/persona-studio/internal/filter"
	"github.com/BerylCAtieno/persona-studio/internal/request"
)

type generateOptions struct {
	count    string
	ageMin   string
	ageMax   string
	gender   string
	location string

	text           string
	genders        []string
	locations      []string
	maritalStatus  []string
	educations     []string
	incomeBrackets []string
	filterAgeMin   int
	filterAgeMax   int
	occupation     string
	interest       string
	value          string
	lifestyle      string

	format string
	outDir string
	now    func() time.Time
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate personas and export them",
		Long: `Generate a batch of personas, narrow it with optional filters and write
the result as CSV, XLSX or both.

Example:
  personactl generate --count 20 --age-min 20 --age-max 29 --gender 여성 \
    --interest 여행 --format both --out ./exports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, root, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.count, "count", "n", "", "Number of personas to generate (required)")
	f.StringVar(&opts.ageMin, "age-min", "", "Minimum age (needs --age-max)")
	f.StringVar(&opts.ageMax, "age-max", "", "Maximum age (needs --age-min)")
	f.StringVar(&opts.gender, "gender", "", "Gender constraint")
	f.StringVar(&opts.location, "location", "", "Location constraint")

	f.StringVar(&opts.text, "text", "", "Filter: free text over name, occupation and location")
	f.StringSliceVar(&opts.genders, "filter-gender", nil, "Filter: allowed genders")
	f.StringSliceVar(&opts.locations, "filter-location", nil, "Filter: allowed locations")
	f.StringSliceVar(&opts.maritalStatus, "marital-status", nil, "Filter: allowed marital statuses")
	f.StringSliceVar(&opts.educations, "education", nil, "Filter: allowed education levels")
	f.StringSliceVar(&opts.incomeBrackets, "income-bracket", nil, "Filter: allowed income brackets")
	f.IntVar(&opts.filterAgeMin, "filter-age-min", 0, "Filter: minimum age")
	f.IntVar(&opts.filterAgeMax, "filter-age-max", 0, "Filter: maximum age")
	f.StringVar(&opts.occupation, "occupation", "", "Filter: occupation substring")
	f.StringVar(&opts.interest, "interest", "", "Filter: interest substring")
	f.StringVar(&opts.value, "value", "", "Filter: value substring")
	f.StringVar(&opts.lifestyle, "lifestyle", "", "Filter: lifestyle substring")

	f.StringVar(&opts.format, "format", "both", "Export format: csv, xlsx or both")
	f.StringVarP(&opts.outDir, "out", "o", ".", "Directory for export files")
	return cmd
}

func runGenerate(cmd *cobra.Command, root *rootOptions, opts *generateOptions) error {
	formats, err := parseFormats(opts.format)
	if err != nil {
		return err
	}

	req, err := request.NewBuilder(root.cfg.Generation.MaxCount).Build(request.RawInputs{
		Count:    request.Input(opts.count),
		AgeMin:   request.Input(opts.ageMin),
		AgeMax:   request.Input(opts.ageMax),
		Gender:   request.Input(opts.gender),
		Location: request.Input(opts.location),
	})
	if err != nil {
		return userError(err)
	}

	store := dataset.New()
	store.SetCriteria(opts.criteria(cmd))

	ticket := store.Begin()
	records, err := root.client().Generate(cmd.Context(), req)
	if err != nil {
		return userError(err)
	}
	store.Commit(ticket, records)

	view := store.Filtered()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Generated %d personas, %d after filtering\n", store.Len(), len(view))

	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	stamp := opts.now()
	for _, format := range formats {
		data, err := export.Encode(format, view)
		if err != nil {
			return userError(err)
		}
		path := filepath.Join(opts.outDir, format.Filename(stamp))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(out, "Wrote %s (%d bytes)\n", path, len(data))
	}
	return nil
}

// criteria collects the filter flags the user actually set.
func (o *generateOptions) criteria(cmd *cobra.Command) filter.Criteria {
	c := filter.Criteria{
		Text:            o.text,
		Genders:         o.genders,
		Locations:       o.locations,
		MaritalStatuses: o.maritalStatus,
		Educations:      o.educations,
		IncomeBrackets:  o.incomeBrackets,
		Occupation:      o.occupation,
		Interest:        o.interest,
		Value:           o.value,
		Lifestyle:       o.lifestyle,
	}
	if cmd.Flags().Changed("filter-age-min") {
		v := o.filterAgeMin
		c.AgeMin = &v
	}
	if cmd.Flags().Changed("filter-age-max") {
		v := o.filterAgeMax
		c.AgeMax = &v
	}
	return c
}

func parseFormats(s string) ([]export.Format, error) {
	if strings.EqualFold(strings.TrimSpace(s), "both") {
		return []export.Format{export.FormatXLSX, export.FormatCSV}, nil
	}
	f, err := export.ParseFormat(s)
	if err != nil {
		return nil, err
	}
	return []export.Format{f}, nil
}

// userError renders pipeline failures the way the browser UI shows them.
func userError(err error) error {
	if apperr.KindOf(err) == "" {
		return err
	}
	return fmt.Errorf("%s", apperr.UserMessage(err))
}

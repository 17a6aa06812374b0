package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okibox/confluence-export/internal/config"
	"github.com/okibox/confluence-export/internal/confluence"
	"github.com/okibox/confluence-export/internal/converter"
	"github.com/okibox/confluence-export/internal/credentials"
	"github.com/okibox/confluence-export/internal/processor"
)

// authOptions are the flags every API-touching command shares. Values left
// empty are resolved from the environment, config file, or netrc.
type authOptions struct {
	BaseURL  string
	Email    string
	APIToken string
}

func (o *authOptions) InitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.BaseURL, "base-url", "", "Confluence instance base URL (e.g. https://example.atlassian.net)")
	cmd.Flags().StringVar(&o.Email, "email", "", "Atlassian account email")
	cmd.Flags().StringVar(&o.APIToken, "api-token", "", "Atlassian API token")
}

// commonOptions are the flags shared by the page and tree commands.
type commonOptions struct {
	OutputDir           string
	Format              string
	Overwrite           bool
	DownloadImages      bool
	ImagesDir           string
	DownloadAttachments bool
	SaveRaw             bool
	CompactTables       bool
	PreserveAnchors     bool
	DryRun              bool
	RateLimit           int
	Timeout             time.Duration
}

func (o *commonOptions) InitFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.OutputDir, "output", "o", "./output", "Output directory")
	cmd.Flags().StringVarP(&o.Format, "format", "f", "markdown", "Output format: markdown or asciidoc")
	cmd.Flags().BoolVar(&o.Overwrite, "overwrite", false, "Overwrite existing files")
	cmd.Flags().BoolVar(&o.DownloadImages, "download-images", true, "Download images referenced by the page")
	cmd.Flags().StringVar(&o.ImagesDir, "images-dir", processor.DefaultImagesSubdir, "Subdirectory for downloaded images")
	cmd.Flags().BoolVar(&o.DownloadAttachments, "download-attachments", false, "Download all page attachments")
	cmd.Flags().BoolVar(&o.SaveRaw, "save-raw", false, "Also save the raw storage-format body as <name>.raw.xml")
	cmd.Flags().BoolVar(&o.CompactTables, "compact-tables", false, "Emit tables without column padding")
	cmd.Flags().BoolVar(&o.PreserveAnchors, "preserve-anchors", false, "Emit HTML anchors for anchor macros")
	cmd.Flags().BoolVar(&o.DryRun, "dry-run", false, "Process pages but write nothing to disk")
	cmd.Flags().IntVar(&o.RateLimit, "rate-limit", confluence.DefaultRateLimit, "Maximum API requests per second")
	cmd.Flags().DurationVar(&o.Timeout, "timeout", confluence.DefaultTimeout, "Per-request HTTP timeout")
}

// applyConfigDefaults overrides built-in flag defaults with config file
// values, for flags the user did not set explicitly.
func (o *commonOptions) applyConfigDefaults(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Format != "" && !cmd.Flags().Changed("format") {
		o.Format = cfg.Format
	}
	if cfg.Output != "" && !cmd.Flags().Changed("output") {
		o.OutputDir = cfg.Output
	}
	return nil
}

func (o *commonOptions) outputFormat() (converter.Format, error) {
	return converter.ParseFormat(o.Format)
}

func (o *commonOptions) processOptions(format converter.Format) processor.ProcessOptions {
	return processor.ProcessOptions{
		Format:              format,
		SaveRaw:             o.SaveRaw,
		DownloadImages:      o.DownloadImages && !o.DryRun,
		ImagesSubdir:        o.ImagesDir,
		DownloadAttachments: o.DownloadAttachments && !o.DryRun,
		ConversionOptions: converter.Options{
			PreserveAnchors: o.PreserveAnchors,
			CompactTables:   o.CompactTables,
		},
	}
}

// resolveTarget interprets the positional argument as either a full page
// URL or a bare numeric page ID combined with --base-url.
func resolveTarget(arg string, auth *authOptions) (baseURL, pageID string, err error) {
	if arg == "" {
		return "", "", fmt.Errorf("missing required argument: page URL or page ID")
	}

	if isDigits(arg) {
		return auth.BaseURL, arg, nil
	}

	info, err := confluence.ParseURL(arg)
	if err != nil {
		return "", "", fmt.Errorf("invalid Confluence URL: %w", err)
	}
	return info.BaseURL, info.PageID, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// newClient resolves credentials and builds the API client.
func newClient(auth *authOptions, baseURL string, opts *commonOptions) (*confluence.Client, *credentials.Credentials, error) {
	if baseURL == "" {
		baseURL = auth.BaseURL
	}
	creds, err := credentials.Resolve(baseURL, auth.Email, auth.APIToken)
	if err != nil {
		return nil, nil, err
	}

	clientOpts := confluence.ClientOptions{}
	if opts != nil {
		clientOpts.RateLimit = opts.RateLimit
		clientOpts.Timeout = opts.Timeout
	}
	client, err := confluence.NewClient(creds.BaseURL, creds.Email, creds.APIToken, clientOpts)
	if err != nil {
		return nil, nil, err
	}
	return client, creds, nil
}

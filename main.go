// Comapeo-cli is a command-line client for CoMapeo Cloud servers: list
// projects and observations, manage remote detection alerts, download
// attachments, and export a project's observations and photos as a GeoJSON
// document plus images bundled in a zip archive.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"comapeo-cli/comapeo"
	"comapeo-cli/geojson"
	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const UserAgent = "comapeo-cli/0.2"

const version = "0.2.0"

var cli struct {
	Server string `help:"CoMapeo Cloud server URL." env:"COMAPEO_SERVER_URL" placeholder:"URL"`
	Token  string `help:"Bearer token used to authenticate with the server." env:"COMAPEO_ACCESS_TOKEN"`
	Debug  bool   `help:"Log verbosely."`

	Projects     ProjectsCmd     `cmd:"" help:"List projects on the server."`
	Observations ObservationsCmd `cmd:"" help:"List observations in a project."`
	Alerts       AlertsCmd       `cmd:"" help:"List remote detection alerts in a project."`
	CreateAlert  CreateAlertCmd  `cmd:"" help:"Create a remote detection alert in a project."`
	Attachment   AttachmentCmd   `cmd:"" help:"Download a single attachment."`
	Export       ExportCmd       `cmd:"" help:"Export a project's observations and photos as a zip archive."`
	Version      VersionCmd      `cmd:"" help:"Print the version of this program."`
}

// app carries what every command needs to run.
type app struct {
	client *comapeo.Client
	log    *zap.Logger
}

func (a *app) printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}

func main() {
	_ = godotenv.Load()
	ctx := kong.Parse(&cli,
		kong.Name("comapeo-cli"),
		kong.Description("Command-line client for CoMapeo Cloud servers."),
		kong.UsageOnError(),
	)

	logger := newLogger(cli.Debug)
	defer logger.Sync()

	a := &app{log: logger}
	if ctx.Command() != "version" {
		if cli.Server == "" {
			ctx.Fatalf("missing server URL: set COMAPEO_SERVER_URL or pass --server")
		}
		if cli.Token == "" {
			ctx.Fatalf("missing access token: set COMAPEO_ACCESS_TOKEN or pass --token")
		}
		a.client = comapeo.NewClient(cli.Server, cli.Token, UserAgent)
	}
	ctx.FatalIfErrorf(ctx.Run(a))
}

// newLogger builds the CLI logger: console encoding on stderr, Debug level
// only when requested.
func newLogger(debug bool) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	return logger
}

type ProjectsCmd struct{}

func (*ProjectsCmd) Run(a *app) error {
	projects, err := a.client.Projects()
	if err != nil {
		return err
	}
	return a.printJSON(projects)
}

type ObservationsCmd struct {
	Project string `help:"Project public ID." required:""`
}

func (c *ObservationsCmd) Run(a *app) error {
	observations, err := a.client.Observations(c.Project)
	if err != nil {
		return err
	}
	return a.printJSON(observations)
}

type AlertsCmd struct {
	Project string `help:"Project public ID." required:""`
}

func (c *AlertsCmd) Run(a *app) error {
	alerts, err := a.client.Alerts(c.Project)
	if err != nil {
		return err
	}
	return a.printJSON(alerts)
}

type CreateAlertCmd struct {
	Project   string  `help:"Project public ID." required:""`
	Start     string  `help:"Detection window start, RFC 3339." required:""`
	End       string  `help:"Detection window end, RFC 3339." required:""`
	SourceID  string  `help:"Detection source ID. Defaults to a fresh UUID."`
	AlertType string  `help:"Alert type recorded in the alert metadata." required:""`
	Lon       float64 `help:"Longitude of the alert location." required:""`
	Lat       float64 `help:"Latitude of the alert location." required:""`
}

func (c *CreateAlertCmd) Run(a *app) error {
	sourceID := c.SourceID
	if sourceID == "" {
		sourceID = uuid.NewString()
	}
	alert := comapeo.Alert{
		DetectionDateStart: c.Start,
		DetectionDateEnd:   c.End,
		SourceID:           sourceID,
		Metadata:           map[string]any{"alert_type": c.AlertType},
		Geometry:           geojson.NewPoint(c.Lon, c.Lat),
	}
	if err := a.client.CreateAlert(c.Project, alert); err != nil {
		return err
	}
	a.log.Info("alert created", zap.String("project", c.Project), zap.String("source_id", sourceID))
	return nil
}

type AttachmentCmd struct {
	Project string `help:"Project public ID." required:""`
	Drive   string `help:"Drive discovery ID." required:""`
	Type    string `help:"Attachment type (photo or audio)." required:""`
	Name    string `help:"Attachment name." required:""`
	Variant string `help:"Optional photo variant (original, preview, thumbnail)."`
	Output  string `help:"Output filename. Defaults to the attachment name plus an extension derived from its type."`
}

func (c *AttachmentCmd) Run(a *app) error {
	b, err := a.client.FetchAttachment(c.Project, c.Drive, c.Type, c.Name, c.Variant)
	if err != nil {
		return err
	}
	filename := comapeo.AttachmentFilename(c.Name, c.Type, c.Output)
	if err := os.WriteFile(filename, b, 0o644); err != nil {
		return err
	}
	fmt.Println(filename)
	return nil
}

type ExportCmd struct {
	Project string `help:"Project public ID." required:""`
	Output  string `help:"Output archive path." default:"comapeo_export.zip"`
}

func (c *ExportCmd) Run(a *app) error {
	if _, err := exportProject(a.client, a.log, c.Project, c.Output); err != nil {
		return err
	}
	fmt.Println(c.Output)
	return nil
}

type VersionCmd struct{}

func (*VersionCmd) Run(a *app) error {
	fmt.Println(version)
	return nil
}

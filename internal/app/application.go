package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"gomm/internal/archive"
	"gomm/internal/display"
	"gomm/internal/fetch"
	"gomm/internal/omm"
	"gomm/internal/tle"
)

// Application wires the decoder, encoder, fetchers and display behind the CLI
// commands.
type Application struct {
	config  Config
	logger  *logrus.Logger
	decoder *omm.Decoder
	encoder *omm.Encoder
	out     io.Writer
}

// NewApplication creates a new application instance
func NewApplication(config Config) *Application {
	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Application{
		config:  config,
		logger:  logger,
		decoder: omm.NewDecoder(logger),
		encoder: omm.NewEncoder(),
		out:     os.Stdout,
	}
}

// Logger exposes the application logger.
func (app *Application) Logger() *logrus.Logger { return app.logger }

// Show decodes an OMM or NDM file and pretty-prints every message.
func (app *Application) Show(path string) error {
	msgs, err := app.decodeFile(path)
	if err != nil {
		return err
	}
	return display.RenderAll(app.out, msgs)
}

// ConvertTLE decodes a file and prints a two-line element set for each
// message.
func (app *Application) ConvertTLE(path string) error {
	msgs, err := app.decodeFile(path)
	if err != nil {
		return err
	}
	for i, m := range msgs {
		rec, err := tle.FromOMM(m)
		if err != nil {
			return fmt.Errorf("message %d (%s): %w", i, m.Metadata.ObjectName, err)
		}
		if i > 0 {
			fmt.Fprintln(app.out)
		}
		fmt.Fprintln(app.out, m.Metadata.ObjectName)
		fmt.Fprintln(app.out, rec.Line1())
		fmt.Fprintln(app.out, rec.Line2())
	}
	return nil
}

// Reencode decodes a file and writes it back out as schema-conformant XML,
// exercising the full round trip.
func (app *Application) Reencode(path string) error {
	msgs, err := app.decodeFile(path)
	if err != nil {
		return err
	}
	text, err := app.encoder.EncodeString(msgs...)
	if err != nil {
		return err
	}
	_, err = io.WriteString(app.out, text)
	return err
}

// Fetch retrieves messages from the configured source, optionally archives
// the raw XML, and pretty-prints the result.
func (app *Application) Fetch(ctx context.Context) error {
	var raw []byte
	var err error

	source := strings.ToLower(app.config.Source)
	switch source {
	case "celestrak", "":
		source = "celestrak"
		client := fetch.NewCelestrakClient(app.logger)
		q := fetch.CelestrakQuery{
			Group:   app.config.Group,
			Name:    app.config.Name,
			IntlDes: app.config.IntlDes,
			CatNr:   app.config.CatNr,
		}
		// A specific object selector overrides the default group.
		if q.Name != "" || q.IntlDes != "" || q.CatNr > 0 {
			q.Group = ""
		}
		raw, err = client.FetchRaw(ctx, q)
	case "spacetrack":
		raw, err = app.fetchSpaceTrack(ctx)
	default:
		return fmt.Errorf("unknown source %q (want celestrak or spacetrack)", app.config.Source)
	}
	if err != nil {
		return err
	}

	if app.config.ArchiveDir != "" {
		arc, err := archive.New(app.config.ArchiveDir, app.config.UTC, app.logger)
		if err != nil {
			return err
		}
		if _, err := arc.Store(source, raw); err != nil {
			return err
		}
	}

	msgs, err := app.decoder.DecodeString(string(raw))
	if err != nil {
		return err
	}
	app.logger.WithFields(logrus.Fields{
		"source": source,
		"count":  len(msgs),
	}).Info("Fetched messages")

	return display.RenderAll(app.out, msgs)
}

func (app *Application) fetchSpaceTrack(ctx context.Context) ([]byte, error) {
	if app.config.Credentials == "" {
		return nil, fmt.Errorf("space-track fetch needs --credentials")
	}
	creds, err := fetch.LoadCredentials(app.config.Credentials)
	if err != nil {
		return nil, err
	}
	client, err := fetch.NewSpaceTrackClient(creds, app.config.CookieFile, app.logger)
	if err != nil {
		return nil, err
	}
	q := fetch.GPQuery{
		NoradCatID: app.config.CatNr,
		ObjectName: app.config.Name,
		OrderBy:    "EPOCH desc",
		Limit:      app.config.Limit,
	}
	return client.QueryRaw(ctx, q)
}

func (app *Application) decodeFile(path string) ([]omm.Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	msgs, err := app.decoder.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	app.logger.WithFields(logrus.Fields{
		"file":  path,
		"count": len(msgs),
	}).Debug("Decoded messages from file")
	return msgs, nil
}

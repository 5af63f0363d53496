// Package server is a read-only local HTTP preview of the log: filtered
// entry queries, tag and stats lookups, and export downloads.
package server

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nikbrunner/logbook/internal/app"
	"github.com/nikbrunner/logbook/internal/exporter"
	"github.com/nikbrunner/logbook/internal/filter"
	"github.com/nikbrunner/logbook/internal/logging"
	"github.com/nikbrunner/logbook/internal/model"
)

// Options tune the export endpoint.
type Options struct {
	Prefix         string
	Thumbnails     bool
	ThumbnailWidth int
}

// Server wraps a fiber app serving one App.
type Server struct {
	fiber *fiber.App
	state *app.App
	opts  Options
	log   *zap.Logger
}

// New builds the server and registers its routes.
func New(state *app.App, opts Options) *Server {
	s := &Server{
		fiber: fiber.New(fiber.Config{
			AppName:               "logbook",
			DisableStartupMessage: true,
		}),
		state: state,
		opts:  opts,
		log:   logging.OrNop(state.Logger()),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.fiber.Use(s.logRequests)

	s.fiber.Get("/health", s.health)
	api := s.fiber.Group("/api")
	api.Get("/entries", s.listEntries)
	api.Get("/entries/:id", s.getEntry)
	api.Get("/tags", s.listTags)
	api.Get("/stats", s.stats)
	s.fiber.Get("/export/:format", s.export)
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App {
	return s.fiber
}

// Listen serves on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.log.Info("preview server listening", zap.String("addr", addr))
	return s.fiber.Listen(addr)
}

// Shutdown stops the server, waiting for open requests until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.fiber.ShutdownWithContext(ctx)
}

func (s *Server) logRequests(c *fiber.Ctx) error {
	err := c.Next()
	s.log.Debug("request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", c.Response().StatusCode()))
	return err
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"variant": s.state.Variant(),
		"entries": len(s.state.Entries()),
	})
}

// specFromQuery reads filter clauses from the query string, using the same
// names as the CLI flags.
func (s *Server) specFromQuery(c *fiber.Ctx) (filter.Spec, error) {
	var tags []string
	if t := c.Query("tags"); t != "" {
		tags = []string{t}
	}
	raw := filter.Raw{
		Keyword: c.Query("keyword"),
		Time:    c.Query("time"),
		Values: filter.RawTimeValues{
			Year:  c.Query("year"),
			Month: c.Query("month"),
			Day:   c.Query("date"),
			Start: c.Query("start"),
			End:   c.Query("end"),
		},
		TagMode:  c.Query("tagMode"),
		Tags:     tags,
		Category: c.Query("category"),
	}
	return raw.Spec(s.state.Location())
}

func badFilter(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (s *Server) listEntries(c *fiber.Ctx) error {
	spec, err := s.specFromQuery(c)
	if err != nil {
		return badFilter(c, err)
	}

	entries := s.state.Query(spec)
	if !c.QueryBool("media", true) {
		stripped := make([]model.Entry, len(entries))
		for i, e := range entries {
			e.Media = ""
			stripped[i] = e
		}
		entries = stripped
	}

	return c.JSON(fiber.Map{
		"count":   len(entries),
		"total":   len(s.state.Entries()),
		"entries": entries,
	})
}

func (s *Server) getEntry(c *fiber.Ctx) error {
	e, err := s.state.Resolve(c.Params("id"))
	switch {
	case errors.Is(err, model.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": fmt.Sprintf("entry %s not found", c.Params("id")),
		})
	case errors.Is(err, app.ErrAmbiguousID):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(e)
}

func (s *Server) listTags(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"tags": s.state.Tags(),
	})
}

func (s *Server) stats(c *fiber.Ctx) error {
	st := s.state.Stats()
	byCategory := make(map[string]int, len(st.ByCategory))
	for cat, n := range st.ByCategory {
		byCategory[string(cat)] = n
	}
	return c.JSON(fiber.Map{
		"entries":    st.Entries,
		"tags":       st.Tags,
		"withMedia":  st.WithMedia,
		"byCategory": byCategory,
	})
}

func (s *Server) export(c *fiber.Ctx) error {
	format, err := exporter.ParseFormat(c.Params("format"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	spec, err := s.specFromQuery(c)
	if err != nil {
		return badFilter(c, err)
	}

	p, err := s.state.Export(format, app.ExportOptions{
		Prefix:         s.opts.Prefix,
		Filter:         &spec,
		Thumbnails:     s.opts.Thumbnails || c.QueryBool("thumbnails"),
		ThumbnailWidth: s.opts.ThumbnailWidth,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if !strings.EqualFold(c.Query("inline"), "true") {
		c.Attachment(p.Name)
	}
	c.Set(fiber.HeaderContentType, p.ContentType)
	return c.Send(p.Data)
}

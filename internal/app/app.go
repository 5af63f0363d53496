// Package app holds the application state shared by the CLI, the TUI and the
// preview server: the store, its persistence, the active filter and the
// in-progress edit.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nikbrunner/logbook/internal/exporter"
	"github.com/nikbrunner/logbook/internal/filter"
	"github.com/nikbrunner/logbook/internal/importer"
	"github.com/nikbrunner/logbook/internal/logging"
	"github.com/nikbrunner/logbook/internal/media"
	"github.com/nikbrunner/logbook/internal/model"
	"github.com/nikbrunner/logbook/internal/storage"
)

var (
	// ErrStaleUpload is returned by ApplyUpload for a superseded load.
	ErrStaleUpload = errors.New("upload superseded")
	// ErrAmbiguousID is returned by Resolve when a short id matches several entries.
	ErrAmbiguousID = errors.New("ambiguous id")
)

// App is the application state.
type App struct {
	store    *model.Store
	storage  storage.Storage
	variant  model.Variant
	location *time.Location
	log      *zap.Logger
	uploader *media.Uploader

	spec     filter.Spec
	filtered []model.Entry
	editing  string
	pending  *media.Attachment
}

// Params holds parameters for creating a new App.
type Params struct {
	Store    *model.Store    // optional, loaded from Storage if nil
	Storage  storage.Storage // optional, nothing is persisted if nil
	Variant  model.Variant
	Location *time.Location // optional, time.Local if nil
	Logger   *zap.Logger    // optional

	// MaxMediaBytes limits attachments; <= 0 means media.DefaultMaxBytes.
	MaxMediaBytes int64
}

// New creates an App. If no store is given it is loaded from storage.
func New(params Params) (*App, error) {
	a := &App{
		store:    params.Store,
		storage:  params.Storage,
		variant:  params.Variant,
		location: params.Location,
		log:      logging.OrNop(params.Logger),
		uploader: media.NewUploader(params.MaxMediaBytes),
	}
	if a.variant == "" {
		a.variant = model.VariantBlog
	}
	if a.location == nil {
		a.location = time.Local
	}

	if a.store == nil {
		if a.storage == nil {
			a.store = model.NewStore()
		} else {
			store, err := a.storage.Load()
			if err != nil {
				return nil, fmt.Errorf("loading store: %w", err)
			}
			a.store = store
		}
	}

	a.spec = filter.Spec{Location: a.location}.Reset()
	a.refresh()

	a.log.Debug("app ready",
		zap.String("variant", string(a.variant)),
		zap.Int("entries", len(a.store.Entries)),
		zap.Int("tags", len(a.store.Tags)))
	return a, nil
}

// Variant returns the active variant.
func (a *App) Variant() model.Variant { return a.variant }

// Location returns the time zone used for filtering and display.
func (a *App) Location() *time.Location { return a.location }

// Logger returns the app logger.
func (a *App) Logger() *zap.Logger { return a.log }

// Store returns the underlying store. Callers must not mutate it directly.
func (a *App) Store() *model.Store { return a.store }

// Entries returns all entries in insertion order.
func (a *App) Entries() []model.Entry { return a.store.Entries }

// Tags returns the tag registry.
func (a *App) Tags() []string { return a.store.Tags }

// Filtered returns the entries matching the current filter, newest first.
func (a *App) Filtered() []model.Entry { return a.filtered }

// Stats summarizes the store.
func (a *App) Stats() model.Stats { return a.store.Stats() }

// Filter returns the current filter.
func (a *App) Filter() filter.Spec { return a.spec }

// SetFilter replaces the current filter and re-derives the filtered view.
func (a *App) SetFilter(spec filter.Spec) {
	if spec.Location == nil {
		spec.Location = a.location
	}
	a.spec = spec
	a.refresh()
}

// ResetFilter clears every filter clause.
func (a *App) ResetFilter() {
	a.SetFilter(a.spec.Reset())
}

// Query returns the entries matching spec without touching the current filter.
func (a *App) Query(spec filter.Spec) []model.Entry {
	if spec.Location == nil {
		spec.Location = a.location
	}
	return model.SortByCreatedDesc(filter.Apply(a.store.Entries, spec))
}

func (a *App) refresh() {
	a.filtered = a.Query(a.spec)
}

// Get returns the entry with the given id.
func (a *App) Get(id string) (model.Entry, error) {
	e := a.store.GetEntryByID(id)
	if e == nil {
		return model.Entry{}, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	return *e, nil
}

// Resolve finds an entry by full id or by a unique id suffix, as shown by the
// short "#abcd" form.
func (a *App) Resolve(ref string) (model.Entry, error) {
	ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
	if ref == "" {
		return model.Entry{}, fmt.Errorf("%w: empty id", model.ErrNotFound)
	}
	if e := a.store.GetEntryByID(ref); e != nil {
		return *e, nil
	}

	var matches []model.Entry
	for _, e := range a.store.Entries {
		if strings.HasSuffix(e.ID, ref) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return model.Entry{}, fmt.Errorf("%w: %s", model.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	}
	return model.Entry{}, fmt.Errorf("%w: %s matches %d entries", ErrAmbiguousID, ref, len(matches))
}

// BeginEdit marks id as the entry being edited and drops any pending upload.
func (a *App) BeginEdit(id string) (model.Entry, error) {
	e, err := a.Get(id)
	if err != nil {
		return model.Entry{}, err
	}
	a.editing = id
	a.ClearPendingMedia()
	return e, nil
}

// CancelEdit leaves edit mode.
func (a *App) CancelEdit() {
	a.editing = ""
	a.ClearPendingMedia()
}

// Editing returns the id of the entry being edited, or "".
func (a *App) Editing() string { return a.editing }

// Draft is the editable part of an entry.
type Draft struct {
	Content  string
	Tags     []string
	Datetime time.Time // zero = now on create, unchanged on edit

	Title    string
	Category model.Category
	Director string
	Rating   *float64

	// ClearMedia drops the existing attachment when editing.
	ClearMedia bool
}

// Save creates a new entry, or updates the one being edited. The pending
// upload, if any, becomes the entry's media. Tag names not yet in the registry
// are added to it.
func (a *App) Save(d Draft) (model.Entry, error) {
	params := model.NewEntryParams{
		Content:    d.Content,
		Tags:       d.Tags,
		Datetime:   d.Datetime,
		Title:      d.Title,
		Category:   d.Category,
		Director:   d.Director,
		Rating:     d.Rating,
		ClearMedia: d.ClearMedia,
	}
	if a.pending != nil {
		params.Media = a.pending.DataURI
		params.MediaType = a.pending.Type
	}

	var (
		saved model.Entry
		err   error
	)
	if a.editing != "" {
		saved, err = a.store.UpdateEntry(a.variant, a.editing, params)
	} else {
		saved, err = model.NewEntry(a.variant, params)
		if err == nil {
			err = a.store.AddEntry(saved)
		}
	}
	if err != nil {
		return model.Entry{}, err
	}

	a.registerTags(saved.Tags)
	action := "created"
	if a.editing != "" {
		action = "updated"
	}
	a.editing = ""
	a.pending = nil
	a.uploader.Cancel()
	a.refresh()

	a.log.Info("entry "+action, zap.String("id", saved.ID))
	return saved, a.persist()
}

func (a *App) registerTags(tags []string) {
	for _, name := range tags {
		if !a.store.HasTag(name) {
			a.store.Tags = append(a.store.Tags, name)
		}
	}
}

// Delete removes an entry.
func (a *App) Delete(id string) error {
	if err := a.store.DeleteEntry(id); err != nil {
		return err
	}
	if a.editing == id {
		a.CancelEdit()
	}
	a.refresh()
	a.log.Info("entry deleted", zap.String("id", id))
	return a.persist()
}

// AddTags registers the comma-separated names in input and returns the new ones.
func (a *App) AddTags(input string) ([]string, error) {
	added := a.store.AddTags(input)
	if len(added) == 0 {
		return added, nil
	}
	a.log.Info("tags added", zap.Strings("tags", added))
	return added, a.persist()
}

// RemoveTag drops name from the registry and from the tag filter. Entries
// keep their references.
func (a *App) RemoveTag(name string) (bool, error) {
	if !a.store.RemoveTag(name) {
		return false, nil
	}

	selected := a.spec.Selected[:0:0]
	for _, t := range a.spec.Selected {
		if t != name {
			selected = append(selected, t)
		}
	}
	a.spec.Selected = selected
	a.refresh()

	a.log.Info("tag removed", zap.String("tag", name))
	return true, a.persist()
}

// AttachMedia starts loading path in the background. Only the result of the
// latest call is accepted by ApplyUpload.
func (a *App) AttachMedia(ctx context.Context, path string) (uint64, <-chan media.Result) {
	a.log.Debug("loading media", zap.String("path", path))
	return a.uploader.Start(ctx, path)
}

// ApplyUpload makes a finished load the pending attachment.
func (a *App) ApplyUpload(res media.Result) error {
	if !a.uploader.IsCurrent(res.Gen) {
		return ErrStaleUpload
	}
	if res.Err != nil {
		return res.Err
	}
	if a.variant == model.VariantMediaLog && res.Attachment.Type != model.MediaImage {
		return fmt.Errorf("%w: media log attachments must be images", model.ErrValidation)
	}
	att := res.Attachment
	a.pending = &att
	return nil
}

// AttachFile loads path and waits for the result.
func (a *App) AttachFile(ctx context.Context, path string) error {
	_, ch := a.AttachMedia(ctx, path)
	select {
	case res := <-ch:
		return a.ApplyUpload(res)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PendingMedia returns the attachment waiting to be saved, if any.
func (a *App) PendingMedia() (media.Attachment, bool) {
	if a.pending == nil {
		return media.Attachment{}, false
	}
	return *a.pending, true
}

// ClearPendingMedia drops the pending attachment and any load in flight.
func (a *App) ClearPendingMedia() {
	a.pending = nil
	a.uploader.Cancel()
}

// ExportOptions tune an export.
type ExportOptions struct {
	Prefix         string // file name prefix, per-variant default if empty
	Title          string
	All            bool         // ignore the current filter
	Filter         *filter.Spec // use this filter instead of the current one
	Thumbnails     bool
	ThumbnailWidth int
	Now            time.Time
}

// Export renders the current selection: the filtered view when it has
// entries, otherwise everything. Export does not change the current filter.
func (a *App) Export(format exporter.Format, opts ExportOptions) (exporter.Payload, error) {
	entries := a.store.Entries
	switch {
	case opts.Filter != nil:
		entries = exporter.Selection(a.store.Entries, a.Query(*opts.Filter))
	case !opts.All:
		entries = exporter.Selection(a.store.Entries, a.filtered)
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = exporter.DefaultPrefix(a.variant)
	}

	p, err := exporter.Export(format, prefix, exporter.Input{
		Variant:        a.variant,
		Entries:        entries,
		Tags:           a.store.Tags,
		Now:            opts.Now,
		Location:       a.location,
		Title:          opts.Title,
		Thumbnails:     opts.Thumbnails,
		ThumbnailWidth: opts.ThumbnailWidth,
	})
	if err != nil {
		a.log.Warn("export failed", zap.String("format", string(format)), zap.Error(err))
		return exporter.Payload{}, err
	}
	a.log.Info("exported",
		zap.String("format", string(format)),
		zap.Int("count", len(entries)),
		zap.String("name", p.Name))
	return p, nil
}

// WriteExport writes p into dir and returns the file path.
func WriteExport(dir string, p exporter.Payload) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", exporter.ErrExport, err)
	}
	path := filepath.Join(dir, p.Name)
	if err := os.WriteFile(path, p.Data, 0644); err != nil {
		return "", fmt.Errorf("%w: %v", exporter.ErrExport, err)
	}
	return path, nil
}

// ImportResult reports the outcome of an import.
type ImportResult struct {
	Added   int
	Skipped int
	Total   int
	Source  importer.Source
}

// Import merges the entries of a JSON or HTML export into the store.
func (a *App) Import(path string) (ImportResult, error) {
	payload, err := importer.ParseFile(path)
	if err != nil {
		return ImportResult{}, err
	}

	added, skipped := a.store.ImportMerge(payload.Entries, payload.Tags)
	res := ImportResult{
		Added:   added,
		Skipped: skipped,
		Total:   len(a.store.Entries),
		Source:  payload.Source,
	}
	a.refresh()

	a.log.Info("imported",
		zap.String("path", path),
		zap.String("source", string(payload.Source)),
		zap.Int("added", added),
		zap.Int("skipped", skipped))
	return res, a.persist()
}

// Clear removes every entry and keeps the tag registry.
func (a *App) Clear() error {
	n := len(a.store.Entries)
	a.store.Clear()
	a.CancelEdit()
	a.refresh()
	a.log.Info("store cleared", zap.Int("count", n))
	return a.persist()
}

func (a *App) persist() error {
	if a.storage == nil {
		return nil
	}
	if err := a.storage.Save(a.store); err != nil {
		a.log.Error("saving store", zap.Error(err))
		return fmt.Errorf("saving store: %w", err)
	}
	return nil
}

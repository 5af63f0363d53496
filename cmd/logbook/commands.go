package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nikbrunner/logbook/internal/app"
	"github.com/nikbrunner/logbook/internal/display"
	"github.com/nikbrunner/logbook/internal/exporter"
	"github.com/nikbrunner/logbook/internal/filter"
	"github.com/nikbrunner/logbook/internal/model"
	"github.com/nikbrunner/logbook/internal/picker"
	"github.com/nikbrunner/logbook/internal/search"
	"github.com/nikbrunner/logbook/internal/server"
	"github.com/nikbrunner/logbook/internal/tui"
)

// entryFlags are the editable fields shared by add and edit.
type entryFlags struct {
	content    string
	tags       string
	date       string
	title      string
	category   string
	director   string
	rating     float64
	unrated    bool
	mediaPath  string
	clearMedia bool
}

func (f *entryFlags) register(cmd *cobra.Command, edit bool) {
	fs := cmd.Flags()
	fs.StringVarP(&f.content, "content", "c", "", "entry text (markdown)")
	fs.StringVarP(&f.tags, "tags", "t", "", "comma-separated tags")
	fs.StringVarP(&f.date, "date", "d", "", "event time, e.g. 2024-03-15 or 2024-03-15T20:30")
	fs.StringVar(&f.title, "title", "", "title (media log)")
	fs.StringVar(&f.category, "type", "", "movie, tv, documentary or book (media log)")
	fs.StringVar(&f.director, "director", "", "director or author (media log)")
	fs.Float64VarP(&f.rating, "rating", "r", 0, "rating from 0 to 10 (media log)")
	fs.StringVarP(&f.mediaPath, "media", "m", "", "attach an image or video file")
	if edit {
		fs.BoolVar(&f.unrated, "unrated", false, "remove the rating")
		fs.BoolVar(&f.clearMedia, "clear-media", false, "remove the attachment")
	}
}

// apply copies the flags that were set on cmd into d.
func (f *entryFlags) apply(cmd *cobra.Command, d *app.Draft) error {
	fs := cmd.Flags()
	if fs.Changed("content") {
		d.Content = f.content
	}
	if fs.Changed("tags") {
		d.Tags = model.SplitTags(f.tags)
	}
	if fs.Changed("date") {
		t, ok := model.ParseTimestamp(f.date)
		if !ok {
			return fmt.Errorf("%w: cannot parse date %q", model.ErrValidation, f.date)
		}
		d.Datetime = t
	}
	if fs.Changed("title") {
		d.Title = f.title
	}
	if fs.Changed("type") {
		d.Category = model.Category(strings.ToLower(strings.TrimSpace(f.category)))
	}
	if fs.Changed("director") {
		d.Director = f.director
	}
	if fs.Changed("rating") {
		r := f.rating
		d.Rating = &r
	}
	if f.unrated {
		d.Rating = nil
	}
	d.ClearMedia = f.clearMedia
	return nil
}

func (f *entryFlags) attach(cmd *cobra.Command, e *env) error {
	if f.mediaPath == "" {
		return nil
	}
	return e.state.AttachFile(cmd.Context(), f.mediaPath)
}

func addCmd() *cobra.Command {
	var f entryFlags

	cmd := &cobra.Command{
		Use:   "add [text...]",
		Short: "Add an entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				var d app.Draft
				if err := f.apply(cmd, &d); err != nil {
					return err
				}
				if len(args) > 0 {
					d.Content = strings.TrimSpace(d.Content + " " + strings.Join(args, " "))
				}
				if err := f.attach(cmd, e); err != nil {
					return err
				}

				saved, err := e.state.Save(d)
				if err != nil {
					return err
				}
				fmt.Printf("Added %s\n", display.ShortID(saved.ID))
				return nil
			})
		},
	}

	f.register(cmd, false)
	return cmd
}

func editCmd() *cobra.Command {
	var f entryFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				found, err := e.state.Resolve(args[0])
				if err != nil {
					return err
				}
				current, err := e.state.BeginEdit(found.ID)
				if err != nil {
					return err
				}

				d := app.Draft{
					Content:  current.Content,
					Tags:     current.Tags,
					Title:    current.Title,
					Category: current.Category,
					Director: current.Director,
					Rating:   current.Rating,
				}
				if err := f.apply(cmd, &d); err != nil {
					return err
				}
				if err := f.attach(cmd, e); err != nil {
					return err
				}

				saved, err := e.state.Save(d)
				if err != nil {
					return err
				}
				fmt.Printf("Updated %s\n", display.ShortID(saved.ID))
				return nil
			})
		},
	}

	f.register(cmd, true)
	return cmd
}

func rmCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete an entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				found, err := e.state.Resolve(args[0])
				if err != nil {
					return err
				}
				if !yes && !confirm(cmd, fmt.Sprintf("Delete %s?", display.ShortID(found.ID))) {
					return errAborted
				}
				if err := e.state.Delete(found.ID); err != nil {
					return err
				}
				fmt.Printf("Deleted %s\n", display.ShortID(found.ID))
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				found, err := e.state.Resolve(args[0])
				if err != nil {
					return err
				}
				printEntry(os.Stdout, e.state, found)
				return nil
			})
		},
	}
}

// filterFlags mirror filter.Raw.
type filterFlags struct {
	keyword  string
	time     string
	year     string
	month    string
	date     string
	start    string
	end      string
	tagMode  string
	tags     []string
	category string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.keyword, "keyword", "k", "", "text in content, title, director or tags")
	fs.StringVar(&f.time, "time", "", "time filter: all, year, month, day or range")
	fs.StringVar(&f.year, "year", "", "year for --time year|month")
	fs.StringVar(&f.month, "month", "", "month (1-12) for --time month")
	fs.StringVar(&f.date, "on", "", "date (YYYY-MM-DD) for --time day")
	fs.StringVar(&f.start, "from", "", "first date (YYYY-MM-DD) for --time range")
	fs.StringVar(&f.end, "to", "", "last date (YYYY-MM-DD) for --time range")
	fs.StringVar(&f.tagMode, "tag-mode", "", "tag filter: all, any or allSelected")
	fs.StringSliceVar(&f.tags, "tag", nil, "selected tag (repeatable)")
	fs.StringVar(&f.category, "type", "", "media type (media log)")
}

func (f *filterFlags) spec(e *env) (filter.Spec, error) {
	return filter.Raw{
		Keyword: f.keyword,
		Time:    f.time,
		Values: filter.RawTimeValues{
			Year:  f.year,
			Month: f.month,
			Day:   f.date,
			Start: f.start,
			End:   f.end,
		},
		TagMode:  f.tagMode,
		Tags:     f.tags,
		Category: f.category,
	}.Spec(e.state.Location())
}

func listCmd() *cobra.Command {
	var (
		f      filterFlags
		limit  int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				spec, err := f.spec(e)
				if err != nil {
					return err
				}
				entries := e.state.Query(spec)
				if limit > 0 && len(entries) > limit {
					entries = entries[:limit]
				}

				if asJSON {
					enc := json.NewEncoder(os.Stdout)
					enc.SetIndent("", "  ")
					return enc.Encode(entries)
				}

				if len(entries) == 0 {
					fmt.Println("No entries match. Use 'logbook add' to create one.")
					return nil
				}
				fm := display.NewFormatter(e.state.Location())
				for _, entry := range entries {
					r := fm.Format(entry)
					line := fmt.Sprintf("%s  %s  %s", r.ShortID, r.Date, search.Label(entry))
					if r.Stars != "" {
						line += "  " + r.Stars
					}
					if len(r.Tags) > 0 {
						line += "  [" + r.TagLine + "]"
					}
					fmt.Println(line)
				}
				return nil
			})
		},
	}

	f.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n entries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print entries as JSON")
	return cmd
}

func tagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List the tag registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				counts := make(map[string]int)
				for _, entry := range e.state.Entries() {
					for _, t := range entry.Tags {
						counts[t]++
					}
				}
				for _, t := range e.state.Tags() {
					fmt.Printf("%-20s %d\n", t, counts[t])
				}
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <names>",
		Short: "Register comma-separated tags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				added, err := e.state.AddTags(strings.Join(args, ","))
				if err != nil {
					return err
				}
				if len(added) == 0 {
					fmt.Println("No new tags")
					return nil
				}
				fmt.Printf("Added %s\n", strings.Join(added, ", "))
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <name>",
		Short: "Remove a tag from the registry; entries keep it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				removed, err := e.state.RemoveTag(args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("%w: tag %q", model.ErrNotFound, args[0])
				}
				fmt.Printf("Removed %s\n", args[0])
				return nil
			})
		},
	})
	return cmd
}

func findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <query>",
		Short: "Fuzzy search and pick an entry",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				query := strings.Join(args, " ")
				results := search.FuzzySearchEntries(e.state.Entries(), query)
				if len(results) == 0 {
					fmt.Printf("No entries found for '%s'\n", query)
					return nil
				}

				selected := results[0].Entry
				if len(results) > 1 {
					program := tea.NewProgram(picker.New(results, query, e.state.Location()))
					finalModel, err := program.Run()
					if err != nil {
						return fmt.Errorf("running picker: %w", err)
					}
					p := finalModel.(picker.Picker)
					if p.Cancelled() {
						return nil
					}
					selected = p.SelectedEntry()
				}
				if selected == nil {
					return nil
				}

				printEntry(os.Stdout, e.state, *selected)
				return nil
			})
		},
	}
}

func exportCmd() *cobra.Command {
	var (
		f          filterFlags
		format     string
		out        string
		all        bool
		thumbnails bool
		toClip     bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export entries as JSON, HTML or text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				fmtName, err := exporter.ParseFormat(format)
				if err != nil {
					return err
				}
				opts := app.ExportOptions{
					Prefix:         e.cfg.Export.Prefix,
					All:            all,
					Thumbnails:     thumbnails || e.cfg.Export.Thumbnails,
					ThumbnailWidth: e.cfg.Export.ThumbnailWidth,
				}
				if !all {
					spec, err := f.spec(e)
					if err != nil {
						return err
					}
					opts.Filter = &spec
				}

				p, err := e.state.Export(fmtName, opts)
				if err != nil {
					return err
				}

				if toClip {
					if fmtName != exporter.FormatText {
						return fmt.Errorf("--clipboard only works with --format txt")
					}
					if err := clipboard.WriteAll(string(p.Data)); err != nil {
						return fmt.Errorf("copying to clipboard: %w", err)
					}
					fmt.Println("Copied digest to clipboard")
					return nil
				}

				if out == "-" {
					_, err := os.Stdout.Write(p.Data)
					return err
				}
				dir := out
				if dir == "" {
					dir = e.cfg.Export.Dir
				}
				path, err := app.WriteExport(dir, p)
				if err != nil {
					return err
				}
				fmt.Printf("Exported to %s\n", path)
				return nil
			})
		},
	}

	f.register(cmd)
	fs := cmd.Flags()
	fs.StringVarP(&format, "format", "f", "html", "json, html or txt")
	fs.StringVarP(&out, "out", "o", "", "output directory, - for stdout")
	fs.BoolVar(&all, "all", false, "ignore filters and export everything")
	fs.BoolVar(&thumbnails, "thumbnails", false, "embed scaled-down images (html)")
	fs.BoolVar(&toClip, "clipboard", false, "copy a text digest to the clipboard")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge entries from a JSON or HTML export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				res, err := e.state.Import(args[0])
				if err != nil {
					return err
				}
				fmt.Printf("Imported %d entries from %s export", res.Added, res.Source)
				if res.Skipped > 0 {
					fmt.Printf(" (%d duplicates skipped)", res.Skipped)
				}
				fmt.Printf(", %d total\n", res.Total)
				return nil
			})
		},
	}
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				st := e.state.Stats()
				fmt.Printf("Entries:    %d\n", st.Entries)
				fmt.Printf("Tags:       %d\n", st.Tags)
				fmt.Printf("With media: %d\n", st.WithMedia)
				if e.state.Variant() == model.VariantMediaLog {
					cats := make([]model.Category, 0, len(st.ByCategory))
					for c := range st.ByCategory {
						cats = append(cats, c)
					}
					slices.Sort(cats)
					for _, c := range cats {
						fmt.Printf("  %-12s %d\n", c.Label()+":", st.ByCategory[c])
					}
				}
				return nil
			})
		},
	}
}

func clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every entry, keeping the tag registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				n := len(e.state.Entries())
				if !yes && !confirm(cmd, fmt.Sprintf("Delete all %d entries?", n)) {
					return errAborted
				}
				if err := e.state.Clear(); err != nil {
					return err
				}
				fmt.Printf("Deleted %d entries\n", n)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a read-only preview over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(func(e *env) error {
				if addr == "" {
					addr = e.cfg.Server.Addr
				}
				srv := server.New(e.state, server.Options{
					Prefix:         e.cfg.Export.Prefix,
					Thumbnails:     e.cfg.Export.Thumbnails,
					ThumbnailWidth: e.cfg.Export.ThumbnailWidth,
				})

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				errCh := make(chan error, 1)
				go func() { errCh <- srv.Listen(addr) }()
				fmt.Printf("Serving on http://%s\n", addr)

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					e.log.Warn("shutdown", zap.Error(err))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive browser (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI()
		},
	}
}

// runTUI runs the full interactive TUI. Every change is saved as it happens.
func runTUI() error {
	return withEnv(func(e *env) error {
		m := tui.NewApp(tui.AppParams{
			State:     e.state,
			ExportDir: e.cfg.Export.Dir,
		})
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running app: %w", err)
		}
		return nil
	})
}

func printEntry(w io.Writer, state *app.App, entry model.Entry) {
	r := display.NewFormatter(state.Location()).Format(entry)

	fmt.Fprintf(w, "%s  %s\n", r.ShortID, r.When)
	if state.Variant() == model.VariantMediaLog {
		fmt.Fprintf(w, "Title:    %s\n", r.Title)
		if r.Category != "" {
			fmt.Fprintf(w, "Type:     %s\n", r.Category)
		}
		if r.Director != "" {
			fmt.Fprintf(w, "Director: %s\n", r.Director)
		}
		if r.Stars != "" {
			fmt.Fprintf(w, "Rating:   %s %s\n", r.Rating, r.Stars)
		}
	}
	fmt.Fprintf(w, "Tags:     %s\n", r.TagLine)
	if r.HasMedia {
		fmt.Fprintf(w, "Media:    %s\n", r.MediaNote)
	}
	if r.Updated != "" {
		fmt.Fprintf(w, "Edited:   %s\n", r.Updated)
	}
	if strings.TrimSpace(r.Body) != "" {
		fmt.Fprintf(w, "\n%s\n", r.Body)
	}
}

func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)
	answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

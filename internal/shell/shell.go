// Package shell is the interactive, line-oriented notewise session.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/jeanpaul/notewise/internal/assistant"
	"github.com/jeanpaul/notewise/internal/clip"
	"github.com/jeanpaul/notewise/internal/config"
	"github.com/jeanpaul/notewise/internal/llm"
	"github.com/jeanpaul/notewise/internal/notes"
	"github.com/jeanpaul/notewise/internal/tui"
)

type Options struct {
	Config  config.Config
	Request llm.Request
	Store   *notes.Store
	Logger  *zap.Logger
	In      io.Reader
	Out     io.Writer
	// Banner prints the logo on start.
	Banner bool
}

type Shell struct {
	cfg    config.Config
	req    llm.Request
	sel    llm.Selection
	asst   *assistant.Assistant
	store  *notes.Store
	logger *zap.Logger
	in     *bufio.Scanner
	out    io.Writer
	banner bool
}

// New selects the initial backend. A selection error is returned so the
// caller can report a broken configuration before the loop starts.
func New(opts Options) (*Shell, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	s := &Shell{
		cfg:    opts.Config,
		req:    opts.Request,
		store:  opts.Store,
		logger: opts.Logger,
		in:     bufio.NewScanner(opts.In),
		out:    opts.Out,
		banner: opts.Banner,
	}
	s.in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	sel, err := llm.NewSelector(&s.cfg, s.logger).Select(s.req)
	if err != nil {
		return nil, err
	}
	s.sel = sel
	s.asst = assistant.New(sel.Client(), s.store, s.logger)
	return s, nil
}

// Selection is the backend currently in use.
func (s *Shell) Selection() llm.Selection { return s.sel }

// Run reads commands until exit, quit or end of input. Command errors are
// printed and the loop continues.
func (s *Shell) Run(ctx context.Context) error {
	if s.banner {
		fmt.Fprint(s.out, tui.BannerStyle.Render(tui.Banner))
		fmt.Fprintln(s.out)
	}
	fmt.Fprintf(s.out, "Notes in %s. Type %s for commands.\n", tui.PathStyle.Render(s.store.Root()), tui.PromptStyle.Render("help"))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, s.prompt())
		if !s.in.Scan() {
			fmt.Fprintln(s.out)
			return s.in.Err()
		}
		line := strings.TrimSpace(s.in.Text())
		if line == "" {
			continue
		}
		if done := s.dispatch(ctx, line); done {
			fmt.Fprintln(s.out, tui.HelpStyle.Render("Goodbye."))
			return nil
		}
	}
}

func (s *Shell) prompt() string {
	b := s.sel.Client().Backend()
	return tui.BadgeStyle.Render(fmt.Sprintf("%s:%s", s.sel.Kind, b.Model)) + " " + tui.PromptStyle.Render("> ")
}

func (s *Shell) dispatch(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "exit", "quit":
		return true
	case "help", "?":
		s.help()
	case "add":
		s.add(ctx, arg)
	case "search":
		s.search(ctx, arg)
	case "insights":
		s.insights(ctx, arg)
	case "list":
		s.list(ctx)
	case "show":
		s.show(arg)
	case "clip":
		s.clip(ctx, arg)
	case "status":
		fmt.Fprintln(s.out, tui.TitleStyle.Render("Backend status"))
		PrintDiagnostics(s.out, s.sel.Client().Diagnostics(ctx))
	case "models":
		s.models(ctx)
	case "use":
		s.use(arg)
	case "model":
		s.model(arg)
	case "system":
		s.system(arg)
	default:
		fmt.Fprintf(s.out, "%s %q. Type %s for commands.\n", tui.ErrorStyle.Render("Unknown command"), cmd, tui.PromptStyle.Render("help"))
	}
	return false
}

func (s *Shell) usage(text string) {
	fmt.Fprintln(s.out, tui.HelpStyle.Render("usage: "+text))
}

func (s *Shell) working(label string) {
	fmt.Fprintln(s.out, tui.HelpStyle.Render(label+"..."))
}

func (s *Shell) add(ctx context.Context, text string) {
	if text == "" {
		s.usage("add <note text>")
		return
	}
	s.working("Categorizing")
	res, err := s.asst.AddNote(ctx, text)
	if err != nil {
		PrintError(s.out, err)
		return
	}
	PrintAdded(s.out, res)
}

func (s *Shell) search(ctx context.Context, query string) {
	if query == "" {
		s.usage("search <query>")
		return
	}
	s.working("Searching")
	results, err := s.asst.Search(ctx, query, "")
	if err != nil {
		PrintError(s.out, err)
		return
	}
	PrintResults(s.out, results)
}

func (s *Shell) insights(ctx context.Context, topic string) {
	s.working("Reading your notes")
	insights, err := s.asst.GenerateInsights(ctx, topic, assistant.DefaultInsightLimit)
	if err != nil {
		PrintError(s.out, err)
		return
	}
	PrintInsights(s.out, insights)
}

func (s *Shell) list(ctx context.Context) {
	paths, err := s.store.List(ctx)
	if err != nil {
		PrintError(s.out, err)
		return
	}
	if len(paths) == 0 {
		fmt.Fprintln(s.out, tui.WarnStyle.Render("No notes yet."))
		return
	}
	for _, p := range paths {
		fmt.Fprintln(s.out, "  "+tui.PathStyle.Render(p))
	}
}

func (s *Shell) show(path string) {
	if path == "" {
		s.usage("show <path>")
		return
	}
	text, err := s.store.Read(path)
	if err != nil {
		PrintError(s.out, err)
		return
	}
	fmt.Fprint(s.out, tui.Markdown(text, tui.DefaultWrap))
}

func (s *Shell) clip(ctx context.Context, url string) {
	if url == "" {
		s.usage("clip <url>")
		return
	}
	s.working("Fetching")
	page, err := clip.Fetch(ctx, url)
	if err != nil {
		PrintError(s.out, err)
		return
	}
	s.add(ctx, page.Note())
}

func (s *Shell) models(ctx context.Context) {
	switch s.sel.Kind {
	case llm.KindLocal:
		models := s.sel.Local.ListAvailableModels(ctx)
		if len(models) == 0 {
			fmt.Fprintln(s.out, tui.WarnStyle.Render("No models found (is the local server running?)"))
			return
		}
		current := s.sel.Local.Backend().Model
		for _, m := range models {
			marker := "  "
			if m == current || m == current+":latest" {
				marker = tui.SuccessStyle.Render("*") + " "
			}
			fmt.Fprintln(s.out, marker+m)
		}
	case llm.KindRemote:
		fmt.Fprintln(s.out, tui.HelpStyle.Render("Model listing is only available for the local backend. Current model: "+s.sel.Remote.Backend().Model))
	}
}

func (s *Shell) use(arg string) {
	switch strings.ToLower(arg) {
	case "remote":
		req := s.req
		req.Remote = true
		s.reselect(s.cfg, req)
	case "local":
		cfg := s.cfg
		req := s.req
		req.Remote = false
		if strings.EqualFold(cfg.Service, string(llm.KindRemote)) {
			// Remote endpoint settings do not carry over.
			cfg.Service = string(llm.KindLocal)
			cfg.BaseURL, cfg.Model, cfg.Timeout = "", "", 0
		}
		if !llm.IsLocalOnlyModel(req.Model) {
			req.Model = ""
		}
		s.reselect(cfg, req)
	default:
		s.usage("use local|remote")
	}
}

func (s *Shell) model(name string) {
	if name == "" {
		fmt.Fprintf(s.out, "Current model: %s\n", s.sel.Client().Backend().Model)
		return
	}
	req := s.req
	req.Model = name
	s.reselect(s.cfg, req)
}

func (s *Shell) system(prompt string) {
	if prompt == "" {
		fmt.Fprintf(s.out, "Current system prompt: %s\n", s.sel.Client().Backend().SystemPrompt)
		return
	}
	req := s.req
	req.SystemPrompt = prompt
	s.reselect(s.cfg, req)
}

// reselect builds a new client; on failure the current one stays active.
func (s *Shell) reselect(cfg config.Config, req llm.Request) {
	sel, err := llm.NewSelector(&cfg, s.logger).Select(req)
	if err != nil {
		PrintError(s.out, err)
		return
	}
	s.cfg, s.req, s.sel = cfg, req, sel
	s.asst.SetClient(sel.Client())

	if sel.CorrectedFrom != "" {
		fmt.Fprintln(s.out, tui.WarnStyle.Render(fmt.Sprintf("%q only runs locally; using %s.", sel.CorrectedFrom, sel.Remote.Backend().Model)))
	}
	b := sel.Client().Backend()
	fmt.Fprintf(s.out, "Using %s backend, model %s.\n", tui.BadgeStyle.Render(string(sel.Kind)), b.Model)
}

func (s *Shell) help() {
	fmt.Fprintln(s.out, tui.TitleStyle.Render("Commands"))
	rows := [][2]string{
		{"add <text>", "categorize and save a new note"},
		{"search <query>", "find notes that answer a question"},
		{"insights [topic]", "summarize patterns across your notes"},
		{"list", "list note files"},
		{"show <path>", "print a note"},
		{"clip <url>", "save a web page as a note"},
		{"status", "show backend diagnostics"},
	}
	switch s.sel.Kind {
	case llm.KindLocal:
		rows = append(rows,
			[2]string{"models", "list models installed on the local server"},
			[2]string{"model <name>", "switch to another installed model"},
			[2]string{"use remote", "switch to the remote API (needs an API key)"},
		)
	case llm.KindRemote:
		rows = append(rows,
			[2]string{"model <name>", "switch to another remote model, e.g. gpt-4o"},
			[2]string{"use local", "switch to the local model server"},
		)
	}
	rows = append(rows,
		[2]string{"system <prompt>", "replace the system prompt for this session"},
		[2]string{"help", "show this help"},
		[2]string{"exit", "leave the shell"},
	)
	for _, r := range rows {
		fmt.Fprintf(s.out, "  %s %s\n", tui.PromptStyle.Render(fmt.Sprintf("%-18s", r[0])), tui.HelpStyle.Render(r[1]))
	}
}

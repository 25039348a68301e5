package main

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/zephyrtronium/mathlab/category"
	"github.com/zephyrtronium/mathlab/internal/config"
	"github.com/zephyrtronium/mathlab/plot"
	"github.com/zephyrtronium/mathlab/render"
)

// server hosts the plotter page. All requests share one session, so one chart
// exists at a time.
type server struct {
	cfg  config.Config
	log  logrus.FieldLogger
	page *template.Template

	mu      sync.Mutex
	session *plot.Session
	version int
}

func newServer(cfg config.Config, log logrus.FieldLogger) (*server, error) {
	t, err := template.New("page").Parse(pageHTML)
	if err != nil {
		return nil, errors.Wrap(err, "parsing page template")
	}
	s := server{
		cfg:     cfg,
		log:     log,
		page:    t,
		session: plot.NewSession(render.New(cfg.Render(log)), plot.WithSampler(cfg.Sampler(log)), plot.WithLogger(log)),
	}
	return &s, nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handlePage)
	mux.HandleFunc("/chart", s.handleChart)
	return mux
}

// pageData is the state of the form and chart shown on the page.
type pageData struct {
	Expr       string
	MinX       string
	MaxX       string
	Category   category.Category
	Categories []category.Category
	Examples   []string
	Err        error
	Chart      bool
	Version    int
}

// Message returns the text shown in the error region.
func (d pageData) Message() string {
	if d.Err == nil {
		return ""
	}
	return errors.Cause(d.Err).Error()
}

// form reads the form fields, using configured defaults for missing ones.
func (s *server) form(q url.Values) pageData {
	d := pageData{
		Expr:       s.cfg.Expr,
		Category:   s.cfg.Category,
		Categories: category.All,
		Examples:   s.cfg.Examples,
	}
	if v := q.Get("category"); v != "" {
		if c, err := category.Parse(v); err == nil {
			d.Category = c
		}
	}
	req := plot.NewRequest(d.Expr, d.Category, d.Category.Range())
	d.MinX, d.MaxX = req.MinX, req.MaxX
	if q.Has("expr") {
		d.Expr = q.Get("expr")
	}
	if q.Has("min") {
		d.MinX = q.Get("min")
	}
	if q.Has("max") {
		d.MaxX = q.Get("max")
	}
	return d
}

func (s *server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	d := s.form(q)
	action := q.Get("action")
	switch {
	case q.Has("type"):
		action = "type"
	case q.Has("example"):
		action = "example"
	}
	log := s.log.WithFields(logrus.Fields{"action": action, "expr": d.Expr})

	s.mu.Lock()
	switch action {
	case "clear":
		s.session.Clear()
	case "type":
		// Choosing a category changes only the color and hint.
		if c, err := category.Parse(q.Get("type")); err == nil {
			d.Category = c
		}
	case "example":
		s.selectExample(&d, q.Get("example"))
	default:
		// The page plots on load as well as on submit.
		if _, err := s.session.Plot(plot.Request{Expr: d.Expr, MinX: d.MinX, MaxX: d.MaxX, Category: d.Category}); err == nil {
			s.version++
		}
	}
	d.Err = s.session.Err()
	d.Chart = s.session.Display() != nil
	d.Version = s.version
	s.mu.Unlock()

	var buf bytes.Buffer
	if err := s.page.Execute(&buf, d); err != nil {
		log.WithError(err).Error("rendering page")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
	log.Debug("served page")
}

// selectExample fills the form from an example equation. The range fields
// change only when the example's category is recognized.
func (s *server) selectExample(d *pageData, expr string) {
	rng, err := plot.ParseRange(d.MinX, d.MaxX)
	sel := plot.SelectExample(expr, d.Category, rng)
	d.Expr, d.Category = sel.Expr, sel.Category
	if err == nil || sel.Range != rng {
		req := sel.Request()
		d.MinX, d.MaxX = req.MinX, req.MaxX
	}
}

func (s *server) handleChart(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("format")
	if name == "" {
		name = render.PNG.String()
	}
	f, err := render.ParseFormat(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	s.mu.Lock()
	ch, ok := s.session.Display().(*render.Chart)
	if ok {
		err = ch.Render(&buf, f)
	}
	s.mu.Unlock()
	if !ok {
		http.Error(w, "nothing is plotted", http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.WithError(err).Error("rendering chart")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	buf.WriteTo(w)
}

func serve(cfg config.Config, log logrus.FieldLogger) error {
	s, err := newServer(cfg, log)
	if err != nil {
		return err
	}
	srv := http.Server{
		Addr:              cfg.Listen,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shut, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shut)
	}()
	log.WithField("listen", cfg.Listen).Info("serving")
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return errors.Wrap(err, "serving")
	}
	return nil
}

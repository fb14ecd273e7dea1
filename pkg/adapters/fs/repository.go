package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/herbcat/pkg/core"
)

const (
	// ConfigFile is the optional catalog manifest at the catalog root.
	ConfigFile = "herbcat.yaml"
	// BaseDir holds base/default.* and base/alternate.*.
	BaseDir = "base"
	// ProductsDir holds one file per product, nested freely.
	ProductsDir = "products"
	// DefaultSystemDir holds the parse cache.
	DefaultSystemDir = ".herbcat"

	detailsSection = "details"
	overviewField  = "overview"
)

// Repository loads a catalog directory. It implements core.Source and
// core.Watchable.
type Repository struct {
	Path        string
	config      Config
	serializers map[string]Serializer
	cache       *cache

	mu            sync.RWMutex
	watcherActive bool
	lastLoad      *time.Time
	files         int
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path      string
	MustExist bool
	Logger    *slog.Logger
	SystemDir string // e.g. ".herbcat"
	// NoCache disables the on-disk parse cache.
	NoCache bool
	// Serializers overrides or extends DefaultSerializers, keyed by extension.
	Serializers map[string]Serializer
	// Debounce is the quiet period before a batch of file changes is reported.
	Debounce time.Duration
	// ErrorHandler receives watcher errors. When nil they are only logged.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Debounce <= 0 {
		config.Debounce = 100 * time.Millisecond
	}

	serializers := DefaultSerializers()
	for ext, s := range config.Serializers {
		serializers[ext] = s
	}

	return &Repository{
		Path:        config.Path,
		config:      config,
		serializers: serializers,
		cache:       newCache(config.Path, config.SystemDir),
	}
}

// manifest is the shape of herbcat.yaml.
type manifest struct {
	Locales         core.LocaleTags            `yaml:"locales"`
	Aliases         map[string]core.ProductKey `yaml:"aliases"`
	CategoryAliases map[string]string          `yaml:"category_aliases"`
	Exceptions      []core.ExceptionRule       `yaml:"exceptions"`
	Categories      []core.Category            `yaml:"categories"`
}

// productFile is the shape of a products/** file.
type productFile struct {
	Key           string                    `json:"key"`
	Name          string                    `json:"name"`
	Category      string                    `json:"category"`
	Price         core.Money                `json:"price"`
	OriginalPrice core.Money                `json:"original_price"`
	Aliases       []string                  `json:"aliases"`
	Order         int                       `json:"order"`
	Sections      map[string]map[string]any `json:"sections"`
	Alternate     map[string]map[string]any `json:"alternate"`
}

// Load implements core.Source. Per-file problems are collected and returned
// together.
func (r *Repository) Load(ctx context.Context) (core.Spec, error) {
	if err := r.checkRoot(); err != nil {
		return core.Spec{}, err
	}

	if !r.config.NoCache {
		if err := r.cache.Load(); err != nil {
			r.config.Logger.Warn("parse cache unreadable, starting empty", "error", err)
		}
	}

	var errs []error
	seen := make(map[string]bool)

	m, err := r.loadManifest()
	if err != nil {
		return core.Spec{}, err
	}
	spec := core.Spec{
		Locales:         m.Locales,
		Bases:           make(map[core.Locale]core.Document),
		Aliases:         m.Aliases,
		Categories:      m.Categories,
		CategoryAliases: m.CategoryAliases,
		Exceptions:      m.Exceptions,
	}

	for _, loc := range []core.Locale{core.LocaleDefault, core.LocaleAlternate} {
		if err := ctx.Err(); err != nil {
			return core.Spec{}, err
		}
		doc, rel, err := r.loadBase(loc, seen)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if doc != nil {
			spec.Bases[loc] = doc
			r.config.Logger.Debug("base loaded", "locale", loc, "path", rel, "sections", len(doc))
		}
	}

	files, err := r.glob(ProductsDir + "/**/*" + r.extPattern())
	if err != nil {
		return core.Spec{}, err
	}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return core.Spec{}, err
		}
		seen[rel] = true
		p, err := r.loadProduct(rel)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		spec.Products = append(spec.Products, p)
	}

	if !r.config.NoCache {
		r.cache.Prune(seen)
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Debug("parse cache not saved", "error", err)
		}
	}

	now := time.Now()
	r.mu.Lock()
	r.lastLoad = &now
	r.files = len(seen)
	r.mu.Unlock()

	if len(errs) > 0 {
		return core.Spec{}, errors.Join(errs...)
	}
	r.config.Logger.Debug("catalog loaded", "path", r.Path, "products", len(spec.Products))
	return spec, nil
}

func (r *Repository) checkRoot() error {
	info, err := os.Stat(r.Path)
	if err != nil {
		return fmt.Errorf("catalog directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("catalog directory: %s is not a directory", r.Path)
	}
	return nil
}

func (r *Repository) loadManifest() (manifest, error) {
	var m manifest
	data, err := os.ReadFile(filepath.Join(r.Path, ConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return m, err
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return m, fmt.Errorf("%s: %w", ConfigFile, err)
	}
	return m, nil
}

// loadBase returns the base document for loc, or nil when no file exists.
func (r *Repository) loadBase(loc core.Locale, seen map[string]bool) (core.Document, string, error) {
	matches, err := r.glob(BaseDir + "/" + string(loc) + r.extPattern())
	if err != nil {
		return nil, "", err
	}
	switch len(matches) {
	case 0:
		return nil, "", nil
	case 1:
	default:
		return nil, "", fmt.Errorf("%s: several base files for %s locale: %s", BaseDir, loc, strings.Join(matches, ", "))
	}

	rel := matches[0]
	seen[rel] = true
	p, err := r.readFile(rel)
	if err != nil {
		return nil, rel, fmt.Errorf("%s: %w", rel, err)
	}

	var sections map[string]map[string]any
	if err := roundTrip(p.Data, &sections); err != nil {
		return nil, rel, fmt.Errorf("%s: sections must be maps of fields: %w", rel, err)
	}
	doc := make(core.Document, len(sections))
	for name, fields := range sections {
		doc[name] = core.Section(fields)
	}
	if p.Body != "" {
		if doc[detailsSection] == nil {
			doc[detailsSection] = core.Section{}
		}
		doc[detailsSection][overviewField] = p.Body
	}
	return doc, rel, nil
}

func (r *Repository) loadProduct(rel string) (core.Product, error) {
	p, err := r.readFile(rel)
	if err != nil {
		return core.Product{}, fmt.Errorf("%s: %w", rel, err)
	}

	var pf productFile
	if err := roundTrip(p.Data, &pf); err != nil {
		return core.Product{}, fmt.Errorf("%s: %w", rel, err)
	}

	key := pf.Key
	if key == "" {
		key = strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	}

	prod := core.Product{
		Key:           core.ProductKey(key),
		Name:          pf.Name,
		Category:      pf.Category,
		Price:         pf.Price,
		OriginalPrice: pf.OriginalPrice,
		Order:         pf.Order,
		Aliases:       pf.Aliases,
		Own:           toFragment(pf.Sections),
		Alternate:     toFragment(pf.Alternate),
	}
	if p.Body != "" {
		if prod.Own == nil {
			prod.Own = core.Fragment{}
		}
		if prod.Own[detailsSection] == nil {
			prod.Own[detailsSection] = core.Section{}
		}
		prod.Own[detailsSection][overviewField] = p.Body
	}
	return prod, nil
}

// readFile parses rel, going through the parse cache when enabled.
func (r *Repository) readFile(rel string) (*Payload, error) {
	full := filepath.Join(r.Path, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}

	if !r.config.NoCache {
		if entry, hit := r.cache.Get(rel, info.ModTime()); hit {
			return &Payload{Data: entry.Data, Body: entry.Body}, nil
		}
	}

	s, ok := r.serializers[path.Ext(rel)]
	if !ok {
		return nil, fmt.Errorf("no serializer for %q", path.Ext(rel))
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := s.Parse(f)
	if err != nil {
		return nil, err
	}

	if !r.config.NoCache {
		r.cache.Set(rel, &indexEntry{Data: p.Data, Body: p.Body, LastModified: info.ModTime()})
	}
	return p, nil
}

// glob matches pattern against the catalog root, skipping hidden paths.
func (r *Repository) glob(pattern string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(r.Path), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", pattern, err)
	}
	out := matches[:0]
	for _, m := range matches {
		if !isHidden(m) {
			out = append(out, m)
		}
	}
	sort.Strings(out)
	return out, nil
}

// extPattern renders the registered extensions as a glob alternation,
// e.g. "{.json,.md,.yaml,.yml}".
func (r *Repository) extPattern() string {
	exts := r.Extensions()
	return "{" + strings.Join(exts, ",") + "}"
}

// Extensions lists the registered file extensions.
func (r *Repository) Extensions() []string {
	exts := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Patterns returns the globs, relative to the catalog root, of every file
// Load reads.
func (r *Repository) Patterns() []string {
	ext := r.extPattern()
	return []string{
		ConfigFile,
		BaseDir + "/{" + string(core.LocaleDefault) + "," + string(core.LocaleAlternate) + "}" + ext,
		ProductsDir + "/**/*" + ext,
	}
}

func isHidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// roundTrip converts loosely typed parsed data into a typed struct through
// JSON, keeping numbers as json.Number.
func roundTrip(in any, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func toFragment(m map[string]map[string]any) core.Fragment {
	if m == nil {
		return nil
	}
	f := make(core.Fragment, len(m))
	for name, fields := range m {
		f[name] = core.Section(fields)
	}
	return f
}

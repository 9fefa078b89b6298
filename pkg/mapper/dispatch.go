package mapper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mappa-dev/mappa/internal/errors"
	"github.com/mappa-dev/mappa/pkg/report"
	"github.com/mappa-dev/mappa/pkg/resource"
)

// maxRedirects bounds chains of internal redirects within one dispatch.
const maxRedirects = 8

// Request is one dispatchable request as seen by the resolver core.
// The hosting layer (HTTP bridge, CGI shim, tests) constructs it.
type Request struct {
	// Method is the request method, passed through to handlers.
	Method string

	// Path is the full request path, including the root location
	// prefix when the tree is mounted under one.
	Path string

	// Args are request arguments (query or form variables).
	Args map[string]string

	// Fields are hosting-layer values made visible to handlers.
	Fields map[string]any

	// Response is the sink handlers write to. May be nil.
	Response resource.Responder
}

// RedirectError is returned by a handler to restart dispatch at a
// different path without a client round trip. The original response
// sink and fields are kept; arguments are replaced when Args is
// non-nil.
type RedirectError struct {
	Path string
	Args map[string]string
}

// Redirect builds an internal redirect to path. The path may be
// root-relative or carry the tree's mount prefix, so URLs generated
// through Context.URL redirect correctly.
func Redirect(path string) *RedirectError {
	return &RedirectError{Path: path}
}

// Error implements error.
func (e *RedirectError) Error() string {
	return fmt.Sprintf("internal redirect to %s", e.Path)
}

// Dispatcher walks the resource tree to a terminal handler. It owns
// the per-request resolution: root prefix stripping, chain matching,
// alias resolution, internal redirects and reporter events.
type Dispatcher struct {
	reg     *Registry
	chain   *report.Chain
	builder *Builder
	logger  *slog.Logger
	tracer  trace.Tracer
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithReporters attaches the reporter chain events are sent to.
func WithReporters(chain *report.Chain) DispatcherOption {
	return func(d *Dispatcher) { d.chain = chain }
}

// WithLogger sets the dispatcher's logger.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// NewDispatcher creates a dispatcher over a registry built from a
// tree. Registries loaded from a listing carry no nodes and cannot
// dispatch.
func NewDispatcher(reg *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		reg:    reg,
		logger: slog.Default(),
		tracer: otel.Tracer("github.com/mappa-dev/mappa/pkg/mapper"),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.builder = NewBuilder(reg, d.chain)
	return d
}

// Builder returns the URL builder wired to this dispatcher's reporter
// chain.
func (d *Dispatcher) Builder() *Builder { return d.builder }

// Dispatch resolves one request to a terminal handler and invokes it.
// The access event for the terminal resource fires before its handler
// runs, so a crashing handler still counts as accessed.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) error {
	ctx, span := d.tracer.Start(ctx, "mappa.dispatch",
		trace.WithAttributes(
			attribute.String("mappa.path", req.Path),
			attribute.String("mappa.method", req.Method),
		))
	defer span.End()

	err := d.dispatch(ctx, span, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errors.CodeOf(err))
	}
	return err
}

func (d *Dispatcher) dispatch(ctx context.Context, span trace.Span, req Request) error {
	if d.reg.root == nil {
		return errors.Newf(errors.CategoryResolve, "registry has no resource tree attached")
	}

	path, err := d.stripRoot(req.Path)
	if err != nil {
		return err
	}
	args := req.Args

	for hop := 0; ; hop++ {
		if hop > maxRedirects {
			return errors.New(errors.CodeRedirectLoop).
				WithMessagef("dispatch of %s exceeded %d internal redirects", req.Path, maxRedirects)
		}

		rctx := resource.NewContext(req.Method, path, args).WithStd(ctx)
		rctx.Response = req.Response
		for k, v := range req.Fields {
			rctx.SetField(k, v)
		}
		rctx.SetBuilder(d.builder.build)

		res, err := d.walk(rctx, path)
		if err != nil {
			return err
		}
		if res.redirect != "" {
			// Alias target: restart at the generated path.
			path = res.redirect
			continue
		}
		id := res.resID

		span.SetAttributes(attribute.String("mappa.resid", id))
		rctx.SetCurrentID(id)
		if d.chain != nil && id != "" {
			d.chain.Accessed(id)
		}

		err = res.handler.Handle(rctx)
		var redir *RedirectError
		if errors.As(err, &redir) {
			d.logger.Debug("internal redirect", "from", id, "to", redir.Path)
			path = d.relativize(redir.Path)
			if redir.Args != nil {
				args = redir.Args
			}
			continue
		}
		return err
	}
}

// walkResult is the outcome of one tree walk: a terminal handler, or
// a concrete path to restart matching at when the walk ends on an
// alias. Exactly one of handler and redirect is set.
type walkResult struct {
	resID    string
	handler  resource.Handler
	redirect string
}

// walk runs the chain-of-responsibility match from the root. Matching
// never backtracks: once a node consumes components they stay
// consumed.
func (d *Dispatcher) walk(rctx *resource.Context, path string) (walkResult, error) {
	remaining, _ := resource.SplitPath(path)
	node := d.reg.root
	var hops []string

	for {
		if id := node.ResID(); id != "" {
			hops = append(hops, id)
		}

		if a, ok := node.(*resource.Alias); ok {
			if len(remaining) != 0 {
				return walkResult{}, d.notFound(path)
			}
			redirect, err := d.aliasPath(a)
			if err != nil {
				return walkResult{}, err
			}
			return walkResult{redirect: redirect}, nil
		}

		m := node.Match(remaining, rctx)
		switch m.Kind {
		case resource.KindTerminated:
			d.logger.Debug("resolution path", "path", path, "chain", strings.Join(hops, " -> "))
			return walkResult{resID: m.Node.ResID(), handler: m.Handler}, nil
		case resource.KindDelegated:
			node = m.Node
			remaining = remaining[m.Consumed:]
		default:
			return walkResult{}, d.notFound(path)
		}
	}
}

// aliasPath resolves an alias reached during matching into a concrete
// path to redirect to. All pattern variables must be covered by the
// alias chain's fixed values.
func (d *Dispatcher) aliasPath(a *resource.Alias) (string, error) {
	m, fixed, err := d.reg.Resolve(a.ResID())
	if err != nil {
		return "", err
	}
	if m.External != "" {
		return "", errors.Newf(errors.CategoryResolve,
			"alias %q resolves to external resource %q and cannot be dispatched locally", a.ResID(), m.ResID)
	}
	return formatPattern(a.ResID(), m.Pattern, fixed)
}

func (d *Dispatcher) stripRoot(path string) (string, error) {
	if d.reg.rootLoc == "" {
		return path, nil
	}
	rest, ok := cutPrefix(path, d.reg.rootLoc)
	if !ok {
		return "", d.notFound(path)
	}
	if rest == "" {
		rest = "/"
	}
	return rest, nil
}

// relativize drops the mount prefix from a redirect path when it is
// present, so handlers can redirect to generated (prefixed) URLs and
// to root-relative paths alike.
func (d *Dispatcher) relativize(path string) string {
	if d.reg.rootLoc == "" {
		return path
	}
	rest, ok := cutPrefix(path, d.reg.rootLoc)
	if !ok {
		return path
	}
	if rest == "" {
		rest = "/"
	}
	return rest
}

func (d *Dispatcher) notFound(path string) error {
	return errors.New(errors.CodeNotFound).
		WithMessagef("no resource matches %q", path)
}

func cutPrefix(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || s[:len(prefix)] != prefix {
		return "", false
	}
	rest := s[len(prefix):]
	if rest != "" && rest[0] != '/' {
		return "", false
	}
	return rest, true
}

package mapper

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/mappa-dev/mappa/internal/errors"
	"github.com/mappa-dev/mappa/pkg/resource"
)

// WriteListing serializes the registry as an aligned text listing, one
// mapping per line:
//
//	@@Home       : /                          : Frontpage
//	@@PhotoView  : /photos/(id:int)           : Single photo
//	@@Photos     : /photos/                   : Photo index
//	@@OldPhoto   : ->@@PhotoView?id=1
//
// Lines are sorted by resource-id. The docstring column is omitted
// when empty. Load reconstructs a registry from this format.
func WriteListing(w io.Writer, reg *Registry) error {
	ids := reg.IDs()

	width := 0
	for _, id := range ids {
		if len(id) > width {
			width = len(id)
		}
	}
	patWidth := 0
	rendered := make(map[string]string, len(ids))
	for _, id := range ids {
		p := reg.renderMapping(*reg.byID[id])
		rendered[id] = p
		if len(p) > patWidth {
			patWidth = len(p)
		}
	}

	for _, id := range ids {
		m := reg.byID[id]
		if m.Doc == "" {
			if _, err := fmt.Fprintf(w, "%-*s : %s\n", width, id, rendered[id]); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "%-*s : %-*s : %s\n", width, id, patWidth, rendered[id], m.Doc); err != nil {
			return err
		}
	}
	return nil
}

// listingLineRe splits a listing line into id, pattern and optional
// docstring. Patterns never contain whitespace, so the columns are
// unambiguous even with the doc separator present.
var listingLineRe = regexp.MustCompile(`^(\S+)\s*:\s*(\S+)(?:\s*:\s*(.*?))?\s*$`)

// Load reconstructs a registry from a serialized listing. The result
// carries patterns, aliases and externals but no tree nodes: it
// supports URL generation, matching and coverage tooling against a
// remote application, not dispatch.
func Load(r io.Reader) (*Registry, error) {
	reg := &Registry{
		byID:           map[string]*Mapping{},
		renderTrailing: true,
	}

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		m := listingLineRe.FindStringSubmatch(text)
		if m == nil {
			return nil, errors.New(errors.CodeListingParse).
				WithLocation("listing", line).
				WithDetail(fmt.Sprintf("line %q does not match the 'resid : pattern : doc' record format", text))
		}

		mapping, err := parseMapping(m[1], m[2], m[3])
		if err != nil {
			return nil, errors.FromError(err, errors.CodeListingParse).
				WithLocation("listing", line)
		}
		if _, dup := reg.byID[mapping.ResID]; dup {
			return nil, errors.New(errors.CodeDuplicateID).
				WithMessagef("resource-id %q is registered twice", mapping.ResID).
				WithLocation("listing", line)
		}
		reg.order = append(reg.order, mapping.ResID)
		reg.byID[mapping.ResID] = mapping
	}
	if err := sc.Err(); err != nil {
		return nil, errors.FromError(err, errors.CodeListingParse)
	}
	return reg, nil
}

func parseMapping(id, pat, doc string) (*Mapping, error) {
	m := &Mapping{ResID: id, Doc: doc}

	switch {
	case strings.HasPrefix(pat, "->"):
		spec := strings.TrimPrefix(pat, "->")
		target, query, _ := strings.Cut(spec, "?")
		if target == "" {
			return nil, fmt.Errorf("alias %q has no target", id)
		}
		m.AliasTarget = target
		if query != "" {
			vals, err := url.ParseQuery(query)
			if err != nil {
				return nil, fmt.Errorf("alias %q arguments: %v", id, err)
			}
			m.AliasArgs = map[string]string{}
			for k := range vals {
				m.AliasArgs[k] = vals.Get(k)
			}
		}
		return m, nil

	case strings.Contains(pat, "://"):
		m.External = pat
		return m, nil
	}

	// Path pattern. Folder roots were rendered with a trailing slash.
	m.Terminal = !strings.HasSuffix(pat, "/") || pat == "/"
	p, err := resource.ParsePattern(pat)
	if err != nil {
		return nil, fmt.Errorf("pattern for %q: %v", id, err)
	}
	m.Pattern = p
	return m, nil
}

// LoadURL fetches a serialized listing over HTTP and reconstructs the
// registry from it. This is what the collaborator tools use to talk
// about a running application's resources.
func LoadURL(ctx context.Context, rawurl string) (*Registry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, errors.FromError(err, errors.CodeListingFetch)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.FromError(err, errors.CodeListingFetch)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.CodeListingFetch).
			WithMessagef("listing fetch from %s: %s", rawurl, resp.Status)
	}
	return Load(resp.Body)
}

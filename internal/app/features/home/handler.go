package home

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/kapatiranph/portal/internal/app/cms"
	"github.com/kapatiranph/portal/internal/app/system/timeouts"
	"github.com/kapatiranph/portal/internal/app/system/viewdata"
	"go.uber.org/zap"
)

// Handler serves the public marketing pages. Content comes from the CMS
// when one is configured; otherwise the built-in fallback copy is shown so
// the site still renders during local development.
type Handler struct {
	CMS *cms.Client
	Log *zap.Logger
}

func NewHandler(client *cms.Client, logger *zap.Logger) *Handler {
	return &Handler{
		CMS: client,
		Log: logger,
	}
}

// sectionVM is one rendered block of a marketing page.
type sectionVM struct {
	Heading  string
	BodyHTML template.HTML
	ImageURL string
}

type pageData struct {
	viewdata.BaseVM
	Sections []sectionVM
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, "home", "Welcome")
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /about                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeAbout(w http.ResponseWriter, r *http.Request) {
	h.servePage(w, r, "about", "About Us")
}

func (h *Handler) servePage(w http.ResponseWriter, r *http.Request, slug, title string) {
	data := pageData{
		BaseVM:   viewdata.NewBaseVM(r, title, "/"),
		Sections: fallbackSections(slug),
	}

	if h.CMS.Enabled() {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		page, err := h.CMS.PageBySlug(ctx, slug)
		switch {
		case errors.Is(err, cms.ErrPageNotFound):
			// No document published for this slug yet; fall back.
		case err != nil:
			h.Log.Warn("cms fetch failed, serving fallback content",
				zap.String("slug", slug), zap.Error(err))
		default:
			if page.Title != "" {
				data.Title = page.Title
			}
			data.Sections = make([]sectionVM, 0, len(page.Sections))
			for _, s := range page.Sections {
				data.Sections = append(data.Sections, sectionVM{
					Heading:  s.Heading,
					BodyHTML: template.HTML(s.BodyHTML),
					ImageURL: s.ImageURL,
				})
			}
		}
	}

	templates.Render(w, r, "home", data)
}

// fallbackSections is the static copy used when the CMS is unreachable or
// not configured.
func fallbackSections(slug string) []sectionVM {
	switch slug {
	case "about":
		return []sectionVM{{
			Heading:  "About the Brotherhood",
			BodyHTML: "<p>A fraternal organization dedicated to service, scholarship, and lifelong friendship.</p>",
		}}
	default:
		return []sectionVM{{
			Heading:  "Welcome to Kapatiran",
			BodyHTML: "<p>Building community through brotherhood. Members can sign in to reach the portal.</p>",
		}}
	}
}

package httpserver

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/cavanpasek/ouray-info/internal/adapters/captcha"
	"github.com/cavanpasek/ouray-info/internal/adapters/session"
	"github.com/cavanpasek/ouray-info/internal/app"
	"github.com/cavanpasek/ouray-info/internal/domain"
)

type Handlers struct {
	Q        *app.DirectoryService
	S        *app.SubmissionService
	Captcha  *captcha.Verifier
	Sessions *session.Store
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Handle("/static/*", http.FileServer(http.FS(staticFS)))

	s.mux.Get("/", h.home)
	s.mux.Get("/bookmarks/", h.bookmarks)
	s.mux.Get("/contact/", h.contactForm)
	s.mux.Post("/contact/", h.contactSubmit)
	s.mux.Get("/contact/success/", h.contactSuccess)
	s.mux.Get("/business/{slug}/", h.detail)
	s.mux.Post("/business/{slug}/review/", h.reviewSubmit)
	// the toggle only acts on POST; a plain GET just bounces back
	s.mux.Get("/business/{slug}/bookmark/", h.bookmarkGet)
	s.mux.Post("/business/{slug}/bookmark/", h.bookmarkToggle)
}

// ---- listing ----

type listingPage struct {
	Title      string
	Sort       domain.SortMode
	Items      []app.ListingItem
	Bookmarked map[int64]bool
	Empty      string
}

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	mode := domain.ParseSort(r.URL.Query().Get("sort"))
	items, err := h.Q.Listing(r.Context(), mode)
	if err != nil {
		h.serverError(w, err)
		return
	}
	h.render(w, "home.html", listingPage{
		Title:      "Ouray Business Directory",
		Sort:       mode,
		Items:      items,
		Bookmarked: h.bookmarkSet(r),
		Empty:      "No businesses listed yet.",
	})
}

func (h *Handlers) bookmarks(w http.ResponseWriter, r *http.Request) {
	ids, err := h.Sessions.List(r.Context(), session.SID(r))
	if err != nil {
		h.serverError(w, err)
		return
	}
	items, err := h.Q.ListingByIDs(r.Context(), ids)
	if err != nil {
		h.serverError(w, err)
		return
	}
	marked := make(map[int64]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}
	h.render(w, "bookmarks.html", listingPage{
		Title:      "Your Bookmarks",
		Sort:       domain.SortTop,
		Items:      items,
		Bookmarked: marked,
		Empty:      "You haven't bookmarked anything yet.",
	})
}

func (h *Handlers) bookmarkSet(r *http.Request) map[int64]bool {
	ids, err := h.Sessions.List(r.Context(), session.SID(r))
	if err != nil {
		log.Warn().Err(err).Msg("bookmark list failed")
		return nil
	}
	marked := make(map[int64]bool, len(ids))
	for _, id := range ids {
		marked[id] = true
	}
	return marked
}

// ---- detail + review submission ----

type detailPage struct {
	Title          string
	View           app.DetailView
	Bookmarked     bool
	CaptchaSiteKey string
	Form           reviewForm
	Error          string
}

type reviewForm struct {
	Rating  string
	Name    string
	Email   string
	Comment string
}

func (h *Handlers) detail(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadDetail(w, r)
	if !ok {
		return
	}
	h.render(w, "detail.html", detailPage{
		Title:          view.Business.Name,
		View:           view,
		Bookmarked:     h.bookmarkSet(r)[view.Business.ID],
		CaptchaSiteKey: h.Captcha.SiteKey(),
	})
}

func (h *Handlers) reviewSubmit(w http.ResponseWriter, r *http.Request) {
	view, ok := h.loadDetail(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	form := reviewForm{
		Rating:  r.PostFormValue("rating"),
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Comment: r.PostFormValue("comment"),
	}
	err := h.S.SubmitReview(r.Context(), view.Business.ID, app.ReviewInput{
		Rating:   form.Rating,
		Name:     form.Name,
		Email:    form.Email,
		Comment:  form.Comment,
		Token:    r.PostFormValue("g-recaptcha-response"),
		RemoteIP: remoteIP(r),
	})
	if err != nil {
		var verr *app.ValidationError
		if errors.As(err, &verr) {
			// re-render the detail page with the input echoed back
			h.render(w, "detail.html", detailPage{
				Title:          view.Business.Name,
				View:           view,
				Bookmarked:     h.bookmarkSet(r)[view.Business.ID],
				CaptchaSiteKey: h.Captcha.SiteKey(),
				Form:           form,
				Error:          verr.Message,
			})
			return
		}
		h.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/business/"+view.Business.Slug+"/", http.StatusSeeOther)
}

func (h *Handlers) loadDetail(w http.ResponseWriter, r *http.Request) (app.DetailView, bool) {
	view, err := h.Q.Detail(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
		} else {
			h.serverError(w, err)
		}
		return app.DetailView{}, false
	}
	return view, true
}

// ---- bookmarks toggle ----

func (h *Handlers) bookmarkGet(w http.ResponseWriter, r *http.Request) {
	// read-only requests to the toggle endpoint change nothing
	http.Redirect(w, r, "/business/"+chi.URLParam(r, "slug")+"/", http.StatusSeeOther)
}

func (h *Handlers) bookmarkToggle(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	b, err := h.Q.Business(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.NotFound(w, r)
		} else {
			h.serverError(w, err)
		}
		return
	}

	sid := h.Sessions.EnsureCookie(w, r)
	if _, err := h.S.ToggleBookmark(r.Context(), sid, b.ID); err != nil {
		h.serverError(w, err)
		return
	}

	next := r.PostFormValue("next")
	if next == "" || next[0] != '/' {
		next = "/business/" + slug + "/"
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// ---- contact ----

type contactPage struct {
	Title          string
	CaptchaSiteKey string
	Form           contactForm
	Error          string
}

type contactForm struct {
	Name    string
	Email   string
	Message string
}

func (h *Handlers) contactForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "contact.html", contactPage{
		Title:          "Contact",
		CaptchaSiteKey: h.Captcha.SiteKey(),
	})
}

func (h *Handlers) contactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := contactForm{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}
	err := h.S.SubmitContact(r.Context(), app.ContactInput{
		Name:     form.Name,
		Email:    form.Email,
		Message:  form.Message,
		Token:    r.PostFormValue("g-recaptcha-response"),
		RemoteIP: remoteIP(r),
	})
	if err != nil {
		var verr *app.ValidationError
		if errors.As(err, &verr) {
			h.render(w, "contact.html", contactPage{
				Title:          "Contact",
				CaptchaSiteKey: h.Captcha.SiteKey(),
				Form:           form,
				Error:          verr.Message,
			})
			return
		}
		h.serverError(w, err)
		return
	}
	http.Redirect(w, r, "/contact/success/", http.StatusSeeOther)
}

func (h *Handlers) contactSuccess(w http.ResponseWriter, r *http.Request) {
	h.render(w, "contact_success.html", contactPage{Title: "Message Sent"})
}

// ---- shared ----

func (h *Handlers) serverError(w http.ResponseWriter, err error) {
	log.Error().Err(err).Msg("handler failed")
	http.Error(w, "something went wrong", http.StatusInternalServerError)
}

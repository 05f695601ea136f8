package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// PageSize is the number of orders per page of the order collection.
const PageSize = 2

// Server serves a small order API in two flavours: HAL under / and plain JSON
// under /json.
type Server struct {
	Store  *Store
	Logger *slog.Logger
}

// NewHandler creates the HTTP handler of the demo API.
func NewHandler(store *Store, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{Store: store, Logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.getRoot)
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", s.getOrders)
		r.Post("/", s.postOrder)
		r.Get("/{id}", s.getOrder)
		r.Put("/{id}", s.putOrder)
		r.Patch("/{id}", s.patchOrder)
		r.Delete("/{id}", s.deleteOrder)
	})
	r.Get("/customers/{id}", s.getCustomer)

	r.Route("/json", func(r chi.Router) {
		r.Get("/", s.getJSONRoot)
		r.Get("/orders", s.getJSONOrders)
		r.Get("/orders/{id}", s.getJSONOrder)
		r.Get("/customers/{id}", s.getJSONCustomer)
		r.Get("/help", s.getJSONHelp)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, domain.MediaTypeJSON, http.StatusOK, map[string]string{"status": "ok"})
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.Logger.Debug("demo api request", "method", r.Method, "path", r.URL.RequestURI(), "status", ww.Status())
	})
}

// -- HAL --

func (s *Server) getRoot(w http.ResponseWriter, r *http.Request) {
	writeHAL(w, http.StatusOK, map[string]any{
		"_links": map[string]any{
			"self":   link("/"),
			"orders": link("/orders"),
			"order":  map[string]any{"href": "/orders/{id}", "templated": true},
			"search": map[string]any{"href": "/orders{?status}", "templated": true},
			"json":   link("/json"),
		},
	})
}

func (s *Server) getOrders(w http.ResponseWriter, r *http.Request) {
	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			writeProblem(w, http.StatusBadRequest, fmt.Sprintf("invalid page %q", p))
			return
		}
		page = n
	}
	status := r.URL.Query().Get("status")

	all := s.Store.Orders(status)
	start := min((page-1)*PageSize, len(all))
	end := min(start+PageSize, len(all))
	items := all[start:end]

	links := map[string]any{"self": link(pageHref(page, status))}
	if end < len(all) {
		links["next"] = link(pageHref(page+1, status))
	}
	if page > 1 {
		links["prev"] = link(pageHref(page-1, status))
	}
	orderLinks := make([]any, len(items))
	embedded := make([]any, len(items))
	for i, o := range items {
		orderLinks[i] = link(orderHref(o.ID))
		embedded[i] = halOrder(o)
	}
	links["order"] = orderLinks

	writeHAL(w, http.StatusOK, map[string]any{
		"count":     len(all),
		"page":      page,
		"_links":    links,
		"_embedded": map[string]any{"order": embedded},
	})
}

func (s *Server) getOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := s.lookupOrder(w, r)
	if !ok {
		return
	}
	writeHAL(w, http.StatusOK, halOrder(o))
}

func (s *Server) postOrder(w http.ResponseWriter, r *http.Request) {
	var o Order
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid order: "+err.Error())
		return
	}
	if o.Status == "" {
		o.Status = "processing"
	}
	o = s.Store.Create(o)
	w.Header().Set("Location", orderHref(o.ID))
	writeHAL(w, http.StatusCreated, halOrder(o))
}

func (s *Server) putOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := s.lookupOrder(w, r)
	if !ok {
		return
	}
	var replacement Order
	if err := json.NewDecoder(r.Body).Decode(&replacement); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid order: "+err.Error())
		return
	}
	replacement.ID = o.ID
	s.Store.Update(replacement)
	writeHAL(w, http.StatusOK, halOrder(replacement))
}

func (s *Server) patchOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := s.lookupOrder(w, r)
	if !ok {
		return
	}
	if err := json.NewDecoder(r.Body).Decode(&o); err != nil {
		writeProblem(w, http.StatusBadRequest, "invalid patch: "+err.Error())
		return
	}
	o.ID, _ = strconv.Atoi(chi.URLParam(r, "id"))
	s.Store.Update(o)
	writeHAL(w, http.StatusOK, halOrder(o))
}

func (s *Server) deleteOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := s.lookupOrder(w, r)
	if !ok {
		return
	}
	s.Store.Delete(o.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookupCustomer(w, r)
	if !ok {
		return
	}
	writeHAL(w, http.StatusOK, map[string]any{
		"id":     c.ID,
		"name":   c.Name,
		"_links": map[string]any{"self": link(fmt.Sprintf("/customers/%d", c.ID))},
	})
}

// -- plain JSON --

func (s *Server) getJSONRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, domain.MediaTypeJSON, http.StatusOK, map[string]any{
		"orders": "/json/orders",
		"order":  "/json/orders/{id}",
		"meta":   map[string]any{"help": "/json/help"},
	})
}

func (s *Server) getJSONOrders(w http.ResponseWriter, r *http.Request) {
	orders := s.Store.Orders("")
	items := make([]string, len(orders))
	for i, o := range orders {
		items[i] = fmt.Sprintf("/json/orders/%d", o.ID)
	}
	doc := map[string]any{"count": len(orders), "items": items}
	if len(items) > 0 {
		doc["first"] = items[0]
	}
	writeJSON(w, domain.MediaTypeJSON, http.StatusOK, doc)
}

func (s *Server) getJSONOrder(w http.ResponseWriter, r *http.Request) {
	o, ok := s.lookupOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, domain.MediaTypeJSON, http.StatusOK, map[string]any{
		"id":       o.ID,
		"status":   o.Status,
		"total":    o.Total,
		"customer": fmt.Sprintf("/json/customers/%d", o.CustomerID),
	})
}

func (s *Server) getJSONCustomer(w http.ResponseWriter, r *http.Request) {
	c, ok := s.lookupCustomer(w, r)
	if !ok {
		return
	}
	writeJSON(w, domain.MediaTypeJSON, http.StatusOK, c)
}

func (s *Server) getJSONHelp(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, domain.MediaTypeJSON, http.StatusOK, map[string]string{
		"text": "Follow 'orders' then 'first' to reach the first order.",
	})
}

// -- Helpers --

func (s *Server) lookupOrder(w http.ResponseWriter, r *http.Request) (Order, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "order id must be a number")
		return Order{}, false
	}
	o, ok := s.Store.Order(id)
	if !ok {
		writeProblem(w, http.StatusNotFound, fmt.Sprintf("order %d not found", id))
		return Order{}, false
	}
	return o, true
}

func (s *Server) lookupCustomer(w http.ResponseWriter, r *http.Request) (Customer, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "customer id must be a number")
		return Customer{}, false
	}
	c, ok := s.Store.Customer(id)
	if !ok {
		writeProblem(w, http.StatusNotFound, fmt.Sprintf("customer %d not found", id))
		return Customer{}, false
	}
	return c, true
}

func halOrder(o Order) map[string]any {
	return map[string]any{
		"id":     o.ID,
		"status": o.Status,
		"total":  o.Total,
		"_links": map[string]any{
			"self":     link(orderHref(o.ID)),
			"customer": link(fmt.Sprintf("/customers/%d", o.CustomerID)),
		},
	}
}

func link(href string) map[string]any {
	return map[string]any{"href": href}
}

func orderHref(id int) string {
	return fmt.Sprintf("/orders/%d", id)
}

func pageHref(page int, status string) string {
	href := "/orders"
	sep := "?"
	if status != "" {
		href += "?status=" + status
		sep = "&"
	}
	if page > 1 {
		href += sep + "page=" + strconv.Itoa(page)
	}
	return href
}

func writeHAL(w http.ResponseWriter, status int, doc any) {
	writeJSON(w, domain.MediaTypeJSONHAL, status, doc)
}

func writeProblem(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, domain.MediaTypeJSON, status, map[string]any{"error": msg, "status": status})
}

func writeJSON(w http.ResponseWriter, contentType string, status int, doc any) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		slog.Error("demo api response encode failed", "error", err)
	}
}

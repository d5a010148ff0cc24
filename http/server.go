package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/pageparse"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is shut down.
const ShutdownTimeout = 5 * time.Second

// MaxRequestBodySize caps the body of a POST /parse request.
const MaxRequestBodySize = 1 << 20

// Server serves the remote parsing API:
//
//	POST /parse   {"url": "..."} -> {"status": "success", "data": {...}}
//	GET  /health                 -> {"status": "ok", "timestamp": "..."}
type Server struct {
	ln     net.Listener
	server *http.Server
	router *http.ServeMux

	// Bind address for the server's listener.
	Addr string

	// Parser runs the single-URL pipeline for each request.
	Parser pageparse.Parser

	// Proxy, if set, is used for every fetch made by the server.
	Proxy *pageparse.ProxyConfig

	// Categories extracted when a request does not name any.
	Categories []pageparse.Category

	Logger *slog.Logger

	// Now returns the current time. Replaced in tests.
	Now func() time.Time
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	s := &Server{
		server: &http.Server{},
		router: http.NewServeMux(),
		Logger: slog.Default(),
		Now:    time.Now,
	}
	s.server.Handler = s
	s.server.ReadHeaderTimeout = 10 * time.Second

	s.router.HandleFunc("POST /parse", s.handleParse)
	s.router.HandleFunc("GET /health", s.handleHealth)

	return s
}

// Open begins listening on the bind address.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}
	go s.server.Serve(s.ln)
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// ServeHTTP routes requests and converts panics into error responses.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if v := recover(); v != nil {
			s.Logger.Error("parse handler panic", "path", r.URL.Path, "panic", v)
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Status:  "error",
				Message: "internal error",
			})
		}
	}()
	s.router.ServeHTTP(w, r)
}

// parseRequest is the body accepted by POST /parse.
type parseRequest struct {
	URL         string   `json:"url"`
	Categories  []string `json:"categories"`
	Query       string   `json:"query"`
	ContextSize *int     `json:"context_size"`
	Selector    string   `json:"selector"`
	Block       string   `json:"block"`
}

type successResponse struct {
	Status string           `json:"status"`
	Data   pageparse.Result `json:"data"`
}

type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	req, err := decodeParseRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if req.URL == "" {
		s.writeError(w, pageparse.Errorf(pageparse.EINVALID, "url required"))
		return
	}

	categories, err := pageparse.ParseCategories(req.Categories)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if len(categories) == 0 {
		categories = s.Categories
	}

	contextSize := pageparse.DefaultContextSize
	if req.ContextSize != nil {
		contextSize = *req.ContextSize
	}

	opts := pageparse.ParseOptions{
		Categories:  categories,
		Query:       req.Query,
		ContextSize: contextSize,
		Selector:    req.Selector,
		Block:       req.Block,
	}
	result, err := s.Parser.Parse(r.Context(), pageparse.NewFetchTarget(req.URL, s.Proxy), opts)
	if err != nil {
		s.Logger.Warn("parse failed", "url", req.URL, "err", err)
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{Status: "success", Data: result})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: s.Now().UTC().Format(time.RFC3339),
	})
}

// decodeParseRequest reads a JSON body or, for other content types, the
// same fields from the form. A missing context_size is left nil.
func decodeParseRequest(r *http.Request) (*parseRequest, error) {
	var req parseRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, pageparse.Errorf(pageparse.EINVALID, "invalid JSON body: %v", err)
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, pageparse.Errorf(pageparse.EINVALID, "invalid form body: %v", err)
	}
	req.URL = r.FormValue("url")
	req.Categories = r.Form["categories"]
	req.Query = r.FormValue("query")
	if v := r.FormValue("context_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, pageparse.Errorf(pageparse.EINVALID, "invalid context_size %q", v)
		}
		req.ContextSize = &n
	}
	req.Selector = r.FormValue("selector")
	req.Block = r.FormValue("block")
	return &req, nil
}

// writeError maps invalid requests to 400 and every pipeline failure to
// 502; the body is always a structured error.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := http.StatusBadGateway
	if pageparse.ErrorCode(err) == pageparse.EINVALID {
		code = http.StatusBadRequest
	}
	writeJSON(w, code, errorResponse{Status: "error", Message: pageparse.ErrorMessage(err)})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

package httpapi

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mdproxy/internal/workspace"
	"mdproxy/pkg/types"
)

// Service defines the session operations required by the HTTP API layer.
type Service interface {
	TypeCatalog() types.TypeCatalog
	ModelJSON() types.Snapshot
	AddComponent(typ, name string, x, y int) error
	RunCommand(ctx context.Context, cmd string) (string, error)
	Output() string
	Folder() string
	SetFolder(folder string) error
	FileTree() types.FileTree
	ReadFile(path string) (string, error)
	WriteFile(path, contents string) error
	CreateFolder(path string) error
	RemoveFile(path string) error
	ExecFile(ctx context.Context, path string) error
	Exit()
}

// NewMux builds the HTTP handler serving the modeling protocol over svc.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	r.Use(MetricsMiddleware)
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
		}))
	}

	r.Get("/types", func(w http.ResponseWriter, r *http.Request) {
		out, err := xml.Marshal(svc.TypeCatalog())
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode catalog")
			return
		}
		w.Header().Set("Content-Type", "application/xml")
		w.Write([]byte(xml.Header))
		w.Write(out)
	})

	r.Get("/model.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.ModelJSON()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Post("/add", func(w http.ResponseWriter, r *http.Request) {
		var req types.AddRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Type) == "" || strings.TrimSpace(req.Name) == "" {
			writeJSONError(w, http.StatusBadRequest, "type and name are required")
			return
		}
		if req.X < 1 {
			req.X = 1
		}
		if req.Y < 1 {
			req.Y = 1
		}
		if err := svc.AddComponent(req.Type, req.Name, req.X, req.Y); err != nil {
			writeServiceError(w, err)
			return
		}
		writeOK(w)
	})

	r.Post("/command", func(w http.ResponseWriter, r *http.Request) {
		var req types.CommandRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Command) == "" {
			writeJSONError(w, http.StatusBadRequest, "command is required")
			return
		}
		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if sec := commandTimeoutSeconds(); sec > 0 {
			var tcancel context.CancelFunc
			ctx, tcancel = context.WithTimeout(ctx, time.Duration(sec)*time.Second)
			defer tcancel()
		}
		start := time.Now()
		out, err := svc.RunCommand(ctx, req.Command)
		if err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			writeServiceError(w, err)
			return
		}
		logRequest(r, "command", time.Since(start))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(out))
	})

	r.Get("/output", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(svc.Output()))
	})

	r.Get("/folder", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(svc.Folder()))
	})

	r.Post("/folder", func(w http.ResponseWriter, r *http.Request) {
		var req types.FolderRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if err := svc.SetFolder(req.Folder); err != nil {
			writeServiceError(w, err)
			return
		}
		writeOK(w)
	})

	r.Get("/files.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(svc.FileTree()); err != nil {
			writeJSONError(w, http.StatusInternalServerError, "failed to encode response")
			return
		}
	})

	r.Get("/file", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Query().Get("file")
		if path == "" {
			writeJSONError(w, http.StatusBadRequest, "file query parameter is required")
			return
		}
		contents, err := svc.ReadFile(path)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(contents))
	})

	r.Post("/file", func(w http.ResponseWriter, r *http.Request) {
		var req types.FileRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Filename) == "" {
			writeJSONError(w, http.StatusBadRequest, "filename is required")
			return
		}
		var err error
		if req.IsFolder {
			err = svc.CreateFolder(req.Filename)
		} else {
			err = svc.WriteFile(req.Filename, req.Contents)
		}
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeOK(w)
	})

	r.Post("/remove", func(w http.ResponseWriter, r *http.Request) {
		var req types.RemoveRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if err := svc.RemoveFile(req.File); err != nil {
			writeServiceError(w, err)
			return
		}
		writeOK(w)
	})

	r.Post("/exec", func(w http.ResponseWriter, r *http.Request) {
		var req types.ExecRequest
		if !decodeJSONBody(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Filename) == "" {
			writeJSONError(w, http.StatusBadRequest, "filename is required")
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if err := svc.ExecFile(ctx, req.Filename); err != nil {
			if r.Context().Err() != nil || serverBaseCtx.Err() != nil {
				return
			}
			writeServiceError(w, err)
			return
		}
		writeOK(w)
	})

	r.Get("/exit", func(w http.ResponseWriter, r *http.Request) {
		svc.Exit()
		writeOK(w)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}

// decodeJSONBody enforces the JSON content type and body size limit, then
// decodes into dst. Writes the error response itself and returns false on
// failure.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// writeServiceError maps well-known workspace errors to HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case workspace.IsFileNotFound(err):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case workspace.IsUnknownType(err):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case workspace.IsDuplicateName(err):
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		if he, ok := err.(HTTPError); ok {
			writeJSONError(w, he.StatusCode(), he.Error())
			return
		}
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

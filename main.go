package main

import (
	"flag"
	"fmt"
	"html"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/technoflash/technoflash/internal/blob"
	"github.com/technoflash/technoflash/internal/config"
	"github.com/technoflash/technoflash/internal/db"
	"github.com/technoflash/technoflash/internal/logger"
	"github.com/technoflash/technoflash/internal/model"
	"github.com/technoflash/technoflash/internal/registry"
	"github.com/technoflash/technoflash/internal/render"
	"github.com/technoflash/technoflash/internal/repository"
	"github.com/technoflash/technoflash/internal/routes"
	"github.com/technoflash/technoflash/internal/sse"
	"github.com/technoflash/technoflash/internal/upload"
	"github.com/technoflash/technoflash/internal/util/compression"
)

var (
	documentRepository repository.DocumentRepository
	imageRegistry      registry.Registry
	renderer           *render.Renderer
	clients            = sse.NewSSEClients()

	mainLogger zerolog.Logger
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file loaded")
	}

	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	// Bootstrap logging so config loading has somewhere to report to, then
	// rebuild with the configured level.
	l := logger.New("info")
	setLoggers(l)

	if err := config.LoadConfig(*configPath); err != nil {
		l.Fatal().Err(err).Msg("Error loading configuration")
	}
	cfg := config.AppConfig

	l = logger.New(cfg.Logging.Level)
	setLoggers(l)
	mainLogger = l

	database := db.NewSQLite(cfg.Content.DatabasePath)
	if err := database.InitDB(); err != nil {
		mainLogger.Fatal().Err(err).Msg("Error initializing database")
	}
	defer database.Close()

	imageRegistry = registry.NewSQLRegistry(database)

	documentRepository = repository.NewDBDocumentRepository(
		database,
		compression.ForName(cfg.Content.Compression),
		time.Duration(cfg.Content.ReloadIntervalMS)*time.Millisecond,
	)

	renderer = render.NewRenderer(cfg.Render.SyntaxTheme, cfg.Render.CacheHTML)

	store := newBlobStore(cfg)
	pipeline := upload.NewPipeline(store, imageRegistry)
	uploadHandler := upload.NewHandler(pipeline, imageRegistry, cfg.Upload.MaxSizeBytes)

	mux := http.NewServeMux()

	mux.HandleFunc(routes.RobotsPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, config.CTypeText)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("User-agent: *\nDisallow:"))
	})

	mux.HandleFunc(routes.HealthzPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCType, config.CTypeText)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	if fsStore, ok := store.(*blob.FSStore); ok {
		mux.Handle(routes.MediaPath, http.StripPrefix(routes.MediaPath, http.FileServer(http.Dir(fsStore.Dir()))))
	}

	mux.HandleFunc(routes.DocumentsPath+"{id}", serveDocument)
	mux.HandleFunc(routes.PartialsDocument, servePartialDocument)
	mux.HandleFunc(routes.PartialsDraftPreview, serveDraftPreview)
	mux.HandleFunc(routes.APIImages, uploadHandler.ServeUpload)
	mux.HandleFunc(routes.APIDocumentImages, uploadHandler.ServeDocumentImages)
	mux.HandleFunc(routes.APIDocuments, serveAPIDocument)
	mux.HandleFunc(routes.SSEPath, eventsHandler)
	mux.HandleFunc(routes.RootPath, serveIndex)

	documentRepository.SetReloadNotifier(handleReloadDocument)
	go documentRepository.Init()

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	mainLogger.Info().Str("addr", addr).Msg("Server starting")
	mainLogger.Fatal().Err(http.ListenAndServe(addr, secureHeaders(mux.ServeHTTP))).Msg("Server stopped")
}

func setLoggers(l zerolog.Logger) {
	config.SetLogger(l)
	db.SetLogger(l)
	repository.SetLogger(l)
	registry.SetLogger(l)
	blob.SetLogger(l)
	upload.SetLogger(l)
	render.SetLogger(l)
}

func newBlobStore(cfg *config.Config) blob.Store {
	switch cfg.Storage.Backend {
	case "s3":
		return blob.NewS3Store(
			os.Getenv("S3_ACCESS_KEY_ID"),
			os.Getenv("S3_ACCESS_KEY_SECRET"),
			cfg.Storage.S3.Endpoint,
			cfg.Storage.S3.Bucket,
			cfg.Storage.S3.PublicBaseURL,
			cfg.Upload.MaxSizeBytes,
			cfg.Upload.DefaultFolder,
		)
	default:
		return blob.NewFSStore(
			cfg.Storage.FS.Dir,
			cfg.Storage.FS.PublicBaseURL,
			cfg.Upload.MaxSizeBytes,
			cfg.Upload.DefaultFolder,
		)
	}
}

func serveIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	documents := documentRepository.GetDocumentList()

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<h1>%s</h1>\n<ul>\n", html.EscapeString(config.AppConfig.Site.Name))
	for _, doc := range documents {
		fmt.Fprintf(w, "<li><a href=\"%s%s\">%s</a></li>\n",
			routes.DocumentsPath, doc.ID, html.EscapeString(doc.Title))
	}
	fmt.Fprint(w, "</ul>\n")
}

func serveDocument(w http.ResponseWriter, r *http.Request) {
	documentID := model.DocumentID(r.PathValue("id"))
	if documentID == "" {
		http.NotFound(w, r)
		return
	}

	doc, err := documentRepository.ReadDocument(documentID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if doc.ContentHash != "" && r.Header.Get(config.HIfNoneMatch) == doc.ContentHash {
		w.Header().Set(config.HETag, doc.ContentHash)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	images, err := imageRegistry.List(documentID)
	if err != nil {
		mainLogger.Error().Err(err).Str("document_id", string(documentID)).Msg("Error listing document images")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	htmlContent := renderer.RenderDocumentCached(doc.Content, doc.ContentHash, images)

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.Header().Set(config.HETag, doc.ContentHash)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<title>%s</title>\n<article>\n", html.EscapeString(doc.Title))
	w.Write(htmlContent)
	fmt.Fprint(w, "</article>\n")
}

func servePartialDocument(w http.ResponseWriter, r *http.Request) {
	documentID := model.DocumentID(r.URL.Query().Get("document"))
	if documentID == "" {
		http.NotFound(w, r)
		return
	}

	doc, err := documentRepository.ReadDocument(documentID)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	images, err := imageRegistry.List(documentID)
	if err != nil {
		mainLogger.Error().Err(err).Str("document_id", string(documentID)).Msg("Error listing document images")
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	htmlContent := renderer.RenderDocumentCached(doc.Content, doc.ContentHash, images)

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "<title>%s</title>\n%s", html.EscapeString(doc.Title), htmlContent)
}

func serveDraftPreview(w http.ResponseWriter, r *http.Request) {
	content := r.FormValue("content")
	if content == "" {
		content = "Start typing in the editor to see a preview here."
	}

	render.ServeMarkdownPreview(w, []byte(content), config.AppConfig.Render.SyntaxTheme)
}

func serveAPIDocument(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		doc := documentRepository.NewDocument()
		doc.Content = []byte(r.FormValue("content"))
		doc.Title = r.FormValue("title")
		if doc.Title == "" {
			doc.Title = "Untitled - " + doc.CreatedDate.Format("2006-01-02")
		}

		if err := documentRepository.SaveDocument(doc); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set(config.HCType, config.CTypeText)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(doc.ID))
	case http.MethodPut:
		documentID := model.DocumentID(r.PathValue("id"))

		doc, err := documentRepository.ReadDocument(documentID)
		if err != nil {
			http.Error(w, "Document not found", http.StatusNotFound)
			return
		}

		doc.Content = []byte(r.FormValue("content"))
		if title := r.FormValue("title"); title != "" {
			doc.Title = title
		}

		if err := documentRepository.SetDocumentContent(doc); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, config.HTTPErrMethodNotAllowed, http.StatusMethodNotAllowed)
	}
}

func secureHeaders(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-XSS-Protection", "1; mode=block")

		h(w, r)
	}
}

func eventsHandler(w http.ResponseWriter, r *http.Request) {
	documentID := r.URL.Query().Get("document")
	if documentID == "" {
		http.Error(w, "Document parameter required", http.StatusBadRequest)
		return
	}

	w.Header().Set(config.HCType, "text/event-stream")
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Del("X-Content-Type-Options")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	fmt.Fprintf(w, "event: connected\ndata: SSE connection established\n\n")
	flusher.Flush()

	client := &sse.Client{
		Msg:        make(chan string),
		DocumentID: model.DocumentID(documentID),
	}

	clients.Add(client)

	mainLogger.Debug().Str("document_id", documentID).Msg("New SSE client connected")

	defer func() {
		clients.Delete(client)
		mainLogger.Debug().Str("document_id", documentID).Msg("SSE client disconnected")
	}()

	notify := r.Context().Done()
	for {
		select {
		case msg := <-client.Msg:
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		case <-notify:
			return
		}
	}
}

func handleReloadDocument(documentID model.DocumentID) {
	go clients.Broadcast(documentID, "reload")
}

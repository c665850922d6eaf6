package main

import (
	"fmt"
	"log"
	"net/http"

	"quickstudy/config"
	"quickstudy/handlers"
	"quickstudy/services/chat"
	"quickstudy/services/evaluator"
	"quickstudy/services/generator"
	"quickstudy/services/images"
	"quickstudy/services/llm"
	"quickstudy/services/tasks"
	"quickstudy/services/textgen"
	"quickstudy/storage"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	completer, err := buildCompleter(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	fileStore, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to initialize course storage: %v", err)
	}

	var courseStore storage.CourseStore = fileStore
	var progressStore storage.ProgressStore = fileStore

	if cfg.DatabaseURL != "" {
		pgStore, err := storage.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer pgStore.Close()

		courseStore = pgStore
		progressStore = pgStore
		log.Printf("[INFO] Using Postgres storage")
	} else {
		log.Printf("[INFO] Using file storage in %s", cfg.DataDir)
	}

	textgenService := textgen.NewService(completer, textgen.DefaultConfig())

	var imageLookup generator.ImageLookup
	if cfg.GoogleAPIKey != "" && cfg.GoogleCSEID != "" {
		imageLookup = images.NewGoogleSearch(cfg.GoogleAPIKey, cfg.GoogleCSEID, fileStore.ImagesDir())
	} else {
		log.Printf("[INFO] Image search disabled, GOOGLE_API_KEY or GOOGLE_CSE_ID not set")
	}

	generatorService := generator.NewService(
		textgenService,
		imageLookup,
		generator.NewIntervalPacer(cfg.SectionInterval),
		generator.DefaultConfig(),
	)

	evaluatorService := evaluator.NewService(textgenService, evaluator.DefaultConfig())
	chatService := chat.NewService(completer)

	coordinator := tasks.NewCoordinator(
		tasks.NewContentHandler(completer),
		tasks.NewQuizHandler(completer),
		tasks.NewQueryHandler(completer),
		tasks.NewImageSelectHandler(completer),
	)

	courseHandler := handlers.NewCourseHandler(courseStore, generatorService, cfg.MaxUploadBytes)
	progressHandler := handlers.NewProgressHandler(courseStore, progressStore, evaluatorService)
	chatHandler := handlers.NewChatHandler(courseStore, chatService)
	agentHandler := handlers.NewAgentHandler(coordinator)

	router := mux.NewRouter()

	router.Use(corsMiddleware)
	router.Use(jsonMiddleware)

	router.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("OPTIONS")

	courseHandler.RegisterRoutes(router)
	progressHandler.RegisterRoutes(router)
	chatHandler.RegisterRoutes(router)
	agentHandler.RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	addr := ":" + cfg.Port
	fmt.Printf("Server starting on port %s\n", cfg.Port)

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func buildCompleter(cfg config.Config) (llm.Completer, error) {
	if cfg.LLMProvider == config.ProviderAnthropic {
		if cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is required")
		}
		return llm.NewAnthropicCompleter(cfg.AnthropicAPIKey), nil
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}
	return llm.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func jsonMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}

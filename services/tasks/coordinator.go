// Package tasks dispatches independent generation tasks to specialized
// handlers behind a uniform interface. A batch fans out concurrently and is
// joined before returning; handlers never depend on each other's in-flight
// results.
package tasks

import (
	"context"
	"fmt"
	"log"
	"sync"
)

type Type string

const (
	TypeGenerateContent Type = "generate_content"
	TypeCreateQuiz      Type = "create_quiz"
	TypeAnswerQuery     Type = "answer_query"
	TypeSelectImage     Type = "select_image"
)

// Task is one unit of work for a handler.
type Task struct {
	Type     Type              `json:"type"`
	Input    map[string]string `json:"input"`
	Priority int               `json:"priority,omitempty"`
}

// Result carries a handler's output, or the error that replaced it. A failed
// task never aborts the rest of its batch.
type Result struct {
	Type   Type   `json:"type"`
	Output string `json:"output,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Handler executes one task type as a pure function of its input.
type Handler interface {
	Type() Type
	Run(ctx context.Context, input map[string]string) (string, error)
}

type Coordinator struct {
	handlers map[Type]Handler
}

func NewCoordinator(handlers ...Handler) *Coordinator {
	registry := make(map[Type]Handler, len(handlers))
	for _, h := range handlers {
		registry[h.Type()] = h
	}

	log.Printf("[INFO] Task coordinator initialized with %d handlers", len(registry))
	return &Coordinator{handlers: registry}
}

// Dispatch runs a single task on its handler.
func (c *Coordinator) Dispatch(ctx context.Context, task Task) Result {
	handler, ok := c.handlers[task.Type]
	if !ok {
		log.Printf("[ERROR] No handler registered for task type %q", task.Type)
		return Result{Type: task.Type, Error: fmt.Sprintf("no handler for task type %q", task.Type)}
	}

	output, err := handler.Run(ctx, task.Input)
	if err != nil {
		log.Printf("[ERROR] Handler for %q failed: %v", task.Type, err)
		return Result{Type: task.Type, Error: err.Error()}
	}

	log.Printf("[INFO] Handler for %q completed", task.Type)
	return Result{Type: task.Type, Output: output}
}

// RunAll fans a batch of tasks out concurrently and joins before returning.
// Results keep the order of the input batch.
func (c *Coordinator) RunAll(ctx context.Context, batch []Task) []Result {
	results := make([]Result, len(batch))

	var wg sync.WaitGroup
	for i, task := range batch {
		wg.Add(1)
		go func(i int, task Task) {
			defer wg.Done()
			results[i] = c.Dispatch(ctx, task)
		}(i, task)
	}
	wg.Wait()

	return results
}

// Command mock-backend runs a deterministic dual-dialect LLM server for
// conformance testing. It speaks both the OpenAI Chat Completions dialect
// (POST /v1/chat/completions) and the Anthropic Messages dialect
// (POST /v1/messages), in streaming and non-streaming form, and returns
// predictable responses based on request content analysis.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
//
// Prompts containing "count from 1 to 5" stream digits; prompts containing
// "trigger error" produce an in-band vendor error, exercising the error
// paths of both adapters.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", handleChatCompletions)
	mux.HandleFunc("POST /v1/messages", handleMessages)
	mux.HandleFunc("GET /v1/models", handleModels)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock backend starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock backend shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// --- Shared request shape ---

type mockRequest struct {
	Model    string        `json:"model"`
	Messages []mockMessage `json:"messages"`
	System   string        `json:"system,omitempty"`
	Tools    []any         `json:"tools,omitempty"`
	Stream   bool          `json:"stream"`
}

type mockMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// tokensFor selects the deterministic reply for a request.
func tokensFor(req *mockRequest) []string {
	last := strings.ToLower(lastUserMessage(req))
	if strings.Contains(last, "count from 1 to 5") {
		return []string{"1", ", ", "2", ", ", "3", ", ", "4", ", ", "5"}
	}
	return []string{"Hello", ", ", "nice", " ", "day", "!"}
}

func wantsError(req *mockRequest) bool {
	return strings.Contains(strings.ToLower(lastUserMessage(req)), "trigger error")
}

func lastUserMessage(req *mockRequest) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role != "user" {
			continue
		}
		switch v := req.Messages[i].Content.(type) {
		case string:
			return v
		case []any:
			// Content block array: find text part.
			for _, part := range v {
				if m, ok := part.(map[string]any); ok {
					if text, ok := m["text"].(string); ok {
						return text
					}
				}
			}
		}
	}
	return ""
}

func modelOrDefault(req *mockRequest) string {
	if req.Model != "" {
		return req.Model
	}
	return "mock-model"
}

// --- OpenAI Chat Completions dialect ---

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req mockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":{"message":"invalid request","type":"invalid_request_error"}}`, http.StatusBadRequest)
		return
	}

	if wantsError(&req) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"mock rate limit","type":"rate_limit_error"}}`)
		return
	}

	if req.Stream {
		streamChatCompletions(w, &req)
		return
	}

	text := strings.Join(tokensFor(&req), "")
	finish := "stop"
	var toolCalls []any
	if len(req.Tools) > 0 {
		finish = "tool_calls"
		toolCalls = []any{map[string]any{
			"id":   "call_mock_1",
			"type": "function",
			"function": map[string]any{
				"name":      "get_weather",
				"arguments": `{"location":"Berlin","unit":"celsius"}`,
			},
		}}
	}

	message := map[string]any{"role": "assistant", "content": text}
	if toolCalls != nil {
		message["content"] = nil
		message["tool_calls"] = toolCalls
	}

	resp := map[string]any{
		"id":     "chatcmpl-mock",
		"object": "chat.completion",
		"model":  modelOrDefault(&req),
		"choices": []any{map[string]any{
			"index":         0,
			"message":       message,
			"finish_reason": finish,
		}},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 5,
			"total_tokens":      15,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func streamChatCompletions(w http.ResponseWriter, req *mockRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	model := modelOrDefault(req)

	writeChatChunk(w, model, map[string]any{"role": "assistant"}, nil)
	flusher.Flush()

	for _, token := range tokensFor(req) {
		writeChatChunk(w, model, map[string]any{"content": token}, nil)
		flusher.Flush()
	}

	finish := "stop"
	writeChatChunk(w, model, map[string]any{}, &finish)
	flusher.Flush()

	fmt.Fprint(w, "data: [DONE]\n\n")
	flusher.Flush()
}

func writeChatChunk(w http.ResponseWriter, model string, delta map[string]any, finish *string) {
	chunk := map[string]any{
		"id":     "chatcmpl-mock-stream",
		"object": "chat.completion.chunk",
		"model":  model,
		"choices": []any{map[string]any{
			"index":         0,
			"delta":         delta,
			"finish_reason": finish,
		}},
	}
	data, _ := json.Marshal(chunk)
	fmt.Fprintf(w, "data: %s\n\n", data)
}

// --- Anthropic Messages dialect ---

func handleMessages(w http.ResponseWriter, r *http.Request) {
	var req mockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"type":"error","error":{"type":"invalid_request_error","message":"invalid request"}}`, http.StatusBadRequest)
		return
	}

	if req.Stream {
		streamMessages(w, &req)
		return
	}

	if wantsError(&req) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"type":"error","error":{"type":"rate_limit_error","message":"mock rate limit"}}`)
		return
	}

	text := strings.Join(tokensFor(&req), "")
	stopReason := "end_turn"
	content := []any{map[string]any{"type": "text", "text": text}}
	if len(req.Tools) > 0 {
		stopReason = "tool_use"
		content = append(content, map[string]any{
			"type":  "tool_use",
			"id":    "toolu_mock_1",
			"name":  "get_weather",
			"input": map[string]any{"location": "Berlin", "unit": "celsius"},
		})
	}

	resp := map[string]any{
		"id":          "msg_mock",
		"type":        "message",
		"role":        "assistant",
		"model":       modelOrDefault(&req),
		"content":     content,
		"stop_reason": stopReason,
		"usage": map[string]any{
			"input_tokens":  10,
			"output_tokens": 5,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func streamMessages(w http.ResponseWriter, req *mockRequest) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	writeMessagesEvent(w, "message_start", map[string]any{
		"type": "message_start",
		"message": map[string]any{
			"id":    "msg_mock_stream",
			"type":  "message",
			"role":  "assistant",
			"model": modelOrDefault(req),
			"usage": map[string]any{"input_tokens": 10},
		},
	})
	flusher.Flush()

	if wantsError(req) {
		writeMessagesEvent(w, "error", map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "overloaded_error", "message": "mock overloaded"},
		})
		flusher.Flush()
		return
	}

	writeMessagesEvent(w, "ping", map[string]any{"type": "ping"})
	flusher.Flush()

	for _, token := range tokensFor(req) {
		writeMessagesEvent(w, "content_block_delta", map[string]any{
			"type":  "content_block_delta",
			"index": 0,
			"delta": map[string]any{"type": "text_delta", "text": token},
		})
		flusher.Flush()
	}

	writeMessagesEvent(w, "message_delta", map[string]any{
		"type":  "message_delta",
		"delta": map[string]any{"stop_reason": "end_turn"},
		"usage": map[string]any{"output_tokens": 6},
	})
	flusher.Flush()

	writeMessagesEvent(w, "message_stop", map[string]any{"type": "message_stop"})
	flusher.Flush()
}

func writeMessagesEvent(w http.ResponseWriter, event string, payload map[string]any) {
	data, _ := json.Marshal(payload)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// --- Models endpoint ---

func handleModels(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"id": "mock-model", "object": "model", "owned_by": "einklang-mock"},
		},
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
